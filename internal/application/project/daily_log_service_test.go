package project

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/identity"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDailyLogServiceFixture() (*DailyLogService, *MockDailyLogRepository, *MockProjectRepository, *recordingQueue) {
	logs := new(MockDailyLogRepository)
	projects := new(MockProjectRepository)
	queue := &recordingQueue{}
	service := NewDailyLogService(logs, projects, time.UTC)
	service.SetRefreshQueue(queue)
	service.today = fixedClock("2024-06-10")
	return service, logs, projects, queue
}

func engineerActor(id uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), Role: identity.RoleEngineer, EngineerID: &id}
}

func TestDailyLogService_Create_Engineer(t *testing.T) {
	ctx := context.Background()
	engineerID := uuid.New()

	t.Run("logs yesterday on an open project", func(t *testing.T) {
		service, logs, projects, queue := newDailyLogServiceFixture()
		p := newTestProject("2024-01-01", "")
		p.EngineerIDs = []uuid.UUID{engineerID}
		projects.On("FindByID", ctx, p.ID).Return(p, nil)
		logs.On("Save", ctx, mock.AnythingOfType("*project.DailyLog")).Return(nil)

		other := uuid.New()
		resp, err := service.Create(ctx, engineerActor(engineerID), CreateDailyLogRequest{
			ProjectID:  p.ID,
			LogDate:    "2024-06-09",
			Hours:      decimal.NewFromFloat(7.5),
			EngineerID: &other,
			Notes:      "Rebar inspection",
		})

		require.NoError(t, err)
		require.NotNil(t, resp.EngineerID)
		assert.Equal(t, engineerID, *resp.EngineerID, "engineer always logs as themselves")
		assert.Equal(t, "Rebar inspection", resp.Notes)
		assert.Equal(t, []uuid.UUID{p.ID}, queue.Enqueued())
	})

	t.Run("refuses a date outside the bucket", func(t *testing.T) {
		service, logs, projects, _ := newDailyLogServiceFixture()
		p := newTestProject("2024-01-01", "")
		p.EngineerIDs = []uuid.UUID{engineerID}
		projects.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := service.Create(ctx, engineerActor(engineerID), CreateDailyLogRequest{
			ProjectID: p.ID,
			LogDate:   "2024-06-01",
			Hours:     decimal.NewFromInt(8),
		})

		assert.ErrorIs(t, err, ErrLogDateNotOpen)
		logs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("refuses a project the engineer is not on", func(t *testing.T) {
		service, _, projects, _ := newDailyLogServiceFixture()
		p := newTestProject("2024-01-01", "")
		projects.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := service.Create(ctx, engineerActor(engineerID), CreateDailyLogRequest{
			ProjectID: p.ID,
			LogDate:   "2024-06-10",
			Hours:     decimal.NewFromInt(8),
		})

		assert.ErrorIs(t, err, ErrNotAssigned)
	})

	t.Run("past end date only offers the end date", func(t *testing.T) {
		service, logs, projects, _ := newDailyLogServiceFixture()
		p := newTestProject("2024-01-01", "2024-03-31")
		p.EngineerIDs = []uuid.UUID{engineerID}
		projects.On("FindByID", ctx, p.ID).Return(p, nil)
		logs.On("Save", ctx, mock.Anything).Return(nil)

		_, err := service.Create(ctx, engineerActor(engineerID), CreateDailyLogRequest{
			ProjectID: p.ID, LogDate: "2024-06-10", Hours: decimal.NewFromInt(8),
		})
		assert.ErrorIs(t, err, ErrLogDateNotOpen)

		_, err = service.Create(ctx, engineerActor(engineerID), CreateDailyLogRequest{
			ProjectID: p.ID, LogDate: "2024-03-31", Hours: decimal.NewFromInt(8),
		})
		assert.NoError(t, err)
	})
}

func TestDailyLogService_Create_AdminIsUnrestricted(t *testing.T) {
	ctx := context.Background()
	service, logs, projects, _ := newDailyLogServiceFixture()
	p := newTestProject("2024-01-01", "2024-02-01")
	require.NoError(t, p.ChangeStatus(project.StatusCompleted))
	projects.On("FindByID", ctx, p.ID).Return(p, nil)
	logs.On("Save", ctx, mock.Anything).Return(nil)

	engineerID := uuid.New()
	resp, err := service.Create(ctx, SystemActor, CreateDailyLogRequest{
		ProjectID:  p.ID,
		LogDate:    "2024-01-15",
		Hours:      decimal.NewFromInt(6),
		EngineerID: &engineerID,
		Submitted:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, &engineerID, resp.EngineerID)
	assert.True(t, resp.Submitted)
}

func TestDailyLogService_List_ScopesEngineers(t *testing.T) {
	ctx := context.Background()
	service, logs, _, _ := newDailyLogServiceFixture()
	engineerID := uuid.New()
	someoneElse := uuid.New()

	logs.On("FindAll", ctx, mock.MatchedBy(func(f project.DailyLogFilter) bool {
		return f.EngineerID != nil && *f.EngineerID == engineerID &&
			f.From != nil && f.From.String() == "2024-06-01"
	})).Return([]project.DailyLog{}, int64(0), nil)

	_, _, err := service.List(ctx, engineerActor(engineerID), DailyLogListFilter{
		EngineerID: someoneElse.String(),
		From:       "2024-06-01",
	})

	require.NoError(t, err)
	logs.AssertExpectations(t)
}

func TestDailyLogService_Delete(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("engineer cannot delete another engineer's log", func(t *testing.T) {
		service, logs, _, _ := newDailyLogServiceFixture()
		log, _ := project.NewDailyLog(uuid.New(), date("2024-06-10"), decimal.NewFromInt(8))
		log.AssignEngineer(&owner)
		logs.On("FindByID", ctx, log.ID).Return(log, nil)

		err := service.Delete(ctx, engineerActor(uuid.New()), log.ID)

		assert.ErrorIs(t, err, ErrNotYourLog)
		logs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("owner deletes and project is refreshed", func(t *testing.T) {
		service, logs, _, queue := newDailyLogServiceFixture()
		log, _ := project.NewDailyLog(uuid.New(), date("2024-06-10"), decimal.NewFromInt(8))
		log.AssignEngineer(&owner)
		logs.On("FindByID", ctx, log.ID).Return(log, nil)
		logs.On("Delete", ctx, log.ID).Return(nil)

		require.NoError(t, service.Delete(ctx, engineerActor(owner), log.ID))
		assert.Equal(t, []uuid.UUID{log.ProjectID}, queue.Enqueued())
	})
}

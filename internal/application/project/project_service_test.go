package project

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type projectServiceFixture struct {
	service   *ProjectService
	projects  *MockProjectRepository
	companies *MockCompanyRepository
	engineers *MockEngineerRepository
	queue     *recordingQueue
}

func newProjectServiceFixture() *projectServiceFixture {
	f := &projectServiceFixture{
		projects:  new(MockProjectRepository),
		companies: new(MockCompanyRepository),
		engineers: new(MockEngineerRepository),
		queue:     &recordingQueue{},
	}
	f.service = NewProjectService(f.projects, f.companies, f.engineers, time.UTC)
	f.service.SetRefreshQueue(f.queue)
	f.service.today = fixedClock("2024-06-10")
	return f
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates project and enqueues refresh", func(t *testing.T) {
		f := newProjectServiceFixture()
		company, _ := partner.NewCompany("Acme")
		f.projects.On("ExistsByCode", ctx, "P-7").Return(false, nil)
		f.companies.On("FindByID", ctx, company.ID).Return(company, nil)
		f.projects.On("Save", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

		value := decimal.NewFromInt(125000)
		resp, err := f.service.Create(ctx, CreateProjectRequest{
			Code:          "p-7",
			Name:          "Tower Crane Survey",
			CompanyID:     company.ID,
			StartDate:     "2024-05-01",
			EndDate:       "2024-04-01",
			Location:      "Pier 4",
			ContractValue: &value,
		})

		require.NoError(t, err)
		assert.Equal(t, "P-7", resp.Code)
		assert.Equal(t, "ongoing", resp.Status)
		assert.Equal(t, "Pier 4", resp.Location)
		assert.False(t, resp.ValidDates, "end before start is accepted and flagged")
		assert.Equal(t, []uuid.UUID{resp.ID}, f.queue.Enqueued())
		f.projects.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		f := newProjectServiceFixture()
		f.projects.On("ExistsByCode", ctx, "P-1").Return(true, nil)

		_, err := f.service.Create(ctx, CreateProjectRequest{Code: "P-1", Name: "x", CompanyID: uuid.New()})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("unknown company", func(t *testing.T) {
		f := newProjectServiceFixture()
		companyID := uuid.New()
		f.projects.On("ExistsByCode", ctx, "P-1").Return(false, nil)
		f.companies.On("FindByID", ctx, companyID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, CreateProjectRequest{Code: "P-1", Name: "x", CompanyID: companyID})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.projects.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	f := newProjectServiceFixture()
	p := newTestProject("2024-01-01", "2024-12-31")
	f.projects.On("FindByID", ctx, p.ID).Return(p, nil)
	f.projects.On("Save", ctx, p).Return(nil)

	status := "completed"
	clearEnd := ""
	resp, err := f.service.Update(ctx, p.ID, UpdateProjectRequest{Status: &status, EndDate: &clearEnd})

	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Nil(t, resp.EndDate)
	require.NotNil(t, resp.StartDate)
	assert.Equal(t, "2024-01-01", resp.StartDate.String())
	assert.Len(t, f.queue.Enqueued(), 1)
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("maps filters", func(t *testing.T) {
		f := newProjectServiceFixture()
		companyID := uuid.New()
		f.projects.On("FindAll", ctx, mock.MatchedBy(func(pf project.ProjectFilter) bool {
			return pf.Status != nil && *pf.Status == project.StatusOngoing &&
				pf.CompanyID != nil && *pf.CompanyID == companyID &&
				pf.EngineerID == nil && pf.Search == "bridge"
		})).Return([]project.Project{*newTestProject("", "")}, int64(1), nil)

		items, total, err := f.service.List(ctx, ProjectListFilter{
			Search:    "bridge",
			Status:    "ongoing",
			CompanyID: companyID.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, items, 1)
		f.projects.AssertExpectations(t)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		f := newProjectServiceFixture()
		_, _, err := f.service.List(ctx, ProjectListFilter{EngineerID: "nope"})
		assert.Error(t, err)
	})
}

func TestProjectService_AssignEngineer(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns active engineer on today's date", func(t *testing.T) {
		f := newProjectServiceFixture()
		p := newTestProject("2024-01-01", "")
		engineer, _ := partner.NewEngineer("Sam", "")
		f.projects.On("FindByID", ctx, p.ID).Return(p, nil)
		f.engineers.On("FindByID", ctx, engineer.ID).Return(engineer, nil)
		f.projects.On("Assign", ctx, mock.MatchedBy(func(a *project.Assignment) bool {
			return a.ProjectID == p.ID && a.EngineerID == engineer.ID &&
				a.Role == "lead" && a.AssignedOn == date("2024-06-10")
		})).Return(nil)

		resp, err := f.service.AssignEngineer(ctx, p.ID, AssignEngineerRequest{EngineerID: engineer.ID, Role: "lead"})

		require.NoError(t, err)
		assert.Contains(t, resp.EngineerIDs, engineer.ID)
		f.projects.AssertExpectations(t)
	})

	t.Run("refuses inactive engineer", func(t *testing.T) {
		f := newProjectServiceFixture()
		p := newTestProject("2024-01-01", "")
		engineer, _ := partner.NewEngineer("Sam", "")
		engineer.Deactivate()
		f.projects.On("FindByID", ctx, p.ID).Return(p, nil)
		f.engineers.On("FindByID", ctx, engineer.ID).Return(engineer, nil)

		_, err := f.service.AssignEngineer(ctx, p.ID, AssignEngineerRequest{EngineerID: engineer.ID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ENGINEER_INACTIVE", domainErr.Code)
		f.projects.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything)
	})
}

func TestProjectService_Bucket(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		start     string
		end       string
		completed bool
		today     *shared.Date
		bucket    string
		dates     []string
	}{
		{name: "open uses service clock", start: "2024-01-01", bucket: "open", dates: []string{"2024-06-10", "2024-06-09"}},
		{name: "single day", start: "2024-03-05", end: "2024-03-05", bucket: "single_day", dates: []string{"2024-03-05"}},
		{name: "past end date", start: "2023-01-01", end: "2024-01-01", today: datePtr("2024-06-01"), bucket: "past_end_date", dates: []string{"2024-01-01"}},
		{name: "completed", start: "2024-01-01", completed: true, bucket: "completed", dates: []string{}},
		{name: "open on start day hides yesterday", start: "2024-06-10", end: "2024-07-01", bucket: "open", dates: []string{"2024-06-10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProjectServiceFixture()
			p := newTestProject(tt.start, tt.end)
			if tt.completed {
				require.NoError(t, p.ChangeStatus(project.StatusCompleted))
			}
			f.projects.On("FindByID", ctx, p.ID).Return(p, nil)

			resp, err := f.service.Bucket(ctx, p.ID, tt.today)

			require.NoError(t, err)
			assert.Equal(t, tt.bucket, resp.Bucket)
			got := make([]string, len(resp.LogDates))
			for i, d := range resp.LogDates {
				got[i] = d.String()
			}
			assert.Equal(t, tt.dates, got)
		})
	}
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newProjectServiceFixture()
	p := newTestProject("", "")
	f.projects.On("FindByID", ctx, p.ID).Return(p, nil)
	f.projects.On("Delete", ctx, p.ID).Return(nil)

	require.NoError(t, f.service.Delete(ctx, p.ID))
	assert.Equal(t, []uuid.UUID{p.ID}, f.queue.Enqueued())
}

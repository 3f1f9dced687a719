package project

import (
	"testing"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) *shared.Date {
	d, err := shared.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestNewProject(t *testing.T) {
	companyID := uuid.New()

	t.Run("creates ongoing project with uppercase code", func(t *testing.T) {
		p, err := NewProject("bridge-01", "Harbor Bridge Retrofit", companyID, date("2024-01-01"), date("2024-03-31"))

		require.NoError(t, err)
		assert.Equal(t, "BRIDGE-01", p.Code)
		assert.Equal(t, StatusOngoing, p.Status)
		assert.True(t, p.ContractValue.IsZero())
		assert.True(t, p.HasValidDateRange())
	})

	t.Run("accepts inverted date range", func(t *testing.T) {
		p, err := NewProject("P1", "Inverted", companyID, date("2024-05-01"), date("2024-04-01"))

		require.NoError(t, err)
		assert.False(t, p.HasValidDateRange())
	})

	t.Run("requires company", func(t *testing.T) {
		_, err := NewProject("P1", "No Company", uuid.Nil, nil, nil)
		assert.Contains(t, err.Error(), "Company is required")
	})

	t.Run("rejects invalid code characters", func(t *testing.T) {
		_, err := NewProject("P 1", "Spaces", companyID, nil, nil)
		assert.Contains(t, err.Error(), "can only contain")
	})
}

func TestProject_ChangeStatus(t *testing.T) {
	p, err := NewProject("P1", "Status", uuid.New(), nil, nil)
	require.NoError(t, err)

	for _, s := range AllStatuses() {
		require.NoError(t, p.ChangeStatus(s))
		assert.Equal(t, s, p.Status)
	}
	assert.Error(t, p.ChangeStatus(Status("archived")))
	assert.True(t, p.IsCompleted() == (p.Status == StatusCompleted))
}

func TestProject_HasValidDateRange(t *testing.T) {
	tests := []struct {
		name  string
		start *shared.Date
		end   *shared.Date
		want  bool
	}{
		{"both missing", nil, nil, true},
		{"start only", date("2024-01-01"), nil, true},
		{"end only", nil, date("2024-01-01"), true},
		{"same day", date("2024-01-01"), date("2024-01-01"), true},
		{"end before start", date("2024-01-02"), date("2024-01-01"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Project{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, p.HasValidDateRange())
		})
	}
}

func TestDailyLog(t *testing.T) {
	projectID := uuid.New()

	t.Run("rejects more than 24 hours", func(t *testing.T) {
		_, err := NewDailyLog(projectID, *date("2024-01-01"), decimal.NewFromInt(25))
		assert.Contains(t, err.Error(), "24")
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewDailyLog(projectID, shared.Date{}, decimal.NewFromInt(8))
		assert.Error(t, err)
	})

	t.Run("creates log", func(t *testing.T) {
		log, err := NewDailyLog(projectID, *date("2024-01-01"), decimal.RequireFromString("7.5"))
		require.NoError(t, err)
		assert.False(t, log.Submitted)
		log.SetFlags(true, false)
		assert.True(t, log.Submitted)
	})
}

func TestExpense_SetStatus(t *testing.T) {
	e, err := NewExpense(uuid.New(), *date("2024-02-10"), decimal.NewFromInt(120), true)
	require.NoError(t, err)

	t.Run("cannot be paid before submission", func(t *testing.T) {
		err := e.SetStatus(false, true, false)
		assert.Error(t, err)
	})

	t.Run("awaiting payment after submission", func(t *testing.T) {
		require.NoError(t, e.SetStatus(true, false, false))
		assert.True(t, e.AwaitingCompanyPayment())

		require.NoError(t, e.SetStatus(true, true, true))
		assert.False(t, e.AwaitingCompanyPayment())
	})

	t.Run("blank receipt url clears the field", func(t *testing.T) {
		blank := "  "
		e.SetReceiptURL(&blank)
		assert.Nil(t, e.ReceiptURL)
	})
}

func TestInvoice_MarkPaid(t *testing.T) {
	inv, err := NewInvoice(uuid.New(), "INV-001", *date("2024-03-01"), decimal.NewFromInt(5000))
	require.NoError(t, err)

	t.Run("rejects paid date before invoice date", func(t *testing.T) {
		assert.Error(t, inv.MarkPaid(*date("2024-02-28")))
	})

	t.Run("records payment once", func(t *testing.T) {
		require.NoError(t, inv.MarkPaid(*date("2024-03-15")))
		assert.True(t, inv.Paid)
		assert.Equal(t, "2024-03-15", inv.PaidDate.String())
		assert.Error(t, inv.MarkPaid(*date("2024-03-16")))
	})

	t.Run("unpaid clears paid date", func(t *testing.T) {
		inv.MarkUnpaid()
		assert.False(t, inv.Paid)
		assert.Nil(t, inv.PaidDate)
	})
}

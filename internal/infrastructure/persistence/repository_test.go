package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/identity"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func d(s string) shared.Date {
	v, err := shared.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *shared.Date {
	v := d(s)
	return &v
}

func seedProject(t *testing.T, db *gorm.DB, code string, start, end *shared.Date) (*partner.Company, *project.Project) {
	t.Helper()
	ctx := context.Background()

	company, err := partner.NewCompany("Acme " + code)
	require.NoError(t, err)
	require.NoError(t, NewGormCompanyRepository(db).Save(ctx, company))

	p, err := project.NewProject(code, "Project "+code, company.ID, start, end)
	require.NoError(t, err)
	require.NoError(t, NewGormProjectRepository(db).Save(ctx, p))
	return company, p
}

func TestCompanyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCompanyRepository(db)
	ctx := context.Background()

	c, err := partner.NewCompany("Northwind Engineering")
	require.NoError(t, err)
	require.NoError(t, c.SetContact("Jo Park", "+1 555 0100", "jo@northwind.test"))
	require.NoError(t, repo.Save(ctx, c))

	other, err := partner.NewCompany("Blue Harbor")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Northwind Engineering", found.Name)
		assert.Equal(t, "jo@northwind.test", found.Email)
	})

	t.Run("missing id maps to ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		f := partner.CompanyFilter{Filter: shared.Filter{Search: "NORTH", PageSize: 10}}
		list, total, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, c.ID, list[0].ID)
	})

	t.Run("sorted listing with paging", func(t *testing.T) {
		f := partner.CompanyFilter{Filter: shared.Filter{Page: 1, PageSize: 1, OrderBy: "name", OrderDir: "asc"}}
		list, total, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, list, 1)
		assert.Equal(t, "Blue Harbor", list[0].Name)
	})

	t.Run("has projects", func(t *testing.T) {
		has, err := repo.HasProjects(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, has)

		p, err := project.NewProject("NW-1", "Bridge", c.ID, nil, nil)
		require.NoError(t, err)
		require.NoError(t, NewGormProjectRepository(db).Save(ctx, p))

		has, err = repo.HasProjects(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, other.ID))
		assert.ErrorIs(t, repo.Delete(ctx, other.ID), shared.ErrNotFound)
	})
}

func TestEngineerRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormEngineerRepository(db)
	ctx := context.Background()

	active, err := partner.NewEngineer("Sam Ortiz", "sam@example.test")
	require.NoError(t, err)
	rate := decimal.RequireFromString("85.50")
	require.NoError(t, active.SetHourlyRate(&rate))
	require.NoError(t, repo.Save(ctx, active))

	inactive, err := partner.NewEngineer("Lee Chen", "lee@example.test")
	require.NoError(t, err)
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	found, err := repo.FindByID(ctx, active.ID)
	require.NoError(t, err)
	require.NotNil(t, found.HourlyRate)
	assert.True(t, rate.Equal(*found.HourlyRate))

	noRate, err := repo.FindByID(ctx, inactive.ID)
	require.NoError(t, err)
	assert.Nil(t, noRate.HourlyRate)
	assert.False(t, noRate.Active)

	yes := true
	list, total, err := repo.FindAll(ctx, partner.EngineerFilter{Active: &yes})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	require.NoError(t, repo.Delete(ctx, inactive.ID))
	_, err = repo.FindByID(ctx, inactive.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProjectRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	company, p := seedProject(t, db, "PRJ-1", dp("2024-05-01"), dp("2024-07-31"))
	_, other := seedProject(t, db, "PRJ-2", nil, nil)

	eng, err := partner.NewEngineer("Ana Ruiz", "ana@example.test")
	require.NoError(t, err)
	require.NoError(t, NewGormEngineerRepository(db).Save(ctx, eng))

	t.Run("round trips optional dates", func(t *testing.T) {
		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, found.StartDate)
		require.NotNil(t, found.EndDate)
		assert.Equal(t, d("2024-05-01"), *found.StartDate)
		assert.Equal(t, d("2024-07-31"), *found.EndDate)
		assert.Equal(t, company.ID, found.CompanyID)

		noDates, err := repo.FindByID(ctx, other.ID)
		require.NoError(t, err)
		assert.Nil(t, noDates.StartDate)
		assert.Nil(t, noDates.EndDate)
	})

	t.Run("exists by code", func(t *testing.T) {
		ok, err := repo.ExistsByCode(ctx, "prj-1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByCode(ctx, "PRJ-9")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("assign, filter by engineer, reassign, unassign", func(t *testing.T) {
		a, err := project.NewAssignment(p.ID, eng.ID, "lead", d("2024-05-02"))
		require.NoError(t, err)
		require.NoError(t, repo.Assign(ctx, a))

		a.Role = "inspector"
		require.NoError(t, repo.Assign(ctx, a))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{eng.ID}, found.EngineerIDs)

		list, total, err := repo.FindAll(ctx, project.ProjectFilter{EngineerID: &eng.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, p.ID, list[0].ID)
		assert.Equal(t, []uuid.UUID{eng.ID}, list[0].EngineerIDs)

		require.NoError(t, repo.Unassign(ctx, p.ID, eng.ID))
		assert.ErrorIs(t, repo.Unassign(ctx, p.ID, eng.ID), shared.ErrNotFound)
	})

	t.Run("filter by status", func(t *testing.T) {
		require.NoError(t, other.ChangeStatus(project.StatusCompleted))
		require.NoError(t, repo.Save(ctx, other))

		status := project.StatusCompleted
		list, total, err := repo.FindAll(ctx, project.ProjectFilter{Status: &status})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, other.ID, list[0].ID)
	})

	t.Run("list ids ordered by code", func(t *testing.T) {
		ids, err := repo.ListIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{p.ID, other.ID}, ids)
	})

	t.Run("delete cascades to dependents", func(t *testing.T) {
		log, err := project.NewDailyLog(p.ID, d("2024-05-03"), decimal.NewFromInt(8))
		require.NoError(t, err)
		require.NoError(t, NewGormDailyLogRepository(db).Save(ctx, log))

		require.NoError(t, repo.Delete(ctx, p.ID))
		_, err = repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		logs, err := NewGormDailyLogRepository(db).FindByProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}

func TestDailyLogRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDailyLogRepository(db)
	ctx := context.Background()
	_, p := seedProject(t, db, "LOG-1", dp("2024-06-01"), nil)

	for _, day := range []string{"2024-06-03", "2024-06-01", "2024-06-02"} {
		l, err := project.NewDailyLog(p.ID, d(day), decimal.RequireFromString("7.5"))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, l))
	}

	logs, err := repo.FindByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, d("2024-06-01"), logs[0].LogDate)
	assert.Equal(t, d("2024-06-03"), logs[2].LogDate)
	assert.True(t, decimal.RequireFromString("7.5").Equal(logs[0].Hours))

	list, total, err := repo.FindAll(ctx, project.DailyLogFilter{
		ProjectID: &p.ID,
		From:      dp("2024-06-02"),
		To:        dp("2024-06-03"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	// Deleting a log detaches the expenses that referenced it.
	e, err := project.NewExpense(p.ID, d("2024-06-01"), decimal.NewFromInt(40), true)
	require.NoError(t, err)
	e.LinkDailyLog(&logs[0].ID)
	expenses := NewGormExpenseRepository(db)
	require.NoError(t, expenses.Save(ctx, e))

	require.NoError(t, repo.Delete(ctx, logs[0].ID))
	reloaded, err := expenses.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.DailyLogID)
}

func TestExpenseRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExpenseRepository(db)
	ctx := context.Background()
	_, p := seedProject(t, db, "EXP-1", dp("2024-01-01"), nil)

	paid, err := project.NewExpense(p.ID, d("2024-02-01"), decimal.RequireFromString("120.25"), true)
	require.NoError(t, err)
	require.NoError(t, paid.SetStatus(true, true, false))
	url := "https://files.test/receipt.pdf"
	paid.SetReceiptURL(&url)
	require.NoError(t, repo.Save(ctx, paid))

	open, err := project.NewExpense(p.ID, d("2024-03-01"), decimal.RequireFromString("80"), false)
	require.NoError(t, err)
	require.NoError(t, open.SetStatus(true, false, false))
	require.NoError(t, repo.Save(ctx, open))

	found, err := repo.FindByID(ctx, paid.ID)
	require.NoError(t, err)
	require.NotNil(t, found.ReceiptURL)
	assert.Equal(t, url, *found.ReceiptURL)
	assert.True(t, found.CompanyPaid)
	assert.True(t, decimal.RequireFromString("120.25").Equal(found.Amount))

	no := false
	list, total, err := repo.FindAll(ctx, project.ExpenseFilter{ProjectID: &p.ID, CompanyPaid: &no})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)
	assert.Nil(t, list[0].ReceiptURL)

	require.NoError(t, repo.Delete(ctx, open.ID))
	assert.ErrorIs(t, repo.Delete(ctx, open.ID), shared.ErrNotFound)
}

func TestInvoiceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	_, p := seedProject(t, db, "INV-1", dp("2024-01-01"), nil)

	inv, err := project.NewInvoice(p.ID, "INV-0001", d("2024-02-15"), decimal.NewFromInt(5000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inv))

	require.NoError(t, inv.MarkPaid(d("2024-03-01")))
	inv.AttachDocument("https://files.test/invoices/INV-0001.pdf")
	require.NoError(t, repo.Save(ctx, inv))

	found, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, found.Paid)
	require.NotNil(t, found.PaidDate)
	assert.Equal(t, d("2024-03-01"), *found.PaidDate)
	require.NotNil(t, found.DocumentURL)

	yes := true
	list, total, err := repo.FindAll(ctx, project.InvoiceFilter{Paid: &yes})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	byProject, err := repo.FindByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)
}

func TestNotificationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	_, p1 := seedProject(t, db, "N-1", dp("2024-01-01"), dp("2023-12-01"))
	_, p2 := seedProject(t, db, "N-2", dp("2024-04-01"), nil)
	today := d("2024-06-15")
	deriver := notification.NewDeriver(notification.DefaultPolicy())

	first := deriver.Derive(notification.Snapshot{Project: *p1}, today)
	require.NotEmpty(t, first)

	expense, err := project.NewExpense(p2.ID, d("2024-04-02"), decimal.RequireFromString("1250.50"), true)
	require.NoError(t, err)
	require.NoError(t, expense.SetStatus(true, false, false))
	second := deriver.Derive(notification.Snapshot{Project: *p2, Expenses: []project.Expense{*expense}}, today)
	require.NotEmpty(t, second)

	computedAt := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.ReplaceForProject(ctx, p1.ID, first, computedAt))
	require.NoError(t, repo.ReplaceForProject(ctx, p2.ID, second, computedAt))

	t.Run("find by project keeps derivation order", func(t *testing.T) {
		got, err := repo.FindByProject(ctx, p2.ID)
		require.NoError(t, err)
		require.Len(t, got, len(second))
		for i := range second {
			assert.Equal(t, second[i].ID, got[i].ID)
			assert.Equal(t, second[i].Kind, got[i].Kind)
			assert.True(t, second[i].Amount.Equal(got[i].Amount))
		}
	})

	t.Run("replace swaps the whole set", func(t *testing.T) {
		require.NoError(t, repo.ReplaceForProject(ctx, p1.ID, first, computedAt.Add(time.Hour)))
		got, err := repo.FindByProject(ctx, p1.ID)
		require.NoError(t, err)
		assert.Len(t, got, len(first))

		require.NoError(t, repo.ReplaceForProject(ctx, p1.ID, nil, computedAt))
		got, err = repo.FindByProject(ctx, p1.ID)
		require.NoError(t, err)
		assert.Empty(t, got)

		require.NoError(t, repo.ReplaceForProject(ctx, p1.ID, first, computedAt))
	})

	t.Run("filter by kind", func(t *testing.T) {
		kind := notification.KindInvalidDateRange
		list, total, err := repo.FindAll(ctx, notification.Filter{Kind: &kind})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, p1.ID, list[0].ProjectID)
	})

	t.Run("totals match in-memory summaries", func(t *testing.T) {
		totals, err := repo.TotalsByProject(ctx)
		require.NoError(t, err)
		assert.True(t, notification.Summarize(first).Equal(totals[p1.ID]))
		assert.True(t, notification.Summarize(second).Equal(totals[p2.ID]))

		portfolio := notification.Aggregate(totals[p1.ID], totals[p2.ID])
		assert.True(t, decimal.RequireFromString("1250.50").Equal(portfolio.OverdueAmount()))
	})

	t.Run("delete by project", func(t *testing.T) {
		require.NoError(t, repo.DeleteByProject(ctx, p2.ID))
		got, err := repo.FindByProject(ctx, p2.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	u, err := identity.NewUser("Admin", "s3cretpass", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, u))

	found, err := repo.FindByUsername(ctx, " ADMIN ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.True(t, found.VerifyPassword("s3cretpass"))

	exists, err := repo.ExistsByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	list, total, err := repo.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

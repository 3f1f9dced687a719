package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsboard/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers mounted under the versioned API
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Company      *handler.CompanyHandler
	Engineer     *handler.EngineerHandler
	Project      *handler.ProjectHandler
	DailyLog     *handler.DailyLogHandler
	Expense      *handler.ExpenseHandler
	Invoice      *handler.InvoiceHandler
	Notification *handler.NotificationHandler
	System       *handler.SystemHandler
}

// Guards holds the per-route middleware. A nil guard lets requests through.
type Guards struct {
	// Admin restricts a route to the admin role
	Admin gin.HandlerFunc
	// AuthRateLimit throttles the credential endpoints
	AuthRateLimit gin.HandlerFunc
}

func guarded(guard gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if guard == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{guard, h}
}

// RegisterAPI registers every domain group on r.
// Reads are open to any signed-in user; the services scope what engineers see.
func RegisterAPI(r *Router, h Handlers, g Guards) *Router {
	admin := func(fn gin.HandlerFunc) []gin.HandlerFunc { return guarded(g.Admin, fn) }
	throttled := func(fn gin.HandlerFunc) []gin.HandlerFunc { return guarded(g.AuthRateLimit, fn) }

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", throttled(h.Auth.Login)...)
	authRoutes.POST("/refresh", throttled(h.Auth.RefreshToken)...)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.GetCurrentUser)
	authRoutes.PUT("/password", h.Auth.ChangePassword)

	userRoutes := NewDomainGroup("identity", "/users")
	if g.Admin != nil {
		userRoutes.Use(g.Admin)
	}
	userRoutes.POST("", h.User.Create)
	userRoutes.GET("", h.User.List)
	userRoutes.GET("/:id", h.User.GetByID)
	userRoutes.PUT("/:id", h.User.Update)
	userRoutes.POST("/:id/reset-password", h.User.ResetPassword)

	companyRoutes := NewDomainGroup("partner", "/companies")
	companyRoutes.GET("", h.Company.List)
	companyRoutes.GET("/:id", h.Company.GetByID)
	companyRoutes.POST("", admin(h.Company.Create)...)
	companyRoutes.PUT("/:id", admin(h.Company.Update)...)
	companyRoutes.DELETE("/:id", admin(h.Company.Delete)...)

	engineerRoutes := NewDomainGroup("partner", "/engineers")
	engineerRoutes.GET("", h.Engineer.List)
	engineerRoutes.GET("/:id", h.Engineer.GetByID)
	engineerRoutes.POST("", admin(h.Engineer.Create)...)
	engineerRoutes.PUT("/:id", admin(h.Engineer.Update)...)
	engineerRoutes.DELETE("/:id", admin(h.Engineer.Delete)...)

	projectRoutes := NewDomainGroup("project", "/projects")
	projectRoutes.GET("", h.Project.List)
	projectRoutes.GET("/:id", h.Project.GetByID)
	projectRoutes.GET("/:id/bucket", h.Project.Bucket)
	projectRoutes.GET("/:id/notifications", h.Notification.ForProject)
	projectRoutes.GET("/:id/notifications/preview", h.Notification.Preview)
	projectRoutes.POST("", admin(h.Project.Create)...)
	projectRoutes.PUT("/:id", admin(h.Project.Update)...)
	projectRoutes.DELETE("/:id", admin(h.Project.Delete)...)
	projectRoutes.POST("/:id/engineers", admin(h.Project.AssignEngineer)...)
	projectRoutes.DELETE("/:id/engineers/:engineer_id", admin(h.Project.UnassignEngineer)...)

	dailyLogRoutes := NewDomainGroup("project", "/daily-logs")
	dailyLogRoutes.GET("", h.DailyLog.List)
	dailyLogRoutes.GET("/:id", h.DailyLog.GetByID)
	dailyLogRoutes.POST("", h.DailyLog.Create)
	dailyLogRoutes.PUT("/:id", h.DailyLog.Update)
	dailyLogRoutes.DELETE("/:id", h.DailyLog.Delete)

	expenseRoutes := NewDomainGroup("project", "/expenses")
	expenseRoutes.GET("", h.Expense.List)
	expenseRoutes.GET("/:id", h.Expense.GetByID)
	expenseRoutes.POST("", admin(h.Expense.Create)...)
	expenseRoutes.PUT("/:id", admin(h.Expense.Update)...)
	expenseRoutes.DELETE("/:id", admin(h.Expense.Delete)...)

	invoiceRoutes := NewDomainGroup("project", "/invoices")
	invoiceRoutes.GET("", h.Invoice.List)
	invoiceRoutes.GET("/:id", h.Invoice.GetByID)
	invoiceRoutes.GET("/:id/document", h.Invoice.DocumentURL)
	invoiceRoutes.POST("", admin(h.Invoice.Create)...)
	invoiceRoutes.PUT("/:id", admin(h.Invoice.Update)...)
	invoiceRoutes.DELETE("/:id", admin(h.Invoice.Delete)...)
	invoiceRoutes.POST("/:id/pay", admin(h.Invoice.MarkPaid)...)
	invoiceRoutes.POST("/:id/unpay", admin(h.Invoice.MarkUnpaid)...)
	invoiceRoutes.POST("/:id/document", admin(h.Invoice.UploadDocument)...)

	notificationRoutes := NewDomainGroup("notification", "/notifications")
	notificationRoutes.GET("", h.Notification.List)
	notificationRoutes.GET("/summary", h.Notification.Summary)
	notificationRoutes.GET("/export", h.Notification.Export)
	notificationRoutes.POST("/refresh", admin(h.Notification.Refresh)...)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.GetSystemInfo)

	return r.Register(authRoutes).
		Register(userRoutes).
		Register(companyRoutes).
		Register(engineerRoutes).
		Register(projectRoutes).
		Register(dailyLogRoutes).
		Register(expenseRoutes).
		Register(invoiceRoutes).
		Register(notificationRoutes).
		Register(systemRoutes)
}

// RegisterOperational mounts the unversioned probe and scrape endpoints.
// A nil metrics handler leaves the scrape endpoint unmounted.
func RegisterOperational(engine *gin.Engine, system *handler.SystemHandler, metrics http.Handler, metricsPath string) {
	engine.GET("/health", system.Health)
	engine.GET("/api/v1/health", system.Health)
	if metrics != nil {
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		engine.GET(metricsPath, gin.WrapH(metrics))
	}
}

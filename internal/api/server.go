package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/budget"
	"github.com/david/accel-hub/internal/config"
	"github.com/david/accel-hub/internal/db"
	"github.com/david/accel-hub/internal/models"
	"github.com/david/accel-hub/internal/notify"
	"github.com/david/accel-hub/internal/review"
	"github.com/david/accel-hub/internal/sponsorship"
	"github.com/david/accel-hub/internal/workflow"
)

type Server struct {
	Echo         *echo.Echo
	Store        *db.Store
	AuthService  *auth.Service
	Workflows    *workflow.Service
	Reviews      *review.Service
	Budgets      *budget.Service
	Sponsorships *sponsorship.Service
	Notifier     *notify.Emitter

	log      *zap.Logger
	sanitize *bluemonday.Policy
}

func NewServer(pool *pgxpool.Pool, cfg *config.Config, mailer notify.Mailer, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	store := db.NewStore(pool)
	notifier := notify.NewEmitter(store, mailer, log)
	budgets := budget.NewService(store, notifier, cfg.Budget, log)

	s := &Server{
		Echo:         e,
		Store:        store,
		AuthService:  auth.NewService(pool),
		Workflows:    workflow.NewService(store, budgets, notifier, log),
		Reviews:      review.NewService(store, notifier, log),
		Budgets:      budgets,
		Sponsorships: sponsorship.NewService(store, notifier, log),
		Notifier:     notifier,
		log:          log,
		sanitize:     bluemonday.StrictPolicy(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")

	// Auth
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Public catalog
	api.GET("/startup-calls", s.handleListCalls)
	api.GET("/startup-calls/:id", s.handleGetCall)
	api.GET("/opportunities", s.handleListSponsorships)
	api.GET("/events", s.handleListEvents)

	// Everything below requires a valid token.
	authed := api.Group("")
	authed.Use(auth.Middleware)

	admin := authed.Group("")
	admin.Use(auth.RequireRole(models.RoleAdmin))

	// Startup calls
	admin.POST("/startup-calls", s.handleCreateCall)
	admin.PATCH("/startup-calls/:id/status", s.handleUpdateCallStatus)

	// Applications
	authed.POST("/startup-calls/:id/applications", s.handleCreateApplication, auth.RequireRole(models.RoleEntrepreneur))
	authed.GET("/applications", s.handleListApplications)
	authed.GET("/applications/:id", s.handleGetApplication)
	admin.PUT("/applications/:id", s.handleTransitionApplication)
	authed.POST("/applications/:id/withdraw", s.handleWithdrawApplication)

	// Reviews
	admin.POST("/applications/:id/reviewers", s.handleAssignReviewer)
	authed.GET("/reviewer/assignments", s.handleListAssignments, auth.RequireRole(models.RoleReviewer))
	authed.POST("/applications/:id/submit-review", s.handleSubmitReview, auth.RequireRole(models.RoleReviewer))
	authed.GET("/applications/:id/reviews", s.handleListReviews)

	// Budgets
	admin.POST("/startup-calls/:id/budgets", s.handleCreateBudget)
	authed.GET("/startup-calls/:id/budgets", s.handleListBudgets, auth.RequireRole(models.RoleAdmin, models.RoleSponsor))
	authed.GET("/budgets/:id", s.handleGetBudget, auth.RequireRole(models.RoleAdmin, models.RoleSponsor))
	authed.POST("/budgets/:id/expenses", s.handleAddExpense, auth.RequireRole(models.RoleAdmin, models.RoleEntrepreneur))
	authed.PATCH("/expenses/:id/status", s.handleUpdateExpenseStatus)

	// Sponsorships
	admin.POST("/opportunities", s.handleCreateSponsorship)
	authed.POST("/opportunities/:id/applications", s.handleApplySponsorship, auth.RequireRole(models.RoleSponsor))
	admin.PATCH("/sponsorship-applications/:id", s.handleDecideSponsorship)

	// Events
	admin.GET("/events/all", s.handleListAllEvents)
	admin.POST("/events", s.handleCreateEvent)
	admin.PATCH("/events/:id/publish", s.handlePublishEvent)

	// Notifications
	authed.GET("/notifications", s.handleListNotifications)
	authed.PATCH("/notifications/:id/read", s.handleMarkNotificationRead)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrUserExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arzan03/CondoLedger/internal/middleware"
)

type AppConfig struct {
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AccessLog    bool
}

// NewApp builds the Fiber application with every API route registered.
func NewApp(h *Handler, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "condo-ledger",
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          ErrorHandler(h.log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{Output: h.log.Writer()}))
	}
	app.Use(cors.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", middleware.MetricsMiddleware)
	h.Register(api)
	return app
}

// Register mounts the API routes on r.
func (h *Handler) Register(r fiber.Router) {
	auth := middleware.AuthMiddleware(h.sessions, h.ledger)
	admin := middleware.AdminMiddleware

	r.Post("/auth/login", h.LoginHandler)
	r.Post("/auth/logout", auth, h.LogoutHandler)
	r.Get("/auth/me", auth, h.MeHandler)

	r.Get("/users", auth, admin, h.ListUsersHandler)
	r.Post("/users", auth, admin, h.CreateUserHandler)
	r.Put("/users/:id<int>", auth, admin, h.UpdateUserHandler)
	r.Delete("/users/:id<int>", auth, admin, h.DeleteUserHandler)

	r.Get("/apartments", auth, h.ListApartmentsHandler)
	r.Post("/apartments", auth, admin, h.CreateApartmentHandler)
	r.Put("/apartments/:id<int>", auth, admin, h.UpdateApartmentHandler)
	r.Delete("/apartments/:id<int>", auth, admin, h.DeleteApartmentHandler)

	r.Get("/dues", auth, h.ListDuesHandler)
	r.Post("/dues/apply", auth, admin, h.ApplyDuesHandler)

	r.Post("/payments/pay", auth, h.PayHandler)
	r.Get("/payments", auth, h.ListPaymentsHandler)

	r.Get("/expenses", auth, h.ListExpensesHandler)
	r.Post("/expenses", auth, admin, h.CreateExpenseHandler)

	r.Get("/announcements", auth, h.ListAnnouncementsHandler)
	r.Post("/announcements", auth, admin, h.CreateAnnouncementHandler)

	r.Get("/reports/summary", auth, h.SummaryHandler)
	r.Get("/reports/monthly", auth, h.MonthlyHandler)

	r.Post("/backup/run", auth, admin, h.RunBackupHandler)
}

package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/payinstr/internal/config"
	"github.com/congo-pay/payinstr/internal/journal"
	"github.com/congo-pay/payinstr/internal/middleware"
	"github.com/congo-pay/payinstr/internal/notification"
	"github.com/congo-pay/payinstr/internal/payments"
	"github.com/congo-pay/payinstr/internal/schedule"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	// Now overrides the service clock; nil uses time.Now.
	Now func() time.Time
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "UTC",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var journalBackend journal.Journal
	if d.DB != nil {
		pg := journal.NewPostgresJournal(d.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		journalBackend = pg
	} else {
		journalBackend = journal.NewInMemory()
	}

	var book schedule.Book
	if d.Cache != nil {
		book = schedule.NewRedisBook(d.Cache, d.Cfg.ScheduleKey, d.Logger)
	} else {
		book = schedule.NewMemoryBook()
	}

	paymentSvc := payments.NewService(d.Logger,
		payments.WithJournal(journalBackend),
		payments.WithScheduleBook(book),
		payments.WithNotifier(notification.NewLoggerNotifier(d.Logger)),
		payments.WithSideEffectTimeout(d.Cfg.SideEffectTimeout),
		payments.WithClock(d.Now),
	)
	paymentHandler := payments.NewHandler(paymentSvc)

	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.GetRequestID(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	limiter := middleware.RateLimit(d.Cache, "instructions", d.Cfg.RateLimitPerMinute, d.Logger)
	RegisterInstructionRoutes(app, paymentHandler, limiter)

	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/utils"
	"github.com/rs/zerolog/log"

	"gabconcours_backend/internals/configs"
	database "gabconcours_backend/internals/databases"
	paySvc "gabconcours_backend/internals/features/candidatures/payments/service"
	"gabconcours_backend/internals/features/notifications/dispatcher"
	"gabconcours_backend/internals/features/notifications/mailer"
	outboxRepo "gabconcours_backend/internals/features/notifications/outbox/repository"
	"gabconcours_backend/internals/features/notifications/templates"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/helpers/storage"
	"gabconcours_backend/internals/logger"
	"gabconcours_backend/internals/middlewares"
	reqLogger "gabconcours_backend/internals/middlewares/logger"
	routes "gabconcours_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	logger.Init(configs.GetEnv("LOG_LEVEL", "info"), configs.GetEnv("LOG_FORMAT", "json"))
	cfg := configs.Load()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		BodyLimit:               int(storage.MaxDocumentSize) + 1<<20,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.JsonFromError(c, err)
		},
	})

	// middleware dasar + performa
	app.Use(middlewares.RecoveryMiddleware(logger.With("http")))
	app.Use(requestid.New(requestid.Config{Generator: utils.UUID}))
	app.Use(reqLogger.LoggerMiddleware(logger.With("http")))
	app.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))
	app.Use(middlewares.GlobalRateLimiter())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// HTTP timeout guard (selaras dengan statement_timeout di DB)
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	// DB connect + pool + warm-up
	db, err := database.ConnectDB()
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	database.TunePool(db)
	database.WarmUpQueries(db)
	if configs.GetEnvBool("AUTO_MIGRATE", false) {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	// blob storage + reaper trash
	store, err := storage.New(cfg.Storage, cfg.UploadsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init failed")
	}
	reaper, err := storage.StartTrashReaperCron(store, cfg.Reaper)
	if err != nil {
		log.Error().Err(err).Msg("trash reaper not started")
	}

	// notifikasi: template → outbox → worker → mailer
	mail, err := templates.New(cfg.AppURL, cfg.Location)
	if err != nil {
		log.Fatal().Err(err).Msg("email templates invalid")
	}
	disp := dispatcher.New(mailer.New(cfg.SMTP, logger.With("mailer")), store, logger.With("dispatcher"))
	outbox := dispatcher.NewOutboxWorker(outboxRepo.New(db), disp, cfg.Outbox, logger.With("outbox"))

	rootCtx, stopWorkers := context.WithCancel(context.Background())
	if err := outbox.Start(rootCtx); err != nil {
		log.Error().Err(err).Msg("outbox worker not started")
		outbox = nil
	}

	snapClient := paySvc.NewSnapClient(cfg.Midtrans)
	if snapClient == nil {
		log.Warn().Msg("MIDTRANS_SERVER_KEY not set, card checkout disabled")
	}

	routes.SetupRoutes(app, routes.Deps{
		DB:           db,
		Cfg:          cfg,
		Store:        store,
		Mail:         mail,
		Dispatcher:   disp,
		OutboxWorker: outbox,
		Snap:         snapClient,
		Log:          logger.Get(),
	})

	// Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 30 * time.Second
	app.Server().WriteTimeout = 60 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown: HTTP → cron/worker → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if reaper != nil {
		<-reaper.Stop().Done()
	}
	if outbox != nil {
		outbox.Stop()
	}
	stopWorkers()
	database.Close(db)
}

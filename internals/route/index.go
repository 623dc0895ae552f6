package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"gabconcours_backend/internals/configs"
	"gabconcours_backend/internals/constants"
	adminSvc "gabconcours_backend/internals/features/administration/admins/service"
	supportSvc "gabconcours_backend/internals/features/administration/support_requests/service"
	candSvc "gabconcours_backend/internals/features/candidatures/candidats/service"
	docSvc "gabconcours_backend/internals/features/candidatures/documents/service"
	paySvc "gabconcours_backend/internals/features/candidatures/payments/service"
	msgSvc "gabconcours_backend/internals/features/messaging/messages/service"
	"gabconcours_backend/internals/features/notifications/dispatcher"
	outboxRepo "gabconcours_backend/internals/features/notifications/outbox/repository"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/storage"
	"gabconcours_backend/internals/middlewares"
	"gabconcours_backend/internals/middlewares/auth"
	routeDetails "gabconcours_backend/internals/route/details"
)

var startTime time.Time

// Deps: komponen yang dibangun main dan dibagikan ke semua fitur.
type Deps struct {
	DB           *gorm.DB
	Cfg          configs.AppConfig
	Store        storage.Store
	Mail         *templates.Renderer
	Dispatcher   *dispatcher.Dispatcher
	OutboxWorker *dispatcher.OutboxWorker
	Snap         paySvc.SnapGateway // nil → checkout carte nonaktif
	Log          zerolog.Logger
}

func buildServices(d Deps) *routeDetails.Services {
	loc := d.Cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	withComponent := func(name string) zerolog.Logger {
		return d.Log.With().Str("component", name).Logger()
	}

	cands := candSvc.New(d.DB, loc, d.Store, d.Mail, withComponent("candidats"))
	cands.JWTSecret, cands.JWTTTL = d.Cfg.JWTSecret, d.Cfg.JWTTTL

	admins := adminSvc.New(d.DB, d.Mail, withComponent("admins"))
	admins.JWTSecret, admins.JWTTTL = d.Cfg.JWTSecret, d.Cfg.JWTTTL

	pays := paySvc.New(d.DB, loc, d.Store, d.Mail, d.Dispatcher, withComponent("payments"))
	pays.ServerKey, pays.Snap = d.Cfg.Midtrans.ServerKey, d.Snap

	return &routeDetails.Services{
		DB:           d.DB,
		Loc:          loc,
		Log:          d.Log,
		Candidats:    cands,
		Documents:    docSvc.New(d.DB, loc, d.Store, d.Mail, withComponent("documents")),
		Payments:     pays,
		Admins:       admins,
		Messages:     msgSvc.New(d.DB, loc, withComponent("messages")),
		Support:      supportSvc.New(d.DB, loc, withComponent("support")),
		Outbox:       outboxRepo.New(d.DB),
		OutboxWorker: d.OutboxWorker,
	}
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	s := buildServices(d)

	BaseRoutes(app, d.DB)

	// ===================== GROUPS =====================

	// PUBLIC → tanpa token
	d.Log.Info().Msg("setting up PUBLIC group...")
	public := app.Group("/api/public")
	public.Use("/candidats", middlewares.RegisterRateLimiter())
	public.Use("/support", middlewares.SupportRateLimiter())

	// AUTH → login admin & candidat
	authGroup := app.Group("/api/auth", middlewares.LoginRateLimiter())

	// CANDIDAT (atau admin) → JWT
	d.Log.Info().Msg("setting up PRIVATE group...")
	private := app.Group("/api/c", auth.AuthJWT(d.Cfg.JWTSecret))

	// ADMIN → JWT + role admin/super_admin
	d.Log.Info().Msg("setting up ADMIN group...")
	admin := app.Group("/api/a",
		auth.AuthJWT(d.Cfg.JWTSecret),
		auth.RequireRole(constants.RoleErrorAdmin("cette ressource"), constants.AdminRoles...),
	)

	// MESSAGERIE → JWT, peran dicek per-route
	messaging := app.Group("/api/messaging-realtime", auth.AuthJWT(d.Cfg.JWTSecret))

	// ===================== MOUNT ROUTES =====================

	d.Log.Info().Msg("mounting Concours routes...")
	routeDetails.ConcoursPublicRoutes(public, s)
	routeDetails.ConcoursAdminRoutes(admin, s)

	d.Log.Info().Msg("mounting Candidature routes...")
	routeDetails.CandidaturePublicRoutes(public, authGroup, s)
	routeDetails.CandidatureUserRoutes(private, s)
	routeDetails.CandidatureAdminRoutes(admin, s)

	d.Log.Info().Msg("mounting Administration routes...")
	routeDetails.AdministrationPublicRoutes(public, authGroup, s)
	routeDetails.AdministrationAdminRoutes(admin, s)

	d.Log.Info().Msg("mounting Messaging & Notification routes...")
	routeDetails.MessagingRoutes(messaging, s)
	routeDetails.NotificationAdminRoutes(admin, s)
}

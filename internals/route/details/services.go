package details

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	adminSvc "gabconcours_backend/internals/features/administration/admins/service"
	supportSvc "gabconcours_backend/internals/features/administration/support_requests/service"
	candSvc "gabconcours_backend/internals/features/candidatures/candidats/service"
	docSvc "gabconcours_backend/internals/features/candidatures/documents/service"
	paySvc "gabconcours_backend/internals/features/candidatures/payments/service"
	msgSvc "gabconcours_backend/internals/features/messaging/messages/service"
	"gabconcours_backend/internals/features/notifications/dispatcher"
	outboxRepo "gabconcours_backend/internals/features/notifications/outbox/repository"
)

// Services: satu instance per fitur, dibangun sekali di SetupRoutes.
type Services struct {
	DB  *gorm.DB
	Loc *time.Location
	Log zerolog.Logger

	Candidats *candSvc.Service
	Documents *docSvc.Service
	Payments  *paySvc.Service
	Admins    *adminSvc.Service
	Messages  *msgSvc.Service
	Support   *supportSvc.Service

	Outbox       *outboxRepo.Repository
	OutboxWorker *dispatcher.OutboxWorker
}

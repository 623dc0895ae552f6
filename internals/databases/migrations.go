package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	adminModel "gabconcours_backend/internals/features/administration/admins/model"
	actionModel "gabconcours_backend/internals/features/administration/admin_actions/model"
	supportModel "gabconcours_backend/internals/features/administration/support_requests/model"
	candModel "gabconcours_backend/internals/features/candidatures/candidats/model"
	docModel "gabconcours_backend/internals/features/candidatures/documents/model"
	payModel "gabconcours_backend/internals/features/candidatures/payments/model"
	catModel "gabconcours_backend/internals/features/concours/catalogue/model"
	msgModel "gabconcours_backend/internals/features/messaging/messages/model"
	outboxModel "gabconcours_backend/internals/features/notifications/outbox/model"
)

// Models: seluruh tabel domain, urutan aman untuk AutoMigrate.
func Models() []any {
	return []any{
		&catModel.EtablissementModel{},
		&catModel.ConcoursModel{},
		&catModel.FiliereModel{},
		&catModel.MatiereModel{},
		&catModel.ConcoursFiliereModel{},
		&catModel.FiliereMatiereModel{},
		&adminModel.AdminModel{},
		&candModel.CandidatModel{},
		&docModel.DocumentModel{},
		&payModel.PaymentModel{},
		&actionModel.AdminActionModel{},
		&msgModel.MessageModel{},
		&supportModel.SupportRequestModel{},
		&outboxModel.OutboxModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Int("tables", len(Models())).Msg("migrations applied")
	return nil
}

package dto

import (
	"strings"

	"gabconcours_backend/internals/features/candidatures/payments/model"
)

// CreateRequest: pencatatan paiement mobile money / espèces oleh admin atau callback operator.
type CreateRequest struct {
	Nupcan          string `json:"nupcan" validate:"required,max=30"`
	ConcoursID      uint   `json:"concours_id" validate:"required"`
	Montant         int64  `json:"montant" validate:"required,gt=0"`
	Methode         string `json:"methode" validate:"required,oneof=airtel_money moov_money carte especes"`
	Reference       string `json:"reference" validate:"required,max=100"`
	NumeroTelephone string `json:"numero_telephone" validate:"omitempty,max=30"`
	Statut          string `json:"statut" validate:"omitempty,oneof=en_attente valide echoue"`
}

func (r CreateRequest) ToModel() *model.PaymentModel {
	st := r.Statut
	if st == "" {
		st = model.StatutEnAttente
	}
	return &model.PaymentModel{
		Nupcan:          strings.TrimSpace(r.Nupcan),
		ConcoursID:      r.ConcoursID,
		Montant:         r.Montant,
		Methode:         r.Methode,
		Statut:          st,
		Reference:       strings.TrimSpace(r.Reference),
		NumeroTelephone: strings.TrimSpace(r.NumeroTelephone),
	}
}

// UpdateStatusRequest: hanya statut & reference yang boleh berubah.
type UpdateStatusRequest struct {
	Statut    string  `json:"statut" validate:"required,oneof=en_attente valide echoue"`
	Reference *string `json:"reference" validate:"omitempty,min=1,max=100"`
}

type CheckoutRequest struct {
	ConcoursID *uint `json:"concours_id"`
}

type CheckoutResponse struct {
	Payment     model.PaymentModel `json:"payment"`
	SnapToken   string             `json:"snap_token"`
	RedirectURL string             `json:"redirect_url"`
}

// MidtransNotification: payload webhook Snap (field lain diabaikan).
type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

type ListFilter struct {
	Nupcan     string
	Statut     string
	ConcoursID *uint
	Limit      int
	Offset     int
	OrderBy    string // klausa dari SafeOrderClause; kosong = terbaru dulu
}

type Summary struct {
	Statut string `json:"statut"`
	Count  int64  `json:"count"`
	Total  int64  `json:"total"`
}

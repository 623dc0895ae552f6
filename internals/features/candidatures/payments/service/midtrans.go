package service

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"gabconcours_backend/internals/configs"
	"gabconcours_backend/internals/features/candidatures/payments/dto"
	"gabconcours_backend/internals/features/candidatures/payments/model"
)

/* =========================================================
   Midtrans Snap
========================================================= */

// SnapGateway dipenuhi *snap.Client; diganti fake di test.
type SnapGateway interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient: nil bila server key kosong (checkout kartu dimatikan).
func NewSnapClient(cfg configs.MidtransConfig) SnapGateway {
	if cfg.ServerKey == "" {
		return nil
	}
	var c snap.Client
	if cfg.Production {
		c.New(cfg.ServerKey, midtrans.Production)
	} else {
		c.New(cfg.ServerKey, midtrans.Sandbox)
	}
	return &c
}

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func buildSnapRequest(p model.PaymentModel, label string, cust CustomerInput) (*snap.Request, error) {
	if p.Montant <= 0 {
		return nil, errors.New("invalid montant")
	}
	if p.Reference == "" {
		return nil, errors.New("reference is required (used as OrderID)")
	}
	return &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.Reference,
			GrossAmt: p.Montant,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			LName: cust.LastName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
		Items: &[]midtrans.ItemDetails{{
			ID:       p.Reference,
			Price:    p.Montant,
			Qty:      1,
			Name:     truncate(defaultString(label, "Frais de dossier"), 50),
			Category: "CONCOURS",
		}},
		CustomField1: p.Nupcan,
	}, nil
}

// SignatureValid: SHA512(order_id + status_code + gross_amount + ServerKey).
func SignatureValid(n dto.MidtransNotification, serverKey string) bool {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" || serverKey == "" {
		return false
	}
	h := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	return hex.EncodeToString(h[:]) == want
}

// MapMidtransStatus: status transaksi Snap → statut paiement.
// ok=false → tidak ada perubahan (pending, challenge, status tak dikenal).
func MapMidtransStatus(transactionStatus, fraudStatus string) (string, bool) {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "", "accept":
			return model.StatutValide, true
		case "challenge":
			return "", false
		}
		return model.StatutEchoue, true
	case "settlement":
		return model.StatutValide, true
	case "deny", "cancel", "expire", "failure":
		return model.StatutEchoue, true
	}
	return "", false
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

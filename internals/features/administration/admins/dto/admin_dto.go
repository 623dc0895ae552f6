package dto

import (
	"strings"
	"time"

	"gabconcours_backend/internals/features/administration/admins/model"
	"gabconcours_backend/internals/features/notifications/templates"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Admin     model.AdminModel `json:"admin"`
}

// CreateRequest: Password kosong → dibangkitkan acak lalu dikirim via email credentials.
type CreateRequest struct {
	Nom             string `json:"nom" validate:"required,max=100"`
	Prenom          string `json:"prenom" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=150"`
	Role            string `json:"role" validate:"omitempty,oneof=admin super_admin"`
	EtablissementID *uint  `json:"etablissement_id"`
	Password        string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r CreateRequest) ToModel(hash string) *model.AdminModel {
	role := r.Role
	if role == "" {
		role = model.RoleAdmin
	}
	return &model.AdminModel{
		Nom:             strings.ToUpper(strings.TrimSpace(r.Nom)),
		Prenom:          strings.TrimSpace(r.Prenom),
		Email:           strings.ToLower(strings.TrimSpace(r.Email)),
		Password:        hash,
		Role:            role,
		EtablissementID: r.EtablissementID,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type ListFilter struct {
	Role            string
	EtablissementID *uint
}

func MailAdmin(m model.AdminModel) templates.Admin {
	return templates.Admin{Nom: m.Nom, Prenom: m.Prenom, Email: m.Email}
}

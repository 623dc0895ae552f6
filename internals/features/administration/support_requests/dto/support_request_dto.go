package dto

import (
	"strings"

	"gabconcours_backend/internals/features/administration/support_requests/model"
)

type CreateRequest struct {
	Nom     string `json:"nom" validate:"required,max=150"`
	Email   string `json:"email" validate:"required,email,max=150"`
	Nupcan  string `json:"nupcan" validate:"omitempty,max=30"`
	Sujet   string `json:"sujet" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (r CreateRequest) ToModel() *model.SupportRequestModel {
	m := &model.SupportRequestModel{
		Nom:     strings.TrimSpace(r.Nom),
		Email:   strings.ToLower(strings.TrimSpace(r.Email)),
		Sujet:   strings.TrimSpace(r.Sujet),
		Message: strings.TrimSpace(r.Message),
		Statut:  model.StatutOuvert,
	}
	if n := strings.TrimSpace(r.Nupcan); n != "" {
		m.Nupcan = &n
	}
	return m
}

type ResolveRequest struct {
	Commentaire string `json:"commentaire" validate:"omitempty,max=2000"`
}

type ListFilter struct {
	Statut string
	Limit  int
	Offset int
}

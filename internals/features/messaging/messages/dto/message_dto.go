package dto

import (
	"time"

	"gabconcours_backend/internals/features/messaging/messages/model"
)

type SendRequest struct {
	Sujet   string `json:"sujet" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ReplyRequest struct {
	Nupcan  string `json:"nupcan" validate:"required,max=30"`
	Sujet   string `json:"sujet" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Reader: pihak yang membaca (candidat dengan Nupcan, atau admin).
type Reader struct {
	AdminID uint
	Nupcan  string
}

func (r Reader) IsAdmin() bool { return r.AdminID > 0 }

// Incoming: pesan dari pihak lawan yang dihitung sebagai "non lu" bagi reader.
func (r Reader) Incoming() string {
	if r.IsAdmin() {
		return model.ExpediteurCandidat
	}
	return model.ExpediteurAdmin
}

// Conversation: ringkasan thread per candidat untuk inbox admin.
type Conversation struct {
	Nupcan      string             `json:"nupcan"`
	Nom         string             `json:"nomcan"`
	Prenom      string             `json:"prncan"`
	LastMessage model.MessageModel `json:"last_message"`
	Unread      int64              `json:"unread"`
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

type ConversationFilter struct {
	Nupcan string
	Since  *time.Time
}

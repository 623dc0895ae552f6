// Package dispatcher mengirim email transaksional. Kegagalan dikembalikan sebagai
// Result{Success:false}, tidak pernah sebagai panic, supaya mutasi utama tidak ikut gagal.
package dispatcher

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/rs/zerolog"

	"gabconcours_backend/internals/features/notifications/mailer"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/storage"
)

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(msg string) Result     { return Result{Success: true, Message: msg} }
func failed(msg string) Result { return Result{Success: false, Message: msg} }

type Dispatcher struct {
	Mailer mailer.Mailer
	Store  storage.Store
	Log    zerolog.Logger
}

func New(m mailer.Mailer, store storage.Store, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{Mailer: m, Store: store, Log: log}
}

// Send mengirim satu email sekarang juga.
func (d *Dispatcher) Send(ctx context.Context, e templates.Email, attachments ...mailer.Attachment) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.Log.Error().Interface("panic", r).Str("event", e.Event).Msg("mailer panic")
			res = failed(fmt.Sprintf("envoi impossible: %v", r))
		}
	}()

	if e.To == "" {
		return failed("destinataire manquant")
	}
	err := d.Mailer.Send(ctx, mailer.Message{
		To:          e.To,
		Subject:     e.Subject,
		HTML:        e.HTML,
		Attachments: attachments,
	})
	if err != nil {
		d.Log.Warn().Err(err).Str("event", e.Event).Str("to", e.To).Msg("email not sent")
		return failed("Erreur lors de l'envoi de l'email: " + err.Error())
	}
	d.Log.Info().Str("event", e.Event).Str("to", e.To).Msg("email sent")
	return ok("Email envoyé avec succès")
}

// SendWithStoredAttachment: lampiran dibaca dari blob storage berdasarkan key.
func (d *Dispatcher) SendWithStoredAttachment(ctx context.Context, e templates.Email, key string) Result {
	if key == "" {
		return d.Send(ctx, e)
	}
	att, err := d.loadAttachment(ctx, key)
	if err != nil {
		d.Log.Warn().Err(err).Str("key", key).Msg("attachment unavailable")
		return failed("Pièce jointe introuvable")
	}
	return d.Send(ctx, e, att)
}

func (d *Dispatcher) loadAttachment(ctx context.Context, key string) (mailer.Attachment, error) {
	if d.Store == nil {
		return mailer.Attachment{}, fmt.Errorf("no store configured")
	}
	rc, err := d.Store.Open(ctx, key)
	if err != nil {
		return mailer.Attachment{}, err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, storage.MaxDocumentSize+1))
	if err != nil {
		return mailer.Attachment{}, err
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return mailer.Attachment{
		Name:        path.Base(key),
		ContentType: storage.DetectContentType(head, key),
		Data:        data,
	}, nil
}

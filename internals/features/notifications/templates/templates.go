// Package templates merender email transaksional dari file HTML yang di-embed.
// Satu fungsi builder per event; hasilnya Email siap masuk outbox.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed views/*.html views/layouts/*.html
var viewsFS embed.FS

// Event names.
const (
	EventCredentials         = "credentials"
	EventInscription         = "inscription"
	EventDocumentValide      = "document_valide"
	EventDocumentRejete      = "document_rejete"
	EventPaiementConfirme    = "paiement_confirme"
	EventCandidatureComplete = "candidature_complete"
	EventRecu                = "recu"
)

const layout = "layouts/base"

type Email struct {
	Event   string
	To      string
	Subject string
	HTML    string
}

/* ===== data untuk template (lepas dari model domain) ===== */

type Candidat struct {
	Nupcan string
	Nom    string
	Prenom string
	Email  string
}

type Admin struct {
	Nom    string
	Prenom string
	Email  string
}

type Document struct {
	NomDoc      string
	Type        string
	Commentaire string
}

type Paiement struct {
	Montant   int64
	Methode   string
	Reference string
	Date      time.Time
}

type Renderer struct {
	engine *html.Engine
	appURL string
	loc    *time.Location
}

func New(appURL string, loc *time.Location) (*Renderer, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("fcfa", FormatFCFA)
	engine.AddFunc("date", func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.In(loc).Format("02/01/2006 15:04")
	})
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}
	return &Renderer{engine: engine, appURL: strings.TrimRight(appURL, "/"), loc: loc}, nil
}

func (r *Renderer) render(event, to, subject string, data map[string]any) (Email, error) {
	if strings.TrimSpace(to) == "" {
		return Email{}, fmt.Errorf("%s: destinataire vide", event)
	}
	data["Subject"] = subject
	data["AppURL"] = r.appURL

	var buf bytes.Buffer
	if err := r.engine.Render(&buf, event, data, layout); err != nil {
		return Email{}, fmt.Errorf("render %s: %w", event, err)
	}
	return Email{Event: event, To: to, Subject: subject, HTML: buf.String()}, nil
}

func (r *Renderer) Credentials(a Admin, password string) (Email, error) {
	return r.render(EventCredentials, a.Email, "Vos identifiants administrateur GABConcours", map[string]any{
		"Admin":    a,
		"Password": password,
	})
}

func (r *Renderer) Inscription(c Candidat, concours string) (Email, error) {
	return r.render(EventInscription, c.Email, "Confirmation d'inscription - "+c.Nupcan, map[string]any{
		"Candidat": c,
		"Concours": concours,
	})
}

func (r *Renderer) DocumentValide(c Candidat, d Document) (Email, error) {
	return r.render(EventDocumentValide, c.Email, "Document validé : "+d.NomDoc, map[string]any{
		"Candidat": c,
		"Document": d,
	})
}

func (r *Renderer) DocumentRejete(c Candidat, d Document) (Email, error) {
	return r.render(EventDocumentRejete, c.Email, "Document rejeté : "+d.NomDoc, map[string]any{
		"Candidat": c,
		"Document": d,
	})
}

func (r *Renderer) PaiementConfirme(c Candidat, p Paiement, concours string) (Email, error) {
	return r.render(EventPaiementConfirme, c.Email, "Confirmation de paiement - "+p.Reference, map[string]any{
		"Candidat": c,
		"Paiement": p,
		"Concours": concours,
	})
}

func (r *Renderer) CandidatureComplete(c Candidat, concours string) (Email, error) {
	return r.render(EventCandidatureComplete, c.Email, "Votre candidature est complète", map[string]any{
		"Candidat": c,
		"Concours": concours,
	})
}

func (r *Renderer) Recu(c Candidat, p Paiement, hasAttachment bool) (Email, error) {
	return r.render(EventRecu, c.Email, "Reçu de paiement - "+p.Reference, map[string]any{
		"Candidat":      c,
		"Paiement":      p,
		"HasAttachment": hasAttachment,
	})
}

// FormatFCFA: 15000 → "15 000 FCFA".
func FormatFCFA(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(ch)
	}
	out := b.String() + " FCFA"
	if neg {
		out = "-" + out
	}
	return out
}

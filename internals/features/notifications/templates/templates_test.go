package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New("https://gabconcours.ga/", time.UTC)
	require.NoError(t, err)
	return r
}

var cand = Candidat{Nupcan: "GABCON-2024-1A2B3C4D", Nom: "Mba", Prenom: "Léa", Email: "lea@example.ga"}

func TestDocumentRejete_IncludesCommentAndLayout(t *testing.T) {
	r := newRenderer(t)
	e, err := r.DocumentRejete(cand, Document{NomDoc: "Acte de naissance", Type: "acte_naissance", Commentaire: "scan illisible"})
	require.NoError(t, err)

	assert.Equal(t, EventDocumentRejete, e.Event)
	assert.Equal(t, "lea@example.ga", e.To)
	assert.Equal(t, "Document rejeté : Acte de naissance", e.Subject)
	assert.Contains(t, e.HTML, "scan illisible")
	assert.Contains(t, e.HTML, "GABCON-2024-1A2B3C4D")
	assert.Contains(t, e.HTML, "GABConcours</h1>")
	assert.Contains(t, e.HTML, "https://gabconcours.ga")
}

func TestDocumentRejete_NoCommentOmitsMotif(t *testing.T) {
	r := newRenderer(t)
	e, err := r.DocumentRejete(cand, Document{NomDoc: "Diplôme", Type: "diplome"})
	require.NoError(t, err)
	assert.NotContains(t, e.HTML, "Motif")
}

func TestTemplates_EscapeUserInput(t *testing.T) {
	r := newRenderer(t)
	e, err := r.DocumentValide(Candidat{Nupcan: "X", Nom: "<script>", Prenom: "a", Email: "a@b.c"}, Document{NomDoc: "d"})
	require.NoError(t, err)
	assert.NotContains(t, e.HTML, "<script>")
	assert.Contains(t, e.HTML, "&lt;script&gt;")
}

func TestPaiementConfirme_FormatsAmount(t *testing.T) {
	r := newRenderer(t)
	e, err := r.PaiementConfirme(cand, Paiement{Montant: 25000, Methode: "airtel_money", Reference: "AM-778", Date: time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)}, "Concours ENS")
	require.NoError(t, err)
	assert.Contains(t, e.HTML, "25 000 FCFA")
	assert.Contains(t, e.HTML, "02/01/2024 10:30")
	assert.Contains(t, e.HTML, "Concours ENS")
}

func TestEveryEventRenders(t *testing.T) {
	r := newRenderer(t)
	p := Paiement{Montant: 1000, Reference: "R1"}
	builders := map[string]func() (Email, error){
		EventCredentials:         func() (Email, error) { return r.Credentials(Admin{Nom: "N", Prenom: "P", Email: "adm@x.ga"}, "s3cret!") },
		EventInscription:         func() (Email, error) { return r.Inscription(cand, "") },
		EventDocumentValide:      func() (Email, error) { return r.DocumentValide(cand, Document{NomDoc: "d"}) },
		EventDocumentRejete:      func() (Email, error) { return r.DocumentRejete(cand, Document{NomDoc: "d"}) },
		EventPaiementConfirme:    func() (Email, error) { return r.PaiementConfirme(cand, p, "") },
		EventCandidatureComplete: func() (Email, error) { return r.CandidatureComplete(cand, "C") },
		EventRecu:                func() (Email, error) { return r.Recu(cand, p, true) },
	}
	for event, build := range builders {
		e, err := build()
		require.NoError(t, err, event)
		assert.Equal(t, event, e.Event)
		assert.NotEmpty(t, e.HTML, event)
	}
}

func TestRender_EmptyRecipient(t *testing.T) {
	r := newRenderer(t)
	_, err := r.Inscription(Candidat{Nupcan: "X"}, "")
	assert.Error(t, err)
}

func TestFormatFCFA(t *testing.T) {
	assert.Equal(t, "0 FCFA", FormatFCFA(0))
	assert.Equal(t, "999 FCFA", FormatFCFA(999))
	assert.Equal(t, "1 000 FCFA", FormatFCFA(1000))
	assert.Equal(t, "1 250 000 FCFA", FormatFCFA(1250000))
}

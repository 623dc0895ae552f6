// Package candidature menghitung kelengkapan dossier kandidat:
// setiap pièce requise punya dokumen valide dan ada paiement valide.
package candidature

import (
	"context"
	"sort"

	"gorm.io/gorm"

	candModel "gabconcours_backend/internals/features/candidatures/candidats/model"
	docModel "gabconcours_backend/internals/features/candidatures/documents/model"
	payModel "gabconcours_backend/internals/features/candidatures/payments/model"
	catModel "gabconcours_backend/internals/features/concours/catalogue/model"
	"gabconcours_backend/internals/helpers/apperr"
)

type Status struct {
	Nupcan           string         `json:"nupcan"`
	ConcoursID       *uint          `json:"concours_id"`
	Concours         string         `json:"concours,omitempty"`
	Documents        map[string]int `json:"documents"`
	PiecesRequises   []string       `json:"pieces_requises"`
	PiecesManquantes []string       `json:"pieces_manquantes"`
	PaiementValide   bool           `json:"paiement_valide"`
	Complete         bool           `json:"complete"`
}

// Compute membaca dengan db yang diberikan (boleh tx) supaya hasilnya konsisten
// dengan perubahan yang belum di-commit.
func Compute(ctx context.Context, db *gorm.DB, nupcan string) (*Status, error) {
	var cand candModel.CandidatModel
	if err := db.WithContext(ctx).Where("nupcan = ?", nupcan).First(&cand).Error; err != nil {
		return nil, apperr.FromDB(err, "Candidat introuvable", "")
	}

	st := &Status{
		Nupcan:     cand.Nupcan,
		ConcoursID: cand.ConcoursID,
		Documents: map[string]int{
			docModel.StatutEnAttente: 0,
			docModel.StatutValide:    0,
			docModel.StatutRejete:    0,
		},
		PiecesRequises:   []string{},
		PiecesManquantes: []string{},
	}

	var docs []docModel.DocumentModel
	if err := db.WithContext(ctx).
		Select("type", "statut").
		Where("nupcan = ?", nupcan).
		Find(&docs).Error; err != nil {
		return nil, apperr.Server("candidature documents", err)
	}
	validTypes := map[string]bool{}
	for _, d := range docs {
		st.Documents[d.Statut]++
		if d.Statut == docModel.StatutValide {
			validTypes[d.Type] = true
		}
	}

	payQ := db.WithContext(ctx).Model(&payModel.PaymentModel{}).
		Where("nupcan = ? AND statut = ?", nupcan, payModel.StatutValide)
	if cand.ConcoursID != nil {
		payQ = payQ.Where("concours_id = ?", *cand.ConcoursID)
	}
	var nPaid int64
	if err := payQ.Count(&nPaid).Error; err != nil {
		return nil, apperr.Server("candidature paiements", err)
	}
	st.PaiementValide = nPaid > 0

	if cand.ConcoursID == nil {
		return st, nil
	}
	var cnc catModel.ConcoursModel
	if err := db.WithContext(ctx).First(&cnc, *cand.ConcoursID).Error; err != nil {
		return nil, apperr.FromDB(err, "Concours introuvable", "")
	}
	st.Concours = cnc.Libelle
	st.PiecesRequises = append(st.PiecesRequises, cnc.PiecesRequises...)
	for _, p := range cnc.PiecesRequises {
		if !validTypes[p] {
			st.PiecesManquantes = append(st.PiecesManquantes, p)
		}
	}
	sort.Strings(st.PiecesManquantes)
	st.Complete = len(st.PiecesManquantes) == 0 && st.PaiementValide
	return st, nil
}

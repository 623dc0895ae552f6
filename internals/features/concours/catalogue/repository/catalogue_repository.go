package repository

import (
	"context"

	"gorm.io/gorm"

	"gabconcours_backend/internals/features/concours/catalogue/dto"
	"gabconcours_backend/internals/features/concours/catalogue/model"
	"gabconcours_backend/internals/helpers/apperr"
)

type Repository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repository { return &Repository{DB: db} }

/* ===== Etablissements ===== */

func (r *Repository) CreateEtablissement(ctx context.Context, m *model.EtablissementModel) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "Établissement déjà existant")
}

func (r *Repository) ListEtablissements(ctx context.Context) ([]model.EtablissementModel, error) {
	var out []model.EtablissementModel
	err := r.DB.WithContext(ctx).Order("nomets ASC").Find(&out).Error
	return out, apperr.FromDB(err, "", "")
}

func (r *Repository) GetEtablissement(ctx context.Context, id uint) (*model.EtablissementModel, error) {
	var m model.EtablissementModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Établissement introuvable", "")
	}
	return &m, nil
}

/* ===== Concours ===== */

func (r *Repository) CreateConcours(ctx context.Context, m *model.ConcoursModel) error {
	if _, err := r.GetEtablissement(ctx, m.EtablissementID); err != nil {
		return err
	}
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "Concours déjà existant")
}

func (r *Repository) ListConcours(ctx context.Context, activeOnly bool, etablissementID *uint) ([]model.ConcoursModel, error) {
	q := r.DB.WithContext(ctx).Model(&model.ConcoursModel{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if etablissementID != nil {
		q = q.Where("etablissement_id = ?", *etablissementID)
	}
	var out []model.ConcoursModel
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, apperr.FromDB(err, "", "")
}

func (r *Repository) GetConcours(ctx context.Context, id uint) (*model.ConcoursModel, error) {
	var m model.ConcoursModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Concours introuvable", "")
	}
	return &m, nil
}

/* ===== Filieres / Matieres ===== */

func (r *Repository) CreateFiliere(ctx context.Context, m *model.FiliereModel) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "Filière déjà existante")
}

func (r *Repository) ListFilieres(ctx context.Context) ([]model.FiliereModel, error) {
	var out []model.FiliereModel
	err := r.DB.WithContext(ctx).Order("nomfil ASC").Find(&out).Error
	return out, apperr.FromDB(err, "", "")
}

func (r *Repository) GetFiliere(ctx context.Context, id uint) (*model.FiliereModel, error) {
	var m model.FiliereModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Filière introuvable", "")
	}
	return &m, nil
}

func (r *Repository) CreateMatiere(ctx context.Context, m *model.MatiereModel) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "Matière déjà existante")
}

func (r *Repository) ListMatieres(ctx context.Context) ([]model.MatiereModel, error) {
	var out []model.MatiereModel
	err := r.DB.WithContext(ctx).Order("nom_matiere ASC").Find(&out).Error
	return out, apperr.FromDB(err, "", "")
}

func (r *Repository) GetMatiere(ctx context.Context, id uint) (*model.MatiereModel, error) {
	var m model.MatiereModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Matière introuvable", "")
	}
	return &m, nil
}

/* ===== ConcoursFiliere ===== */

// AddFiliere menautkan filière ke concours. Pasangan duplikat → Conflict.
func (r *Repository) AddFiliere(ctx context.Context, m *model.ConcoursFiliereModel) error {
	if _, err := r.GetConcours(ctx, m.ConcoursID); err != nil {
		return err
	}
	if _, err := r.GetFiliere(ctx, m.FiliereID); err != nil {
		return err
	}
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.ConcoursFiliereModel{}).
		Where("concours_id = ? AND filiere_id = ?", m.ConcoursID, m.FiliereID).
		Count(&n).Error; err != nil {
		return apperr.FromDB(err, "", "")
	}
	if n > 0 {
		return apperr.Conflict("Cette filière est déjà associée à ce concours")
	}
	// unique index tetap jadi penjaga terakhir saat race
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "Cette filière est déjà associée à ce concours")
}

func (r *Repository) ListFilieresByConcours(ctx context.Context, concoursID uint) ([]dto.ConcoursFiliereRow, error) {
	var out []dto.ConcoursFiliereRow
	err := r.DB.WithContext(ctx).
		Table("concours_filieres cf").
		Select("cf.filiere_id, f.nomfil AS nom, cf.places_disponibles").
		Joins("JOIN filieres f ON f.id = cf.filiere_id").
		Where("cf.concours_id = ?", concoursID).
		Order("f.nomfil ASC").
		Scan(&out).Error
	return out, apperr.FromDB(err, "", "")
}

// HasFiliere: apakah filière ditawarkan pada concours.
func (r *Repository) HasFiliere(ctx context.Context, concoursID, filiereID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ConcoursFiliereModel{}).
		Where("concours_id = ? AND filiere_id = ?", concoursID, filiereID).
		Count(&n).Error
	if err != nil {
		return false, apperr.FromDB(err, "", "")
	}
	return n > 0, nil
}

func (r *Repository) RemoveFiliere(ctx context.Context, concoursID, filiereID uint) error {
	res := r.DB.WithContext(ctx).
		Where("concours_id = ? AND filiere_id = ?", concoursID, filiereID).
		Delete(&model.ConcoursFiliereModel{})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Association concours/filière introuvable")
	}
	return nil
}

/* ===== FiliereMatiere ===== */

func (r *Repository) AddMatiere(ctx context.Context, m *model.FiliereMatiereModel) error {
	if _, err := r.GetFiliere(ctx, m.FiliereID); err != nil {
		return err
	}
	if _, err := r.GetMatiere(ctx, m.MatiereID); err != nil {
		return err
	}
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.FiliereMatiereModel{}).
		Where("filiere_id = ? AND matiere_id = ?", m.FiliereID, m.MatiereID).
		Count(&n).Error; err != nil {
		return apperr.FromDB(err, "", "")
	}
	if n > 0 {
		return apperr.Conflict("Cette matière est déjà associée à cette filière")
	}
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "Cette matière est déjà associée à cette filière")
}

func (r *Repository) ListMatieresByFiliere(ctx context.Context, filiereID uint) ([]dto.FiliereMatiereRow, error) {
	var out []dto.FiliereMatiereRow
	err := r.DB.WithContext(ctx).
		Table("filiere_matieres fm").
		Select("fm.matiere_id, m.nom_matiere AS nom, fm.coefficient, fm.obligatoire").
		Joins("JOIN matieres m ON m.id = fm.matiere_id").
		Where("fm.filiere_id = ?", filiereID).
		Order("m.nom_matiere ASC").
		Scan(&out).Error
	return out, apperr.FromDB(err, "", "")
}

func (r *Repository) RemoveMatiere(ctx context.Context, filiereID, matiereID uint) error {
	res := r.DB.WithContext(ctx).
		Where("filiere_id = ? AND matiere_id = ?", filiereID, matiereID).
		Delete(&model.FiliereMatiereModel{})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Association filière/matière introuvable")
	}
	return nil
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"gabconcours_backend/internals/features/administration/admin_actions/dto"
	"gabconcours_backend/internals/features/administration/admin_actions/model"
	"gabconcours_backend/internals/features/administration/admin_actions/repository"
)

type Service struct {
	Repo *repository.Repository
	Log  zerolog.Logger
}

func New(repo *repository.Repository, log zerolog.Logger) *Service {
	return &Service{Repo: repo, Log: log}
}

// RecordBestEffort: kegagalan audit hanya di-log, tidak membatalkan aksi utama.
// Dipakai untuk aksi yang tidak punya transaksi sendiri.
func (s *Service) RecordBestEffort(ctx context.Context, e dto.Entry) {
	if _, err := s.Repo.Record(ctx, e); err != nil {
		s.Log.Error().Err(err).
			Uint("admin_id", e.AdminID).
			Str("action_type", e.ActionType).
			Msg("audit record failed")
	}
}

// AddNote: admin menambahkan catatan pada candidat → ajout_note.
func (s *Service) AddNote(ctx context.Context, adminID uint, req dto.AddNoteRequest, ip string) (*model.AdminActionModel, error) {
	return s.Repo.Record(ctx, dto.Entry{
		AdminID:        adminID,
		ActionType:     model.ActionAjoutNote,
		EntityType:     "candidat",
		CandidatNupcan: req.CandidatNupcan,
		Description:    req.Note,
		IPAddress:      ip,
	})
}

var exportHeader = []any{"ID", "Date", "Admin", "Action", "Entité", "ID entité", "NUPCAN", "Description", "IP"}

// ExportXLSX menulis hasil Query ke workbook satu sheet.
func (s *Service) ExportXLSX(ctx context.Context, f dto.Filter) ([]byte, error) {
	rows, err := s.Repo.QueryWithAdmin(ctx, f)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Actions"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := file.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, a := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		var entityID, nupcan, ip any
		if a.EntityID != nil {
			entityID = *a.EntityID
		}
		if a.CandidatNupcan != nil {
			nupcan = *a.CandidatNupcan
		}
		if a.IPAddress != nil {
			ip = *a.IPAddress
		}
		row := []any{
			a.ID,
			a.CreatedAt.In(s.Repo.Loc).Format(time.DateTime),
			fmt.Sprintf("%s %s", a.AdminPrenom, a.AdminNom),
			a.ActionType,
			a.EntityType,
			entityID,
			nupcan,
			a.Description,
			ip,
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = file.SetColWidth(sheet, "B", "B", 20)
	_ = file.SetColWidth(sheet, "H", "H", 60)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

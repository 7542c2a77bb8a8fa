package importer

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

// Creator records one reconciliation.
type Creator interface {
	Create(ctx context.Context, params reconciliation.CreateParams) (*reconciliation.Reconciliation, error)
}

type Service struct {
	recs Creator
}

func NewService(recs Creator) *Service {
	return &Service{recs: recs}
}

type Options struct {
	CreatedBy   uuid.UUID
	BranchScope *uuid.UUID
}

type Created struct {
	Line         int
	ID           uuid.UUID
	SerialNumber string
}

type RowError struct {
	Line    int
	Message string
}

type Result struct {
	Profile string
	Charset string
	Created []Created
	Errors  []RowError
}

// Import reads a sheet and records each row independently. A failing row is
// reported and does not stop the others.
func (s *Service) Import(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	sheet, err := Parse(r)
	if err != nil {
		return nil, err
	}

	res := &Result{Profile: sheet.Profile, Charset: sheet.Charset}

	for _, row := range sheet.Rows {
		if row.Err != nil {
			res.Errors = append(res.Errors, RowError{Line: row.Line, Message: row.Err.Error()})
			continue
		}

		rec, err := s.recs.Create(ctx, reconciliation.CreateParams{
			CashierID:   row.CashierID,
			Date:        row.Date,
			Input:       row.Input,
			Notes:       row.Notes,
			CreatedBy:   opts.CreatedBy,
			BranchScope: opts.BranchScope,
		})
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: row.Line, Message: err.Error()})
			continue
		}

		res.Created = append(res.Created, Created{Line: row.Line, ID: rec.ID, SerialNumber: rec.SerialNumber})
	}

	return res, nil
}

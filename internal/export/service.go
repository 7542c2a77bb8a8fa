// Package export renders reconciliations and imprests as CSV, Excel and PDF
// reports.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/imprest"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

type ReconciliationLister interface {
	List(ctx context.Context, filter reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error)
}

type ImprestLister interface {
	List(ctx context.Context, filter imprest.ListFilter) ([]*imprest.Imprest, error)
}

type Filter struct {
	BranchID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

type Service struct {
	recs     ReconciliationLister
	imprests ImprestLister
}

func NewService(recs ReconciliationLister, imprests ImprestLister) *Service {
	return &Service{recs: recs, imprests: imprests}
}

func (s *Service) listReconciliations(ctx context.Context, filter Filter) ([]*reconciliation.Reconciliation, error) {
	return s.recs.List(ctx, reconciliation.ListFilter{
		BranchID:  filter.BranchID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
}

func (s *Service) listImprests(ctx context.Context, filter Filter) ([]*imprest.Imprest, error) {
	return s.imprests.List(ctx, imprest.ListFilter{
		BranchID:  filter.BranchID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
}

func (s *Service) Reconciliations(ctx context.Context, filter Filter) (*Table, error) {
	recs, err := s.listReconciliations(ctx, filter)
	if err != nil {
		return nil, err
	}

	return ReconciliationTable(recs), nil
}

func (s *Service) Imprests(ctx context.Context, filter Filter) (*Table, error) {
	imps, err := s.listImprests(ctx, filter)
	if err != nil {
		return nil, err
	}

	return ImprestTable(imps), nil
}

type file struct {
	name string
	data []byte
}

func (s *Service) render(ctx context.Context, filter Filter, formats []Format) ([]file, error) {
	recs, err := s.listReconciliations(ctx, filter)
	if err != nil {
		return nil, err
	}

	imps, err := s.listImprests(ctx, filter)
	if err != nil {
		return nil, err
	}

	tables := []struct {
		base  string
		table *Table
	}{
		{"reconciliations", ReconciliationTable(recs)},
		{"imprests", ImprestTable(imps)},
	}

	files := make([]file, 0, len(tables)*len(formats)+1)

	for _, t := range tables {
		for _, f := range formats {
			var buf bytes.Buffer
			if err := Write(&buf, f, t.table); err != nil {
				return nil, fmt.Errorf("rendering %s.%s: %w", t.base, f, err)
			}

			files = append(files, file{name: t.base + "." + string(f), data: buf.Bytes()})
		}
	}

	files = append(files, file{name: "summary.txt", data: []byte(Summary(recs, imps))})

	return files, nil
}

// Bundle writes a zip with every report in every format plus a summary.
func (s *Service) Bundle(ctx context.Context, filter Filter, w io.Writer) error {
	files, err := s.render(ctx, filter, Formats)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	for _, f := range files {
		zf, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("adding %s: %w", f.name, err)
		}

		if _, err := zf.Write(f.data); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	return zw.Close()
}

// ToDir writes the reports to dir and returns the paths written.
func (s *Service) ToDir(ctx context.Context, filter Filter, dir string, formats ...Format) ([]string, error) {
	if len(formats) == 0 {
		formats = Formats
	}

	files, err := s.render(ctx, filter, formats)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	paths := make([]string, 0, len(files))

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}

package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/export"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
)

type Handler struct {
	svc   *export.Service
	audit guard.Auditor
}

func NewHandler(svc *export.Service, auditor guard.Auditor) *Handler {
	return &Handler{svc: svc, audit: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/reconciliations", h.table("reconciliations", h.svc.Reconciliations))
	r.Get("/imprests", h.table("imprests", h.svc.Imprests))
	r.Get("/bundle", h.bundle)
}

func filterFrom(r *http.Request) (export.Filter, error) {
	var (
		f   export.Filter
		err error
	)

	if f.BranchID, err = respond.QueryID(r, "branch_id"); err != nil {
		return f, err
	}

	if f.StartDate, err = respond.QueryDate(r, "start_date"); err != nil {
		return f, err
	}

	if f.EndDate, err = respond.QueryDate(r, "end_date"); err != nil {
		return f, err
	}

	f.BranchID = guard.Caller(r).ScopeBranch(f.BranchID)

	return f, nil
}

type tableFunc func(ctx context.Context, filter export.Filter) (*export.Table, error)

func (h *Handler) table(base string, load tableFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := export.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter, err := filterFrom(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		t, err := load(r.Context(), filter)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, format, t); err != nil {
			respond.Error(w, r, err)
			return
		}

		h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleExport, "EXPORT",
			fmt.Sprintf("%s as %s, %d rows", base, format, len(t.Rows))))

		respond.Attachment(w, format.ContentType(),
			fmt.Sprintf("%s_%s.%s", base, time.Now().Format("20060102"), format))

		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("failed to write export", "error", err)
		}
	}
}

func (h *Handler) bundle(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFrom(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Bundle(r.Context(), filter, &buf); err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleExport, "EXPORT", "bundle"))

	respond.Attachment(w, "application/zip", fmt.Sprintf("export_%s.zip", time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write zip", "error", err)
	}
}

package importcsv

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	"github.com/MrJamesThe3rd/findules/internal/importer"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

const maxUpload = 10 << 20

type Handler struct {
	svc   *importer.Service
	audit guard.Auditor
}

func NewHandler(svc *importer.Service, auditor guard.Auditor) *Handler {
	return &Handler{svc: svc, audit: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/reconciliations", h.importReconciliations)
}

type createdResponse struct {
	Line         int       `json:"line"`
	ID           uuid.UUID `json:"id"`
	SerialNumber string    `json:"serial_number"`
}

type rowErrorResponse struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type importResponse struct {
	Profile  string             `json:"profile"`
	Charset  string             `json:"charset"`
	Imported int                `json:"imported"`
	Created  []createdResponse  `json:"created"`
	Errors   []rowErrorResponse `json:"errors"`
}

func (h *Handler) importReconciliations(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Error(w, r, apperr.Validation("failed to parse form: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, apperr.Validation("file field is required"))
		return
	}
	defer file.Close()

	caller := guard.Caller(r)

	opts := importer.Options{CreatedBy: caller.UserID}
	if caller.Role != user.RoleManager {
		if caller.BranchID == nil {
			respond.Error(w, r, apperr.Forbidden("no branch assigned"))
			return
		}

		opts.BranchScope = caller.BranchID
	}

	res, err := h.svc.Import(r.Context(), file, opts)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := importResponse{
		Profile:  res.Profile,
		Charset:  res.Charset,
		Imported: len(res.Created),
		Created:  make([]createdResponse, 0, len(res.Created)),
		Errors:   make([]rowErrorResponse, 0, len(res.Errors)),
	}

	for _, c := range res.Created {
		resp.Created = append(resp.Created, createdResponse{Line: c.Line, ID: c.ID, SerialNumber: c.SerialNumber})
	}

	for _, e := range res.Errors {
		resp.Errors = append(resp.Errors, rowErrorResponse{Line: e.Line, Error: e.Message})
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleImport, "IMPORT",
		fmt.Sprintf("%d reconciliations imported, %d rows rejected", len(res.Created), len(res.Errors))))

	status := http.StatusCreated
	if len(res.Created) == 0 && len(res.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}

	respond.JSON(w, status, resp)
}

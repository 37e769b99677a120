package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/auth"
	"github.com/frahmantamala/mediscript/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Open(ctx context.Context, u *auth.User, patientID int64) (View, error)
	Current(ctx context.Context, u *auth.User) (View, error)
	Close(ctx context.Context, u *auth.User) error
	UpdateContent(ctx context.Context, u *auth.User, content string) (View, error)
	ApplyTemplate(ctx context.Context, u *auth.User, templateID string) (View, error)
	Format(ctx context.Context, u *auth.User, dto FormatDTO) (View, error)
	ExamForm(ctx context.Context, u *auth.User) (ExamForm, error)
	UpdateExamForm(ctx context.Context, u *auth.User, form ExamForm) (ExamForm, error)
	InsertExamEntry(ctx context.Context, u *auth.User, data ExamData) (View, error)
	SetSignature(ctx context.Context, u *auth.User, dto SignatureDTO) (View, error)
	SaveVersion(ctx context.Context, u *auth.User) (Version, error)
	Versions(ctx context.Context, u *auth.User) ([]Version, error)
	Revert(ctx context.Context, u *auth.User, versionID string, confirm bool) (View, error)
	Formalize(ctx context.Context, u *auth.User) (View, error)
	SuggestDiagnosis(ctx context.Context, u *auth.User, symptoms string) (string, error)
	Export(ctx context.Context, u *auth.User) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

var errInvalidBody = internal.NewValidationError("invalid request body", internal.ErrCodeInvalidFormat)

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
	}
	return u, ok
}

// decode reads a JSON body into dst, answering 400 itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := h.DecodeJSON(r, dst); err != nil {
		h.HandleServiceError(w, errInvalidBody.WithCause(err))
		return false
	}
	return true
}

func (h *Handler) writeView(w http.ResponseWriter, status int, view View, err error) {
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, status, view)
}

// OpenSession handles POST /reports/session
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	var dto OpenSessionDTO
	if !h.decode(w, r, &dto) {
		return
	}
	if dto.PatientID <= 0 {
		h.HandleServiceError(w, internal.NewValidationFieldError("patient_id", "patient_id is required", internal.ErrCodeValidationFailed))
		return
	}

	view, err := h.Service.Open(r.Context(), u, dto.PatientID)
	h.writeView(w, http.StatusCreated, view, err)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	view, err := h.Service.Current(r.Context(), u)
	h.writeView(w, http.StatusOK, view, err)
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	if err := h.Service.Close(r.Context(), u); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	var dto ContentDTO
	if !h.decode(w, r, &dto) {
		return
	}
	view, err := h.Service.UpdateContent(r.Context(), u, dto.Content)
	h.writeView(w, http.StatusOK, view, err)
}

func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	var dto ApplyTemplateDTO
	if !h.decode(w, r, &dto) {
		return
	}
	view, err := h.Service.ApplyTemplate(r.Context(), u, dto.TemplateID)
	h.writeView(w, http.StatusOK, view, err)
}

func (h *Handler) Format(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	var dto FormatDTO
	if !h.decode(w, r, &dto) {
		return
	}
	view, err := h.Service.Format(r.Context(), u, dto)
	h.writeView(w, http.StatusOK, view, err)
}

func (h *Handler) GetExamForm(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	form, err := h.Service.ExamForm(r.Context(), u)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, form)
}

func (h *Handler) UpdateExamForm(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	var form ExamForm
	if !h.decode(w, r, &form) {
		return
	}
	updated, err := h.Service.UpdateExamForm(r.Context(), u, form)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) InsertExamEntry(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	var data ExamData
	if !h.decode(w, r, &data) {
		return
	}
	view, err := h.Service.InsertExamEntry(r.Context(), u, data)
	h.writeView(w, http.StatusOK, view, err)
}

func (h *Handler) SetSignature(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	var dto SignatureDTO
	if !h.decode(w, r, &dto) {
		return
	}
	view, err := h.Service.SetSignature(r.Context(), u, dto)
	h.writeView(w, http.StatusOK, view, err)
}

func (h *Handler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	v, err := h.Service.SaveVersion(r.Context(), u)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	versions, err := h.Service.Versions(r.Context(), u)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, VersionsResponse{Versions: versions})
}

func (h *Handler) RevertVersion(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	var dto RevertDTO
	if !h.decode(w, r, &dto) {
		return
	}
	view, err := h.Service.Revert(r.Context(), u, chi.URLParam(r, "versionID"), dto.Confirm)
	h.writeView(w, http.StatusOK, view, err)
}

func (h *Handler) Formalize(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	view, err := h.Service.Formalize(r.Context(), u)
	h.writeView(w, http.StatusOK, view, err)
}

func (h *Handler) SuggestDiagnosis(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	var dto SuggestDiagnosisDTO
	if !h.decode(w, r, &dto) {
		return
	}
	out, err := h.Service.SuggestDiagnosis(r.Context(), u, dto.Symptoms)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SuggestionResponse{HTML: out})
}

// Export handles GET /reports/session/export and answers with text/html.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	u, ok := h.user(w, r)
	if !ok {
		return
	}
	doc, err := h.Service.Export(r.Context(), u)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteHTML(w, http.StatusOK, doc)
}

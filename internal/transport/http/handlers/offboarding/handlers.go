package offboardinghandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/directory"
	"hradmin/internal/domain/offboarding"
	"hradmin/internal/platform/pdf"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Service   *offboarding.Service
	Directory *directory.Store
	Renderer  *pdf.Renderer
}

func NewHandler(service *offboarding.Service, dir *directory.Store, renderer *pdf.Renderer) *Handler {
	return &Handler{Service: service, Directory: dir, Renderer: renderer}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/offboarding", func(r chi.Router) {
		r.Get("/download-dummy/{key}", h.handleDownloadDummy)

		r.With(middleware.RequirePermission(auth.PermOffboardingWrite)).Post("/initiate", h.handleInitiate)
		r.With(middleware.RequirePermission(auth.PermOffboardingRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermOffboardingRead)).Get("/{id}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermOffboardingWrite)).Put("/{id}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermOffboardingFinalize)).Post("/finalize/{id}", h.handleFinalize)
		r.With(middleware.RequirePermission(auth.PermOffboardingWrite)).Post("/{id}/generate-document", h.handleGenerateDocument)
		r.With(middleware.RequirePermission(auth.PermOffboardingWrite)).Post("/{id}/send-document", h.handleSendDocument)
	})
}

type initiatePayload struct {
	EmployeeID       string   `json:"employeeId"`
	ExitType         string   `json:"exitType"`
	ExitReason       string   `json:"exitReason"`
	ResignationDate  string   `json:"resignationDate"`
	LastWorkingDate  string   `json:"lastWorkingDate"`
	NoticePeriodDays int      `json:"noticePeriodDays"`
	Remarks          string   `json:"remarks"`
	CustomSections   []string `json:"customSections"`
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload initiatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Required("exitType", payload.ExitType, "exitType is required")
	if payload.ExitType != "" && !offboarding.ExitType(payload.ExitType).Valid() {
		v.Add("exitType", "must be one of Resignation, Termination, Retirement, Death")
	}
	var resignationDate, lastWorkingDate *time.Time
	if payload.ResignationDate != "" {
		if parsed, ok := v.Date("resignationDate", payload.ResignationDate); ok {
			resignationDate = &parsed
		}
	}
	if payload.LastWorkingDate != "" {
		if parsed, ok := v.Date("lastWorkingDate", payload.LastWorkingDate); ok {
			lastWorkingDate = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.Initiate(r.Context(), offboarding.InitiateRequest{
		EmployeeID:       payload.EmployeeID,
		ExitType:         offboarding.ExitType(payload.ExitType),
		ExitReason:       payload.ExitReason,
		ResignationDate:  resignationDate,
		LastWorkingDate:  lastWorkingDate,
		NoticePeriodDays: payload.NoticePeriodDays,
		Remarks:          payload.Remarks,
		CustomSections:   payload.CustomSections,
	}, user.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	// An employee holds at most one record, so the employeeId filter resolves
	// directly instead of scanning.
	if employeeID := r.URL.Query().Get("employeeId"); employeeID != "" {
		rec, err := h.Service.GetByEmployee(r.Context(), employeeID)
		if errors.Is(err, offboarding.ErrNotFound) {
			api.Success(w, map[string]any{
				"records": []*offboarding.ExitRecord{},
				"total":   0,
			}, middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}
		api.Success(w, map[string]any{
			"records": []*offboarding.ExitRecord{rec},
			"total":   1,
		}, middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	filter := offboarding.Filter{
		Status:   r.URL.Query().Get("status"),
		ExitType: r.URL.Query().Get("exitType"),
	}
	result, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"records": result.Records,
		"total":   result.Total,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

type updatePayload struct {
	Status            *string                               `json:"status"`
	ExitReason        *string                               `json:"exitReason"`
	ResignationDate   *string                               `json:"resignationDate"`
	LastWorkingDate   *string                               `json:"lastWorkingDate"`
	NoticePeriodDays  *int                                  `json:"noticePeriodDays"`
	Remarks           *string                               `json:"remarks"`
	Clearance         map[string]offboarding.ClearancePatch `json:"clearance"`
	AddCustomSections []string                              `json:"addCustomSections"`
	ExitInterview     *offboarding.InterviewPatch           `json:"exitInterview"`
	Settlement        *offboarding.SettlementPatch          `json:"settlement"`
	Documents         map[string]offboarding.DocumentPatch  `json:"documents"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	req := offboarding.UpdateRequest{
		ExitReason:        payload.ExitReason,
		NoticePeriodDays:  payload.NoticePeriodDays,
		Remarks:           payload.Remarks,
		Clearance:         payload.Clearance,
		AddCustomSections: payload.AddCustomSections,
		ExitInterview:     payload.ExitInterview,
		Settlement:        payload.Settlement,
		Documents:         payload.Documents,
	}
	if payload.Status != nil {
		status := offboarding.Status(*payload.Status)
		if !status.Valid() {
			v.Add("status", "unknown status")
		}
		req.Status = &status
	}
	if payload.ResignationDate != nil {
		if parsed, ok := v.Date("resignationDate", *payload.ResignationDate); ok {
			req.ResignationDate = &parsed
		}
	}
	if payload.LastWorkingDate != nil {
		if parsed, ok := v.Date("lastWorkingDate", *payload.LastWorkingDate); ok {
			req.LastWorkingDate = &parsed
		}
	}
	for key, patch := range payload.Clearance {
		if patch.Status != nil && !patch.Status.Valid() {
			v.Add("clearance."+key+".status", "must be one of Pending, Cleared, Rejected, OnHold")
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), req, user.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.Finalize(r.Context(), chi.URLParam(r, "id"), user.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

type documentPayload struct {
	DocumentType string `json:"documentType"`
}

func (h *Handler) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload documentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.GenerateDocument(r.Context(), chi.URLParam(r, "id"), payload.DocumentType, user.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSendDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload documentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.SendDocument(r.Context(), chi.URLParam(r, "id"), payload.DocumentType, user.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

// handleDownloadDummy streams a placeholder printable document. The link is
// what generate-document stores on the record; it stays reachable without a
// session so it can be followed from a delivered email.
func (h *Handler) handleDownloadDummy(w http.ResponseWriter, r *http.Request) {
	key := offboarding.DocumentKey(chi.URLParam(r, "key"))
	label := offboarding.DocumentLabel(key)
	if label == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_document_type", "unrecognized document key", middleware.GetRequestID(r.Context()))
		return
	}

	data := pdf.DocumentData{IssuedOn: time.Now()}
	if recordID := r.URL.Query().Get("record"); recordID != "" {
		if rec, err := h.Service.Get(r.Context(), recordID); err == nil {
			data.LastWorkingDay = rec.LastWorkingDate
			if emp, err := h.Directory.FindByID(r.Context(), rec.EmployeeID); err == nil {
				data.EmployeeName = emp.DisplayName()
				data.EmployeeNumber = emp.EmployeeNumber
			}
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(key)+".pdf"))
	if err := h.Renderer.Render(w, key, data); err != nil {
		api.Fail(w, http.StatusInternalServerError, "render_failed", "failed to render document", middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, offboarding.ErrNotFound), errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "exit record not found", requestID)
	case errors.Is(err, offboarding.ErrInvalidOrInactiveUser):
		api.Fail(w, http.StatusBadRequest, "invalid_or_inactive_user", "employee missing or already inactive", requestID)
	case errors.Is(err, offboarding.ErrDuplicateRecord):
		api.Fail(w, http.StatusConflict, "duplicate_record", "an exit record already exists for this employee", requestID)
	case errors.Is(err, offboarding.ErrInvalidDocumentType):
		api.Fail(w, http.StatusBadRequest, "invalid_document_type", "unrecognized document type", requestID)
	case errors.Is(err, offboarding.ErrDocumentNotGenerated):
		api.Fail(w, http.StatusConflict, "document_not_generated", "document must be generated before sending", requestID)
	case errors.Is(err, offboarding.ErrDispatchFailed):
		api.Fail(w, http.StatusBadGateway, "dispatch_failed", "document delivery failed; the record was not modified", requestID)
	case errors.Is(err, offboarding.ErrAlreadyArchived):
		api.Fail(w, http.StatusConflict, "already_archived", "exit record is archived and closed", requestID)
	case errors.Is(err, offboarding.ErrInvalidTransition):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error(), requestID)
	case errors.Is(err, offboarding.ErrVersionConflict):
		api.Fail(w, http.StatusConflict, "version_conflict", "record was modified concurrently, retry", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected failure", requestID)
	}
}

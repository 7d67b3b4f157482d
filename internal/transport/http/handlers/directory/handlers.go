package directoryhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/directory"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Store *directory.Store
}

func NewHandler(store *directory.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/{id}", h.handleGetEmployee)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/", h.handleCreateEmployee)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Put("/{id}", h.handleUpdateEmployee)
	})
	r.Route("/branches", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead)).Get("/", h.handleListBranches)
		r.With(middleware.RequirePermission(auth.PermOrgWrite)).Post("/", h.handleCreateBranch)
		r.With(middleware.RequirePermission(auth.PermOrgWrite)).Delete("/{id}", h.handleDeleteBranch)
	})
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead)).Get("/", h.handleListDepartments)
		r.With(middleware.RequirePermission(auth.PermOrgWrite)).Post("/", h.handleCreateDepartment)
		r.With(middleware.RequirePermission(auth.PermOrgWrite)).Delete("/{id}", h.handleDeleteDepartment)
	})
	r.Route("/designations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead)).Get("/", h.handleListDesignations)
		r.With(middleware.RequirePermission(auth.PermOrgWrite)).Post("/", h.handleCreateDesignation)
		r.With(middleware.RequirePermission(auth.PermOrgWrite)).Delete("/{id}", h.handleDeleteDesignation)
	})
}

type employeePayload struct {
	EmployeeNumber string `json:"employeeNumber"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	BranchID       string `json:"branchId"`
	DepartmentID   string `json:"departmentId"`
	DesignationID  string `json:"designationId"`
	ManagerID      string `json:"managerId"`
	DateOfJoining  string `json:"dateOfJoining"`
	Status         string `json:"status"`
}

func (p employeePayload) toEmployee(v *shared.Validator) directory.Employee {
	v.Required("employeeNumber", p.EmployeeNumber, "employeeNumber is required")
	v.Required("firstName", p.FirstName, "firstName is required")
	v.Required("email", p.Email, "email is required")
	v.Enum("status", p.Status, []string{directory.EmployeeActive, directory.EmployeeInactive}, "must be Active or Inactive")

	var joined *time.Time
	if p.DateOfJoining != "" {
		if parsed, ok := v.Date("dateOfJoining", p.DateOfJoining); ok {
			joined = &parsed
		}
	}
	return directory.Employee{
		EmployeeNumber: p.EmployeeNumber,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Phone:          p.Phone,
		BranchID:       p.BranchID,
		DepartmentID:   p.DepartmentID,
		DesignationID:  p.DesignationID,
		ManagerID:      p.ManagerID,
		DateOfJoining:  joined,
		Status:         p.Status,
	}
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	filter := directory.EmployeeFilter{
		Status:       r.URL.Query().Get("status"),
		DepartmentID: r.URL.Query().Get("departmentId"),
		BranchID:     r.URL.Query().Get("branchId"),
	}
	employees, total, err := h.Store.ListEmployees(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"employees": employees, "total": total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	emp := payload.toEmployee(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateEmployee(r.Context(), emp)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	emp := payload.toEmployee(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	emp.ID = chi.URLParam(r, "id")

	if err := h.Store.UpdateEmployee(r.Context(), emp); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": emp.ID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Store.ListBranches(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "branch_list_failed", "failed to list branches", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, branches, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	var payload directory.Branch
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateBranch(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "branch_create_failed", "failed to create branch", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteBranch(w http.ResponseWriter, r *http.Request) {
	h.deleteOrg(w, r, h.Store.DeleteBranch, "branch")
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload directory.Department
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateDepartment(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_create_failed", "failed to create department", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	h.deleteOrg(w, r, h.Store.DeleteDepartment, "department")
}

func (h *Handler) handleListDesignations(w http.ResponseWriter, r *http.Request) {
	designations, err := h.Store.ListDesignations(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "designation_list_failed", "failed to list designations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, designations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDesignation(w http.ResponseWriter, r *http.Request) {
	var payload directory.Designation
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateDesignation(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "designation_create_failed", "failed to create designation", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDesignation(w http.ResponseWriter, r *http.Request) {
	h.deleteOrg(w, r, h.Store.DeleteDesignation, "designation")
}

func (h *Handler) deleteOrg(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id string) error, label string) {
	if err := del(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", label+" not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, label+"_delete_failed", "failed to delete "+label, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": chi.URLParam(r, "id")}, middleware.GetRequestID(r.Context()))
}

package offboardinghandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/directory"
	"hradmin/internal/domain/offboarding"
	"hradmin/internal/platform/pdf"
	offboardinghandler "hradmin/internal/transport/http/handlers/offboarding"
	"hradmin/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type memDirectory struct {
	employees map[string]directory.Employee
}

func (d *memDirectory) FindByID(_ context.Context, id string) (directory.Employee, error) {
	emp, ok := d.employees[id]
	if !ok {
		return directory.Employee{}, directory.ErrNotFound
	}
	return emp, nil
}

type memStore struct {
	records    map[string]*offboarding.ExitRecord
	byEmployee map[string]string
	dir        *memDirectory
	nextID     int
}

func (s *memStore) clone(rec *offboarding.ExitRecord) *offboarding.ExitRecord {
	payload, _ := json.Marshal(rec)
	var out offboarding.ExitRecord
	_ = json.Unmarshal(payload, &out)
	return &out
}

func (s *memStore) Create(_ context.Context, rec *offboarding.ExitRecord) error {
	if _, ok := s.byEmployee[rec.EmployeeID]; ok {
		return offboarding.ErrDuplicateRecord
	}
	s.nextID++
	rec.ID = fmt.Sprintf("rec-%d", s.nextID)
	rec.Version = 1
	s.records[rec.ID] = s.clone(rec)
	s.byEmployee[rec.EmployeeID] = rec.ID
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*offboarding.ExitRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, offboarding.ErrNotFound
	}
	return s.clone(rec), nil
}

func (s *memStore) GetByEmployee(_ context.Context, employeeID string) (*offboarding.ExitRecord, error) {
	id, ok := s.byEmployee[employeeID]
	if !ok {
		return nil, offboarding.ErrNotFound
	}
	return s.clone(s.records[id]), nil
}

func (s *memStore) List(_ context.Context, filter offboarding.Filter, limit, offset int) (offboarding.ListResult, error) {
	result := offboarding.ListResult{}
	for _, rec := range s.records {
		if filter.Status != "" && string(rec.Status) != filter.Status {
			continue
		}
		if filter.ExitType != "" && string(rec.ExitType) != filter.ExitType {
			continue
		}
		result.Records = append(result.Records, s.clone(rec))
		result.Total++
	}
	return result, nil
}

func (s *memStore) Update(_ context.Context, rec *offboarding.ExitRecord) error {
	stored, ok := s.records[rec.ID]
	if !ok {
		return offboarding.ErrNotFound
	}
	if stored.Version != rec.Version {
		return offboarding.ErrVersionConflict
	}
	saved := s.clone(rec)
	saved.Version++
	s.records[rec.ID] = saved
	rec.Version++
	return nil
}

func (s *memStore) Finalize(ctx context.Context, rec *offboarding.ExitRecord) error {
	emp, ok := s.dir.employees[rec.EmployeeID]
	if !ok {
		return offboarding.ErrInvalidOrInactiveUser
	}
	if err := s.Update(ctx, rec); err != nil {
		return err
	}
	emp.Status = directory.EmployeeInactive
	emp.ExitDate = rec.LastWorkingDate
	s.dir.employees[rec.EmployeeID] = emp
	return nil
}

type stubDispatcher struct {
	err   error
	calls int
}

func (d *stubDispatcher) SendDocumentLink(_ context.Context, _, _, _, _ string) error {
	d.calls++
	return d.err
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore, *memDirectory, *stubDispatcher) {
	t.Helper()

	dir := &memDirectory{employees: map[string]directory.Employee{
		"emp-1": {
			ID:             "emp-1",
			EmployeeNumber: "E-001",
			FirstName:      "Asha",
			LastName:       "Verma",
			Email:          "asha@acme.test",
			Status:         directory.EmployeeActive,
		},
	}}
	store := &memStore{
		records:    map[string]*offboarding.ExitRecord{},
		byEmployee: map[string]string{},
		dir:        dir,
	}
	dispatcher := &stubDispatcher{}
	renderer := pdf.NewRenderer("http://hr.acme.test")

	svc := offboarding.NewService(store, dir, dispatcher, renderer)
	handler := offboardinghandler.NewHandler(svc, nil, renderer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(testSecret))
	r.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, store, dir, dispatcher
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "user-1", RoleName: role}, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return res.StatusCode, env
}

func decodeRecord(t *testing.T, env envelope) offboarding.ExitRecord {
	t.Helper()
	var rec offboarding.ExitRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		t.Fatalf("failed to decode record: %v", err)
	}
	return rec
}

func TestOffboardingJourney(t *testing.T) {
	ts, _, dir, dispatcher := newTestServer(t)
	token := tokenFor(t, auth.RoleHR)

	status, env := doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/initiate", token, map[string]any{
		"employeeId":      "emp-1",
		"exitType":        "Resignation",
		"exitReason":      "relocation",
		"lastWorkingDate": "2026-05-31",
	})
	if status != http.StatusCreated {
		t.Fatalf("initiate: expected 201, got %d (%+v)", status, env.Error)
	}
	rec := decodeRecord(t, env)
	if rec.Status != offboarding.StatusInitiated {
		t.Fatalf("expected Initiated, got %s", rec.Status)
	}
	if len(rec.AuditLog) != 0 {
		t.Fatalf("expected empty audit log, got %d entries", len(rec.AuditLog))
	}

	// Clearance update carries its audit entry.
	status, env = doJSON(t, ts, http.MethodPut, "/api/v1/offboarding/"+rec.ID, token, map[string]any{
		"status": "ClearancePending",
		"clearance": map[string]any{
			"itAssets": map[string]any{"status": "Cleared"},
		},
	})
	if status != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%+v)", status, env.Error)
	}
	updated := decodeRecord(t, env)
	if updated.Clearance.ITAssets.Status != offboarding.ClearanceCleared {
		t.Fatalf("expected itAssets Cleared, got %s", updated.Clearance.ITAssets.Status)
	}
	if len(updated.AuditLog) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(updated.AuditLog))
	}

	// Sending before generating is rejected and nothing is dispatched.
	status, env = doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/"+rec.ID+"/send-document", token, map[string]any{
		"documentType": "Relieving Letter",
	})
	if status != http.StatusConflict {
		t.Fatalf("send before generate: expected 409, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "document_not_generated" {
		t.Fatalf("expected document_not_generated, got %+v", env.Error)
	}
	if dispatcher.calls != 0 {
		t.Fatal("expected no dispatch attempt")
	}

	status, env = doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/"+rec.ID+"/generate-document", token, map[string]any{
		"documentType": "Relieving Letter",
	})
	if status != http.StatusOK {
		t.Fatalf("generate: expected 200, got %d (%+v)", status, env.Error)
	}
	generated := decodeRecord(t, env)
	doc := generated.Documents.Record(offboarding.DocRelievingLetter)
	if !doc.Generated || doc.Sent {
		t.Fatalf("expected generated and unsent, got %+v", doc)
	}
	if !strings.Contains(doc.URL, "/api/v1/offboarding/download-dummy/relievingLetter") {
		t.Fatalf("unexpected document url %q", doc.URL)
	}

	status, env = doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/"+rec.ID+"/send-document", token, map[string]any{
		"documentType": "Relieving Letter",
	})
	if status != http.StatusOK {
		t.Fatalf("send: expected 200, got %d (%+v)", status, env.Error)
	}
	sent := decodeRecord(t, env)
	if !sent.Documents.RelievingLetter.Sent {
		t.Fatal("expected document marked sent")
	}
	if dispatcher.calls != 1 {
		t.Fatalf("expected 1 dispatch, got %d", dispatcher.calls)
	}

	status, env = doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/finalize/"+rec.ID, token, nil)
	if status != http.StatusOK {
		t.Fatalf("finalize: expected 200, got %d (%+v)", status, env.Error)
	}
	finalized := decodeRecord(t, env)
	if finalized.Status != offboarding.StatusArchived {
		t.Fatalf("expected Archived, got %s", finalized.Status)
	}
	if dir.employees["emp-1"].Status != directory.EmployeeInactive {
		t.Fatalf("expected employee deactivated, got %s", dir.employees["emp-1"].Status)
	}

	// Archived records are closed to further mutation.
	status, env = doJSON(t, ts, http.MethodPut, "/api/v1/offboarding/"+rec.ID, token, map[string]any{
		"remarks": "late note",
	})
	if status != http.StatusConflict {
		t.Fatalf("update after archive: expected 409, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "already_archived" {
		t.Fatalf("expected already_archived, got %+v", env.Error)
	}
}

func TestInitiateDuplicateConflict(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	token := tokenFor(t, auth.RoleHR)

	payload := map[string]any{"employeeId": "emp-1", "exitType": "Resignation"}
	status, _ := doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/initiate", token, payload)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	status, env := doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/initiate", token, payload)
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "duplicate_record" {
		t.Fatalf("expected duplicate_record, got %+v", env.Error)
	}
}

func TestInitiateValidation(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	token := tokenFor(t, auth.RoleHR)

	status, env := doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/initiate", token, map[string]any{
		"employeeId": "emp-1",
		"exitType":   "Rage Quit",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid exit type, got %d (%+v)", status, env.Error)
	}
}

func TestGenerateUnknownDocumentType(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	token := tokenFor(t, auth.RoleHR)

	status, _ := doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/initiate", token, map[string]any{
		"employeeId": "emp-1", "exitType": "Resignation",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}

	status, env := doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/rec-1/generate-document", token, map[string]any{
		"documentType": "Payslip",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "invalid_document_type" {
		t.Fatalf("expected invalid_document_type, got %+v", env.Error)
	}
}

func TestListFilterByEmployee(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	token := tokenFor(t, auth.RoleHR)

	status, _ := doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/initiate", token, map[string]any{
		"employeeId": "emp-1", "exitType": "Resignation",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}

	var listing struct {
		Records []offboarding.ExitRecord `json:"records"`
		Total   int                      `json:"total"`
	}
	status, env := doJSON(t, ts, http.MethodGet, "/api/v1/offboarding/?employeeId=emp-1", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", status, env.Error)
	}
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if listing.Total != 1 || len(listing.Records) != 1 {
		t.Fatalf("expected one record, got total=%d records=%d", listing.Total, len(listing.Records))
	}
	if listing.Records[0].EmployeeID != "emp-1" {
		t.Fatalf("unexpected record %+v", listing.Records[0])
	}

	status, env = doJSON(t, ts, http.MethodGet, "/api/v1/offboarding/?employeeId=emp-2", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for unmatched filter, got %d", status)
	}
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if listing.Total != 0 || len(listing.Records) != 0 {
		t.Fatalf("expected empty listing, got total=%d records=%d", listing.Total, len(listing.Records))
	}
}

func TestGetUnknownRecord(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	token := tokenFor(t, auth.RoleHR)

	status, env := doJSON(t, ts, http.MethodGet, "/api/v1/offboarding/missing", token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "not_found" {
		t.Fatalf("expected not_found, got %+v", env.Error)
	}
}

func TestRoutesRequireAuth(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	status, _ := doJSON(t, ts, http.MethodGet, "/api/v1/offboarding/", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
}

func TestEmployeeRoleCannotInitiate(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	token := tokenFor(t, auth.RoleEmployee)

	status, _ := doJSON(t, ts, http.MethodPost, "/api/v1/offboarding/initiate", token, map[string]any{
		"employeeId": "emp-1", "exitType": "Resignation",
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for employee role, got %d", status)
	}
}

func TestDownloadDummyIsPublic(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	res, err := ts.Client().Get(ts.URL + "/api/v1/offboarding/download-dummy/relievingLetter")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 without a session, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
}

func TestDownloadDummyUnknownKey(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	res, err := ts.Client().Get(ts.URL + "/api/v1/offboarding/download-dummy/payslip")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

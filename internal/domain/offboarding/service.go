package offboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hradmin/internal/domain/directory"
)

const maxUpdateRetries = 3

type Service struct {
	Store      StoreAPI
	Directory  DirectoryAPI
	Dispatcher Dispatcher
	Renderer   Renderer

	// StrictTransitions turns on forward-only status validation. Off by
	// default: the observed contract lets any status follow any other.
	StrictTransitions bool
	DispatchTimeout   time.Duration

	Clock func() time.Time
}

func NewService(store StoreAPI, dir DirectoryAPI, dispatcher Dispatcher, renderer Renderer) *Service {
	return &Service{
		Store:           store,
		Directory:       dir,
		Dispatcher:      dispatcher,
		Renderer:        renderer,
		DispatchTimeout: 10 * time.Second,
		Clock:           time.Now,
	}
}

type InitiateRequest struct {
	EmployeeID       string
	ExitType         ExitType
	ExitReason       string
	ResignationDate  *time.Time
	LastWorkingDate  *time.Time
	NoticePeriodDays int
	Remarks          string
	CustomSections   []string
}

// Initiate creates the one exit record an employee may have. The employee
// must exist in the directory and not already be inactive.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest, actor string) (*ExitRecord, error) {
	emp, err := s.Directory.FindByID(ctx, req.EmployeeID)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, ErrInvalidOrInactiveUser
	}
	if err != nil {
		return nil, err
	}
	if emp.Status == directory.EmployeeInactive {
		return nil, ErrInvalidOrInactiveUser
	}

	now := s.Clock()
	rec := &ExitRecord{
		EmployeeID:       req.EmployeeID,
		Status:           StatusInitiated,
		ExitType:         req.ExitType,
		ExitReason:       req.ExitReason,
		ResignationDate:  req.ResignationDate,
		LastWorkingDate:  req.LastWorkingDate,
		NoticePeriodDays: req.NoticePeriodDays,
		Remarks:          req.Remarks,
		Clearance:        defaultClearance(),
		Settlement:       Settlement{Status: SettlementDraft},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, name := range req.CustomSections {
		rec.Clearance.Custom = append(rec.Clearance.Custom, CustomClearance{
			Name:             name,
			ClearanceSection: ClearanceSection{Status: ClearancePending},
		})
	}

	if err := s.Store.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ExitRecord, error) {
	return s.Store.Get(ctx, id)
}

// GetByEmployee resolves the single record an employee may have.
func (s *Service) GetByEmployee(ctx context.Context, employeeID string) (*ExitRecord, error) {
	return s.Store.GetByEmployee(ctx, employeeID)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) (ListResult, error) {
	return s.Store.List(ctx, filter, limit, offset)
}

type UpdateRequest struct {
	Status            *Status                   `json:"status,omitempty"`
	ExitReason        *string                   `json:"exitReason,omitempty"`
	ResignationDate   *time.Time                `json:"resignationDate,omitempty"`
	LastWorkingDate   *time.Time                `json:"lastWorkingDate,omitempty"`
	NoticePeriodDays  *int                      `json:"noticePeriodDays,omitempty"`
	Remarks           *string                   `json:"remarks,omitempty"`
	Clearance         map[string]ClearancePatch `json:"clearance,omitempty"`
	AddCustomSections []string                  `json:"addCustomSections,omitempty"`
	ExitInterview     *InterviewPatch           `json:"exitInterview,omitempty"`
	Settlement        *SettlementPatch          `json:"settlement,omitempty"`
	Documents         map[string]DocumentPatch  `json:"documents,omitempty"`
}

// Update applies a partial patch to the record under optimistic concurrency.
// Every observable change carries its audit entry in the same write.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest, actor string) (*ExitRecord, error) {
	return s.mutate(ctx, id, func(rec *ExitRecord) error {
		return s.applyUpdate(rec, req, actor)
	})
}

func (s *Service) applyUpdate(rec *ExitRecord, req UpdateRequest, actor string) error {
	if rec.Status == StatusArchived {
		return ErrAlreadyArchived
	}
	now := s.Clock()

	if req.Status != nil && *req.Status != rec.Status {
		if !req.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, *req.Status)
		}
		if s.StrictTransitions {
			if err := ValidateTransition(rec.Status, *req.Status); err != nil {
				return err
			}
		}
		old := rec.Status
		rec.Status = *req.Status
		rec.AuditLog = append(rec.AuditLog, newAuditEntry(
			ActionStatusChange,
			fmt.Sprintf("Status changed from %s to %s", old, rec.Status),
			actor,
			now,
		))
	}

	if req.ExitReason != nil {
		rec.ExitReason = *req.ExitReason
	}
	if req.ResignationDate != nil {
		rec.ResignationDate = req.ResignationDate
	}
	if req.LastWorkingDate != nil {
		rec.LastWorkingDate = req.LastWorkingDate
	}
	if req.NoticePeriodDays != nil {
		rec.NoticePeriodDays = *req.NoticePeriodDays
	}
	if req.Remarks != nil {
		rec.Remarks = *req.Remarks
	}

	for _, name := range req.AddCustomSections {
		if hasCustomSection(rec.Clearance.Custom, name) {
			continue
		}
		rec.Clearance.Custom = append(rec.Clearance.Custom, CustomClearance{
			Name:             name,
			ClearanceSection: ClearanceSection{Status: ClearancePending},
		})
	}

	s.applyClearancePatches(rec, req.Clearance, actor, now)

	if req.ExitInterview != nil {
		rec.ExitInterview = applyInterviewPatch(rec.ExitInterview, *req.ExitInterview)
	}
	if req.Settlement != nil {
		rec.Settlement = applySettlementPatch(rec.Settlement, *req.Settlement)
	}
	for key, patch := range req.Documents {
		docKey := DocumentKey(key)
		if _, ok := documentLabels[docKey]; !ok {
			continue
		}
		rec.Documents = rec.Documents.withRecord(docKey, applyDocumentPatch(rec.Documents.Record(docKey), patch))
	}
	return nil
}

// applyClearancePatches walks the fixed sections in canonical order, then the
// custom list in its stored order, so audit entries land deterministically.
// Keys that match neither are ignored, not rejected.
func (s *Service) applyClearancePatches(rec *ExitRecord, patches map[string]ClearancePatch, actor string, now time.Time) {
	if len(patches) == 0 {
		return
	}
	for _, key := range FixedSections {
		patch, ok := patches[string(key)]
		if !ok {
			continue
		}
		section, _ := rec.Clearance.Section(key)
		updated, entry := applyClearancePatch(section, patch, key.DisplayName(), actor, now)
		rec.Clearance = rec.Clearance.withSection(key, updated)
		if entry != nil {
			rec.AuditLog = append(rec.AuditLog, *entry)
		}
	}
	for i, custom := range rec.Clearance.Custom {
		patch, ok := patches[custom.Name]
		if !ok {
			continue
		}
		updated, entry := applyClearancePatch(custom.ClearanceSection, patch, custom.Name, actor, now)
		rec.Clearance.Custom[i].ClearanceSection = updated
		if entry != nil {
			rec.AuditLog = append(rec.AuditLog, *entry)
		}
	}
}

func hasCustomSection(sections []CustomClearance, name string) bool {
	for _, section := range sections {
		if section.Name == name {
			return true
		}
	}
	return false
}

// GenerateDocument unconditionally rewrites the document record: generated is
// set and sent resets to false, even when a previous copy was already sent.
func (s *Service) GenerateDocument(ctx context.Context, id, label, actor string) (*ExitRecord, error) {
	key, err := ResolveDocumentLabel(label)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(rec *ExitRecord) error {
		if rec.Status == StatusArchived {
			return ErrAlreadyArchived
		}
		rec.Documents = generateDocument(rec.Documents, key, s.Renderer.DocumentURL(rec.ID, key))
		rec.AuditLog = append(rec.AuditLog, newAuditEntry(
			ActionDocGenerated,
			fmt.Sprintf("%s generated", label),
			actor,
			s.Clock(),
		))
		return nil
	})
}

// SendDocument delivers the stored link through the dispatcher and only then
// marks the document sent. The dispatcher call is bounded by DispatchTimeout
// and holds no claim on the record; a failure leaves the record untouched and
// the send retriable.
func (s *Service) SendDocument(ctx context.Context, id, label, actor string) (*ExitRecord, error) {
	key, err := ResolveDocumentLabel(label)
	if err != nil {
		return nil, err
	}

	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == StatusArchived {
		return nil, ErrAlreadyArchived
	}
	doc := rec.Documents.Record(key)
	if !doc.Generated {
		return nil, ErrDocumentNotGenerated
	}

	emp, err := s.Directory.FindByID(ctx, rec.EmployeeID)
	if err != nil {
		return nil, err
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, s.DispatchTimeout)
	defer cancel()
	if err := s.Dispatcher.SendDocumentLink(dispatchCtx, emp.Email, emp.DisplayName(), label, doc.URL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	return s.mutate(ctx, id, func(fresh *ExitRecord) error {
		if fresh.Status == StatusArchived {
			return ErrAlreadyArchived
		}
		if !fresh.Documents.Record(key).Generated {
			return ErrDocumentNotGenerated
		}
		fresh.Documents = markDocumentSent(fresh.Documents, key)
		fresh.AuditLog = append(fresh.AuditLog, newAuditEntry(
			ActionDocSent,
			fmt.Sprintf("%s sent to %s", label, emp.Email),
			actor,
			s.Clock(),
		))
		return nil
	})
}

// Finalize deactivates the employee, archives the record, and appends the
// closing audit entry. The store runs the two writes in one transaction so a
// partial completion is never visible.
func (s *Service) Finalize(ctx context.Context, id, actor string) (*ExitRecord, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		rec, err := s.Store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec.Status == StatusArchived {
			return nil, ErrAlreadyArchived
		}

		now := s.Clock()
		rec.Status = StatusArchived
		rec.AuditLog = append(rec.AuditLog, newAuditEntry(
			ActionFinalized,
			fmt.Sprintf("Offboarding finalized for employee %s", rec.EmployeeID),
			actor,
			now,
		))
		rec.UpdatedAt = now

		err = s.Store.Finalize(ctx, rec)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
	return nil, ErrVersionConflict
}

func (s *Service) mutate(ctx context.Context, id string, apply func(*ExitRecord) error) (*ExitRecord, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		rec, err := s.Store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := apply(rec); err != nil {
			return nil, err
		}
		rec.UpdatedAt = s.Clock()

		err = s.Store.Update(ctx, rec)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
	return nil, ErrVersionConflict
}

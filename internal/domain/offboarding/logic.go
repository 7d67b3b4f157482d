package offboarding

import (
	"fmt"
	"time"
)

// ResolveDocumentLabel maps a human document label to its canonical key.
func ResolveDocumentLabel(label string) (DocumentKey, error) {
	for key, candidate := range documentLabels {
		if candidate == label {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDocumentType, label)
}

func DocumentLabel(key DocumentKey) string {
	return documentLabels[key]
}

// ValidateTransition is the strict-mode check: the workflow may only move
// forward along the canonical chain, and Archived is reachable solely through
// finalize. The default (permissive) mode never calls it; any state may follow
// any other, matching the observed contract.
func ValidateTransition(from, to Status) error {
	fromOrder, ok := statusOrder[from]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, from)
	}
	toOrder, ok := statusOrder[to]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from == StatusArchived {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, StatusArchived)
	}
	if to == StatusArchived {
		return fmt.Errorf("%w: %s is set only by finalize", ErrInvalidTransition, StatusArchived)
	}
	if toOrder <= fromOrder {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func newAuditEntry(action, details, actor string, now time.Time) AuditEntry {
	return AuditEntry{Action: action, Details: details, PerformedBy: actor, Date: now}
}

type ClearancePatch struct {
	Status     *ClearanceStatus `json:"status,omitempty"`
	Comments   *string          `json:"comments,omitempty"`
	Attachment *string          `json:"attachment,omitempty"`
	ClearedBy  *string          `json:"clearedBy,omitempty"`
	ClearedOn  *time.Time       `json:"clearedOn,omitempty"`
	Items      *[]ClearanceItem `json:"items,omitempty"`
}

// applyClearancePatch merges only the fields present in patch into section and
// returns the new section value plus the audit entry for a status change, if
// any. When the new status is Cleared, clearedBy/clearedOn are stamped from
// the acting user and clock, overriding caller-supplied values.
func applyClearancePatch(section ClearanceSection, patch ClearancePatch, displayName, actor string, now time.Time) (ClearanceSection, *AuditEntry) {
	if patch.Comments != nil {
		section.Comments = *patch.Comments
	}
	if patch.Attachment != nil {
		section.Attachment = *patch.Attachment
	}
	if patch.ClearedBy != nil {
		section.ClearedBy = *patch.ClearedBy
	}
	if patch.ClearedOn != nil {
		section.ClearedOn = patch.ClearedOn
	}
	if patch.Items != nil {
		section.Items = *patch.Items
	}

	if patch.Status == nil || *patch.Status == section.Status {
		return section, nil
	}

	old := section.Status
	section.Status = *patch.Status
	if section.Status == ClearanceCleared {
		section.ClearedBy = actor
		stamped := now
		section.ClearedOn = &stamped
	}
	entry := newAuditEntry(
		ActionClearanceUpdate,
		fmt.Sprintf("%s Clearance status changed from %s to %s", displayName, old, section.Status),
		actor,
		now,
	)
	return section, &entry
}

type SettlementPatch struct {
	Status        *SettlementStatus `json:"status,omitempty"`
	PayableAmount *float64          `json:"payableAmount,omitempty"`
	Breakdown     *[]SettlementLine `json:"breakdown,omitempty"`
}

// applySettlementPatch shallow-merges present fields. PayableAmount is never
// recomputed from Breakdown. Settlement updates are intentionally unaudited,
// in contrast to clearance updates.
func applySettlementPatch(settlement Settlement, patch SettlementPatch) Settlement {
	if patch.Status != nil {
		settlement.Status = *patch.Status
	}
	if patch.PayableAmount != nil {
		settlement.PayableAmount = *patch.PayableAmount
	}
	if patch.Breakdown != nil {
		settlement.Breakdown = *patch.Breakdown
	}
	return settlement
}

type InterviewPatch struct {
	Conducted   *bool      `json:"conducted,omitempty"`
	ConductedBy *string    `json:"conductedBy,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Feedback    *string    `json:"feedback,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

func applyInterviewPatch(interview ExitInterview, patch InterviewPatch) ExitInterview {
	if patch.Conducted != nil {
		interview.Conducted = *patch.Conducted
	}
	if patch.ConductedBy != nil {
		interview.ConductedBy = *patch.ConductedBy
	}
	if patch.Date != nil {
		interview.Date = patch.Date
	}
	if patch.Feedback != nil {
		interview.Feedback = *patch.Feedback
	}
	if patch.Notes != nil {
		interview.Notes = *patch.Notes
	}
	return interview
}

type DocumentPatch struct {
	Generated *bool   `json:"generated,omitempty"`
	Sent      *bool   `json:"sent,omitempty"`
	URL       *string `json:"url,omitempty"`
}

func applyDocumentPatch(rec DocumentRecord, patch DocumentPatch) DocumentRecord {
	if patch.Generated != nil {
		rec.Generated = *patch.Generated
	}
	if patch.Sent != nil {
		rec.Sent = *patch.Sent
	}
	if patch.URL != nil {
		rec.URL = *patch.URL
	}
	return rec
}

// generateDocument rewrites the document record unconditionally: generated is
// set, sent is reset to false even if a previous copy was already sent, and
// the renderer-provided URL replaces the stored one.
func generateDocument(docs Documents, key DocumentKey, url string) Documents {
	return docs.withRecord(key, DocumentRecord{Generated: true, Sent: false, URL: url})
}

func markDocumentSent(docs Documents, key DocumentKey) Documents {
	rec := docs.Record(key)
	rec.Sent = true
	return docs.withRecord(key, rec)
}

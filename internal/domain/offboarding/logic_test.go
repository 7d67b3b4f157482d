package offboarding

import (
	"errors"
	"testing"
	"time"
)

func TestSectionDisplayNames(t *testing.T) {
	cases := map[SectionKey]string{
		SectionITAssets: "It Assets",
		SectionFinance:  "Finance",
		SectionAdmin:    "Admin",
		SectionManager:  "Manager",
	}
	for key, want := range cases {
		if got := key.DisplayName(); got != want {
			t.Fatalf("display name for %s: expected %q, got %q", key, want, got)
		}
	}
}

func TestResolveDocumentLabel(t *testing.T) {
	key, err := ResolveDocumentLabel("Relieving Letter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != DocRelievingLetter {
		t.Fatalf("expected %s, got %s", DocRelievingLetter, key)
	}

	key, err = ResolveDocumentLabel("No Dues Certificate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != DocNoDuesCertificate {
		t.Fatalf("expected %s, got %s", DocNoDuesCertificate, key)
	}
}

func TestResolveDocumentLabelUnknown(t *testing.T) {
	_, err := ResolveDocumentLabel("Payslip")
	if !errors.Is(err, ErrInvalidDocumentType) {
		t.Fatalf("expected ErrInvalidDocumentType, got %v", err)
	}

	// Keys are not labels.
	_, err = ResolveDocumentLabel("relievingLetter")
	if !errors.Is(err, ErrInvalidDocumentType) {
		t.Fatalf("expected ErrInvalidDocumentType for key-shaped input, got %v", err)
	}
}

func TestApplyClearancePatchStatusChange(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	section := ClearanceSection{Status: ClearancePending}
	status := ClearanceRejected
	comments := "laptop not returned"

	updated, entry := applyClearancePatch(section, ClearancePatch{
		Status:   &status,
		Comments: &comments,
	}, "It Assets", "hr@acme.test", now)

	if updated.Status != ClearanceRejected {
		t.Fatalf("expected status Rejected, got %s", updated.Status)
	}
	if updated.Comments != comments {
		t.Fatalf("expected comments merged, got %q", updated.Comments)
	}
	if entry == nil {
		t.Fatal("expected an audit entry for the status change")
	}
	if entry.Action != ActionClearanceUpdate {
		t.Fatalf("expected action %q, got %q", ActionClearanceUpdate, entry.Action)
	}
	want := "It Assets Clearance status changed from Pending to Rejected"
	if entry.Details != want {
		t.Fatalf("expected details %q, got %q", want, entry.Details)
	}
	if entry.PerformedBy != "hr@acme.test" {
		t.Fatalf("expected performedBy hr@acme.test, got %q", entry.PerformedBy)
	}
}

func TestApplyClearancePatchSameStatusNoAudit(t *testing.T) {
	now := time.Now()
	section := ClearanceSection{Status: ClearancePending, Comments: "old"}
	status := ClearancePending
	comments := "new"

	updated, entry := applyClearancePatch(section, ClearancePatch{
		Status:   &status,
		Comments: &comments,
	}, "Finance", "hr@acme.test", now)

	if entry != nil {
		t.Fatalf("expected no audit entry when status is unchanged, got %+v", entry)
	}
	if updated.Comments != "new" {
		t.Fatalf("expected comments merged even without status change, got %q", updated.Comments)
	}
}

func TestApplyClearancePatchClearedStampsActor(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	section := ClearanceSection{Status: ClearancePending}
	status := ClearanceCleared
	suppliedBy := "someone-else"
	suppliedOn := now.Add(-48 * time.Hour)

	updated, entry := applyClearancePatch(section, ClearancePatch{
		Status:    &status,
		ClearedBy: &suppliedBy,
		ClearedOn: &suppliedOn,
	}, "Admin", "manager@acme.test", now)

	if entry == nil {
		t.Fatal("expected an audit entry")
	}
	if updated.ClearedBy != "manager@acme.test" {
		t.Fatalf("expected clearedBy stamped from actor, got %q", updated.ClearedBy)
	}
	if updated.ClearedOn == nil || !updated.ClearedOn.Equal(now) {
		t.Fatalf("expected clearedOn stamped from clock, got %v", updated.ClearedOn)
	}
}

func TestApplySettlementPatchDoesNotRecompute(t *testing.T) {
	settlement := Settlement{Status: SettlementDraft, PayableAmount: 100}
	amount := 5000.0
	breakdown := []SettlementLine{
		{Description: "Salary", Amount: 9000, Type: LineEarning},
		{Description: "Loan", Amount: 1000, Type: LineDeduction},
	}

	updated := applySettlementPatch(settlement, SettlementPatch{
		PayableAmount: &amount,
		Breakdown:     &breakdown,
	})

	if updated.PayableAmount != 5000 {
		t.Fatalf("expected payableAmount 5000 as supplied, got %v", updated.PayableAmount)
	}
	if updated.Status != SettlementDraft {
		t.Fatalf("expected status untouched, got %s", updated.Status)
	}
	if len(updated.Breakdown) != 2 {
		t.Fatalf("expected breakdown replaced, got %d lines", len(updated.Breakdown))
	}
}

func TestGenerateDocumentResetsSent(t *testing.T) {
	docs := Documents{
		RelievingLetter: DocumentRecord{Generated: true, Sent: true, URL: "old-url"},
	}

	docs = generateDocument(docs, DocRelievingLetter, "new-url")

	rec := docs.Record(DocRelievingLetter)
	if !rec.Generated {
		t.Fatal("expected generated true")
	}
	if rec.Sent {
		t.Fatal("expected sent reset to false on regeneration")
	}
	if rec.URL != "new-url" {
		t.Fatalf("expected url replaced, got %q", rec.URL)
	}
}

func TestMarkDocumentSent(t *testing.T) {
	docs := Documents{
		ExperienceLetter: DocumentRecord{Generated: true, URL: "u"},
	}
	docs = markDocumentSent(docs, DocExperienceLetter)
	rec := docs.Record(DocExperienceLetter)
	if !rec.Sent {
		t.Fatal("expected sent true")
	}
	if rec.URL != "u" {
		t.Fatalf("expected url preserved, got %q", rec.URL)
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(StatusInitiated, StatusClearancePending); err != nil {
		t.Fatalf("expected forward transition allowed, got %v", err)
	}
	if err := ValidateTransition(StatusClearancePending, StatusInitiated); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on backward move, got %v", err)
	}
	if err := ValidateTransition(StatusCompleted, StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on self move, got %v", err)
	}
	if err := ValidateTransition(StatusArchived, StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected Archived to be terminal, got %v", err)
	}
	if err := ValidateTransition(StatusCompleted, StatusArchived); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected Archived unreachable through update, got %v", err)
	}
	if err := ValidateTransition(StatusInitiated, Status("Bogus")); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for unknown status, got %v", err)
	}
}

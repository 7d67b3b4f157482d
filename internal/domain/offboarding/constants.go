package offboarding

type Status string

const (
	StatusInitiated          Status = "Initiated"
	StatusNoticePeriodActive Status = "NoticePeriodActive"
	StatusClearancePending   Status = "ClearancePending"
	StatusSettlementPending  Status = "SettlementPending"
	StatusDocumentsIssued    Status = "DocumentsIssued"
	StatusCompleted          Status = "Completed"
	StatusArchived           Status = "Archived"
)

var statusOrder = map[Status]int{
	StatusInitiated:          0,
	StatusNoticePeriodActive: 1,
	StatusClearancePending:   2,
	StatusSettlementPending:  3,
	StatusDocumentsIssued:    4,
	StatusCompleted:          5,
	StatusArchived:           6,
}

func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

type ExitType string

const (
	ExitResignation ExitType = "Resignation"
	ExitTermination ExitType = "Termination"
	ExitRetirement  ExitType = "Retirement"
	ExitDeath       ExitType = "Death"
)

func (t ExitType) Valid() bool {
	switch t {
	case ExitResignation, ExitTermination, ExitRetirement, ExitDeath:
		return true
	}
	return false
}

type ClearanceStatus string

const (
	ClearancePending  ClearanceStatus = "Pending"
	ClearanceCleared  ClearanceStatus = "Cleared"
	ClearanceRejected ClearanceStatus = "Rejected"
	ClearanceOnHold   ClearanceStatus = "OnHold"
)

func (c ClearanceStatus) Valid() bool {
	switch c {
	case ClearancePending, ClearanceCleared, ClearanceRejected, ClearanceOnHold:
		return true
	}
	return false
}

// SectionKey enumerates the four fixed clearance sections. Custom sections are
// a separate, name-addressed list and never collide with these keys.
type SectionKey string

const (
	SectionITAssets SectionKey = "itAssets"
	SectionFinance  SectionKey = "finance"
	SectionAdmin    SectionKey = "admin"
	SectionManager  SectionKey = "manager"
)

var FixedSections = []SectionKey{SectionITAssets, SectionFinance, SectionAdmin, SectionManager}

// sectionDisplayNames backs the human-readable audit labels. A static table
// rather than a string transformation so every key renders exactly as listed.
var sectionDisplayNames = map[SectionKey]string{
	SectionITAssets: "It Assets",
	SectionFinance:  "Finance",
	SectionAdmin:    "Admin",
	SectionManager:  "Manager",
}

func (k SectionKey) DisplayName() string {
	return sectionDisplayNames[k]
}

type SettlementStatus string

const (
	SettlementDraft    SettlementStatus = "Draft"
	SettlementApproved SettlementStatus = "Approved"
	SettlementPaid     SettlementStatus = "Paid"
)

type LineType string

const (
	LineEarning   LineType = "Earning"
	LineDeduction LineType = "Deduction"
)

type DocumentKey string

const (
	DocRelievingLetter   DocumentKey = "relievingLetter"
	DocExperienceLetter  DocumentKey = "experienceLetter"
	DocNoDuesCertificate DocumentKey = "noDuesCertificate"
)

var documentLabels = map[DocumentKey]string{
	DocRelievingLetter:   "Relieving Letter",
	DocExperienceLetter:  "Experience Letter",
	DocNoDuesCertificate: "No Dues Certificate",
}

// Audit actions.
const (
	ActionStatusChange    = "Status Change"
	ActionClearanceUpdate = "Clearance Update"
	ActionDocGenerated    = "Document Generated"
	ActionDocSent         = "Document Sent"
	ActionFinalized       = "Offboarding Finalized"
)

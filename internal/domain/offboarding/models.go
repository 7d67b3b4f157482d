package offboarding

import "time"

type ClearanceItem struct {
	Name    string `json:"name"`
	Status  string `json:"status,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type ClearanceSection struct {
	Status     ClearanceStatus `json:"status"`
	Comments   string          `json:"comments,omitempty"`
	Attachment string          `json:"attachment,omitempty"`
	ClearedBy  string          `json:"clearedBy,omitempty"`
	ClearedOn  *time.Time      `json:"clearedOn,omitempty"`
	Items      []ClearanceItem `json:"items,omitempty"`
}

type CustomClearance struct {
	Name             string `json:"name"`
	ClearanceSection
}

// Clearance holds the four fixed sections as struct fields so section access
// is an exhaustive switch, not a string-keyed map lookup.
type Clearance struct {
	ITAssets ClearanceSection  `json:"itAssets"`
	Finance  ClearanceSection  `json:"finance"`
	Admin    ClearanceSection  `json:"admin"`
	Manager  ClearanceSection  `json:"manager"`
	Custom   []CustomClearance `json:"custom,omitempty"`
}

func defaultClearance() Clearance {
	pending := ClearanceSection{Status: ClearancePending}
	return Clearance{
		ITAssets: pending,
		Finance:  pending,
		Admin:    pending,
		Manager:  pending,
	}
}

func (c Clearance) Section(key SectionKey) (ClearanceSection, bool) {
	switch key {
	case SectionITAssets:
		return c.ITAssets, true
	case SectionFinance:
		return c.Finance, true
	case SectionAdmin:
		return c.Admin, true
	case SectionManager:
		return c.Manager, true
	}
	return ClearanceSection{}, false
}

func (c Clearance) withSection(key SectionKey, section ClearanceSection) Clearance {
	switch key {
	case SectionITAssets:
		c.ITAssets = section
	case SectionFinance:
		c.Finance = section
	case SectionAdmin:
		c.Admin = section
	case SectionManager:
		c.Manager = section
	}
	return c
}

type SettlementLine struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Type        LineType `json:"type"`
}

// Settlement is the full-and-final record. PayableAmount is authored
// independently of Breakdown and never recomputed from it.
type Settlement struct {
	Status        SettlementStatus `json:"status"`
	PayableAmount float64          `json:"payableAmount"`
	Breakdown     []SettlementLine `json:"breakdown,omitempty"`
}

type DocumentRecord struct {
	Generated bool   `json:"generated"`
	Sent      bool   `json:"sent"`
	URL       string `json:"url,omitempty"`
}

type Documents struct {
	RelievingLetter   DocumentRecord `json:"relievingLetter"`
	ExperienceLetter  DocumentRecord `json:"experienceLetter"`
	NoDuesCertificate DocumentRecord `json:"noDuesCertificate"`
}

func (d Documents) Record(key DocumentKey) DocumentRecord {
	switch key {
	case DocRelievingLetter:
		return d.RelievingLetter
	case DocExperienceLetter:
		return d.ExperienceLetter
	case DocNoDuesCertificate:
		return d.NoDuesCertificate
	}
	return DocumentRecord{}
}

func (d Documents) withRecord(key DocumentKey, rec DocumentRecord) Documents {
	switch key {
	case DocRelievingLetter:
		d.RelievingLetter = rec
	case DocExperienceLetter:
		d.ExperienceLetter = rec
	case DocNoDuesCertificate:
		d.NoDuesCertificate = rec
	}
	return d
}

type ExitInterview struct {
	Conducted   bool       `json:"conducted"`
	ConductedBy string     `json:"conductedBy,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// AuditEntry is immutable once appended. Ordering is defined by position in
// the log, not by Date, which a caller may backdate.
type AuditEntry struct {
	Action      string    `json:"action"`
	Details     string    `json:"details"`
	PerformedBy string    `json:"performedBy"`
	Date        time.Time `json:"date"`
}

type ExitRecord struct {
	ID               string        `json:"id"`
	EmployeeID       string        `json:"employeeId"`
	Status           Status        `json:"status"`
	ExitType         ExitType      `json:"exitType"`
	ExitReason       string        `json:"exitReason,omitempty"`
	ResignationDate  *time.Time    `json:"resignationDate,omitempty"`
	LastWorkingDate  *time.Time    `json:"lastWorkingDate,omitempty"`
	NoticePeriodDays int           `json:"noticePeriodDays,omitempty"`
	Remarks          string        `json:"remarks,omitempty"`
	Clearance        Clearance     `json:"clearance"`
	ExitInterview    ExitInterview `json:"exitInterview"`
	Settlement       Settlement    `json:"settlement"`
	Documents        Documents     `json:"documents"`
	AuditLog         []AuditEntry  `json:"auditLog"`
	Version          int64         `json:"version"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

type Filter struct {
	Status   string
	ExitType string
}

type ListResult struct {
	Records []*ExitRecord
	Total   int
}

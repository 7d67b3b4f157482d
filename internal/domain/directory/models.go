package directory

import "time"

const (
	EmployeeActive   = "Active"
	EmployeeInactive = "Inactive"
)

type Employee struct {
	ID             string     `json:"id"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	BranchID       string     `json:"branchId,omitempty"`
	DepartmentID   string     `json:"departmentId,omitempty"`
	DesignationID  string     `json:"designationId,omitempty"`
	ManagerID      string     `json:"managerId,omitempty"`
	DateOfJoining  *time.Time `json:"dateOfJoining,omitempty"`
	ExitDate       *time.Time `json:"exitDate,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (e Employee) DisplayName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BranchID  string    `json:"branchId,omitempty"`
	ManagerID string    `json:"managerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Designation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Level     int       `json:"level,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type EmployeeFilter struct {
	Status       string
	DepartmentID string
	BranchID     string
}

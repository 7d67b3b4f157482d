package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hradmin/internal/platform/querier"
)

var ErrNotFound = errors.New("directory entity not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `id, employee_number, first_name, last_name, email, phone,
       COALESCE(branch_id::text, ''), COALESCE(department_id::text, ''), COALESCE(designation_id::text, ''), COALESCE(manager_id::text, ''),
       date_of_joining, exit_date, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.BranchID, &emp.DepartmentID, &emp.DesignationID, &emp.ManagerID,
		&emp.DateOfJoining, &emp.ExitDate, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id)
	return scanEmployee(row)
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_number, first_name, last_name, email, phone, branch_id, department_id, designation_id, manager_id, date_of_joining, status)
    VALUES ($1,$2,$3,$4,$5,NULLIF($6,'')::uuid,NULLIF($7,'')::uuid,NULLIF($8,'')::uuid,NULLIF($9,'')::uuid,$10,$11)
    RETURNING id
  `, emp.EmployeeNumber, emp.FirstName, emp.LastName, emp.Email, emp.Phone,
		emp.BranchID, emp.DepartmentID, emp.DesignationID, emp.ManagerID,
		emp.DateOfJoining, defaultStatus(emp.Status)).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func defaultStatus(status string) string {
	if status == "" {
		return EmployeeActive
	}
	return status
}

func (s *Store) UpdateEmployee(ctx context.Context, emp Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $2, last_name = $3, email = $4, phone = $5,
        branch_id = NULLIF($6,'')::uuid, department_id = NULLIF($7,'')::uuid,
        designation_id = NULLIF($8,'')::uuid, manager_id = NULLIF($9,'')::uuid,
        date_of_joining = $10, status = $11, updated_at = now()
    WHERE id = $1
  `, emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Phone,
		emp.BranchID, emp.DepartmentID, emp.DesignationID, emp.ManagerID,
		emp.DateOfJoining, emp.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatusAndExitDate flips an employee's directory status and stamps the
// exit date. Offboarding finalize runs the same statement inside its own
// transaction.
func (s *Store) SetStatusAndExitDate(ctx context.Context, id, status string, exitDate *time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = $2, exit_date = $3, updated_at = now() WHERE id = $1
  `, id, status, exitDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, int, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE 1=1"
	countQuery := "SELECT COUNT(1) FROM employees WHERE 1=1"
	var args []any
	appendFilter := func(clause, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		cond := fmt.Sprintf(" AND %s = $%d", clause, len(args))
		query += cond
		countQuery += cond
	}
	appendFilter("status", filter.Status)
	appendFilter("department_id::text", filter.DepartmentID)
	appendFilter("branch_id::text", filter.BranchID)

	var total int
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY last_name, first_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(
			&emp.ID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
			&emp.BranchID, &emp.DepartmentID, &emp.DesignationID, &emp.ManagerID,
			&emp.DateOfJoining, &emp.ExitDate, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, rows.Err()
}

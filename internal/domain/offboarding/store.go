package offboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hradmin/internal/platform/querier"
)

// Store persists each exit record as a single JSONB aggregate plus the
// columns needed for filtering and optimistic concurrency.
type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const uniqueViolation = "23505"

func (s *Store) Create(ctx context.Context, rec *ExitRecord) error {
	rec.ID = uuid.NewString()
	rec.Version = 1

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO exit_records (id, employee_id, status, exit_type, record, version, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
  `, rec.ID, rec.EmployeeID, string(rec.Status), string(rec.ExitType), payload, rec.Version, rec.CreatedAt, rec.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateRecord
	}
	return err
}

func (s *Store) Get(ctx context.Context, id string) (*ExitRecord, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, status, exit_type, record, version, created_at, updated_at
    FROM exit_records
    WHERE id = $1
  `, id)
	return scanRecord(row)
}

func (s *Store) GetByEmployee(ctx context.Context, employeeID string) (*ExitRecord, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, status, exit_type, record, version, created_at, updated_at
    FROM exit_records
    WHERE employee_id = $1
  `, employeeID)
	return scanRecord(row)
}

func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) (ListResult, error) {
	query := `
    SELECT id, employee_id, status, exit_type, record, version, created_at, updated_at
    FROM exit_records
    WHERE 1=1
  `
	countQuery := "SELECT COUNT(1) FROM exit_records WHERE 1=1"
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		cond := fmt.Sprintf(" AND status = $%d", len(args))
		query += cond
		countQuery += cond
	}
	if filter.ExitType != "" {
		args = append(args, filter.ExitType)
		cond := fmt.Sprintf(" AND exit_type = $%d", len(args))
		query += cond
		countQuery += cond
	}

	var total int
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	result := ListResult{Total: total}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return ListResult{}, err
		}
		result.Records = append(result.Records, rec)
	}
	return result, rows.Err()
}

func (s *Store) Update(ctx context.Context, rec *ExitRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE exit_records
    SET record = $3, status = $4, version = version + 1, updated_at = $5
    WHERE id = $1 AND version = $2
  `, rec.ID, rec.Version, payload, string(rec.Status), rec.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrConflict(ctx, rec.ID)
	}
	rec.Version++
	return nil
}

// Finalize runs the cross-aggregate archival in one transaction: the employee
// row is deactivated with the record's last working date, then the record is
// archived with the closing audit entry already appended by the caller.
func (s *Store) Finalize(ctx context.Context, rec *ExitRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	empTag, err := tx.Exec(ctx, `
    UPDATE employees SET status = 'Inactive', exit_date = $2, updated_at = now() WHERE id = $1
  `, rec.EmployeeID, rec.LastWorkingDate)
	if err != nil {
		return err
	}
	if empTag.RowsAffected() == 0 {
		return ErrInvalidOrInactiveUser
	}

	recTag, err := tx.Exec(ctx, `
    UPDATE exit_records
    SET record = $3, status = $4, version = version + 1, updated_at = $5
    WHERE id = $1 AND version = $2
  `, rec.ID, rec.Version, payload, string(rec.Status), rec.UpdatedAt)
	if err != nil {
		return err
	}
	if recTag.RowsAffected() == 0 {
		return s.missingOrConflict(ctx, rec.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	rec.Version++
	return nil
}

func (s *Store) missingOrConflict(ctx context.Context, id string) error {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM exit_records WHERE id = $1", id).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

func scanRecord(row pgx.Row) (*ExitRecord, error) {
	var (
		id, employeeID, status, exitType string
		payload                          []byte
		rec                              ExitRecord
	)
	err := row.Scan(&id, &employeeID, &status, &exitType, &payload, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	version, createdAt, updatedAt := rec.Version, rec.CreatedAt, rec.UpdatedAt
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	// Columns are authoritative over the snapshot inside the aggregate.
	rec.ID = id
	rec.EmployeeID = employeeID
	rec.Status = Status(status)
	rec.ExitType = ExitType(exitType)
	rec.Version = version
	rec.CreatedAt = createdAt
	rec.UpdatedAt = updatedAt
	return &rec, nil
}

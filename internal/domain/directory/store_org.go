package directory

import "context"

func (s *Store) ListBranches(ctx context.Context) ([]Branch, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, COALESCE(address, ''), created_at FROM branches ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) CreateBranch(ctx context.Context, b Branch) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "INSERT INTO branches (name, address) VALUES ($1, $2) RETURNING id", b.Name, b.Address).Scan(&id)
	return id, err
}

func (s *Store) DeleteBranch(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM branches WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(branch_id::text, ''), COALESCE(manager_id::text, ''), created_at
    FROM departments ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.BranchID, &d.ManagerID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, d Department) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, branch_id, manager_id)
    VALUES ($1, NULLIF($2,'')::uuid, NULLIF($3,'')::uuid)
    RETURNING id
  `, d.Name, d.BranchID, d.ManagerID).Scan(&id)
	return id, err
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListDesignations(ctx context.Context) ([]Designation, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, title, COALESCE(level, 0), created_at FROM designations ORDER BY level, title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Designation
	for rows.Next() {
		var d Designation
		if err := rows.Scan(&d.ID, &d.Title, &d.Level, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CreateDesignation(ctx context.Context, d Designation) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "INSERT INTO designations (title, level) VALUES ($1, $2) RETURNING id", d.Title, d.Level).Scan(&id)
	return id, err
}

func (s *Store) DeleteDesignation(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM designations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

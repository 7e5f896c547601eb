// Package catalog manages the class and subject configuration collections.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Class is one class/section pair, e.g. {name: "10", section: "A"}.
type Class struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Section   string    `json:"section"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Subject is one taught subject.
type Subject struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Repository persists classes and subjects in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListClasses returns all classes ordered by name then section.
func (r *Repository) ListClasses(ctx context.Context) ([]Class, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, section, created_at, updated_at FROM classes ORDER BY name, section`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Class
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Section, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// AddClass inserts a class.
func (r *Repository) AddClass(ctx context.Context, c Class) (Class, error) {
	if c.Name == "" {
		return Class{}, errors.New("class name required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO classes (id, name, section) VALUES ($1,$2,$3)
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.Section)
	if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return Class{}, err
	}
	return c, nil
}

// UpdateClass rewrites a class row.
func (r *Repository) UpdateClass(ctx context.Context, c Class) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE classes SET name = $2, section = $3, updated_at = NOW() WHERE id = $1`,
		c.ID, c.Name, c.Section)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// DeleteClass removes a class.
func (r *Repository) DeleteClass(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return err
}

// UniqueClassNames returns the distinct class names, sorted.
func (r *Repository) UniqueClassNames(ctx context.Context) ([]string, error) {
	classes, err := r.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, c := range classes {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// SectionsForClass returns the distinct sections of one class, sorted.
func (r *Repository) SectionsForClass(ctx context.Context, name string) ([]string, error) {
	classes, err := r.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var sections []string
	for _, c := range classes {
		if c.Name == name && !seen[c.Section] {
			seen[c.Section] = true
			sections = append(sections, c.Section)
		}
	}
	sort.Strings(sections)
	return sections, nil
}

// ListSubjects returns all subjects ordered by name.
func (r *Repository) ListSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, code, created_at, updated_at FROM subjects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// AddSubject inserts a subject.
func (r *Repository) AddSubject(ctx context.Context, s Subject) (Subject, error) {
	if s.Name == "" {
		return Subject{}, errors.New("subject name required")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO subjects (id, name, code) VALUES ($1,$2,$3)
		RETURNING created_at, updated_at
	`, s.ID, s.Name, s.Code)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return Subject{}, err
	}
	return s, nil
}

// UpdateSubject rewrites a subject row.
func (r *Repository) UpdateSubject(ctx context.Context, s Subject) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subjects SET name = $2, code = $3, updated_at = NOW() WHERE id = $1`,
		s.ID, s.Name, s.Code)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// DeleteSubject removes a subject.
func (r *Repository) DeleteSubject(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	return err
}

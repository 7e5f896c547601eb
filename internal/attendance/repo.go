package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `id, subject_id, subject_name, class, date, status, time, remarks, confidence, method, created_at, updated_at`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var rec Record
	var date time.Time
	if err := row.Scan(&rec.ID, &rec.SubjectID, &rec.SubjectName, &rec.Class, &date,
		&rec.Status, &rec.Time, &rec.Remarks, &rec.Confidence, &rec.Method,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	rec.Date = NewDate(date)
	return rec, nil
}

// Filter narrows List results; zero values mean "no constraint".
type Filter struct {
	SubjectID string
	Class     string
	Date      *time.Time
	Limit     int
	Offset    int
}

// List returns records with basic filters, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Record, error) {
	if f.Limit <= 0 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	query := `SELECT ` + recordColumns + ` FROM attendance`
	args := []any{}
	clauses := []string{}
	if f.SubjectID != "" {
		clauses = append(clauses, fmt.Sprintf("subject_id = $%d", len(args)+1))
		args = append(args, f.SubjectID)
	}
	if f.Class != "" {
		clauses = append(clauses, fmt.Sprintf("class = $%d", len(args)+1))
		args = append(args, f.Class)
	}
	if f.Date != nil {
		clauses = append(clauses, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, f.Date.Format("2006-01-02"))
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Get returns a single record by id.
func (r *Repository) Get(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM attendance WHERE id = $1`, id)
	return scanRecord(row)
}

// Insert writes a new record.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Date.IsZero() {
		return Record{}, errors.New("record date required")
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, subject_id, subject_name, class, date, status, time, remarks, confidence, method)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at
	`, rec.ID, rec.SubjectID, rec.SubjectName, rec.Class, rec.Date.Format("2006-01-02"),
		rec.Status, rec.Time, rec.Remarks, rec.Confidence, rec.Method)
	if err := row.Scan(&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Update rewrites the mutable fields of a record.
func (r *Repository) Update(ctx context.Context, rec Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance
		SET status = $2, time = $3, remarks = $4, date = COALESCE(NULLIF($5,'')::date, date), updated_at = NOW()
		WHERE id = $1
	`, rec.ID, rec.Status, rec.Time, rec.Remarks, dateOrEmpty(rec.Date))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func dateOrEmpty(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Delete removes a record. Deleting a person elsewhere does not cascade here;
// history is kept.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	return err
}

// ExistsForDay reports whether the subject already has a record on the given day.
func (r *Repository) ExistsForDay(ctx context.Context, subjectID string, day Date) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM attendance WHERE subject_id = $1 AND date = $2 LIMIT 1
	`, subjectID, day.Format("2006-01-02"))
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

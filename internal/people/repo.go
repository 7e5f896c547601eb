package people

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Repository persists students and teachers in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func marshalNullable(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// -------- Students --------

const studentColumns = `id, first_name, last_name, roll_no, class, section, date_of_birth,
	admission_date, gender, email, phone, address, parent_name, parent_phone, parent_email,
	status, photo_url, face_images, recent_attendance, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (Student, error) {
	var st Student
	var faceImages, recent []byte
	if err := row.Scan(&st.ID, &st.FirstName, &st.LastName, &st.RollNo, &st.Class, &st.Section,
		&st.DateOfBirth, &st.AdmissionDate, &st.Gender, &st.Email, &st.Phone, &st.Address,
		&st.ParentName, &st.ParentPhone, &st.ParentEmail, &st.Status, &st.PhotoURL,
		&faceImages, &recent, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return Student{}, err
	}
	if len(faceImages) > 0 {
		if err := json.Unmarshal(faceImages, &st.FaceImages); err != nil {
			return Student{}, err
		}
	}
	if len(recent) > 0 {
		if err := json.Unmarshal(recent, &st.Recent); err != nil {
			return Student{}, err
		}
	}
	return st, nil
}

// InsertStudent writes a new student.
func (r *Repository) InsertStudent(ctx context.Context, st Student) (Student, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.Status == "" {
		st.Status = StudentActive
	}
	faceImages, err := marshalNullable(st.FaceImages)
	if err != nil {
		return Student{}, err
	}
	recent, err := marshalNullable(st.Recent)
	if err != nil {
		return Student{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, first_name, last_name, roll_no, class, section, date_of_birth,
			admission_date, gender, email, phone, address, parent_name, parent_phone, parent_email,
			status, photo_url, face_images, recent_attendance)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING created_at, updated_at
	`, st.ID, st.FirstName, st.LastName, st.RollNo, st.Class, st.Section, st.DateOfBirth,
		st.AdmissionDate, st.Gender, st.Email, st.Phone, st.Address, st.ParentName,
		st.ParentPhone, st.ParentEmail, st.Status, st.PhotoURL, faceImages, recent)
	if err := row.Scan(&st.CreatedAt, &st.UpdatedAt); err != nil {
		return Student{}, err
	}
	return st, nil
}

// UpdateStudent rewrites a student row.
func (r *Repository) UpdateStudent(ctx context.Context, st Student) error {
	faceImages, err := marshalNullable(st.FaceImages)
	if err != nil {
		return err
	}
	recent, err := marshalNullable(st.Recent)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET first_name=$2, last_name=$3, roll_no=$4, class=$5, section=$6, date_of_birth=$7,
			admission_date=$8, gender=$9, email=$10, phone=$11, address=$12, parent_name=$13,
			parent_phone=$14, parent_email=$15, status=$16, photo_url=$17, face_images=$18,
			recent_attendance=$19, updated_at=NOW()
		WHERE id = $1
	`, st.ID, st.FirstName, st.LastName, st.RollNo, st.Class, st.Section, st.DateOfBirth,
		st.AdmissionDate, st.Gender, st.Email, st.Phone, st.Address, st.ParentName,
		st.ParentPhone, st.ParentEmail, st.Status, st.PhotoURL, faceImages, recent)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// ListStudents returns all students, newest first.
func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

// GetStudent returns a student by primary id or roll number, nil when absent.
func (r *Repository) GetStudent(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1 OR roll_no = $1`, id)
	st, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// DeleteStudent removes a student. Historical attendance rows stay behind.
func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

// SetStudentStatus flips the Active/Inactive flag.
func (r *Repository) SetStudentStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

// SetStudentRecent replaces the embedded attendance history.
func (r *Repository) SetStudentRecent(ctx context.Context, id string, recent []RecentEntry) error {
	payload, err := json.Marshal(recent)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE students SET recent_attendance = $2, updated_at = NOW() WHERE id = $1`, id, payload)
	return err
}

// -------- Teachers --------

const teacherColumns = `id, first_name, last_name, teacher_id, subject, classes, date_of_birth,
	gender, email, phone, address, qualification, experience, joining_date, status, photo_url,
	recent_attendance, created_at, updated_at`

func scanTeacher(row interface{ Scan(...any) error }) (Teacher, error) {
	var t Teacher
	var classes, recent []byte
	if err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &t.TeacherID, &t.Subject, &classes,
		&t.DateOfBirth, &t.Gender, &t.Email, &t.Phone, &t.Address, &t.Qualification,
		&t.Experience, &t.JoiningDate, &t.Status, &t.PhotoURL, &recent,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return Teacher{}, err
	}
	if len(classes) > 0 {
		if err := json.Unmarshal(classes, &t.Classes); err != nil {
			return Teacher{}, err
		}
	}
	if len(recent) > 0 {
		if err := json.Unmarshal(recent, &t.Recent); err != nil {
			return Teacher{}, err
		}
	}
	return t, nil
}

// InsertTeacher writes a new teacher.
func (r *Repository) InsertTeacher(ctx context.Context, t Teacher) (Teacher, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TeacherActive
	}
	classes, err := marshalNullable([]string(t.Classes))
	if err != nil {
		return Teacher{}, err
	}
	recent, err := marshalNullable(t.Recent)
	if err != nil {
		return Teacher{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO teachers (id, first_name, last_name, teacher_id, subject, classes, date_of_birth,
			gender, email, phone, address, qualification, experience, joining_date, status,
			photo_url, recent_attendance)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING created_at, updated_at
	`, t.ID, t.FirstName, t.LastName, t.TeacherID, t.Subject, classes, t.DateOfBirth,
		t.Gender, t.Email, t.Phone, t.Address, t.Qualification, t.Experience, t.JoiningDate,
		t.Status, t.PhotoURL, recent)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return Teacher{}, err
	}
	return t, nil
}

// UpdateTeacher rewrites a teacher row.
func (r *Repository) UpdateTeacher(ctx context.Context, t Teacher) error {
	classes, err := marshalNullable([]string(t.Classes))
	if err != nil {
		return err
	}
	recent, err := marshalNullable(t.Recent)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE teachers
		SET first_name=$2, last_name=$3, teacher_id=$4, subject=$5, classes=$6, date_of_birth=$7,
			gender=$8, email=$9, phone=$10, address=$11, qualification=$12, experience=$13,
			joining_date=$14, status=$15, photo_url=$16, recent_attendance=$17, updated_at=NOW()
		WHERE id = $1
	`, t.ID, t.FirstName, t.LastName, t.TeacherID, t.Subject, classes, t.DateOfBirth,
		t.Gender, t.Email, t.Phone, t.Address, t.Qualification, t.Experience, t.JoiningDate,
		t.Status, t.PhotoURL, recent)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// ListTeachers returns all teachers, newest first.
func (r *Repository) ListTeachers(ctx context.Context) ([]Teacher, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teacherColumns+` FROM teachers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// GetTeacher returns a teacher by primary id or staff id, nil when absent.
func (r *Repository) GetTeacher(ctx context.Context, id string) (*Teacher, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1 OR teacher_id = $1`, id)
	t, err := scanTeacher(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// DeleteTeacher removes a teacher.
func (r *Repository) DeleteTeacher(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	return err
}

// SetTeacherStatus flips the Active/On Leave flag.
func (r *Repository) SetTeacherStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE teachers SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

// SetTeacherRecent replaces the embedded attendance history.
func (r *Repository) SetTeacherRecent(ctx context.Context, id string, recent []RecentEntry) error {
	payload, err := json.Marshal(recent)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE teachers SET recent_attendance = $2, updated_at = NOW() WHERE id = $1`, id, payload)
	return err
}

package people

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when no person matches an identifier.
var ErrNotFound = errors.New("person not found")

// Service wraps the repository with validation, search and identity resolution.
type Service struct {
	repo *Repository
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// AddStudent validates identity fields and persists a new student.
func (s *Service) AddStudent(ctx context.Context, st Student) (Student, error) {
	if st.FirstName == "" || st.RollNo == "" || st.Class == "" {
		return Student{}, errors.New("first name, roll number and class required")
	}
	if st.Status != StudentActive && st.Status != StudentInactive {
		st.Status = StudentActive
	}
	return s.repo.InsertStudent(ctx, st)
}

// UpdateStudent persists edits to a student.
func (s *Service) UpdateStudent(ctx context.Context, st Student) error {
	if st.ID == "" {
		return errors.New("student id required")
	}
	return s.repo.UpdateStudent(ctx, st)
}

// ListStudents returns all students.
func (s *Service) ListStudents(ctx context.Context) ([]Student, error) {
	return s.repo.ListStudents(ctx)
}

// GetStudent returns a student or ErrNotFound.
func (s *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	st, err := s.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if st == nil {
		return Student{}, ErrNotFound
	}
	return *st, nil
}

// DeleteStudent removes a student; attendance history is kept.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	return s.repo.DeleteStudent(ctx, id)
}

// SetStudentStatus validates and updates the status flag.
func (s *Service) SetStudentStatus(ctx context.Context, id, status string) error {
	if status != StudentActive && status != StudentInactive {
		return errors.New("invalid student status")
	}
	return s.repo.SetStudentStatus(ctx, id, status)
}

// SearchStudents filters on name, roll number, class and section.
func (s *Service) SearchStudents(ctx context.Context, query string) ([]Student, error) {
	all, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []Student
	for _, st := range all {
		if strings.Contains(strings.ToLower(st.FirstName), q) ||
			strings.Contains(strings.ToLower(st.LastName), q) ||
			strings.Contains(strings.ToLower(st.RollNo), q) ||
			strings.Contains(strings.ToLower(st.Class), q) ||
			strings.Contains(strings.ToLower(st.Section), q) {
			out = append(out, st)
		}
	}
	return out, nil
}

// AddTeacher validates identity fields and persists a new teacher.
func (s *Service) AddTeacher(ctx context.Context, t Teacher) (Teacher, error) {
	if t.FirstName == "" || t.TeacherID == "" {
		return Teacher{}, errors.New("first name and teacher id required")
	}
	if t.Status != TeacherActive && t.Status != TeacherOnLeave {
		t.Status = TeacherActive
	}
	return s.repo.InsertTeacher(ctx, t)
}

// UpdateTeacher persists edits to a teacher.
func (s *Service) UpdateTeacher(ctx context.Context, t Teacher) error {
	if t.ID == "" {
		return errors.New("teacher id required")
	}
	return s.repo.UpdateTeacher(ctx, t)
}

// ListTeachers returns all teachers.
func (s *Service) ListTeachers(ctx context.Context) ([]Teacher, error) {
	return s.repo.ListTeachers(ctx)
}

// GetTeacher returns a teacher or ErrNotFound.
func (s *Service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	t, err := s.repo.GetTeacher(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	if t == nil {
		return Teacher{}, ErrNotFound
	}
	return *t, nil
}

// DeleteTeacher removes a teacher; attendance history is kept.
func (s *Service) DeleteTeacher(ctx context.Context, id string) error {
	return s.repo.DeleteTeacher(ctx, id)
}

// SetTeacherStatus validates and updates the status flag.
func (s *Service) SetTeacherStatus(ctx context.Context, id, status string) error {
	if status != TeacherActive && status != TeacherOnLeave {
		return errors.New("invalid teacher status")
	}
	return s.repo.SetTeacherStatus(ctx, id, status)
}

// Resolve maps a recognizer identifier to a person. Students are checked
// before teachers; the first match wins.
func (s *Service) Resolve(ctx context.Context, id string) (Identity, error) {
	st, err := s.repo.GetStudent(ctx, id)
	if err != nil {
		return Identity{}, err
	}
	if st != nil {
		return Identity{ID: st.ID, Name: st.Name(), Class: st.Class, Role: RoleStudent}, nil
	}
	t, err := s.repo.GetTeacher(ctx, id)
	if err != nil {
		return Identity{}, err
	}
	if t != nil {
		return Identity{ID: t.ID, Name: t.Name(), Role: RoleTeacher}, nil
	}
	return Identity{}, ErrNotFound
}

// AppendRecent pushes an entry onto a person's embedded history, newest first,
// capped at 30 entries.
func (s *Service) AppendRecent(ctx context.Context, id Identity, e RecentEntry) error {
	switch id.Role {
	case RoleStudent:
		st, err := s.repo.GetStudent(ctx, id.ID)
		if err != nil {
			return err
		}
		if st == nil {
			return ErrNotFound
		}
		return s.repo.SetStudentRecent(ctx, st.ID, prependRecent(st.Recent, e))
	case RoleTeacher:
		t, err := s.repo.GetTeacher(ctx, id.ID)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrNotFound
		}
		return s.repo.SetTeacherRecent(ctx, t.ID, prependRecent(t.Recent, e))
	}
	return errors.New("unknown role")
}

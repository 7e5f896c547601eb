package handler

import (
	"context"

	"insight/internal/people"
)

// fakePeople serves one canned student and teacher.
type fakePeople struct {
	students []people.Student
	teachers []people.Teacher
	err      error
}

func (f *fakePeople) student() people.Student {
	if len(f.students) > 0 {
		return f.students[0]
	}
	return people.Student{ID: "stu-1", FirstName: "Asha", LastName: "Rao", RollNo: "1DS21CS001", Class: "10", Section: "A"}
}

func (f *fakePeople) teacher() people.Teacher {
	if len(f.teachers) > 0 {
		return f.teachers[0]
	}
	return people.Teacher{ID: "tea-1", FirstName: "R", LastName: "Iyer", TeacherID: "T-07", Subject: "Physics"}
}

func (f *fakePeople) AddStudent(ctx context.Context, st people.Student) (people.Student, error) {
	st.ID = "stu-1"
	return st, f.err
}

func (f *fakePeople) UpdateStudent(ctx context.Context, st people.Student) error { return f.err }

func (f *fakePeople) ListStudents(ctx context.Context) ([]people.Student, error) {
	return []people.Student{f.student()}, f.err
}

func (f *fakePeople) GetStudent(ctx context.Context, id string) (people.Student, error) {
	if f.err != nil {
		return people.Student{}, f.err
	}
	return f.student(), nil
}

func (f *fakePeople) DeleteStudent(ctx context.Context, id string) error { return f.err }

func (f *fakePeople) SetStudentStatus(ctx context.Context, id, status string) error { return f.err }

func (f *fakePeople) SearchStudents(ctx context.Context, query string) ([]people.Student, error) {
	return []people.Student{f.student()}, f.err
}

func (f *fakePeople) AddTeacher(ctx context.Context, t people.Teacher) (people.Teacher, error) {
	t.ID = "tea-1"
	return t, f.err
}

func (f *fakePeople) UpdateTeacher(ctx context.Context, t people.Teacher) error { return f.err }

func (f *fakePeople) ListTeachers(ctx context.Context) ([]people.Teacher, error) {
	return []people.Teacher{f.teacher()}, f.err
}

func (f *fakePeople) GetTeacher(ctx context.Context, id string) (people.Teacher, error) {
	if f.err != nil {
		return people.Teacher{}, f.err
	}
	return f.teacher(), nil
}

func (f *fakePeople) DeleteTeacher(ctx context.Context, id string) error { return f.err }

func (f *fakePeople) SetTeacherStatus(ctx context.Context, id, status string) error { return f.err }

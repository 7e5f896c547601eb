package people

import (
	"encoding/json"
	"strings"
	"time"
)

// Student statuses.
const (
	StudentActive   = "Active"
	StudentInactive = "Inactive"
)

// Teacher statuses.
const (
	TeacherActive  = "Active"
	TeacherOnLeave = "On Leave"
)

// RecentEntry is one element of a person's embedded attendance history.
type RecentEntry struct {
	Date       string `json:"date"`
	Status     string `json:"status"`
	Time       string `json:"time,omitempty"`
	Confidence int    `json:"confidence,omitempty"`
	Method     string `json:"recognitionMethod,omitempty"`
}

// recentAttendanceCap bounds the embedded history on a person record.
const recentAttendanceCap = 30

// FaceImages holds the enrollment reference shots, one per angle.
type FaceImages struct {
	Front string `json:"front,omitempty"`
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
	Up    string `json:"up,omitempty"`
	Down  string `json:"down,omitempty"`
}

// Empty reports whether no angle has been captured.
func (f FaceImages) Empty() bool {
	return f == FaceImages{}
}

// ClassList normalizes the classes field, which arrives from older clients as
// either a comma-separated string ("10-A, 10-B") or a JSON array. Normalization
// happens once here; internal code only ever sees a slice.
type ClassList []string

func (c *ClassList) UnmarshalJSON(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		*c = nil
		return nil
	}
	if trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return err
		}
		*c = list
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	var list []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	*c = list
	return nil
}

// Student is a person enrolled in a class.
type Student struct {
	ID            string        `json:"id,omitempty"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	RollNo        string        `json:"rollNo"`
	Class         string        `json:"class"`
	Section       string        `json:"section"`
	DateOfBirth   string        `json:"dateOfBirth,omitempty"`
	AdmissionDate string        `json:"admissionDate,omitempty"`
	Gender        string        `json:"gender,omitempty"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Address       string        `json:"address,omitempty"`
	ParentName    string        `json:"parentName,omitempty"`
	ParentPhone   string        `json:"parentPhone,omitempty"`
	ParentEmail   string        `json:"parentEmail,omitempty"`
	Status        string        `json:"status"`
	PhotoURL      string        `json:"photo,omitempty"`
	FaceImages    *FaceImages   `json:"faceImages,omitempty"`
	Recent        []RecentEntry `json:"recentAttendance,omitempty"`
	CreatedAt     time.Time     `json:"createdAt,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt,omitempty"`
}

// Name returns the display name.
func (s Student) Name() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Teacher is a staff member.
type Teacher struct {
	ID            string        `json:"id,omitempty"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	TeacherID     string        `json:"teacherId"`
	Subject       string        `json:"subject,omitempty"`
	Classes       ClassList     `json:"classes,omitempty"`
	DateOfBirth   string        `json:"dateOfBirth,omitempty"`
	Gender        string        `json:"gender,omitempty"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Address       string        `json:"address,omitempty"`
	Qualification string        `json:"qualification,omitempty"`
	Experience    string        `json:"experience,omitempty"`
	JoiningDate   string        `json:"joiningDate,omitempty"`
	Status        string        `json:"status"`
	PhotoURL      string        `json:"photo,omitempty"`
	Recent        []RecentEntry `json:"recentAttendance,omitempty"`
	CreatedAt     time.Time     `json:"createdAt,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt,omitempty"`
}

// Name returns the display name.
func (t Teacher) Name() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// Role tags which collection an identity was resolved from.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Identity is the resolved subject of a face match.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class,omitempty"`
	Role  Role   `json:"role"`
}

// prependRecent pushes e onto the history, keeping at most recentAttendanceCap
// entries, newest first.
func prependRecent(history []RecentEntry, e RecentEntry) []RecentEntry {
	out := append([]RecentEntry{e}, history...)
	if len(out) > recentAttendanceCap {
		out = out[:recentAttendanceCap]
	}
	return out
}

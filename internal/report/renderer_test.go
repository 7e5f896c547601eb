package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC) }
}

func testStudent() StudentData {
	return StudentData{
		Name:       "Asha Rao",
		RollNo:     "1DS21CS001",
		Class:      "10",
		Section:    "A",
		Gender:     "Female",
		Email:      "asha@example.com",
		Attendance: AttendanceSummary{Overall: "92%", ThisMonth: "95%", LastMonth: "88%", TotalPresent: 110, TotalAbsent: 7, TotalLate: 3, TotalDays: 120},
		Recent: []Entry{
			{Date: "2025-11-20", Status: "Present", Time: "09:02:11 AM"},
			{Date: "2025-11-19", Status: "LATE", Time: "09:31:40 AM"},
			{Date: "2025-11-18", Status: "absent"},
		},
	}
}

func TestRenderStudentDeterministic(t *testing.T) {
	r := NewRenderer("Insight Attendance System").WithClock(fixedClock())

	first, err := r.RenderStudent(testStudent())
	require.NoError(t, err)
	second, err := r.RenderStudent(testStudent())
	require.NoError(t, err)

	assert.Equal(t, first, second, "same input and clock must render identical documents")
	assert.Contains(t, first, "Generated on: 11/20/2025")
	assert.Contains(t, first, "Insight Attendance System")
	assert.Contains(t, first, "Asha Rao")
	assert.Contains(t, first, "Student Attendance Report")
	assert.Contains(t, first, "92%")
}

func TestRenderBadgeClassesCaseInsensitive(t *testing.T) {
	r := NewRenderer("Test School").WithClock(fixedClock())
	html, err := r.RenderStudent(testStudent())
	require.NoError(t, err)

	assert.Contains(t, html, `status-badge status-present">Present<`)
	assert.Contains(t, html, `status-badge status-late">LATE<`)
	assert.Contains(t, html, `status-badge status-absent">absent<`)
}

func TestRenderUnknownStatusBadge(t *testing.T) {
	r := NewRenderer("Test School").WithClock(fixedClock())
	data := testStudent()
	data.Recent = []Entry{{Date: "2025-11-20", Status: "Excused"}}

	html, err := r.RenderStudent(data)
	require.NoError(t, err)
	assert.Contains(t, html, "status-unknown")
}

func TestRenderTeacherJoinsClasses(t *testing.T) {
	r := NewRenderer("Test School").WithClock(fixedClock())
	html, err := r.RenderTeacher(TeacherData{
		Name:      "R Iyer",
		TeacherID: "T-07",
		Subject:   "Physics",
		Classes:   []string{"10-A", "10-B"},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Teacher Attendance Report")
	assert.Contains(t, html, "10-A, 10-B")
	assert.Contains(t, html, "T-07")
}

func TestRenderOverviewEmbedsRowsVerbatim(t *testing.T) {
	r := NewRenderer("Test School").WithClock(fixedClock())
	rows := []ClassRow{
		{Class: "9-C", Present: 40, Absent: 5, Late: 2, Total: 47, Attendance: 85},
		{Class: "10-A", Present: 50, Absent: 1, Late: 0, Total: 51, Attendance: 98},
	}

	html, err := r.RenderOverview(rows)
	require.NoError(t, err)

	// Rows appear untouched and in the given order.
	first := strings.Index(html, "<td>9-C</td>")
	second := strings.Index(html, "<td>10-A</td>")
	require.Greater(t, first, 0)
	require.Greater(t, second, first)
	assert.Contains(t, html, "<td>85%</td>")
	assert.Contains(t, html, "<td>98%</td>")
}

func TestFilename(t *testing.T) {
	r := NewRenderer("Test School").WithClock(fixedClock())
	assert.Equal(t, "Asha_Rao_Attendance_Report_2025-11-20.html", r.Filename("Asha Rao"))
	assert.Equal(t, "R_K_Iyer_Attendance_Report_2025-11-20.html", r.Filename("  R K Iyer "))
}

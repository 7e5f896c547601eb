// Package report renders self-contained HTML attendance reports suitable for
// download, printing, or embedding in an email body. All styling is inlined;
// output is deterministic apart from the injected clock.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// AttendanceSummary is the flattened stats block shown at the top of a report.
type AttendanceSummary struct {
	Overall      string
	ThisMonth    string
	LastMonth    string
	TotalPresent int
	TotalAbsent  int
	TotalLate    int
	TotalDays    int
}

// Entry is one row of the recent-attendance table.
type Entry struct {
	Date   string
	Status string
	Time   string
}

// StudentData is the view model for a student report.
type StudentData struct {
	Name        string
	RollNo      string
	Class       string
	Section     string
	Gender      string
	Email       string
	Phone       string
	ParentName  string
	ParentPhone string
	Attendance  AttendanceSummary
	Recent      []Entry
}

// TeacherData is the view model for a teacher report.
type TeacherData struct {
	Name          string
	TeacherID     string
	Subject       string
	Classes       []string
	Gender        string
	Email         string
	Phone         string
	Qualification string
	Experience    string
	JoiningDate   string
	Attendance    AttendanceSummary
	Recent        []Entry
}

// ClassRow is one class summary row of the overview report.
type ClassRow struct {
	Class      string
	Present    int
	Absent     int
	Late       int
	Total      int
	Attendance int
}

// Renderer produces report documents. The clock is injectable so tests can
// pin the "Generated on" line.
type Renderer struct {
	schoolName string
	now        func() time.Time
}

// NewRenderer creates a renderer branded with the school name.
func NewRenderer(schoolName string) *Renderer {
	return &Renderer{schoolName: schoolName, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Filename builds the download name: <Name>_Attendance_Report_<ISO-date>.html.
func (r *Renderer) Filename(name string) string {
	safe := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return fmt.Sprintf("%s_Attendance_Report_%s.html", safe, r.now().Format("2006-01-02"))
}

// badgeClass maps a status to its table badge style; the status is
// case-normalized before lookup so "PRESENT" and "present" style alike.
func badgeClass(status string) string {
	switch strings.ToLower(status) {
	case "present":
		return "status-present"
	case "absent":
		return "status-absent"
	case "late":
		return "status-late"
	}
	return "status-unknown"
}

var tmplFuncs = template.FuncMap{
	"badgeClass": badgeClass,
	"join":       strings.Join,
}

type reportPage struct {
	SchoolName  string
	Title       string
	GeneratedOn string
	Year        int
	Student     *StudentData
	Teacher     *TeacherData
	ClassRows   []ClassRow
}

// RenderStudent produces a student attendance report.
func (r *Renderer) RenderStudent(data StudentData) (string, error) {
	return r.render(reportPage{
		Title:   "Student Attendance Report",
		Student: &data,
	})
}

// RenderTeacher produces a teacher attendance report.
func (r *Renderer) RenderTeacher(data TeacherData) (string, error) {
	return r.render(reportPage{
		Title:   "Teacher Attendance Report",
		Teacher: &data,
	})
}

// RenderOverview produces a per-class summary report from aggregated rows. The
// rows are embedded verbatim; the renderer never re-aggregates.
func (r *Renderer) RenderOverview(rows []ClassRow) (string, error) {
	return r.render(reportPage{
		Title:     "Class Attendance Overview",
		ClassRows: rows,
	})
}

func (r *Renderer) render(page reportPage) (string, error) {
	now := r.now()
	page.SchoolName = r.schoolName
	page.GeneratedOn = now.Format("1/2/2006")
	page.Year = now.Year()

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

var reportTmpl = template.Must(template.New("report").Funcs(tmplFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} - {{.SchoolName}}</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: 'Arial', sans-serif; padding: 40px; background: white; color: #333; }
    .report-container { max-width: 900px; margin: 0 auto; }
    .header { text-align: center; border-bottom: 3px solid #A982D9; padding-bottom: 20px; margin-bottom: 30px; }
    .school-name { font-size: 28px; font-weight: bold; color: #A982D9; margin-bottom: 5px; }
    .report-title { font-size: 20px; color: #666; margin-top: 10px; }
    .report-date { font-size: 12px; color: #999; margin-top: 5px; }
    .section { margin-bottom: 30px; page-break-inside: avoid; }
    .section-title { font-size: 18px; font-weight: bold; color: #A982D9; margin-bottom: 15px; padding-bottom: 8px; border-bottom: 2px solid #E7D7F6; }
    .info-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 15px; margin-bottom: 20px; }
    .info-item { padding: 12px; background: #f9f9f9; border-radius: 8px; border-left: 3px solid #A982D9; }
    .info-label { font-size: 12px; color: #666; margin-bottom: 4px; }
    .info-value { font-size: 14px; font-weight: 600; color: #333; }
    .stats-container { display: grid; grid-template-columns: repeat(4, 1fr); gap: 15px; margin-bottom: 20px; }
    .stat-box { text-align: center; padding: 20px; border-radius: 10px; background: linear-gradient(135deg, #f5f5f5 0%, #e9e9e9 100%); }
    .stat-box.overall { background: linear-gradient(135deg, #A982D9 0%, #8B5FBF 100%); color: white; }
    .stat-box.present { background: linear-gradient(135deg, #10b981 0%, #059669 100%); color: white; }
    .stat-box.absent { background: linear-gradient(135deg, #ef4444 0%, #dc2626 100%); color: white; }
    .stat-box.late { background: linear-gradient(135deg, #f97316 0%, #ea580c 100%); color: white; }
    .stat-label { font-size: 12px; opacity: 0.9; margin-bottom: 5px; }
    .stat-value { font-size: 32px; font-weight: bold; }
    .attendance-table { width: 100%; border-collapse: collapse; margin-top: 15px; }
    .attendance-table th { background: #A982D9; color: white; padding: 12px; text-align: left; font-size: 14px; }
    .attendance-table td { padding: 12px; border-bottom: 1px solid #e5e5e5; font-size: 13px; }
    .status-badge { display: inline-block; padding: 6px 12px; border-radius: 6px; font-size: 12px; font-weight: 600; }
    .status-present { background: #d1fae5; color: #065f46; }
    .status-absent { background: #fee2e2; color: #991b1b; }
    .status-late { background: #fed7aa; color: #9a3412; }
    .status-unknown { background: #e5e7eb; color: #374151; }
    .footer { margin-top: 40px; padding-top: 20px; border-top: 2px solid #e5e5e5; text-align: center; color: #999; font-size: 12px; }
    @media print { body { padding: 20px; } }
  </style>
</head>
<body>
  <div class="report-container">
    <div class="header">
      <div class="school-name">{{.SchoolName}}</div>
      <div class="report-title">{{.Title}}</div>
      <div class="report-date">Generated on: {{.GeneratedOn}}</div>
    </div>
{{- if .Student}}
    <div class="section">
      <div class="section-title">Student Information</div>
      <div class="info-grid">
        <div class="info-item"><div class="info-label">Full Name</div><div class="info-value">{{.Student.Name}}</div></div>
        <div class="info-item"><div class="info-label">Roll Number</div><div class="info-value">{{.Student.RollNo}}</div></div>
        <div class="info-item"><div class="info-label">Class</div><div class="info-value">{{.Student.Class}} - {{.Student.Section}}</div></div>
        <div class="info-item"><div class="info-label">Gender</div><div class="info-value">{{.Student.Gender}}</div></div>
        <div class="info-item"><div class="info-label">Email</div><div class="info-value">{{.Student.Email}}</div></div>
        <div class="info-item"><div class="info-label">Phone</div><div class="info-value">{{.Student.Phone}}</div></div>
        <div class="info-item"><div class="info-label">Parent Name</div><div class="info-value">{{.Student.ParentName}}</div></div>
        <div class="info-item"><div class="info-label">Parent Phone</div><div class="info-value">{{.Student.ParentPhone}}</div></div>
      </div>
    </div>
{{template "stats" .Student.Attendance}}
{{template "history" .Student.Recent}}
{{- end}}
{{- if .Teacher}}
    <div class="section">
      <div class="section-title">Teacher Information</div>
      <div class="info-grid">
        <div class="info-item"><div class="info-label">Full Name</div><div class="info-value">{{.Teacher.Name}}</div></div>
        <div class="info-item"><div class="info-label">Teacher ID</div><div class="info-value">{{.Teacher.TeacherID}}</div></div>
        <div class="info-item"><div class="info-label">Subject</div><div class="info-value">{{.Teacher.Subject}}</div></div>
        <div class="info-item"><div class="info-label">Classes</div><div class="info-value">{{join .Teacher.Classes ", "}}</div></div>
        <div class="info-item"><div class="info-label">Qualification</div><div class="info-value">{{.Teacher.Qualification}}</div></div>
        <div class="info-item"><div class="info-label">Experience</div><div class="info-value">{{.Teacher.Experience}}</div></div>
        <div class="info-item"><div class="info-label">Joining Date</div><div class="info-value">{{.Teacher.JoiningDate}}</div></div>
        <div class="info-item"><div class="info-label">Email</div><div class="info-value">{{.Teacher.Email}}</div></div>
      </div>
    </div>
{{template "stats" .Teacher.Attendance}}
{{template "history" .Teacher.Recent}}
{{- end}}
{{- if .ClassRows}}
    <div class="section">
      <div class="section-title">Class-wise Attendance</div>
      <table class="attendance-table">
        <thead><tr><th>Class</th><th>Present</th><th>Absent</th><th>Late</th><th>Total</th><th>Attendance</th></tr></thead>
        <tbody>
{{- range .ClassRows}}
          <tr><td>{{.Class}}</td><td>{{.Present}}</td><td>{{.Absent}}</td><td>{{.Late}}</td><td>{{.Total}}</td><td>{{.Attendance}}%</td></tr>
{{- end}}
        </tbody>
      </table>
    </div>
{{- end}}
    <div class="footer">
      <p>{{.SchoolName}} &copy; {{.Year}}</p>
    </div>
  </div>
</body>
</html>
{{define "stats"}}
    <div class="section">
      <div class="section-title">Attendance Statistics</div>
      <div class="stats-container">
        <div class="stat-box overall"><div class="stat-label">Overall Attendance</div><div class="stat-value">{{.Overall}}</div></div>
        <div class="stat-box present"><div class="stat-label">Present</div><div class="stat-value">{{.TotalPresent}}</div></div>
        <div class="stat-box absent"><div class="stat-label">Absent</div><div class="stat-value">{{.TotalAbsent}}</div></div>
        <div class="stat-box late"><div class="stat-label">Late</div><div class="stat-value">{{.TotalLate}}</div></div>
      </div>
      <div class="info-grid">
        <div class="info-item"><div class="info-label">This Month</div><div class="info-value">{{.ThisMonth}}</div></div>
        <div class="info-item"><div class="info-label">Last Month</div><div class="info-value">{{.LastMonth}}</div></div>
        <div class="info-item"><div class="info-label">Total Days</div><div class="info-value">{{.TotalDays}}</div></div>
      </div>
    </div>
{{end}}
{{define "history"}}
    <div class="section">
      <div class="section-title">Recent Attendance History</div>
      <table class="attendance-table">
        <thead><tr><th>Date</th><th>Time</th><th>Status</th></tr></thead>
        <tbody>
{{- range .}}
          <tr>
            <td>{{.Date}}</td>
            <td>{{.Time}}</td>
            <td><span class="status-badge {{badgeClass .Status}}">{{.Status}}</span></td>
          </tr>
{{- end}}
        </tbody>
      </table>
    </div>
{{end}}`))

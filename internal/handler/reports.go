package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"insight/internal/attendance"
	"insight/internal/people"
	"insight/internal/report"
)

func (h *Handler) studentReport(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.People.GetStudent(ctx, c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if err == people.ErrNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	sum, err := h.Attendance.PersonSummary(ctx, st.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats, recent := reportSummary(sum, time.Now())

	html, err := h.Renderer.RenderStudent(report.StudentData{
		Name:        st.Name(),
		RollNo:      st.RollNo,
		Class:       st.Class,
		Section:     st.Section,
		Gender:      st.Gender,
		Email:       st.Email,
		Phone:       st.Phone,
		ParentName:  st.ParentName,
		ParentPhone: st.ParentPhone,
		Attendance:  stats,
		Recent:      recent,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.serveReport(c, st.Name(), html)
}

func (h *Handler) teacherReport(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := h.People.GetTeacher(ctx, c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if err == people.ErrNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	sum, err := h.Attendance.PersonSummary(ctx, t.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats, recent := reportSummary(sum, time.Now())

	html, err := h.Renderer.RenderTeacher(report.TeacherData{
		Name:          t.Name(),
		TeacherID:     t.TeacherID,
		Subject:       t.Subject,
		Classes:       t.Classes,
		Gender:        t.Gender,
		Email:         t.Email,
		Phone:         t.Phone,
		Qualification: t.Qualification,
		Experience:    t.Experience,
		JoiningDate:   t.JoiningDate,
		Attendance:    stats,
		Recent:        recent,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.serveReport(c, t.Name(), html)
}

func (h *Handler) overviewReport(c *gin.Context) {
	stats, err := h.Attendance.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := make([]report.ClassRow, 0, len(stats.ClassWiseData))
	for _, cw := range stats.ClassWiseData {
		rows = append(rows, report.ClassRow{
			Class:      cw.Class,
			Present:    cw.Present,
			Absent:     cw.Absent,
			Late:       cw.Late,
			Total:      cw.Total,
			Attendance: cw.Attendance,
		})
	}

	html, err := h.Renderer.RenderOverview(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.serveReport(c, "Class_Overview", html)
}

func (h *Handler) serveReport(c *gin.Context, name, html string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.Renderer.Filename(name)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// reportSummary folds a person's attendance into the view the report template
// takes: overall plus current- and previous-month percentages, and the history
// rows capped at 30, newest first.
func reportSummary(sum attendance.Summary, now time.Time) (report.AttendanceSummary, []report.Entry) {
	thisKey := attendance.NewDate(now).MonthKey()
	lastKey := attendance.NewDate(now.AddDate(0, -1, 0)).MonthKey()

	var thisMonth, lastMonth struct{ present, total int }
	for _, r := range sum.Records {
		if r.Date.IsZero() {
			continue
		}
		switch r.Date.MonthKey() {
		case thisKey:
			thisMonth.total++
			if r.Status == attendance.StatusPresent {
				thisMonth.present++
			}
		case lastKey:
			lastMonth.total++
			if r.Status == attendance.StatusPresent {
				lastMonth.present++
			}
		}
	}

	pct := func(present, total int) string {
		if total == 0 {
			return "N/A"
		}
		return fmt.Sprintf("%d%%", int(float64(present)/float64(total)*100+0.5))
	}

	stats := report.AttendanceSummary{
		Overall:      fmt.Sprintf("%d%%", sum.Percentage),
		ThisMonth:    pct(thisMonth.present, thisMonth.total),
		LastMonth:    pct(lastMonth.present, lastMonth.total),
		TotalPresent: sum.Present,
		TotalAbsent:  sum.Absent,
		TotalLate:    sum.Late,
		TotalDays:    sum.Total,
	}

	limit := len(sum.Records)
	if limit > 30 {
		limit = 30
	}
	entries := make([]report.Entry, 0, limit)
	for _, r := range sum.Records[:limit] {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		entries = append(entries, report.Entry{Date: date, Status: string(r.Status), Time: r.Time})
	}
	return stats, entries
}

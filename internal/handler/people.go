package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"insight/internal/auth"
	"insight/internal/mailer"
	"insight/internal/people"
	"insight/internal/queue"
)

func (h *Handler) listStudents(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		students, err := h.People.SearchStudents(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"students": students})
		return
	}
	students, err := h.People.ListStudents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (h *Handler) searchStudents(c *gin.Context) {
	students, err := h.People.SearchStudents(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (h *Handler) addStudent(c *gin.Context) {
	var st people.Student
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.People.AddStudent(c.Request.Context(), st)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.queueWelcome(c, created.Email, mailer.WelcomeStudent(
		h.Cfg.SchoolName, created.FirstName, created.LastName, created.RollNo, created.Class, created.Section))

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) getStudent(c *gin.Context) {
	st, err := h.People.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if err == people.ErrNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) updateStudent(c *gin.Context) {
	var st people.Student
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st.ID = c.Param("id")
	if err := h.People.UpdateStudent(c.Request.Context(), st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) deleteStudent(c *gin.Context) {
	if err := h.People.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) setStudentStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.People.SetStudentStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) listTeachers(c *gin.Context) {
	teachers, err := h.People.ListTeachers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"teachers": teachers})
}

func (h *Handler) addTeacher(c *gin.Context) {
	var t people.Teacher
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.People.AddTeacher(c.Request.Context(), t)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.queueWelcome(c, created.Email, mailer.WelcomeTeacher(
		h.Cfg.SchoolName, created.FirstName, created.LastName, created.TeacherID, created.Subject))

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) getTeacher(c *gin.Context) {
	t, err := h.People.GetTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if err == people.ErrNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) updateTeacher(c *gin.Context) {
	var t people.Teacher
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t.ID = c.Param("id")
	if err := h.People.UpdateTeacher(c.Request.Context(), t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) deleteTeacher(c *gin.Context) {
	if err := h.People.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) setTeacherStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.People.SetTeacherStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// queueWelcome publishes a welcome email for the worker. No email address,
// no message; a publish failure is logged but never fails the create.
func (h *Handler) queueWelcome(c *gin.Context, to string, msg mailer.Message) {
	if to == "" || h.Jobs == nil {
		return
	}
	job := queue.EmailJob{
		Caller:  auth.CallerSubject(c),
		To:      to,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Type:    msg.Type,
	}
	if err := queue.PublishJSON(c.Request.Context(), h.Jobs, queue.TypeEmail, job); err != nil {
		log.Printf("welcome email publish failed for %s: %v", to, err)
	}
}

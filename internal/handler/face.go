package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"insight/internal/facematch"
)

// RecognizeFunc runs one capture-and-recognize attempt on a submitted frame.
type RecognizeFunc func(ctx context.Context, image string) (facematch.Result, error)

func (h *Handler) faceEnroll(c *gin.Context) {
	var req struct {
		USN   string `json:"usn" binding:"required"`
		Role  string `json:"role"`
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = "student"
	}
	if err := h.Enroller.Enroll(c.Request.Context(), req.USN, req.Role, req.Image); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrolled": true})
}

func (h *Handler) faceRecognize(c *gin.Context) {
	var req struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Recognize(c.Request.Context(), req.Image)
	if err != nil {
		if errors.Is(err, facematch.ErrCameraDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "result": result})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) faceHealth(c *gin.Context) {
	if err := h.FaceHealth.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"healthy": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"healthy": true})
}

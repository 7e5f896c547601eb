package handler

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"insight/internal/auth"
	"insight/internal/cloudinary"
	"insight/internal/mailer"
	"insight/internal/theme"
)

func (h *Handler) sendEmail(c *gin.Context) {
	var msg mailer.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Mail.Send(c.Request.Context(), auth.CallerSubject(c), msg)
	if err != nil {
		status := http.StatusInternalServerError
		switch mailer.KindOf(err) {
		case mailer.KindUnauthenticated:
			status = http.StatusUnauthorized
		case mailer.KindInvalidArgument:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) upload(c *gin.Context) {
	if h.Uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	var result *cloudinary.UploadResult
	var err error

	switch {
	case strings.Contains(c.ContentType(), "multipart/form-data"):
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
			return
		}
		defer file.Close()
		data, ferr := io.ReadAll(file)
		if ferr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "read file failed"})
			return
		}
		result, err = h.Uploads.UploadBytes(c.Request.Context(), data, header.Filename)

	default:
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if berr := c.ShouldBindJSON(&body); berr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide {\"data\": \"<base64 data URL>\"}"})
			return
		}
		result, err = h.Uploads.UploadBase64(c.Request.Context(), body.Data)
	}

	if err != nil {
		log.Printf("image upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       result.SecureURL,
		"public_id": result.PublicID,
		"width":     result.Width,
		"height":    result.Height,
		"bytes":     result.Bytes,
	})
}

func (h *Handler) getTheme(c *gin.Context) {
	cfg, err := h.Theme.Get(c.Request.Context(), auth.CallerSubject(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) saveTheme(c *gin.Context) {
	var req struct {
		Preset string `json:"preset"`
		theme.Config
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := req.Config
	if req.Preset != "" {
		if _, ok := theme.Presets[req.Preset]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown preset"})
			return
		}
		logo := cfg.Logo
		cfg = theme.FromPreset(req.Preset)
		cfg.Logo = logo
	}

	saved, err := h.Theme.Save(c.Request.Context(), auth.CallerSubject(c), cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) themePresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": theme.Presets, "default": "purple"})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"webappmanager/internal/authz"
	"webappmanager/internal/service"
)

// multipart envelope allowance on top of the file limit
const uploadOverhead = 1 << 20

type pageQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"perPage" binding:"omitempty,min=1"`
}

func (h HandlerSet) UploadMedia(c *gin.Context) {
	rec, _ := authz.Current(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Upload.MaxBytes+uploadOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.metrics.Upload("rejected")
			h.respondError(c, service.ErrFileTooLarge)
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file_required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	view, err := h.uploads.Upload(c.Request.Context(), service.UploadInput{
		UserID:   rec.ID,
		Filename: header.Filename,
		Header:   header.Header,
		File:     file,
	})
	if err != nil {
		if isRejection(err) {
			h.metrics.Upload("rejected")
		} else {
			h.metrics.Upload("error")
		}
		h.respondError(c, err)
		return
	}

	h.metrics.Upload("success")
	h.log.Info().Str("image_id", view.ID).Str("user_id", rec.ID).Int64("size", view.SizeBytes).Msg("image uploaded")
	c.JSON(http.StatusCreated, gin.H{"image": view})
}

func (h HandlerSet) ListMedia(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	page, perPage := service.Paginate(q.Page, q.PerPage)

	images, err := h.uploads.List(c.Request.Context(), page, perPage)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images, "page": page, "perPage": perPage})
}

func (h HandlerSet) DeleteMedia(c *gin.Context) {
	if err := h.uploads.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func isRejection(err error) bool {
	return errors.Is(err, service.ErrFileTooLarge) ||
		errors.Is(err, service.ErrUnsupportedType) ||
		errors.Is(err, service.ErrTypeMismatch) ||
		errors.Is(err, service.ErrEmptyFile)
}

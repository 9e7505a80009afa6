package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"webappmanager/internal/repository"
	"webappmanager/internal/service"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorTable = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrUserInactive, http.StatusForbidden, "user_inactive"},
	{service.ErrForbiddenRole, http.StatusForbidden, "forbidden_role"},
	{service.ErrCannotDeleteSelf, http.StatusBadRequest, "cannot_delete_self"},
	{service.ErrInvalidUser, http.StatusBadRequest, "invalid_request"},
	{service.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
	{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
	{service.ErrUnsupportedType, http.StatusUnsupportedMediaType, "unsupported_media_type"},
	{service.ErrTypeMismatch, http.StatusUnsupportedMediaType, "content_type_mismatch"},
	{service.ErrEmptyFile, http.StatusBadRequest, "empty_file"},
	{repository.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{repository.ErrUserNotFound, http.StatusNotFound, "not_found"},
	{repository.ErrImageNotFound, http.StatusNotFound, "not_found"},
}

// respondError maps known errors to their status and logs the rest as 500s.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			c.AbortWithStatusJSON(m.status, gin.H{"error": m.code})
			return
		}
	}
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

func badRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"webappmanager/internal/authz"
	"webappmanager/internal/i18n"
	"webappmanager/internal/pages"
	"webappmanager/internal/permissions"
	"webappmanager/internal/service"
	"webappmanager/internal/session"
)

const recentUploads = 6

var loginMessages = map[string]string{
	"invalid":  "login.failed",
	"inactive": "login.inactive",
}

// LoginPage validates redirectTo and error independently so a bad value in
// one does not discard the other.
func (h HandlerSet) LoginPage(c *gin.Context) {
	redirectTo := c.Query("redirectTo")
	if !validQuery(redirectTo, "omitempty,localpath") {
		redirectTo = ""
	}
	if _, ok := h.codec.FromRequest(c.Request, h.now()); ok {
		c.Redirect(http.StatusFound, safeRedirect(redirectTo, defaultLanding))
		return
	}

	errCode := c.Query("error")
	if !validQuery(errCode, "omitempty,oneof=invalid inactive") {
		errCode = ""
	}
	view := pages.NewView("login.title", i18n.Current(c), nil, authz.Props{"redirectTo": redirectTo})
	view.Message = loginMessages[errCode]
	c.HTML(http.StatusOK, pages.Login, view)
}

func (h HandlerSet) PrivacyPage(c *gin.Context) {
	lang := i18n.Current(c)
	rec := h.optionalSession(c)
	c.HTML(http.StatusOK, pages.Privacy, pages.NewView("privacy.title", lang, rec, authz.Props{"policy": pages.Policy(lang)}))
}

// page renders name with the props stored by the gate.
func (h HandlerSet) page(name, titleKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, _ := authz.Current(c)
		c.HTML(http.StatusOK, name, pages.NewView(titleKey, i18n.Current(c), &rec, authz.PropsFrom(c)))
	}
}

func (h HandlerSet) dashboardProps(c *gin.Context) (authz.Props, error) {
	recent, err := h.uploads.List(c.Request.Context(), 1, recentUploads)
	if err != nil {
		return nil, err
	}
	return authz.Props{"recent": recent}, nil
}

func (h HandlerSet) galleryProps(c *gin.Context) (authz.Props, error) {
	var q pageQuery
	_ = c.ShouldBindQuery(&q)
	page, perPage := service.Paginate(q.Page, q.PerPage)
	images, err := h.uploads.List(c.Request.Context(), page, perPage)
	if err != nil {
		return nil, err
	}
	return authz.Props{"images": images, "page": page}, nil
}

func (h HandlerSet) usersProps(c *gin.Context) (authz.Props, error) {
	rec, _ := authz.Current(c)
	if !permissions.ForSession(&rec).CanManageUsers {
		return nil, authz.ErrForbidden
	}
	users, err := h.users.List(c.Request.Context(), service.MaxPerPage, 0)
	if err != nil {
		return nil, err
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return authz.Props{"users": out}, nil
}

// NotFound answers JSON under /api and an HTML page elsewhere.
func (h HandlerSet) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	h.renderError(c, http.StatusNotFound)
}

func (h HandlerSet) renderError(c *gin.Context, status int) {
	message := "error.internal"
	switch status {
	case http.StatusForbidden:
		message = "error.forbidden"
	case http.StatusNotFound:
		message = "error.notfound"
	}
	view := pages.NewView("error.title", i18n.Current(c), h.optionalSession(c), nil)
	view.Status = status
	view.Message = message
	c.HTML(status, pages.Error, view)
}

func (h HandlerSet) optionalSession(c *gin.Context) *session.Record {
	if rec, ok := authz.Current(c); ok {
		return &rec
	}
	if rec, ok := h.codec.FromRequest(c.Request, h.now()); ok {
		return &rec
	}
	return nil
}

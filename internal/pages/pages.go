// Package pages holds the server-rendered HTML views.
package pages

import (
	"embed"
	"html/template"
	"time"

	"golang.org/x/text/language"

	"webappmanager/internal/authz"
	"webappmanager/internal/i18n"
	"webappmanager/internal/permissions"
	"webappmanager/internal/session"
)

const (
	Login     = "login.tmpl"
	Dashboard = "dashboard.tmpl"
	Gallery   = "gallery.tmpl"
	Users     = "users.tmpl"
	Privacy   = "privacy.tmpl"
	Error     = "error.tmpl"
)

//go:embed templates/*.tmpl
var files embed.FS

// Templates parses every embedded page.
func Templates() (*template.Template, error) {
	return template.New("pages").ParseFS(files, "templates/*.tmpl")
}

// View is the data every page template receives.
type View struct {
	Title        string
	Lang         language.Tag
	Session      *session.Record
	Capabilities permissions.Capabilities
	Props        authz.Props
	Status       int
	Message      string
}

// NewView builds a view for lang, optionally signed in as rec.
func NewView(titleKey string, lang language.Tag, rec *session.Record, props authz.Props) View {
	if props == nil {
		props = authz.Props{}
	}
	return View{
		Title:        T(lang, titleKey),
		Lang:         lang,
		Session:      rec,
		Capabilities: permissions.ForSession(rec),
		Props:        props,
	}
}

func (v View) T(key string) string {
	return T(v.Lang, key)
}

func (v View) Date(t time.Time) string {
	return i18n.FormatDate(t, v.Lang)
}

func (v View) DateTime(t time.Time) string {
	return i18n.FormatDateTime(t, v.Lang)
}

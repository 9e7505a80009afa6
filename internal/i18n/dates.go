package i18n

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

var monthNames = map[language.Tag][12]string{
	language.Spanish: {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	language.French:  {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
}

// FormatDate renders the calendar date of t in the given language.
func FormatDate(t time.Time, tag language.Tag) string {
	if t.IsZero() {
		return ""
	}
	base := Match(tag.String())
	names, ok := monthNames[base]
	if !ok {
		return t.Format("January 2, 2006")
	}
	month := names[t.Month()-1]
	switch base {
	case language.Spanish:
		return fmt.Sprintf("%d de %s de %d", t.Day(), month, t.Year())
	default:
		return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year())
	}
}

// FormatDateTime appends a 24h clock to FormatDate, except in English.
func FormatDateTime(t time.Time, tag language.Tag) string {
	if t.IsZero() {
		return ""
	}
	if Match(tag.String()) == language.English {
		return FormatDate(t, tag) + " " + t.Format("3:04 PM")
	}
	return FormatDate(t, tag) + " " + t.Format("15:04")
}

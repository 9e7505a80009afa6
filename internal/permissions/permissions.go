// Package permissions derives capability flags from a role.
//
// This table is the single place role comparisons happen; handlers and
// templates consume Capabilities instead of checking roles themselves.
package permissions

import (
	"sort"

	"webappmanager/internal/models"
	"webappmanager/internal/session"
)

type Capabilities struct {
	IsAdmin   bool `json:"isAdmin"`
	IsManager bool `json:"isManager"`
	IsUser    bool `json:"isUser"`

	CanAddData     bool `json:"canAddData"`
	CanEditData    bool `json:"canEditData"`
	CanDeleteData  bool `json:"canDeleteData"`
	CanManageUsers bool `json:"canManageUsers"`
	CanAddUsers    bool `json:"canAddUsers"`
	CanDeleteUsers bool `json:"canDeleteUsers"`
}

var table = map[models.Role]Capabilities{
	models.RoleUser: {
		IsUser:     true,
		CanAddData: true,
	},
	models.RoleManager: {
		IsManager:      true,
		CanAddData:     true,
		CanEditData:    true,
		CanManageUsers: true,
		CanAddUsers:    true,
	},
	models.RoleAdmin: {
		IsAdmin:        true,
		CanAddData:     true,
		CanEditData:    true,
		CanDeleteData:  true,
		CanManageUsers: true,
		CanAddUsers:    true,
		CanDeleteUsers: true,
	},
}

// For returns the capabilities of role. Unknown roles get none.
func For(role models.Role) Capabilities {
	return table[role]
}

// ForSession returns no capabilities for a nil session.
func ForSession(rec *session.Record) Capabilities {
	if rec == nil {
		return Capabilities{}
	}
	return For(rec.Role)
}

// List returns the names of the granted data and user capabilities.
func (c Capabilities) List() []string {
	flags := map[string]bool{
		"canAddData":     c.CanAddData,
		"canEditData":    c.CanEditData,
		"canDeleteData":  c.CanDeleteData,
		"canManageUsers": c.CanManageUsers,
		"canAddUsers":    c.CanAddUsers,
		"canDeleteUsers": c.CanDeleteUsers,
	}
	granted := make([]string, 0, len(flags))
	for name, ok := range flags {
		if ok {
			granted = append(granted, name)
		}
	}
	sort.Strings(granted)
	return granted
}

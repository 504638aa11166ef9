package domain

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleProducer Role = "Producer"
	RoleUser     Role = "User"
)

// ParseRole acepta el nombre del rol sin distinguir mayúsculas.
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{RoleAdmin, RoleProducer, RoleUser} {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

// Actor es la identidad autenticada que ejecuta un comando.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage indica si el actor puede modificar algo cuyo dueño es ownerID.
func (a Actor) CanManage(ownerID uuid.UUID) bool {
	return a.IsAdmin() || (a.ID != uuid.Nil && a.ID == ownerID)
}

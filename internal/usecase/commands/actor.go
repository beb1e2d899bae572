package commands

import (
	"carhive/internal/domain/user"

	"github.com/google/uuid"
)

// Actor identifies who is performing a command. Guests have no user id and
// authenticate booking operations with the booking reference instead.
type Actor struct {
	UserID *uuid.UUID
	Role   user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

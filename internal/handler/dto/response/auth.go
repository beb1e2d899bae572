package response

import (
	"carhive/internal/usecase/commands"

	"github.com/google/uuid"
)

type LoginResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

func NewLoginResponse(result *commands.LoginResult) LoginResponse {
	return LoginResponse{
		UserID: result.UserID,
		Role:   result.Role.String(),
	}
}

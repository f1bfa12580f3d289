package response

import (
	"time"

	"tripcore/internal/usecase/commands"
	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type LoginResponse struct {
	AccountID   uuid.UUID `json:"account_id"`
	Role        string    `json:"role"`
	AccessToken string    `json:"access_token"`
}

func FromLoginResult(result *commands.LoginResult) *LoginResponse {
	return &LoginResponse{
		AccountID:   result.AccountID,
		Role:        result.Role.String(),
		AccessToken: result.AccessToken,
	}
}

type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromAccountView(view *queries.AccountView) *AccountResponse {
	var resp AccountResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

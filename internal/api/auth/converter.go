package auth

import "github.com/futig/docqa-backend/internal/entity"

func toUserDTO(u *entity.User) *entity.UserDTO {
	return &entity.UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

func toAuthResponse(message string, res *entity.AuthResult) *entity.AuthResponse {
	return &entity.AuthResponse{
		Message: message,
		Token:   res.Token,
		User:    toUserDTO(res.User),
	}
}

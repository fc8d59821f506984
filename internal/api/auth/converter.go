package auth

import "github.com/futig/convai-admin/internal/entity"

// sessionResponse is what the browser sees after login; tokens stay in HttpOnly cookies.
type sessionResponse struct {
	User      *entity.User `json:"user"`
	ExpiresIn int          `json:"expires_in"`
}

func toSessionResponse(s *entity.AuthSession) *sessionResponse {
	return &sessionResponse{
		User:      s.User,
		ExpiresIn: s.ExpiresIn,
	}
}

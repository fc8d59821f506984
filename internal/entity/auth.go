package entity

// User is an authenticated dashboard operator.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// AuthSession is a token pair issued by the auth provider.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	User         *User  `json:"user"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpResult struct {
	User                 *User        `json:"user"`
	Session              *AuthSession `json:"-"`
	ConfirmationRequired bool         `json:"confirmation_required"`
}

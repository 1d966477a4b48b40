package models

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Name      string `json:"name" validate:"required"`
	ContactNo string `json:"contactNo" validate:"required"`
	Address   string `json:"address" validate:"required"`
}

// AuthResponse is returned by both login and register. Message is set on
// register responses.
type AuthResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

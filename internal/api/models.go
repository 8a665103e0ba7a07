package api

import "time"

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username"  validate:"required,min=1,max=64"`
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"omitempty,max=128"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
}

// TokenRequest defines the payload for the token endpoint. The endpoint
// also accepts the same fields form-encoded, matching OAuth2 password
// flow clients.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse defines the successful response for the token endpoint.
type TokenResponse struct {
	// AccessToken is the signed identity token used for API authorization
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`
}

// CreateTaskRequest defines the payload for task creation. CreatedBy and
// CreatedAt are intentionally absent: the server stamps them from the
// authenticated identity and ignores any extra fields a client sends.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	AssignedTo  string     `json:"assigned_to"`
}

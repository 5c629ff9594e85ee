package dto

type RegisterRequestDTO struct {
	Name     string `json:"name,omitempty" validate:"required" doc:"Display name, also used as the page title"`
	Email    string `json:"email,omitempty" validate:"required,email" doc:"Login email"`
	Username string `json:"username,omitempty" validate:"required,min=3,max=20,username,notreserved" doc:"Public handle"`
	Password string `json:"password,omitempty" validate:"required,min=6" doc:"At least 6 characters"`
}

type RegisterResponseDTO struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginRequestDTO struct {
	Email    string `json:"email,omitempty" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"required"`
}

type LoginResponseDTO struct {
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expiresAt" doc:"RFC 3339 expiry of the session"`
	User      AccountResponse `json:"user"`
}

package dto

// CreateAccountRequest payload for registration.
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EditProfileRequest payload for profile changes. Omitted fields are kept.
type EditProfileRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// VerifyEmailRequest payload carrying a verification code.
type VerifyEmailRequest struct {
	Code string `json:"code"`
}

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

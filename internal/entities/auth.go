package entities

// AuthUser is the user shape returned by the mock auth endpoints. Password is
// only ever present in the mock login response and is kept client-side for
// the session, never rendered.
type AuthUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=2"`
	LastName        string `json:"lastName" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,min=10"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AgreeToTerms    bool   `json:"agreeToTerms" validate:"eq=true"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,min=10"`
	OTP   string `json:"otp" validate:"required,len=4,numeric"`
}

type ResendOTPRequest struct {
	Phone string `json:"phone" validate:"required,min=10"`
}

// AuthResponse is returned by login and verify-otp.
type AuthResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Token   string   `json:"token,omitempty"`
	User    AuthUser `json:"user"`
}

// MessageResponse is returned by register and resend-otp.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

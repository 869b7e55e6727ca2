package models

import "time"

type User struct {
	ID           int        `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	State        string     `json:"state,omitempty"`
	Country      string     `json:"country,omitempty"`
	Birthday     *time.Time `json:"birthday,omitempty"`
	PasswordHash string     `json:"-"` // не отдаём наружу
	Role         string     `json:"role"`
	Blocked      bool       `json:"blocked"`

	// NULL = почта не подтверждена
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	FirstName            string `json:"first_name" binding:"required,max=255"`
	LastName             string `json:"last_name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	PhoneNumber          string `json:"phone_number" binding:"omitempty,max=20"`
	State                string `json:"state" binding:"omitempty,max=100"`
	Country              string `json:"country" binding:"omitempty,max=100"`
	Birthday             string `json:"birthday"` // YYYY-MM-DD, опционально
	Password             string `json:"password" binding:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email                string `json:"email" binding:"required,email"`
	Code                 string `json:"code" binding:"required"`
	Password             string `json:"password" binding:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

type BlockUserRequest struct {
	UserID int `json:"user_id" binding:"required"`
}

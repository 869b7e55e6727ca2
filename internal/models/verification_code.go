package models

import "time"

const (
	CodeKindEmailVerification = "email_verification"
	CodeKindPasswordReset     = "password_reset"
)

// VerificationCode — отдельная запись на каждую отправку кода.
// Код валиден, пока expires_at в будущем; удаляется при использовании.
type VerificationCode struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Kind      string    `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"authapi/internal/authz"
	"authapi/internal/models"
	"authapi/internal/repositories"
	"authapi/internal/utils"
)

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountBlocked       = errors.New("account blocked")
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrEmailNotFound        = errors.New("email not found")
	ErrForbidden            = errors.New("forbidden")
	ErrUserNotFound         = errors.New("user not found")
)

// Срок жизни кода фиксированный, фоновая чистка не нужна:
// просрочка проверяется при чтении.
const codeTTL = 10 * time.Minute

type AuthService interface {
	Register(profile *models.User, password string) error
	Login(email, password string) (string, error)
	VerifyEmail(email, code string) (string, error)
	ForgotPassword(email string) error
	ResetPassword(email, code, newPassword string) error
	BlockUser(actorRole string, targetID int) error
}

type authService struct {
	users  repositories.UserRepository
	codes  repositories.VerificationCodeRepository
	tokens TokenService
	emails EmailService
	sms    *SMSService // опционально, может быть nil
}

func NewAuthService(
	users repositories.UserRepository,
	codes repositories.VerificationCodeRepository,
	tokens TokenService,
	emails EmailService,
	sms *SMSService,
) AuthService {
	return &authService{
		users:  users,
		codes:  codes,
		tokens: tokens,
		emails: emails,
		sms:    sms,
	}
}

// Register — создаёт аккаунт в состоянии "не подтверждён" и отправляет код.
func (s *authService) Register(profile *models.User, password string) error {
	email := normalizeEmail(profile.Email)

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	profile.Email = email
	profile.PasswordHash = string(hash)
	profile.Role = authz.RoleUser
	profile.Blocked = false
	profile.EmailVerifiedAt = nil

	if err := s.users.Create(profile); err != nil {
		// гонка двух регистраций: уникальный индекс решает
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return ErrDuplicateEmail
		}
		return err
	}

	return s.issueCode(profile, models.CodeKindEmailVerification)
}

// Login — порядок проверок фиксированный: пароль, потом blocked, потом верификация.
func (s *authService) Login(email, password string) (string, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return "", err
	}
	if user == nil {
		// не раскрываем, существует ли email
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if user.Blocked {
		return "", ErrAccountBlocked
	}
	if user.EmailVerifiedAt == nil {
		return "", ErrEmailNotVerified
	}
	return s.tokens.Issue(user)
}

// VerifyEmail — одноразовое потребление кода: сначала условное удаление,
// при гонке выигрывает ровно один вызов.
func (s *authService) VerifyEmail(email, code string) (string, error) {
	email = normalizeEmail(email)

	rec, err := s.codes.FindValid(email, code, models.CodeKindEmailVerification, time.Now())
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrInvalidOrExpiredCode
	}
	deleted, err := s.codes.Delete(rec.ID)
	if err != nil {
		return "", err
	}
	if !deleted {
		return "", ErrInvalidOrExpiredCode
	}

	// Код ссылается на аккаунт только по email, пользователя ищем заново.
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("user %q missing after valid verification code", email)
	}

	now := time.Now()
	if user.EmailVerifiedAt == nil {
		if err := s.users.SetEmailVerified(user.ID, now); err != nil {
			return "", err
		}
		user.EmailVerifiedAt = &now
	}

	return s.tokens.Issue(user)
}

func (s *authService) ForgotPassword(email string) error {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrEmailNotFound
	}
	// blocked/unverified не проверяем и не раскрываем
	return s.issueCode(user, models.CodeKindPasswordReset)
}

// ResetPassword — меняет только пароль: не верифицирует почту,
// не снимает блокировку и не выдаёт токен.
func (s *authService) ResetPassword(email, code, newPassword string) error {
	email = normalizeEmail(email)

	rec, err := s.codes.FindValid(email, code, models.CodeKindPasswordReset, time.Now())
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrInvalidOrExpiredCode
	}
	deleted, err := s.codes.Delete(rec.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrInvalidOrExpiredCode
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %q missing after valid reset code", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(user.ID, string(hash))
}

func (s *authService) BlockUser(actorRole string, targetID int) error {
	if !authz.IsAdmin(actorRole) {
		return ErrForbidden
	}
	target, err := s.users.GetByID(targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	// разблокировки нет: флаг снимается только руками в БД
	return s.users.SetBlocked(target.ID, true)
}

// issueCode — генерирует код, сохраняет и рассылает. Доставка — fire-and-forget:
// ошибки канала логируем, но операцию не валим.
func (s *authService) issueCode(user *models.User, kind string) error {
	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return err
	}
	if _, err := s.codes.Create(user.Email, code, kind, time.Now().Add(codeTTL)); err != nil {
		return err
	}

	if s.emails != nil {
		if err := s.emails.SendVerificationCode(user.Email, code, kind); err != nil {
			log.Printf("[auth][notify] failed to email code to %s: %v", user.Email, err)
		}
	}
	if s.sms != nil && user.PhoneNumber != "" {
		if err := s.sms.SendVerificationCode(user.PhoneNumber, code); err != nil {
			log.Printf("[auth][notify] failed to sms code to %s: %v", user.PhoneNumber, err)
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"authapi/internal/models"
)

type VerificationCodeRepository interface {
	Create(email, code, kind string, expiresAt time.Time) (*models.VerificationCode, error)
	FindValid(email, code, kind string, now time.Time) (*models.VerificationCode, error)
	Delete(id int64) (bool, error)
}

type verificationCodeRepository struct {
	DB *sql.DB
}

func NewVerificationCodeRepository(db *sql.DB) VerificationCodeRepository {
	return &verificationCodeRepository{DB: db}
}

// Create — каждая отправка кода создаёт новую строку, уникальность не требуется.
func (r *verificationCodeRepository) Create(email, code, kind string, expiresAt time.Time) (*models.VerificationCode, error) {
	const q = `
		INSERT INTO verification_codes (email, code, kind, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	v := &models.VerificationCode{Email: email, Code: code, Kind: kind, ExpiresAt: expiresAt}
	if err := r.DB.QueryRow(q, email, code, kind, expiresAt).Scan(&v.ID, &v.CreatedAt); err != nil {
		return nil, fmt.Errorf("verification_code create: %w", err)
	}
	return v, nil
}

// FindValid — запись с совпадением (email, code, kind) и непросроченным expires_at.
// Просроченные строки не удаляем: срок проверяется при чтении.
func (r *verificationCodeRepository) FindValid(email, code, kind string, now time.Time) (*models.VerificationCode, error) {
	const q = `
		SELECT id, email, code, kind, expires_at, created_at
		FROM verification_codes
		WHERE email = $1 AND code = $2 AND kind = $3 AND expires_at > $4
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRow(q, email, code, kind, now)
	var v models.VerificationCode
	if err := row.Scan(&v.ID, &v.Email, &v.Code, &v.Kind, &v.ExpiresAt, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("verification_code find: %w", err)
	}
	return &v, nil
}

// Delete — условное удаление: при гонке двух подтверждений строку
// получает ровно один вызов (RowsAffected), второй видит false.
func (r *verificationCodeRepository) Delete(id int64) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM verification_codes WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("verification_code delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("verification_code delete: %w", err)
	}
	return n > 0, nil
}

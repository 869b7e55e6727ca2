package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"authapi/internal/models"
)

// ErrDuplicateEmail — нарушение уникальности email при создании.
var ErrDuplicateEmail = errors.New("duplicate email")

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdatePassword(userID int, passwordHash string) error
	SetEmailVerified(userID int, verifiedAt time.Time) error
	SetBlocked(userID int, blocked bool) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			first_name, last_name, email, phone_number, state, country, birthday,
			password_hash, role, blocked, email_verified_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`
	err := r.DB.QueryRow(q,
		user.FirstName,
		user.LastName,
		user.Email,
		nullString(user.PhoneNumber),
		nullString(user.State),
		nullString(user.Country),
		user.Birthday,
		user.PasswordHash,
		user.Role,
		user.Blocked,
		user.EmailVerifiedAt,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		// 23505 = unique_violation (users_email_key)
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return r.getOne(`WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`WHERE email = $1`, email)
}

func (r *userRepository) getOne(where string, arg interface{}) (*models.User, error) {
	q := `
		SELECT
			id, first_name, last_name, email, phone_number, state, country, birthday,
			password_hash, role, blocked, email_verified_at
		FROM users
	` + where
	u := &models.User{}
	var (
		phone      sql.NullString
		state      sql.NullString
		country    sql.NullString
		birthday   sql.NullTime
		verifiedAt sql.NullTime
	)
	err := r.DB.QueryRow(q, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &phone, &state, &country, &birthday,
		&u.PasswordHash, &u.Role, &u.Blocked, &verifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("user get: %w", err)
	}
	if phone.Valid {
		u.PhoneNumber = phone.String
	}
	if state.Valid {
		u.State = state.String
	}
	if country.Valid {
		u.Country = country.String
	}
	if birthday.Valid {
		t := birthday.Time
		u.Birthday = &t
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		u.EmailVerifiedAt = &t
	}
	return u, nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("user update password: %w", err)
	}
	return nil
}

// SetEmailVerified — ставит отметку ровно один раз; повторные вызовы no-op.
func (r *userRepository) SetEmailVerified(userID int, verifiedAt time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET email_verified_at=$1
		WHERE id=$2 AND email_verified_at IS NULL
	`, verifiedAt, userID)
	if err != nil {
		return fmt.Errorf("user set verified: %w", err)
	}
	return nil
}

func (r *userRepository) SetBlocked(userID int, blocked bool) error {
	_, err := r.DB.Exec(`UPDATE users SET blocked=$1 WHERE id=$2`, blocked, userID)
	if err != nil {
		return fmt.Errorf("user set blocked: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

package app

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"authapi/internal/authz"
	"authapi/internal/config"
	"authapi/internal/models"
	"authapi/internal/repositories"
)

// seedAdmin — идемпотентно заводит админа из конфига (почта сразу подтверждена).
func seedAdmin(users repositories.UserRepository, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	existing, err := users.GetByEmail(cfg.Admin.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	admin := &models.User{
		FirstName:       "Admin",
		LastName:        "User",
		Email:           cfg.Admin.Email,
		PasswordHash:    string(hash),
		Role:            authz.RoleAdmin,
		Blocked:         false,
		EmailVerifiedAt: &now,
	}
	if err := users.Create(admin); err != nil {
		return err
	}
	log.Printf("[seed] admin account created: %s", cfg.Admin.Email)
	return nil
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"authapi/internal/authz"
	"authapi/internal/handlers"
	"authapi/internal/models"
	"authapi/internal/repositories"
	"authapi/internal/routes"
	"authapi/internal/services"
)

// ===== in-memory фейки (как в тестах сервиса, но в своём пакете) =====

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[int]*models.User
}

func (r *memUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	r.seq++
	user.ID = r.seq
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpdatePassword(userID int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *memUserRepo) SetEmailVerified(userID int, verifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok && u.EmailVerifiedAt == nil {
		t := verifiedAt
		u.EmailVerifiedAt = &t
	}
	return nil
}

func (r *memUserRepo) SetBlocked(userID int, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.Blocked = blocked
	}
	return nil
}

type memCodeRepo struct {
	mu    sync.Mutex
	seq   int64
	codes map[int64]*models.VerificationCode
}

func (r *memCodeRepo) Create(email, code, kind string, expiresAt time.Time) (*models.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	v := &models.VerificationCode{
		ID: r.seq, Email: email, Code: code, Kind: kind,
		ExpiresAt: expiresAt, CreatedAt: time.Now(),
	}
	r.codes[v.ID] = v
	return v, nil
}

func (r *memCodeRepo) FindValid(email, code, kind string, now time.Time) (*models.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.codes {
		if v.Email == email && v.Code == code && v.Kind == kind && v.ExpiresAt.After(now) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCodeRepo) Delete(id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codes[id]; !ok {
		return false, nil
	}
	delete(r.codes, id)
	return true, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent map[string]string
}

func (m *fakeMailer) SendVerificationCode(email, code, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[email+"/"+kind] = code
	return nil
}

func (m *fakeMailer) lastCode(email, kind string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[email+"/"+kind]
}

// ===== инфраструктура теста =====

type envelope struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type testServer struct {
	router *gin.Engine
	users  *memUserRepo
	mailer *fakeMailer
	tokens services.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUserRepo{users: map[int]*models.User{}}
	codes := &memCodeRepo{codes: map[int64]*models.VerificationCode{}}
	mailer := &fakeMailer{sent: map[string]string{}}
	tokens := services.NewTokenService("test-secret", time.Hour)
	authSvc := services.NewAuthService(users, codes, tokens, mailer, nil)

	router := gin.New()
	routes.SetupRoutes(router, handlers.NewAuthHandler(authSvc), handlers.NewDashboardHandler(), tokens)

	return &testServer{router: router, users: users, mailer: mailer, tokens: tokens}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func (ts *testServer) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	now := time.Now()
	admin := &models.User{
		FirstName: "Admin", LastName: "User", Email: "admin@x.com",
		PasswordHash: string(hash), Role: authz.RoleAdmin, EmailVerifiedAt: &now,
	}
	require.NoError(t, ts.users.Create(admin))

	token, err := ts.tokens.Issue(admin)
	require.NoError(t, err)
	return token
}

// ===== сценарии =====

func TestEndToEndRegistrationFlow(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodPost, "/register", "", gin.H{
		"first_name":            "Alice",
		"last_name":             "Smith",
		"email":                 "a@x.com",
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 201, env.Status)
	require.Equal(t, "Verification code sent to your email.", env.Message)

	// вход до подтверждения
	w, env = ts.do(t, http.MethodPost, "/login", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Please verify your email.", env.Message)

	// неверный код
	w, env = ts.do(t, http.MethodPost, "/verify-email", "", gin.H{"email": "a@x.com", "code": "000000"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid or expired code.", env.Message)

	// верный код
	code := ts.mailer.lastCode("a@x.com", models.CodeKindEmailVerification)
	w, env = ts.do(t, http.MethodPost, "/verify-email", "", gin.H{"email": "a@x.com", "code": code})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Email verified successfully.", env.Message)
	require.NotEmpty(t, env.Data["token"])

	// теперь вход проходит
	w, env = ts.do(t, http.MethodPost, "/login", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Operation successful.", env.Message)
	require.NotEmpty(t, env.Data["token"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodPost, "/login", "", gin.H{"email": "nobody@x.com", "password": "whatever"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Unauthorized access.", env.Message)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	// пароль и подтверждение не совпадают
	w, _ := ts.do(t, http.MethodPost, "/register", "", gin.H{
		"first_name":            "Alice",
		"last_name":             "Smith",
		"email":                 "a@x.com",
		"password":              "secret1",
		"password_confirmation": "secret2",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// кривой birthday
	w, env := ts.do(t, http.MethodPost, "/register", "", gin.H{
		"first_name":            "Alice",
		"last_name":             "Smith",
		"email":                 "a@x.com",
		"birthday":              "not-a-date",
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Birthday must be a valid date (YYYY-MM-DD).", env.Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodGet, "/user-dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Missing or invalid Authorization header", env.Message)

	w, env = ts.do(t, http.MethodGet, "/user-dashboard", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid or expired token.", env.Message)
}

func TestDashboardsClaimGating(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.seedAdmin(t)

	// обычный пользователь
	ts.do(t, http.MethodPost, "/register", "", gin.H{
		"first_name": "Alice", "last_name": "Smith", "email": "a@x.com",
		"password": "secret1", "password_confirmation": "secret1",
	})
	code := ts.mailer.lastCode("a@x.com", models.CodeKindEmailVerification)
	_, env := ts.do(t, http.MethodPost, "/verify-email", "", gin.H{"email": "a@x.com", "code": code})
	userToken, _ := env.Data["token"].(string)
	require.NotEmpty(t, userToken)

	w, env := ts.do(t, http.MethodGet, "/user-dashboard", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Welcome to User Dashboard", env.Data["message"])

	w, env = ts.do(t, http.MethodGet, "/admin-dashboard", userToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Forbidden action.", env.Message)

	w, env = ts.do(t, http.MethodGet, "/admin-dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Welcome to Admin Dashboard", env.Data["message"])

	w, env = ts.do(t, http.MethodPost, "/logout", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Logged out successfully.", env.Message)
}

func TestBlockUserOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.seedAdmin(t)

	ts.do(t, http.MethodPost, "/register", "", gin.H{
		"first_name": "Alice", "last_name": "Smith", "email": "a@x.com",
		"password": "secret1", "password_confirmation": "secret1",
	})
	code := ts.mailer.lastCode("a@x.com", models.CodeKindEmailVerification)
	_, env := ts.do(t, http.MethodPost, "/verify-email", "", gin.H{"email": "a@x.com", "code": code})
	userToken, _ := env.Data["token"].(string)

	target, err := ts.users.GetByEmail("a@x.com")
	require.NoError(t, err)

	// не-админ
	w, env := ts.do(t, http.MethodPost, "/block-user", userToken, gin.H{"user_id": target.ID})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Forbidden action.", env.Message)

	// админ
	w, env = ts.do(t, http.MethodPost, "/block-user", adminToken, gin.H{"user_id": target.ID})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "User blocked successfully.", env.Message)

	// заблокированный с верным паролем
	w, env = ts.do(t, http.MethodPost, "/login", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "You're blocked.", env.Message)

	// старый токен продолжает жить со старыми claims (снимок на момент выдачи)
	w, _ = ts.do(t, http.MethodGet, "/user-dashboard", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// несуществующая цель
	w, env = ts.do(t, http.MethodPost, "/block-user", adminToken, gin.H{"user_id": 99999})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "User not found.", env.Message)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPost, "/register", "", gin.H{
		"first_name": "Alice", "last_name": "Smith", "email": "a@x.com",
		"password": "secret1", "password_confirmation": "secret1",
	})
	code := ts.mailer.lastCode("a@x.com", models.CodeKindEmailVerification)
	ts.do(t, http.MethodPost, "/verify-email", "", gin.H{"email": "a@x.com", "code": code})

	// неизвестный email
	w, env := ts.do(t, http.MethodPost, "/forgot-password", "", gin.H{"email": "nobody@x.com"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Email not found.", env.Message)

	w, _ = ts.do(t, http.MethodPost, "/forgot-password", "", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, w.Code)

	resetCode := ts.mailer.lastCode("a@x.com", models.CodeKindPasswordReset)
	w, env = ts.do(t, http.MethodPost, "/reset-password", "", gin.H{
		"email": "a@x.com", "code": resetCode,
		"password": "newpass1", "password_confirmation": "newpass1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Password reset successfully.", env.Message)
	// токен при сбросе не выдаётся
	require.Empty(t, env.Data["token"])

	w, _ = ts.do(t, http.MethodPost, "/login", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/login", "", gin.H{"email": "a@x.com", "password": "newpass1"})
	require.Equal(t, http.StatusOK, w.Code)
}

package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"authapi/internal/models"
	"authapi/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// @Summary      Вход в систему
// @Description  Проверяет учётные данные и возвращает bearer-токен
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]interface{}
// @Failure      403    {object}  map[string]interface{}
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.fail(c, "login", err)
		return
	}
	respond(c, http.StatusOK, "Operation successful.", gin.H{"token": token})
}

// @Summary      Регистрация
// @Description  Создаёт аккаунт и отправляет код подтверждения на почту
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Данные регистрации"
// @Success      201       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]interface{}
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	profile := &models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		State:       req.State,
		Country:     req.Country,
	}
	if req.Birthday != "" {
		t, err := time.Parse(time.DateOnly, req.Birthday)
		if err != nil {
			respond(c, http.StatusBadRequest, "Birthday must be a valid date (YYYY-MM-DD).", nil)
			return
		}
		profile.Birthday = &t
	}

	if err := h.authService.Register(profile, req.Password); err != nil {
		h.fail(c, "register", err)
		return
	}
	respond(c, http.StatusCreated, "Verification code sent to your email.", nil)
}

// @Summary      Подтверждение почты
// @Description  Проверяет одноразовый код и выдаёт токен
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        verify  body      models.VerifyEmailRequest  true  "Email и код"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]interface{}
// @Router       /verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	token, err := h.authService.VerifyEmail(req.Email, req.Code)
	if err != nil {
		h.fail(c, "verify-email", err)
		return
	}
	respond(c, http.StatusOK, "Email verified successfully.", gin.H{"token": token})
}

// @Summary      Запрос сброса пароля
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        forgot  body      models.ForgotPasswordRequest  true  "Email"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]interface{}
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		h.fail(c, "forgot-password", err)
		return
	}
	respond(c, http.StatusOK, "Password reset code sent to your email.", nil)
}

// @Summary      Сброс пароля по коду
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetPasswordRequest  true  "Email, код и новый пароль"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]interface{}
// @Router       /reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.authService.ResetPassword(req.Email, req.Code, req.Password); err != nil {
		h.fail(c, "reset-password", err)
		return
	}
	respond(c, http.StatusOK, "Password reset successfully.", nil)
}

// @Summary      Выход
// @Description  Токены stateless, на сервере ничего не инвалидируется
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	respond(c, http.StatusOK, "Logged out successfully.", nil)
}

// @Summary      Блокировка пользователя (admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        block  body      models.BlockUserRequest  true  "ID пользователя"
// @Success      200    {object}  map[string]interface{}
// @Failure      403    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]interface{}
// @Router       /block-user [post]
func (h *AuthHandler) BlockUser(c *gin.Context) {
	var req models.BlockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	claims, ok := claimsFromCtx(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "Missing or invalid Authorization header", nil)
		return
	}

	if err := h.authService.BlockUser(claims.Role, req.UserID); err != nil {
		h.fail(c, "block-user", err)
		return
	}
	respond(c, http.StatusOK, "User blocked successfully.", nil)
}

// fail — перевод доменных ошибок в статус и сообщение конверта.
// Всё, что не из таксономии — инфраструктура, логируем для операторов.
func (h *AuthHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		respond(c, http.StatusBadRequest, "Email already registered.", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, "Unauthorized access.", nil)
	case errors.Is(err, services.ErrAccountBlocked):
		respond(c, http.StatusForbidden, "You're blocked.", nil)
	case errors.Is(err, services.ErrEmailNotVerified):
		respond(c, http.StatusForbidden, "Please verify your email.", nil)
	case errors.Is(err, services.ErrInvalidOrExpiredCode):
		respond(c, http.StatusBadRequest, "Invalid or expired code.", nil)
	case errors.Is(err, services.ErrEmailNotFound):
		respond(c, http.StatusNotFound, "Email not found.", nil)
	case errors.Is(err, services.ErrForbidden):
		respond(c, http.StatusForbidden, "Forbidden action.", nil)
	case errors.Is(err, services.ErrUserNotFound):
		respond(c, http.StatusNotFound, "User not found.", nil)
	default:
		log.Printf("[auth][%s] internal error: %v", op, err)
		respond(c, http.StatusInternalServerError, "Internal server error.", nil)
	}
}

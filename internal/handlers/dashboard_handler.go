package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"authapi/internal/authz"
)

// DashboardHandler — демонстрационные защищённые ресурсы.
// Проверки идут по claims токена (снимок на момент выдачи), без похода в БД.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

// @Summary      Дашборд пользователя
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /user-dashboard [get]
func (h *DashboardHandler) UserDashboard(c *gin.Context) {
	claims, ok := claimsFromCtx(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "Missing or invalid Authorization header", nil)
		return
	}
	if claims.Blocked {
		respond(c, http.StatusForbidden, "You're blocked.", nil)
		return
	}
	respond(c, http.StatusOK, "Operation successful.", gin.H{"message": "Welcome to User Dashboard"})
}

// @Summary      Дашборд администратора
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /admin-dashboard [get]
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	claims, ok := claimsFromCtx(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "Missing or invalid Authorization header", nil)
		return
	}
	if !authz.IsAdmin(claims.Role) {
		respond(c, http.StatusForbidden, "Forbidden action.", nil)
		return
	}
	respond(c, http.StatusOK, "Operation successful.", gin.H{"message": "Welcome to Admin Dashboard"})
}

package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/services"
)

type taskStatResponse struct {
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type dashboardStatsResponse struct {
	TotalUsers int64              `json:"total_users"`
	TotalTasks int64              `json:"total_tasks"`
	AllTasks   []taskStatResponse `json:"all_tasks"`
}

func (h *handlerImpl) HandleDashboardStats(c *gin.Context) {
	stats, err := h.admin.DashboardStats(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to collect dashboard stats")
		abort(c, newServiceError(err))
		return
	}

	response := dashboardStatsResponse{
		TotalUsers: stats.TotalUsers,
		TotalTasks: stats.TotalTasks,
		AllTasks:   make([]taskStatResponse, len(stats.AllTasks)),
	}
	for i, t := range stats.AllTasks {
		response.AllTasks[i] = taskStatResponse{
			Status:    string(t.Status),
			CreatedAt: t.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	response := make([]getUserResponse, len(users))
	for i, u := range users {
		response[i] = newGetUserResponse(u)
	}
	c.JSON(http.StatusOK, response)
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *handlerImpl) HandleChangeRole(c *gin.Context) {
	adminID, _ := getStringFromContext(c, userIDCtxKey)

	var req changeRoleRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.admin.ChangeRole(c, services.ChangeRoleParams{
		TargetID: c.Param("id"),
		AdminID:  adminID,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", c.Param("id")).
			Msg("failed to change role")
		abort(c, newServiceError(err))
		return
	}
	c.JSON(http.StatusOK, newGetUserResponse(user))
}

func (h *handlerImpl) HandleDeleteUser(c *gin.Context) {
	adminID, _ := getStringFromContext(c, userIDCtxKey)
	targetID := c.Param("id")

	err := h.admin.DeleteUser(c, targetID, adminID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", targetID).
			Msg("failed to delete user")
		abort(c, newServiceError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/services"
)

type getUserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	ProfilePic   string    `json:"profile_pic"`
	Address      string    `json:"address"`
	Contact      string    `json:"contact"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PinCode      string    `json:"pin_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newGetUserResponse(u *models.User) getUserResponse {
	return getUserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		AuthProvider: string(u.AuthProvider),
		ProfilePic:   u.ProfilePic,
		Address:      u.Address,
		Contact:      u.Contact,
		City:         u.City,
		State:        u.State,
		PinCode:      u.PinCode,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (h *handlerImpl) HandleGetMe(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	user, err := h.users.GetUserByID(c, userID)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}
	c.JSON(http.StatusOK, newGetUserResponse(user))
}

type updateProfileRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Address *string `json:"address,omitempty"`
	Contact *string `json:"contact,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	PinCode *string `json:"pin_code,omitempty"`
}

func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req updateProfileRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.UpdateProfile(c, services.UpdateProfileParams{
		UserID:  userID,
		Name:    req.Name,
		Address: req.Address,
		Contact: req.Contact,
		City:    req.City,
		State:   req.State,
		PinCode: req.PinCode,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update profile")
		abort(c, newServiceError(err))
		return
	}
	c.JSON(http.StatusOK, newGetUserResponse(user))
}

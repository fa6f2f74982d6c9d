package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/services"
)

type getNotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	RelatedID *string   `json:"related_id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func newGetNotificationResponse(n *models.Notification) getNotificationResponse {
	return getNotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		Type:      string(n.Category),
		Read:      n.Read,
		RelatedID: n.RelatedID,
		Source:    string(n.Source),
		CreatedAt: n.CreatedAt,
	}
}

func (h *handlerImpl) HandleGetNotifications(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	params := services.ListNotificationsParams{UserID: userID}
	if raw := c.Query("source"); raw != "" {
		source, err := models.ParseNotificationSource(raw)
		if err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
		params.Source = &source
	}

	notes, err := h.notifications.ListNotifications(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list notifications")
		abort(c, newServiceError(err))
		return
	}

	response := make([]getNotificationResponse, len(notes))
	for i, n := range notes {
		response[i] = newGetNotificationResponse(n)
	}
	c.JSON(http.StatusOK, response)
}

type createNotificationRequest struct {
	Message   string  `json:"message"`
	Type      string  `json:"type"`
	Source    string  `json:"source"`
	RelatedID *string `json:"related_id"`
}

func (h *handlerImpl) HandleCreateNotification(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req createNotificationRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	if req.Message == "" || req.Source == "" {
		abort(c, newBadRequestError("message and source are required"))
		return
	}

	params := services.CreateNotificationParams{
		UserID:    userID,
		Message:   req.Message,
		RelatedID: req.RelatedID,
	}
	if params.Source, err = models.ParseNotificationSource(req.Source); err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}
	if req.Type != "" {
		if params.Category, err = models.ParseNotificationCategory(req.Type); err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
	}

	n, err := h.notifications.CreateNotification(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create notification")
		abort(c, newServiceError(err))
		return
	}
	c.JSON(http.StatusCreated, newGetNotificationResponse(n))
}

func (h *handlerImpl) HandleMarkNotificationRead(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	err := h.notifications.MarkRead(c, c.Param("id"), userID)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

func (h *handlerImpl) HandleMarkAllNotificationsRead(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	updated, err := h.notifications.MarkAllRead(c, userID)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *handlerImpl) HandleDeleteNotification(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	err := h.notifications.DeleteNotification(c, c.Param("id"), userID)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}

func (h *handlerImpl) HandleNotificationStream(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	// The upgrade writes its own error response.
	if err := h.stream.Serve(c.Writer, c.Request, userID); err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to serve notification stream")
	}
}

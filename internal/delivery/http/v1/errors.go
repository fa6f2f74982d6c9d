package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskboard/internal/services"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errMandatoryCookieNotFound = errors.New("mandatory cookie not found")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// newServiceError maps a services sentinel onto its HTTP status. Unknown
// errors are reported as 500 without their text.
func newServiceError(err error) apiError {
	switch {
	case errors.Is(err, services.ErrValidation):
		return newBadRequestError(err.Error())
	case errors.Is(err, services.ErrForbidden):
		return newForbiddenError(err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrNotFound):
		return newNotFoundError(err.Error())
	case errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrSessionExpired):
		return newUnauthorizedError(err.Error())
	case errors.Is(err, services.ErrUserAlreadyExists):
		return newConflictError(err.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}

package api

import (
	"errors"
	"net/http"
	"time"

	"alcyxob/fitness-schedule/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// respondWithServiceError maps service errors to HTTP status codes.
func respondWithServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrItemAccessDenied),
		errors.Is(err, service.ErrTemplateAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrTemplateAlreadySaved):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNoCandidates):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrExportFailed):
		abortWithError(c, http.StatusBadGateway, err.Error())
	default:
		logrus.Errorf("failed to %s: %s", action, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to "+action)
	}
}

// parseDate reads a YYYY-MM-DD date. An empty value is an error.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("date is required (YYYY-MM-DD)")
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.New("date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

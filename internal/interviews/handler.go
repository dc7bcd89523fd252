package interviews

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hirewise-backend/internal/shared/server/middleware"
	"hirewise-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID:    middleware.UserIDFromContext(c),
		CompanyID: middleware.CompanyIDFromContext(c),
		Role:      middleware.RoleFromContext(c),
	}
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

// writeError maps service errors onto the shared error envelope.
func writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Validation(c, "", verr.Fields)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "interview not found", nil)
	case errors.Is(err, ErrApplicationNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	case errors.Is(err, ErrInterviewerNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "interviewer not found", nil)
	case errors.Is(err, ErrSlotConflict):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, ErrPastSchedule):
		respond.Error(c, http.StatusBadRequest, "past_schedule", err.Error(), nil)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotReschedulable):
		respond.Error(c, http.StatusBadRequest, "invalid_transition", err.Error(), nil)
	case errors.Is(err, ErrFeedbackTooEarly):
		respond.Error(c, http.StatusBadRequest, "feedback_too_early", err.Error(), nil)
	case errors.Is(err, ErrEditWindowExpired):
		respond.Error(c, http.StatusBadRequest, "edit_window_expired", err.Error(), nil)
	default:
		respond.Internal(c, fallback, err)
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respond.Validation(c, "invalid request body", nil)
		return false
	}
	return true
}

package applications

import (
	"errors"
	"net/http"

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

// RegisterRoutes mounts the HR application routes on an hr-scoped group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/applications/:id/decision", h.decide)
}

type decisionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) decide(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body", nil)
		return
	}
	app, err := h.Svc.Decide(c.Request.Context(), DecisionInput{
		CompanyID:     middleware.CompanyIDFromContext(c),
		ApplicationID: c.Param("id"),
		Status:        req.Status,
		Notes:         req.Notes,
		DecidedBy:     middleware.UserIDFromContext(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDecision):
			respond.Validation(c, "", []respond.FieldError{{Field: "status", Message: err.Error()}})
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		case errors.Is(err, ErrDecisionNotAllowed):
			respond.Error(c, http.StatusBadRequest, "decision_not_allowed",
				"a completed interview with feedback is required before a decision", nil)
		default:
			respond.Internal(c, "failed to record decision", err)
		}
		return
	}
	respond.OK(c, app)
}

package companies

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hirewise-backend/internal/shared/server/middleware"
	"hirewise-backend/internal/shared/server/respond"
	"hirewise-backend/internal/users"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register-company", h.register)
	rg.GET("/company", h.current)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body", nil)
		return
	}
	reg, err := h.Svc.Register(c.Request.Context(), req)
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			respond.Validation(c, "", vErr.Fields)
		case errors.Is(err, users.ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "conflict", "email already registered", nil)
		default:
			respond.Internal(c, "failed to register company", err)
		}
		return
	}
	respond.Created(c, reg)
}

func (h *Handler) current(c *gin.Context) {
	company, err := h.Svc.Get(c.Request.Context(), middleware.CompanyIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "company not found", nil)
			return
		}
		respond.Internal(c, "failed to load company", err)
		return
	}
	respond.OK(c, company)
}

package interviews

import (
	"github.com/gin-gonic/gin"

	"hirewise-backend/internal/shared/server/middleware"
	"hirewise-backend/internal/shared/server/respond"
)

// RegisterInterviewerRoutes mounts routes scoped to the calling interviewer.
func (h *Handler) RegisterInterviewerRoutes(rg *gin.RouterGroup) {
	rg.GET("/interviews", h.myInterviews)
	rg.GET("/interviews/:id", h.myInterview)
	rg.POST("/interviews/:id/feedback", h.submitFeedback)
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/feedback/pending", h.pendingFeedback)
}

func (h *Handler) myInterviews(c *gin.Context) {
	params := listParams(c)
	params.InterviewerID = middleware.UserIDFromContext(c)
	res, err := h.Svc.List(c.Request.Context(), middleware.CompanyIDFromContext(c), params)
	if err != nil {
		writeError(c, err, "failed to list interviews")
		return
	}
	respond.OK(c, newListResponse(res))
}

func (h *Handler) myInterview(c *gin.Context) {
	c.Set(middleware.InterviewIDKey, c.Param("id"))
	companyID := middleware.CompanyIDFromContext(c)
	iv, err := h.Svc.GetForInterviewer(c.Request.Context(), companyID, middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load interview")
		return
	}
	respond.OK(c, toResponse(iv, h.Svc.Location(c.Request.Context(), companyID)))
}

func (h *Handler) submitFeedback(c *gin.Context) {
	c.Set(middleware.InterviewIDKey, c.Param("id"))
	var input FeedbackInput
	if !bindJSON(c, &input) {
		return
	}
	iv, first, err := h.Svc.SubmitFeedback(c.Request.Context(), actorFrom(c), c.Param("id"), input)
	if err != nil {
		writeError(c, err, "failed to save feedback")
		return
	}
	body := toResponse(iv, h.Svc.Location(c.Request.Context(), iv.CompanyID))
	if first {
		respond.Created(c, body)
		return
	}
	respond.OK(c, body)
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.Svc.Dashboard(c.Request.Context(), middleware.CompanyIDFromContext(c), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to load dashboard")
		return
	}
	respond.OK(c, newDashboardResponse(d))
}

func (h *Handler) pendingFeedback(c *gin.Context) {
	res, err := h.Svc.PendingFeedback(c.Request.Context(), middleware.CompanyIDFromContext(c),
		middleware.UserIDFromContext(c), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		writeError(c, err, "failed to load pending feedback")
		return
	}
	respond.OK(c, newPendingResponse(res))
}

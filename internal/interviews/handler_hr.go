package interviews

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hirewise-backend/internal/shared/server/middleware"
	"hirewise-backend/internal/shared/server/respond"
	"hirewise-backend/internal/shared/util"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RegisterHRRoutes mounts the HR interview routes on an hr-scoped group.
func (h *Handler) RegisterHRRoutes(rg *gin.RouterGroup) {
	rg.GET("/interviews", h.list)
	rg.POST("/interviews", h.schedule)
	rg.GET("/interviews/export", h.export)
	rg.GET("/interviews/available-slots/:interviewerId", h.availableSlots)
	rg.GET("/interviews/:id", h.detail)
	rg.PUT("/interviews/:id", h.reschedule)
	rg.PATCH("/interviews/:id/status", h.changeStatus)
}

func listParams(c *gin.Context) ListParams {
	return ListParams{
		Page:          queryInt(c, "page"),
		Limit:         queryInt(c, "limit"),
		Status:        c.Query("status"),
		DateRange:     c.Query("dateRange"),
		Search:        c.Query("search"),
		InterviewerID: c.Query("interviewerId"),
		ApplicationID: c.Query("applicationId"),
	}
}

func (h *Handler) list(c *gin.Context) {
	res, err := h.Svc.List(c.Request.Context(), middleware.CompanyIDFromContext(c), listParams(c))
	if err != nil {
		writeError(c, err, "failed to list interviews")
		return
	}
	respond.OK(c, newListResponse(res))
}

func (h *Handler) schedule(c *gin.Context) {
	var input ScheduleInput
	if !bindJSON(c, &input) {
		return
	}
	iv, err := h.Svc.Schedule(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		writeError(c, err, "failed to schedule interview")
		return
	}
	c.Set(middleware.InterviewIDKey, iv.ID)
	respond.Created(c, toResponse(iv, h.Svc.Location(c.Request.Context(), iv.CompanyID)))
}

func (h *Handler) detail(c *gin.Context) {
	c.Set(middleware.InterviewIDKey, c.Param("id"))
	companyID := middleware.CompanyIDFromContext(c)
	iv, err := h.Svc.Get(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load interview")
		return
	}
	respond.OK(c, toResponse(iv, h.Svc.Location(c.Request.Context(), companyID)))
}

func (h *Handler) reschedule(c *gin.Context) {
	c.Set(middleware.InterviewIDKey, c.Param("id"))
	var input RescheduleInput
	if !bindJSON(c, &input) {
		return
	}
	iv, err := h.Svc.Reschedule(c.Request.Context(), actorFrom(c), c.Param("id"), input)
	if err != nil {
		writeError(c, err, "failed to reschedule interview")
		return
	}
	respond.OK(c, toResponse(iv, h.Svc.Location(c.Request.Context(), iv.CompanyID)))
}

func (h *Handler) changeStatus(c *gin.Context) {
	c.Set(middleware.InterviewIDKey, c.Param("id"))
	var input StatusInput
	if !bindJSON(c, &input) {
		return
	}
	iv, from, err := h.Svc.ChangeStatus(c.Request.Context(), actorFrom(c), c.Param("id"), input)
	if from != "" {
		c.Set(middleware.StatusTransitionKey, from+"->"+input.Status)
	}
	if err != nil {
		writeError(c, err, "failed to update interview status")
		return
	}
	c.Set(middleware.StatusTransitionKey, from+"->"+iv.Status)
	respond.OK(c, toResponse(iv, h.Svc.Location(c.Request.Context(), iv.CompanyID)))
}

func (h *Handler) availableSlots(c *gin.Context) {
	var duration *int
	if raw := c.Query("duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.Validation(c, "", []respond.FieldError{{Field: "duration", Message: "must be a number of minutes"}})
			return
		}
		duration = &n
	}
	slots, err := h.Svc.AvailableSlots(c.Request.Context(), middleware.CompanyIDFromContext(c),
		c.Param("interviewerId"), c.Query("date"), duration)
	if err != nil {
		writeError(c, err, "failed to compute available slots")
		return
	}
	if slots == nil {
		slots = []Slot{}
	}
	respond.OK(c, gin.H{"availableSlots": slots})
}

func (h *Handler) export(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	params := listParams(c)
	rows, loc, err := h.Svc.ExportRows(c.Request.Context(), companyID, params)
	if err != nil {
		writeError(c, err, "failed to export interviews")
		return
	}
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, rows, loc); err != nil {
		respond.Internal(c, "failed to render export", err)
		return
	}
	label := "interviews"
	if params.DateRange != "" {
		label += "-" + util.SanitizeFileName(params.DateRange)
	}
	name := fmt.Sprintf("%s-%s.xlsx", label, h.Svc.now().In(loc).Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

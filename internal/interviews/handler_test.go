package interviews

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xuri/excelize/v2"

	"hirewise-backend/internal/users"
)

func newTestRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	as := func(userID, role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("userId", userID)
			c.Set("companyId", companyID)
			c.Set("role", role)
			c.Next()
		}
	}
	h := NewHandler(f.svc)
	h.RegisterHRRoutes(router.Group("/api/hr", as(hrID, users.RoleHR)))
	h.RegisterInterviewerRoutes(router.Group("/api/interviewer", as(interviewerID, users.RoleInterviewer)))
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return body.Error.Code
}

const scheduleBody = `{"applicationId":"app-1","interviewerId":"interviewer-1","scheduledDate":"2025-09-20","scheduledTime":"10:00","duration":60,"type":"video"}`

func TestHTTPScheduleListFeedbackFlow(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)

	resp := serve(router, http.MethodPost, "/api/hr/interviews", scheduleBody)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created interviewResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ScheduledDate != "2025-09-20" || created.ScheduledTime != "10:00" || created.EndTime != "11:00" {
		t.Fatalf("unexpected local slot %+v", created)
	}
	if created.DisplayStatus != "Scheduled" || !created.CanReschedule || !created.CanCancel || created.HasFeedback {
		t.Fatalf("unexpected flags %+v", created)
	}

	resp = serve(router, http.MethodPost, "/api/hr/interviews", scheduleBody)
	if resp.Code != http.StatusConflict || errorCode(t, resp) != "conflict" {
		t.Fatalf("expected 409 conflict, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = serve(router, http.MethodGet, "/api/hr/interviews?dateRange=today&status=Scheduled", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var list listResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Interviews) != 1 || list.Pagination.Total != 1 || list.Pagination.TotalPages != 1 || list.Summary.TodayInterviews != 1 {
		t.Fatalf("unexpected list %+v", list)
	}

	feedback := `{"overallRating":4,"recommendation":"hire","strengths":["clear thinking"]}`
	path := "/api/interviewer/interviews/" + created.ID + "/feedback"

	f.at(2025, 9, 20, 9, 30)
	resp = serve(router, http.MethodPost, path, feedback)
	if resp.Code != http.StatusBadRequest || errorCode(t, resp) != "feedback_too_early" {
		t.Fatalf("expected 400 feedback_too_early, got %d: %s", resp.Code, resp.Body.String())
	}

	f.at(2025, 9, 20, 11, 15)
	resp = serve(router, http.MethodPost, path, feedback)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var done interviewResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if done.Status != StatusCompleted || done.DisplayStatus != "Completed" || !done.HasFeedback || done.CanReschedule {
		t.Fatalf("unexpected completed interview %+v", done)
	}

	resp = serve(router, http.MethodPost, path, feedback)
	if resp.Code != http.StatusOK {
		t.Fatalf("edit within window must return 200, got %d", resp.Code)
	}

	resp = serve(router, http.MethodPut, "/api/hr/interviews/"+created.ID, `{"scheduledDate":"2025-09-25","scheduledTime":"10:00"}`)
	if resp.Code != http.StatusBadRequest || errorCode(t, resp) != "invalid_transition" {
		t.Fatalf("expected 400 invalid_transition, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestHTTPStatusAndValidationErrors(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)

	resp := serve(router, http.MethodPost, "/api/hr/interviews", `{"type":"video"}`)
	if resp.Code != http.StatusBadRequest || errorCode(t, resp) != "validation_error" {
		t.Fatalf("expected validation_error, got %d", resp.Code)
	}
	var body struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	if len(body.Errors) != 4 {
		t.Fatalf("expected 4 field errors, got %+v", body.Errors)
	}

	past := `{"applicationId":"app-1","interviewerId":"interviewer-1","scheduledDate":"2025-09-19","scheduledTime":"10:00","type":"video"}`
	resp = serve(router, http.MethodPost, "/api/hr/interviews", past)
	if resp.Code != http.StatusBadRequest || errorCode(t, resp) != "past_schedule" {
		t.Fatalf("expected past_schedule, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = serve(router, http.MethodPost, "/api/hr/interviews", scheduleBody)
	var created interviewResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &created)

	resp = serve(router, http.MethodPatch, "/api/hr/interviews/"+created.ID+"/status", `{"status":"completed"}`)
	if resp.Code != http.StatusBadRequest || errorCode(t, resp) != "invalid_transition" {
		t.Fatalf("expected invalid_transition, got %d", resp.Code)
	}
	resp = serve(router, http.MethodPatch, "/api/hr/interviews/"+created.ID+"/status", `{"status":"cancelled","cancellationReason":"HR conflict"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var cancelled interviewResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &cancelled)
	if cancelled.CancelledAt == nil || cancelled.CanCancel || cancelled.CanReschedule {
		t.Fatalf("unexpected cancelled interview %+v", cancelled)
	}

	resp = serve(router, http.MethodGet, "/api/hr/interviews/does-not-exist", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	resp = serve(router, http.MethodGet, "/api/interviewer/interviews/"+created.ID, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("assigned interviewer must see the interview, got %d", resp.Code)
	}
}

func TestHTTPMalformedIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	repo, mock := newMockRepo(t)
	f.svc.Repo = repo
	router := newTestRouter(f)

	mock.ExpectQuery("WHERE i.id = \\$1 AND i.company_id = \\$2").
		WithArgs("not-a-uuid", companyID).
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})

	resp := serve(router, http.MethodGet, "/api/hr/interviews/not-a-uuid", "")
	if resp.Code != http.StatusNotFound || errorCode(t, resp) != "not_found" {
		t.Fatalf("expected 404 not_found, got %d: %s", resp.Code, resp.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestHTTPAvailableSlots(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)
	serve(router, http.MethodPost, "/api/hr/interviews", scheduleBody)

	resp := serve(router, http.MethodGet, "/api/hr/interviews/available-slots/interviewer-1?date=2025-09-20&duration=30", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		AvailableSlots []Slot `json:"availableSlots"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 09:00 to 17:30 on a 30 minute grid, minus 10:00 and 10:30.
	if len(body.AvailableSlots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(body.AvailableSlots))
	}

	resp = serve(router, http.MethodGet, "/api/hr/interviews/available-slots/interviewer-1?date=2025-09-20&duration=abc", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHTTPDashboardShape(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)
	serve(router, http.MethodPost, "/api/hr/interviews", scheduleBody)
	f.at(2025, 9, 20, 12, 0)

	resp := serve(router, http.MethodGet, "/api/interviewer/dashboard", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"summary", "todaysInterviews", "metrics", "weekComparison", "feedbackTurnaroundBuckets", "pendingSegments", "recentActivities"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("dashboard missing %q", key)
		}
	}
	var segments pendingSegments
	_ = json.Unmarshal(body["pendingSegments"], &segments)
	if segments.Unsubmitted != 1 || segments.TotalPending != 1 {
		t.Fatalf("unexpected segments %+v", segments)
	}

	resp = serve(router, http.MethodGet, "/api/interviewer/feedback/pending", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var pending pendingResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &pending); err != nil {
		t.Fatalf("decode pending: %v", err)
	}
	if len(pending.Interviews) != 1 || pending.Interviews[0].Priority != PriorityNormal || !pending.Interviews[0].Editable {
		t.Fatalf("unexpected pending %+v", pending)
	}
}

func TestHTTPExportWorkbook(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)
	resp := serve(router, http.MethodPost, "/api/hr/interviews", scheduleBody)
	var created interviewResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	f.at(2025, 9, 20, 11, 0)
	serve(router, http.MethodPost, "/api/interviewer/interviews/"+created.ID+"/feedback", `{"overallRating":5,"recommendation":"strong_hire"}`)

	resp = serve(router, http.MethodGet, "/api/hr/interviews/export", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); cd != `attachment; filename="interviews-20250920.xlsx"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
	book, err := excelize.OpenReader(bytes.NewReader(resp.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer book.Close()

	rows, err := book.GetRows(interviewsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Meera Iyer" || rows[1][5] != "2025-09-20" || rows[1][6] != "10:00" {
		t.Fatalf("unexpected interview rows %v", rows)
	}
	fbRows, err := book.GetRows(feedbackSheet)
	if err != nil {
		t.Fatalf("GetRows feedback: %v", err)
	}
	if len(fbRows) != 2 || fbRows[1][8] != RecommendationStrongHire {
		t.Fatalf("unexpected feedback rows %v", fbRows)
	}
}

package interviews

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"hirewise-backend/internal/shared/util"
)

const (
	interviewsSheet = "Interviews"
	feedbackSheet   = "Feedback"
)

var interviewHeaders = []string{
	"Interview ID", "Candidate", "Candidate Email", "Job Title", "Interviewer",
	"Date", "Time", "Duration (min)", "Type", "Round", "Status", "Reschedules", "Has Feedback",
}

var feedbackHeaders = []string{
	"Interview ID", "Candidate", "Interviewer", "Overall", "Technical", "Communication",
	"Problem Solving", "Cultural Fit", "Recommendation", "Strengths", "Weaknesses", "Submitted At",
}

// WriteWorkbook renders interviews as an xlsx workbook with one row per
// interview and one row per submitted feedback.
func WriteWorkbook(w io.Writer, ivs []Interview, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", interviewsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(feedbackSheet); err != nil {
		return fmt.Errorf("create feedback sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := writeHeader(f, interviewsSheet, interviewHeaders, headerStyle); err != nil {
		return err
	}
	if err := writeHeader(f, feedbackSheet, feedbackHeaders, headerStyle); err != nil {
		return err
	}

	fbRow := 2
	for i, iv := range ivs {
		date, clock := util.SplitDateTime(iv.ScheduledAt, loc)
		row := []interface{}{
			iv.ID, iv.CandidateName, iv.CandidateEmail, iv.JobTitle, iv.InterviewerName,
			date, clock, iv.DurationMinutes, iv.Type, iv.Round, DisplayStatus(iv.Status),
			len(iv.RescheduleHistory), yesNo(iv.HasFeedback()),
		}
		if err := setRow(f, interviewsSheet, i+2, row); err != nil {
			return err
		}
		if !iv.HasFeedback() {
			continue
		}
		fb := iv.Feedback
		submitted := fb.SubmittedAt.In(loc).Format(util.DateLayout + " " + util.TimeLayout)
		fbValues := []interface{}{
			iv.ID, iv.CandidateName, iv.InterviewerName, fb.OverallRating,
			optionalRating(fb.TechnicalSkills), optionalRating(fb.CommunicationSkills),
			optionalRating(fb.ProblemSolving), optionalRating(fb.CulturalFit),
			fb.Recommendation, strings.Join(fb.Strengths, "; "), strings.Join(fb.Weaknesses, "; "),
			submitted,
		}
		if err := setRow(f, feedbackSheet, fbRow, fbValues); err != nil {
			return err
		}
		fbRow++
	}

	for _, sheet := range []string{interviewsSheet, feedbackSheet} {
		_ = f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	return f.SetColWidth(sheet, "A", "M", 18)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func optionalRating(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

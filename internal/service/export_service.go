package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/analytics"
	"github.com/Huerte/AcademiQly/internal/grading"
	"github.com/Huerte/AcademiQly/internal/models"
	"github.com/Huerte/AcademiQly/internal/repository"
	"github.com/Huerte/AcademiQly/pkg/export"
)

// GradeExport is a rendered workbook.
type GradeExport struct {
	FileName string
	Content  []byte
}

// ExportService renders the graded submissions of a room as a spreadsheet.
type ExportService interface {
	RoomGrades(ctx context.Context, teacher models.Teacher, roomID uint) (GradeExport, error)
}

type exportService struct {
	rooms            repository.RoomRepository
	submissions      repository.SubmissionRepository
	defaultThreshold int
	logger           zerolog.Logger
	now              func() time.Time
}

// NewExportService constructs the export service.
func NewExportService(rooms repository.RoomRepository, submissions repository.SubmissionRepository, defaultThreshold int, logger zerolog.Logger) ExportService {
	return &exportService{
		rooms:            rooms,
		submissions:      submissions,
		defaultThreshold: defaultThreshold,
		logger:           logger.With().Str("component", "export_service").Logger(),
		now:              time.Now,
	}
}

func (s *exportService) RoomGrades(ctx context.Context, teacher models.Teacher, roomID uint) (GradeExport, error) {
	tracer := otel.Tracer("github.com/Huerte/AcademiQly/internal/service/export")
	ctx, span := tracer.Start(ctx, "export.room_grades")
	span.SetAttributes(attribute.Int64("export.room_id", int64(roomID)))
	defer span.End()

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "room_not_found")
			return GradeExport{}, ErrRoomNotFound
		}
		return GradeExport{}, err
	}
	if !room.OwnedBy(teacher.ID) {
		span.SetStatus(codes.Error, "not_room_owner")
		return GradeExport{}, ErrNotRoomOwner
	}

	graded := true
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{RoomIDs: []uint{room.ID}, Graded: &graded})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return GradeExport{}, err
	}

	sort.SliceStable(submissions, func(i, j int) bool {
		left, right := submissions[i], submissions[j]
		if left.Student.StudentNumber != right.Student.StudentNumber {
			return left.Student.StudentNumber < right.Student.StudentNumber
		}
		return left.Activity.Title < right.Activity.Title
	})

	threshold := grading.Threshold(room.BasePassing, s.defaultThreshold)
	rows := make([]export.GradeRow, 0, len(submissions))
	records := make([]analytics.Record, 0, len(submissions))
	for _, submission := range submissions {
		score := *submission.Score
		percentage, level := grading.Classify(score, submission.Activity.TotalMarks, threshold)
		rows = append(rows, export.GradeRow{
			StudentNumber: submission.Student.StudentNumber,
			StudentName:   submission.Student.FullName(),
			Activity:      submission.Activity.Title,
			Score:         score,
			Total:         submission.Activity.TotalMarks,
			Percentage:    percentage,
			Point:         level.Point(),
			Letter:        string(grading.LetterForScore(score, submission.Activity.TotalMarks)),
		})
		records = append(records, recordFromSubmission(submission, room))
	}

	now := s.now()
	report := analytics.Compute(analytics.Dataset{Records: records, DefaultThreshold: threshold}, now)

	var buf bytes.Buffer
	if err := export.WriteGrades(&buf, rows, roomSummary(room, report)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "workbook_write_failed")
		return GradeExport{}, err
	}

	span.SetAttributes(attribute.Int("export.rows", len(rows)))
	s.logger.Info().Uint("room_id", room.ID).Int("rows", len(rows)).Msg("room grades exported")

	return GradeExport{
		FileName: fmt.Sprintf("%s-grades-%s.xlsx", strings.ToLower(room.Code), now.Format("20060102")),
		Content:  buf.Bytes(),
	}, nil
}

func recordFromSubmission(submission models.Submission, room models.Room) analytics.Record {
	return analytics.Record{
		SubmissionID:  submission.ID,
		StudentID:     submission.StudentID,
		StudentName:   submission.Student.FullName(),
		StudentNumber: submission.Student.StudentNumber,
		ActivityID:    submission.ActivityID,
		ActivityTitle: submission.Activity.Title,
		RoomID:        room.ID,
		RoomName:      room.Name,
		RoomThreshold: room.BasePassing,
		TeacherID:     room.TeacherID,
		TeacherName:   room.Teacher.FullName(),
		Score:         submission.Score,
		TotalMarks:    submission.Activity.TotalMarks,
		SubmittedAt:   submission.SubmittedAt,
	}
}

func roomSummary(room models.Room, report analytics.Report) []export.SummaryItem {
	summary := []export.SummaryItem{
		{Label: "Room", Value: room.Name},
		{Label: "Room Code", Value: room.Code},
		{Label: "Passing Threshold", Value: report.PassingThreshold},
		{Label: "Graded Submissions", Value: report.GradedSubmissions},
		{Label: "Average Score", Value: report.AverageScore},
		{Label: "Median Score", Value: report.MedianScore},
		{Label: "Standard Deviation", Value: report.StdDevScore},
		{Label: "Passed", Value: report.PassFail.Passed},
		{Label: "Failed", Value: report.PassFail.Failed},
		{Label: "Pass Rate", Value: report.PassFail.PassRate},
	}
	for _, bucket := range report.GradeDistribution {
		summary = append(summary, export.SummaryItem{Label: bucket.Label, Value: bucket.Count})
	}
	return summary
}

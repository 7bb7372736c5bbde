package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/dashboard"
	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/grading"
	"github.com/Huerte/AcademiQly/internal/models"
	"github.com/Huerte/AcademiQly/internal/repository"
)

// StudentDashboardService produces the student's progress view.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, student models.Student, query dto.StudentDashboardQuery) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	sweeper          Sweeper
	rooms            repository.RoomRepository
	activities       repository.ActivityRepository
	submissions      repository.SubmissionRepository
	validator        *validator.Validate
	defaultThreshold int
	logger           zerolog.Logger
	now              func() time.Time
}

// NewStudentDashboardService builds the dashboard aggregator.
func NewStudentDashboardService(sweeper Sweeper, rooms repository.RoomRepository, activities repository.ActivityRepository, submissions repository.SubmissionRepository, validate *validator.Validate, defaultThreshold int, logger zerolog.Logger) StudentDashboardService {
	return &studentDashboardService{
		sweeper:          sweeper,
		rooms:            rooms,
		activities:       activities,
		submissions:      submissions,
		validator:        validate,
		defaultThreshold: defaultThreshold,
		logger:           logger.With().Str("component", "student_dashboard_service").Logger(),
		now:              time.Now,
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, student models.Student, query dto.StudentDashboardQuery) (dto.StudentDashboardResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	if _, err := s.sweeper.Sweep(ctx); err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	rooms, err := s.rooms.ListByStudent(ctx, student.ID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	roomIDs := make([]uint, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	activities, err := s.activities.ListByRooms(ctx, roomIDs)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &student.ID})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	return s.buildResponse(rooms, activities, submissions, query), nil
}

func (s *studentDashboardService) buildResponse(rooms []models.Room, activities []models.Activity, submissions []models.Submission, query dto.StudentDashboardQuery) dto.StudentDashboardResponse {
	now := s.now()

	enrolled := make(map[uint]struct{}, len(rooms))
	for _, room := range rooms {
		enrolled[room.ID] = struct{}{}
	}

	submissionByActivity := map[uint]models.Submission{}
	progressByRoom := map[uint]*dashboard.Progress{}
	var overall dashboard.Progress
	for _, submission := range submissions {
		if _, ok := enrolled[submission.Activity.RoomID]; !ok {
			continue
		}
		if _, exists := submissionByActivity[submission.ActivityID]; !exists {
			submissionByActivity[submission.ActivityID] = submission
		}
		tally, ok := progressByRoom[submission.Activity.RoomID]
		if !ok {
			tally = &dashboard.Progress{}
			progressByRoom[submission.Activity.RoomID] = tally
		}
		tally.Add(submission)
		overall.Add(submission)
	}

	response := dto.StudentDashboardResponse{
		Rooms:         make([]dto.StudentRoomProgress, 0, len(rooms)),
		Assignments:   make([]dto.StudentAssignmentItem, 0, len(activities)),
		Upcoming:      make([]dto.UpcomingActivity, 0, dashboard.UpcomingLimit),
		CourseOptions: make([]string, 0, len(rooms)),
		Filters:       query,
		GeneratedAt:   now,
	}

	for _, room := range rooms {
		entry := dto.StudentRoomProgress{
			RoomID:     room.ID,
			Name:       room.Name,
			Code:       room.Code,
			Instructor: room.Teacher.FullName(),
		}
		if tally, ok := progressByRoom[room.ID]; ok {
			entry.ScoredMarks = tally.Scored
			entry.PossibleMarks = tally.Possible
			entry.GradedCount = tally.Graded
			if percentage, ok := tally.Percentage(); ok {
				entry.Progress = grading.Round2(percentage)
				entry.Letter = string(grading.LetterFor(percentage))
			}
		}
		response.Rooms = append(response.Rooms, entry)
		response.CourseOptions = append(response.CourseOptions, room.Code)
	}

	for _, activity := range activities {
		var submission *models.Submission
		if found, ok := submissionByActivity[activity.ID]; ok {
			submission = &found
		}
		status := dashboard.ClassifyAssignment(submission, activity, now)

		// Stats and upcoming ignore the filters.
		switch status {
		case dashboard.StatusPending:
			response.Stats.Pending++
		case dashboard.StatusSubmitted:
			response.Stats.Submitted++
		case dashboard.StatusGraded:
			response.Stats.Graded++
		case dashboard.StatusOverdue:
			response.Stats.Overdue++
		}
		response.Stats.Total++

		if activity.DueDate != nil && !activity.DueDate.Before(now) && len(response.Upcoming) < dashboard.UpcomingLimit {
			response.Upcoming = append(response.Upcoming, dto.UpcomingActivity{
				ActivityID: activity.ID,
				Title:      activity.Title,
				RoomCode:   activity.Room.Code,
				DueDate:    *activity.DueDate,
			})
		}

		if query.Status != "" && query.Status != string(status) {
			continue
		}
		if !dashboard.SelectorMatches(query.Course, activity.Room.Code) {
			continue
		}
		if !dashboard.Matches(query.Search, activity.Title, activity.Room.Name, activity.Room.Code) {
			continue
		}

		item := dto.StudentAssignmentItem{
			ActivityID: activity.ID,
			Title:      activity.Title,
			RoomID:     activity.RoomID,
			RoomName:   activity.Room.Name,
			RoomCode:   activity.Room.Code,
			DueDate:    activity.DueDate,
			TotalMarks: activity.TotalMarks,
			Status:     string(status),
		}
		if submission != nil {
			id := submission.ID
			item.SubmissionID = &id
			item.Score = submission.Score
			item.Feedback = submission.Feedback
			if submission.Score != nil {
				grade := dto.NewGradeResponse(*submission.Score, activity.TotalMarks, grading.Threshold(activity.Room.BasePassing, s.defaultThreshold))
				item.Grade = &grade
			}
		}
		response.Assignments = append(response.Assignments, item)
	}

	if percentage, ok := overall.Percentage(); ok {
		response.OverallPercentage = grading.Round2(percentage)
		response.GPA = grading.GPAEquivalent(percentage)
	}

	return response
}

package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/dashboard"
	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/grading"
	"github.com/Huerte/AcademiQly/internal/models"
	"github.com/Huerte/AcademiQly/internal/repository"
)

// TeacherDashboardService projects the teacher's rooms into the dashboard view.
type TeacherDashboardService interface {
	GetDashboard(ctx context.Context, teacher models.Teacher, query dto.TeacherDashboardQuery) (dto.TeacherDashboardResponse, error)
}

type teacherDashboardService struct {
	sweeper          Sweeper
	rooms            repository.RoomRepository
	activities       repository.ActivityRepository
	submissions      repository.SubmissionRepository
	validator        *validator.Validate
	defaultThreshold int
	logger           zerolog.Logger
	now              func() time.Time
}

// NewTeacherDashboardService builds the teacher dashboard projector.
func NewTeacherDashboardService(sweeper Sweeper, rooms repository.RoomRepository, activities repository.ActivityRepository, submissions repository.SubmissionRepository, validate *validator.Validate, defaultThreshold int, logger zerolog.Logger) TeacherDashboardService {
	return &teacherDashboardService{
		sweeper:          sweeper,
		rooms:            rooms,
		activities:       activities,
		submissions:      submissions,
		validator:        validate,
		defaultThreshold: defaultThreshold,
		logger:           logger.With().Str("component", "teacher_dashboard_service").Logger(),
		now:              time.Now,
	}
}

func (s *teacherDashboardService) GetDashboard(ctx context.Context, teacher models.Teacher, query dto.TeacherDashboardQuery) (dto.TeacherDashboardResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	if _, err := s.sweeper.Sweep(ctx); err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	rooms, err := s.rooms.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	roomIDs := make([]uint, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	var (
		activities    []models.Activity
		submissions   []models.Submission
		pending       []repository.PendingCount
		announcements int64
	)
	if len(roomIDs) > 0 {
		if activities, err = s.activities.ListByRooms(ctx, roomIDs); err != nil {
			return dto.TeacherDashboardResponse{}, err
		}
		if submissions, err = s.submissions.List(ctx, repository.SubmissionFilter{RoomIDs: roomIDs}); err != nil {
			return dto.TeacherDashboardResponse{}, err
		}
		if pending, err = s.submissions.PendingByActivity(ctx, roomIDs); err != nil {
			return dto.TeacherDashboardResponse{}, err
		}
		if announcements, err = s.rooms.CountAnnouncements(ctx, roomIDs); err != nil {
			return dto.TeacherDashboardResponse{}, err
		}
	}

	now := s.now()
	response := dto.TeacherDashboardResponse{
		Counts: dto.TeacherCounts{
			Rooms:         len(rooms),
			Students:      countDistinctStudents(rooms),
			Activities:    len(activities),
			Announcements: announcements,
		},
		GradingStats:       gradingStats(submissions),
		GradingQueue:       gradingQueue(activities, pending),
		Rooms:              s.roomSummaries(rooms, query.RoomSearch),
		Roster:             s.roster(rooms, submissions, query),
		CourseOptions:      roomCodes(rooms),
		PendingSubmissions: pendingWorklist(submissions, now),
		Filters:            query,
		GeneratedAt:        now,
	}

	s.logger.Debug().
		Uint("teacher_id", teacher.ID).
		Int("rooms", response.Counts.Rooms).
		Int("pending", response.GradingStats.Pending).
		Msg("teacher dashboard built")

	return response, nil
}

func countDistinctStudents(rooms []models.Room) int {
	seen := map[uint]struct{}{}
	for _, room := range rooms {
		for _, student := range room.Students {
			seen[student.ID] = struct{}{}
		}
	}
	return len(seen)
}

func gradingStats(submissions []models.Submission) dto.GradingStats {
	var stats dto.GradingStats
	for _, submission := range submissions {
		if submission.IsGraded() {
			stats.Graded++
		} else {
			stats.Pending++
		}
	}
	return stats
}

// gradingQueue keeps the activity ordering (earliest due first).
func gradingQueue(activities []models.Activity, pending []repository.PendingCount) []dto.GradingQueueItem {
	counts := make(map[uint]int64, len(pending))
	for _, row := range pending {
		counts[row.ActivityID] = row.Pending
	}

	queue := make([]dto.GradingQueueItem, 0, len(pending))
	for _, activity := range activities {
		count := counts[activity.ID]
		if count <= 0 {
			continue
		}
		queue = append(queue, dto.GradingQueueItem{
			ActivityID: activity.ID,
			Title:      activity.Title,
			RoomID:     activity.RoomID,
			RoomName:   activity.Room.Name,
			RoomCode:   activity.Room.Code,
			DueDate:    activity.DueDate,
			Pending:    count,
		})
	}
	return queue
}

func (s *teacherDashboardService) roomSummaries(rooms []models.Room, search string) []dto.TeacherRoomSummary {
	summaries := make([]dto.TeacherRoomSummary, 0, len(rooms))
	for _, room := range rooms {
		if !dashboard.Matches(search, room.Name, room.Code) {
			continue
		}
		summaries = append(summaries, dto.TeacherRoomSummary{
			ID:               room.ID,
			Name:             room.Name,
			Code:             room.Code,
			StudentCount:     len(room.Students),
			PassingThreshold: grading.Threshold(room.BasePassing, s.defaultThreshold),
		})
	}
	return summaries
}

type rosterKey struct {
	roomID    uint
	studentID uint
}

// roster flattens every (room, student) enrollment and grades it with the
// room's threshold.
func (s *teacherDashboardService) roster(rooms []models.Room, submissions []models.Submission, query dto.TeacherDashboardQuery) []dto.RosterEntry {
	progress := map[rosterKey]*dashboard.Progress{}
	for _, submission := range submissions {
		key := rosterKey{roomID: submission.Activity.RoomID, studentID: submission.StudentID}
		entry, ok := progress[key]
		if !ok {
			entry = &dashboard.Progress{}
			progress[key] = entry
		}
		entry.Add(submission)
	}

	roster := make([]dto.RosterEntry, 0)
	for _, room := range rooms {
		if !dashboard.SelectorMatches(query.Course, room.Code) {
			continue
		}
		threshold := grading.Threshold(room.BasePassing, s.defaultThreshold)
		for _, student := range room.Students {
			if !dashboard.Matches(query.Search, student.FirstName, student.LastName, student.FullName(), student.Email, student.Username) {
				continue
			}

			entry := dto.RosterEntry{
				StudentID:     student.ID,
				Name:          student.FullName(),
				Initials:      student.Initials(),
				Email:         student.Email,
				Username:      student.Username,
				StudentNumber: student.StudentNumber,
				RoomID:        room.ID,
				RoomName:      room.Name,
				RoomCode:      room.Code,
				CourseDisplay: courseDisplay(student, room),
			}
			if tally, ok := progress[rosterKey{roomID: room.ID, studentID: student.ID}]; ok {
				entry.GradedCount = tally.Graded
				if percentage, ok := tally.Percentage(); ok {
					grade := dto.NewPercentageGrade(percentage, threshold)
					entry.Grade = &grade
				}
			}
			roster = append(roster, entry)
		}
	}
	return roster
}

func courseDisplay(student models.Student, room models.Room) string {
	if student.Course == nil || strings.TrimSpace(student.Course.Name) == "" {
		return room.Code
	}
	return student.Course.Name + " / " + room.Code
}

func roomCodes(rooms []models.Room) []string {
	codes := make([]string, 0, len(rooms))
	for _, room := range rooms {
		codes = append(codes, room.Code)
	}
	return codes
}

// pendingWorklist lists unscored submissions, oldest first, capped at
// dashboard.PendingLimit.
func pendingWorklist(submissions []models.Submission, now time.Time) []dto.PendingSubmissionItem {
	pending := make([]models.Submission, 0)
	for _, submission := range submissions {
		if !submission.IsGraded() {
			pending = append(pending, submission)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].SubmittedAt.Before(pending[j].SubmittedAt)
	})
	if len(pending) > dashboard.PendingLimit {
		pending = pending[:dashboard.PendingLimit]
	}

	items := make([]dto.PendingSubmissionItem, 0, len(pending))
	for _, submission := range pending {
		priority := dashboard.PriorityFor(submission.Activity.DueDate, now)
		items = append(items, dto.PendingSubmissionItem{
			SubmissionID:  submission.ID,
			StudentID:     submission.StudentID,
			StudentName:   submission.Student.FullName(),
			ActivityID:    submission.ActivityID,
			ActivityTitle: submission.Activity.Title,
			RoomCode:      submission.Activity.Room.Code,
			SubmittedAt:   submission.SubmittedAt,
			HoursSince:    grading.Round2(now.Sub(submission.SubmittedAt).Hours()),
			DueDate:       submission.Activity.DueDate,
			Priority:      priority.Level,
			PriorityTone:  priority.Tone,
		})
	}
	return items
}

package analytics

import (
	"time"

	"github.com/Huerte/AcademiQly/internal/grading"
)

// Workload counts graded and pending submissions across teacher-owned rooms.
type Workload struct {
	Graded  int `json:"graded"`
	Pending int `json:"pending"`
}

// TeacherRatios are per-teacher averages of rooms, activities and enrollments.
type TeacherRatios struct {
	RoomsPerTeacher      float64 `json:"rooms_per_teacher"`
	ActivitiesPerTeacher float64 `json:"activities_per_teacher"`
	StudentsPerTeacher   float64 `json:"students_per_teacher"`
}

// Report is the flat statistics bundle handed to report consumers.
type Report struct {
	Totals               Totals          `json:"totals"`
	GradedSubmissions    int             `json:"graded_submissions"`
	PassingThreshold     int             `json:"passing_threshold"`
	AverageScore         float64         `json:"average_score"`
	MedianScore          float64         `json:"median_score"`
	StdDevScore          float64         `json:"stddev_score"`
	PassFail             PassFail        `json:"pass_fail"`
	Improvement          Improvement     `json:"improvement"`
	MonthlyTrend         Series          `json:"monthly_trend"`
	GradeDistribution    []LetterCount   `json:"grade_distribution"`
	TopRooms             []RankedEntity  `json:"top_rooms"`
	TopStudents          []RankedEntity  `json:"top_students"`
	TopTeachers          []RankedEntity  `json:"top_teachers"`
	RecentGrades         []RecentGrade   `json:"recent_grades"`
	Workload             Workload        `json:"workload"`
	TeacherRatios        TeacherRatios   `json:"teacher_ratios"`
	TeachersByDepartment []LabelCount    `json:"teachers_by_department"`
	ActiveTeachers       []ActiveTeacher `json:"active_teachers"`
	GeneratedAt          time.Time       `json:"generated_at"`
}

// Compute builds the report for the dataset as of now. Ungraded records and
// records of zero-mark activities only count towards Workload.
func Compute(dataset Dataset, now time.Time) Report {
	threshold := grading.DefaultPassingThreshold
	if dataset.DefaultThreshold > 0 {
		threshold = grading.Threshold(&dataset.DefaultThreshold, grading.DefaultPassingThreshold)
	}
	kept, percentages := graded(dataset.Records)

	var overall Accumulator
	for _, percentage := range percentages {
		overall.Add(percentage)
	}

	report := Report{
		Totals:               dataset.Totals,
		GradedSubmissions:    len(kept),
		PassingThreshold:     threshold,
		AverageScore:         grading.Round2(overall.Mean()),
		MedianScore:          grading.Round2(Median(percentages)),
		StdDevScore:          grading.Round2(overall.StdDev()),
		PassFail:             SplitPassFail(kept, threshold),
		Improvement:          MonthOverMonth(kept, now),
		MonthlyTrend:         MonthlyTrend(kept, now),
		GradeDistribution:    LetterDistribution(kept),
		TopRooms:             TopRooms(kept, TopLimit),
		TopStudents:          TopStudents(kept, TopLimit),
		TopTeachers:          TopTeachers(kept, TopLimit),
		RecentGrades:         RecentGrades(kept, RecentLimit),
		Workload:             workload(dataset.Records),
		TeacherRatios:        ratios(dataset.Totals),
		TeachersByDepartment: nonNil(dataset.TeachersByDepartment),
		ActiveTeachers:       nonNilTeachers(dataset.ActiveTeachers),
		GeneratedAt:          now,
	}
	return report
}

func workload(records []Record) Workload {
	var result Workload
	for _, record := range records {
		if record.TeacherID == 0 {
			continue
		}
		if record.Score != nil {
			result.Graded++
		} else {
			result.Pending++
		}
	}
	return result
}

func ratios(totals Totals) TeacherRatios {
	if totals.Teachers <= 0 {
		return TeacherRatios{}
	}
	teachers := float64(totals.Teachers)
	return TeacherRatios{
		RoomsPerTeacher:      grading.Round2(float64(totals.Rooms) / teachers),
		ActivitiesPerTeacher: grading.Round2(float64(totals.Activities) / teachers),
		StudentsPerTeacher:   grading.Round2(float64(totals.Enrollments) / teachers),
	}
}

func nonNil(values []LabelCount) []LabelCount {
	if values == nil {
		return []LabelCount{}
	}
	return values
}

func nonNilTeachers(values []ActiveTeacher) []ActiveTeacher {
	if values == nil {
		return []ActiveTeacher{}
	}
	return values
}

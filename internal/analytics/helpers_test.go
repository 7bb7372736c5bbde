package analytics

import "time"

type recordOption func(*Record)

func withThreshold(threshold *int) recordOption {
	return func(r *Record) { r.RoomThreshold = threshold }
}

func withRoom(id uint, name string) recordOption {
	return func(r *Record) {
		r.RoomID = id
		r.RoomName = name
	}
}

func withStudent(id uint, name string) recordOption {
	return func(r *Record) {
		r.StudentID = id
		r.StudentName = name
	}
}

func withTeacher(id uint, name string) recordOption {
	return func(r *Record) {
		r.TeacherID = id
		r.TeacherName = name
	}
}

func at(ts time.Time) recordOption {
	return func(r *Record) { r.SubmittedAt = ts }
}

func scored(score, total int, opts ...recordOption) Record {
	s := score
	record := Record{Score: &s, TotalMarks: total}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

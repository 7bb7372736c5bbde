package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Course{},
		&Teacher{},
		&Student{},
		&Room{},
		&Announcement{},
		&Activity{},
		&Submission{},
		&SubmissionGradeHistory{},
		&Notification{},
		&AuditLog{},
	}
}

package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation marks input the caller must fix.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to a missing record.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an actor acting outside their rooms.
	ErrForbidden = errors.New("forbidden")
)

var (
	ErrScoreOutOfRange      = fmt.Errorf("%w: score must be between 0 and the activity total marks", ErrValidation)
	ErrActivityClosed       = fmt.Errorf("%w: activity is closed for submissions", ErrValidation)
	ErrEmptySubmission      = fmt.Errorf("%w: a file, content url or content text is required", ErrValidation)
	ErrUploadTypeNotAllowed = fmt.Errorf("%w: file type not allowed", ErrValidation)
	ErrUploadTooLarge       = fmt.Errorf("%w: file exceeds maximum allowed size", ErrValidation)
	ErrUploadsDisabled      = fmt.Errorf("%w: file uploads are not configured", ErrValidation)

	ErrActivityNotFound     = fmt.Errorf("%w: activity", ErrNotFound)
	ErrSubmissionNotFound   = fmt.Errorf("%w: submission", ErrNotFound)
	ErrRoomNotFound         = fmt.Errorf("%w: room", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("%w: notification", ErrNotFound)

	ErrNotRoomOwner  = fmt.Errorf("%w: teacher does not own the room", ErrForbidden)
	ErrNotRoomMember = fmt.Errorf("%w: student is not enrolled in the room", ErrForbidden)
	ErrUnknownRole   = fmt.Errorf("%w: user has neither a teacher nor a student profile", ErrForbidden)
)

// IsValidation reports whether err should be surfaced as a 400.
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidation) {
		return true
	}
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

package course

import "errors"

var (
	// errors
	ErrNotFound           = errors.New("course not found")
	ErrDuplicateID        = errors.New("a course with this id already exists")
	ErrIDChanged          = errors.New("course id cannot be changed")
	ErrInvalidStatus      = errors.New("invalid submission status")
	ErrStatusRegression   = errors.New("submission status cannot move backwards")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidGrade       = errors.New("grade must be between 0 and the assignment's max points")
)

package course

import "github.com/trezcool/darasa/core"

func (c *Course) submission(id string) (*Submission, error) {
	for i := range c.Submissions {
		if c.Submissions[i].ID == id {
			return &c.Submissions[i], nil
		}
	}
	return nil, ErrSubmissionNotFound
}

func (c *Course) maxPoints(assignmentID string) (int, bool) {
	for _, a := range c.Assignments {
		if a.ID == assignmentID {
			return a.MaxPoints, a.MaxPoints > 0
		}
	}
	return 0, false
}

// AdvanceSubmission moves submission id to status.
func (c *Course) AdvanceSubmission(id string, status SubmissionStatus) error {
	s, err := c.submission(id)
	if err != nil {
		return err
	}
	if err := s.Advance(status); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
	}
	return nil
}

// GradeSubmission records grade and feedback on submission id and marks it GRADED.
// The grade cannot exceed the max points of the graded assignment, when it has some.
func (c *Course) GradeSubmission(id string, grade float64, feedback string) error {
	s, err := c.submission(id)
	if err != nil {
		return err
	}
	if max, ok := c.maxPoints(s.AssignmentID); grade < 0 || (ok && grade > float64(max)) {
		return core.NewValidationError(ErrInvalidGrade, core.FieldError{Field: "grade", Error: ErrInvalidGrade.Error()})
	}
	if err := s.GradeWith(grade, core.CleanString(feedback)); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
	}
	return nil
}

package course_test

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

func gradingCourse(status course.SubmissionStatus) course.Course {
	return course.Course{
		ID:          "c1",
		Title:       "Intro",
		Assignments: []course.Assignment{{ID: "a1", Title: "Essay", MaxPoints: 100}},
		Submissions: []course.Submission{{ID: "s1", AssignmentID: "a1", StudentID: "st1", Status: status}},
	}
}

// rootErr unwraps validation errors down to the sentinel they carry.
func rootErr(err error) error {
	err = pkgerrors.Cause(err)
	if verr, ok := err.(*core.ValidationError); ok {
		return verr.Err
	}
	return err
}

func TestCourse_GradeSubmission(t *testing.T) {
	tests := []struct {
		name    string
		status  course.SubmissionStatus
		subID   string
		grade   float64
		wantErr error
	}{
		{name: "pending to graded", status: course.StatusPending, subID: "s1", grade: 80},
		{name: "submitted to graded", status: course.StatusSubmitted, subID: "s1", grade: 100},
		{name: "regrade", status: course.StatusGraded, subID: "s1", grade: 0},
		{name: "unknown submission", status: course.StatusPending, subID: "nope", grade: 80, wantErr: course.ErrSubmissionNotFound},
		{name: "negative grade", status: course.StatusPending, subID: "s1", grade: -1, wantErr: course.ErrInvalidGrade},
		{name: "above max points", status: course.StatusPending, subID: "s1", grade: 101, wantErr: course.ErrInvalidGrade},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := gradingCourse(tc.status)
			err := c.GradeSubmission(tc.subID, tc.grade, "  well done ")
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, rootErr(err))
				assert.Equal(t, tc.status, c.Submissions[0].Status)
				assert.False(t, c.Submissions[0].Grade.Valid)
				return
			}
			require.NoError(t, err)
			sub := c.Submissions[0]
			assert.Equal(t, course.StatusGraded, sub.Status)
			assert.Equal(t, tc.grade, sub.Grade.Float64)
			assert.Equal(t, "well done", sub.Feedback.String)
		})
	}
}

func TestCourse_AdvanceSubmission(t *testing.T) {
	tests := []struct {
		name       string
		from, to   course.SubmissionStatus
		wantErr    error
		wantStatus course.SubmissionStatus
	}{
		{name: "pending to submitted", from: course.StatusPending, to: course.StatusSubmitted, wantStatus: course.StatusSubmitted},
		{name: "pending to graded", from: course.StatusPending, to: course.StatusGraded, wantStatus: course.StatusGraded},
		{name: "same status", from: course.StatusSubmitted, to: course.StatusSubmitted, wantStatus: course.StatusSubmitted},
		{name: "graded to submitted", from: course.StatusGraded, to: course.StatusSubmitted, wantErr: course.ErrStatusRegression, wantStatus: course.StatusGraded},
		{name: "unknown status", from: course.StatusPending, to: "LATE", wantErr: course.ErrInvalidStatus, wantStatus: course.StatusPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := gradingCourse(tc.from)
			err := c.AdvanceSubmission("s1", tc.to)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err))
				assert.Equal(t, tc.wantErr, rootErr(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantStatus, c.Submissions[0].Status)
		})
	}

	t.Run("unknown submission", func(t *testing.T) {
		c := gradingCourse(course.StatusPending)
		assert.Equal(t, course.ErrSubmissionNotFound, c.AdvanceSubmission("nope", course.StatusGraded))
	})
}

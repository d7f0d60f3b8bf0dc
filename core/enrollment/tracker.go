// Package enrollment records which students are enrolled in which courses.
package enrollment

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

// CourseModifier is the part of the course store the tracker needs.
type CourseModifier interface {
	Modify(ctx context.Context, id string, fn func(*course.Course) error) (course.Course, error)
}

// Result of an Enroll call. Course is only set when a new enrollment was recorded.
type Result struct {
	AlreadyEnrolled bool
	Course          course.Course
}

// Tracker holds the set of (student, course) pairs. A pair is recorded at most once, and
// recording it increments the course's EnrolledCount in the same critical section.
// Enrollments live for the lifetime of the process; there is no unenroll.
type Tracker struct {
	store CourseModifier

	mu       sync.RWMutex
	byUser   map[string][]string            // student -> course ids, enrollment order
	byCourse map[string][]string            // course -> student ids, enrollment order
	pairs    map[string]map[string]struct{} // student -> set of course ids
}

func NewTracker(store CourseModifier) *Tracker {
	return &Tracker{
		store:    store,
		byUser:   make(map[string][]string),
		byCourse: make(map[string][]string),
		pairs:    make(map[string]map[string]struct{}),
	}
}

// Enroll records studentID in courseID and bumps the course's EnrolledCount.
// Enrolling twice is a no-op reported through Result.AlreadyEnrolled.
// If the course does not exist, course.ErrNotFound is returned and nothing is recorded.
func (t *Tracker) Enroll(ctx context.Context, studentID, courseID string) (Result, error) {
	if err := checkIDs(studentID, courseID); err != nil {
		return Result{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isEnrolled(studentID, courseID) {
		return Result{AlreadyEnrolled: true}, nil
	}

	c, err := t.store.Modify(ctx, courseID, func(c *course.Course) error {
		c.EnrolledCount++
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	set, ok := t.pairs[studentID]
	if !ok {
		set = make(map[string]struct{})
		t.pairs[studentID] = set
	}
	set[courseID] = struct{}{}
	t.byUser[studentID] = append(t.byUser[studentID], courseID)
	t.byCourse[courseID] = append(t.byCourse[courseID], studentID)

	return Result{Course: c}, nil
}

func (t *Tracker) IsEnrolled(studentID, courseID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isEnrolled(studentID, courseID)
}

func (t *Tracker) isEnrolled(studentID, courseID string) bool {
	_, ok := t.pairs[studentID][courseID]
	return ok
}

// CourseIDs returns the courses studentID is enrolled in, in enrollment order.
func (t *Tracker) CourseIDs(studentID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.byUser[studentID]...)
}

// Students returns the students enrolled in courseID, in enrollment order.
func (t *Tracker) Students(courseID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.byCourse[courseID]...)
}

// Count is the number of students enrolled in courseID through this tracker.
func (t *Tracker) Count(courseID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byCourse[courseID])
}

func checkIDs(studentID, courseID string) error {
	var flds []core.FieldError
	if studentID == "" {
		flds = append(flds, core.FieldError{Field: "student_id", Error: "this field is required"})
	}
	if courseID == "" {
		flds = append(flds, core.FieldError{Field: "course_id", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

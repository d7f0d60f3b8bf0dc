// Package session holds the identity, role and view of the one dashboard session and
// mediates every course and enrollment mutation made through it.
package session

import (
	"context"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/user"
)

// Actions
const (
	ActionSelectRole     = "selectRole"
	ActionShowLogin      = "showLogin"
	ActionShowSignup     = "showSignup"
	ActionBack           = "back"
	ActionLogin          = "login"
	ActionSignup         = "signup"
	ActionLogout         = "logout"
	ActionSwitchRole     = "switchRole"
	ActionSetActiveView  = "setActiveView"
	ActionEnrollInCourse = "enrollInCourse"
)

type (
	CourseStore interface {
		List() []course.Course
		Create(ctx context.Context, c course.Course) (course.Course, error)
		Update(ctx context.Context, c course.Course) (course.Course, error)
		Modify(ctx context.Context, id string, fn func(*course.Course) error) (course.Course, error)
	}

	EnrollmentTracker interface {
		Enroll(ctx context.Context, studentID, courseID string) (enrollment.Result, error)
		IsEnrolled(studentID, courseID string) bool
		CourseIDs(studentID string) []string
	}
)

type subscriber struct {
	id int
	fn func(State)
}

// Controller is the state machine behind the dashboard. It is meant to be driven by a single
// caller at a time and is not safe for concurrent use.
type Controller struct {
	store   CourseStore
	tracker EnrollmentTracker
	content content.Provider

	phase       Phase
	screen      Screen
	pendingRole user.Role
	user        *user.User
	role        user.Role
	activeView  string
	courses     []course.Course // last published list

	subs   []subscriber
	nextID int
}

// NewController returns an Unauthenticated controller on the welcome screen.
// provider may be nil, in which case Content is empty.
func NewController(store CourseStore, tracker EnrollmentTracker, provider content.Provider) *Controller {
	return &Controller{
		store:       store,
		tracker:     tracker,
		content:     provider,
		phase:       Unauthenticated,
		screen:      ScreenWelcome,
		pendingRole: user.RoleStudent,
		courses:     store.List(),
	}
}

func (c *Controller) Phase() Phase { return c.phase }

// SelectRole records the role picked on the welcome screen and moves to the login screen.
func (c *Controller) SelectRole(role user.Role) error {
	if err := c.expectScreen(ActionSelectRole, ScreenWelcome); err != nil {
		return err
	}
	if err := checkRole(role); err != nil {
		return err
	}
	c.pendingRole = role
	c.screen = ScreenLogin
	c.publish()
	return nil
}

func (c *Controller) ShowLogin() error {
	return c.navigate(ActionShowLogin, ScreenLogin)
}

func (c *Controller) ShowSignup() error {
	return c.navigate(ActionShowSignup, ScreenSignup)
}

// Back returns from a credential screen to the welcome screen.
func (c *Controller) Back() error {
	return c.navigate(ActionBack, ScreenWelcome)
}

// navigate moves between the login and signup screens, or back to welcome.
func (c *Controller) navigate(action string, to Screen) error {
	if err := c.expectScreen(action, ScreenLogin, ScreenSignup); err != nil {
		return err
	}
	c.screen = to
	c.publish()
	return nil
}

// Login starts a session for usr. The effective role is the user's own, or the pending role
// if the user carries none.
func (c *Controller) Login(usr user.User) error {
	return c.authenticate(ActionLogin, usr)
}

// Signup starts a session for a freshly created usr.
func (c *Controller) Signup(usr user.User) error {
	return c.authenticate(ActionSignup, usr)
}

func (c *Controller) authenticate(action string, usr user.User) error {
	if err := c.expect(action, Unauthenticated); err != nil {
		return err
	}
	if usr.ID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "this field is required"})
	}

	role := usr.Role
	if !role.IsValid() {
		role = c.pendingRole
	}
	usr.PasswordHash = nil

	c.phase = Authenticated
	c.screen = ""
	c.user = &usr
	c.role = role
	c.activeView = DefaultView
	c.refresh()
	return nil
}

// Logout ends the session. Enrollments stay recorded against the user who made them.
func (c *Controller) Logout() error {
	if err := c.expect(ActionLogout, Authenticated); err != nil {
		return err
	}
	c.phase = Unauthenticated
	c.screen = ScreenWelcome
	c.user = nil
	c.role = ""
	c.activeView = ""
	c.publish()
	return nil
}

// SwitchRole changes the effective role and always resets the active view to DefaultView.
func (c *Controller) SwitchRole(role user.Role) error {
	if err := c.expect(ActionSwitchRole, Authenticated); err != nil {
		return err
	}
	if err := checkRole(role); err != nil {
		return err
	}
	c.role = role
	c.activeView = DefaultView
	c.publish()
	return nil
}

// SetActiveView selects a view. The view is not checked against the role.
func (c *Controller) SetActiveView(view string) error {
	if err := c.expect(ActionSetActiveView, Authenticated); err != nil {
		return err
	}
	c.activeView = view
	c.publish()
	return nil
}

func (c *Controller) AddCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	created, err := c.store.Create(ctx, crs)
	if err != nil {
		return course.Course{}, err
	}
	c.refresh()
	return created, nil
}

// UpdateCourse replaces the stored course with crs, which must be the complete record.
func (c *Controller) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	updated, err := c.store.Update(ctx, crs)
	if err != nil {
		return course.Course{}, err
	}
	c.refresh()
	return updated, nil
}

// GradeSubmission grades submission submissionID of courseID and marks it GRADED.
func (c *Controller) GradeSubmission(ctx context.Context, courseID, submissionID string, grade float64, feedback string) (course.Course, error) {
	return c.modifyCourse(ctx, courseID, func(crs *course.Course) error {
		return crs.GradeSubmission(submissionID, grade, feedback)
	})
}

// SetSubmissionStatus moves submission submissionID of courseID forward to status.
func (c *Controller) SetSubmissionStatus(ctx context.Context, courseID, submissionID string, status course.SubmissionStatus) (course.Course, error) {
	return c.modifyCourse(ctx, courseID, func(crs *course.Course) error {
		return crs.AdvanceSubmission(submissionID, status)
	})
}

func (c *Controller) modifyCourse(ctx context.Context, courseID string, fn func(*course.Course) error) (course.Course, error) {
	modified, err := c.store.Modify(ctx, courseID, fn)
	if err != nil {
		return course.Course{}, err
	}
	c.refresh()
	return modified, nil
}

// EnrollInCourse enrolls the current user in courseID. The effective role must be STUDENT.
func (c *Controller) EnrollInCourse(ctx context.Context, courseID string) (enrollment.Result, error) {
	if err := c.expect(ActionEnrollInCourse, Authenticated); err != nil {
		return enrollment.Result{}, err
	}
	if c.role != user.RoleStudent {
		return enrollment.Result{}, &InvalidTransitionError{
			Action: ActionEnrollInCourse,
			Phase:  c.phase,
			Reason: "active role is " + c.role.String(),
		}
	}

	res, err := c.tracker.Enroll(ctx, c.user.ID, courseID)
	if err != nil {
		return enrollment.Result{}, err
	}
	if !res.AlreadyEnrolled {
		c.refresh()
	}
	return res, nil
}

// IsEnrolled reports whether the current user is enrolled in courseID.
func (c *Controller) IsEnrolled(courseID string) bool {
	if c.user == nil {
		return false
	}
	return c.tracker.IsEnrolled(c.user.ID, courseID)
}

// Content passes the static content through unchanged.
func (c *Controller) Content() content.Bundle {
	if c.content == nil {
		return content.Bundle{}
	}
	return c.content.Bundle()
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	s := State{
		Phase:             c.phase,
		Screen:            c.screen,
		PendingRole:       c.pendingRole,
		Role:              c.role,
		ActiveView:        c.activeView,
		Courses:           make([]course.Course, len(c.courses)),
		EnrolledCourseIDs: []string{},
	}
	for i := range c.courses {
		s.Courses[i] = c.courses[i].Clone()
	}
	if c.user != nil {
		usr := *c.user
		s.User = &usr
		if ids := c.tracker.CourseIDs(usr.ID); len(ids) > 0 {
			s.EnrolledCourseIDs = ids
		}
	}
	return s
}

// Subscribe registers fn to receive every snapshot published from now on.
// The returned func cancels the subscription.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// refresh re-reads the course list and publishes.
func (c *Controller) refresh() {
	c.courses = c.store.List()
	c.publish()
}

func (c *Controller) publish() {
	if len(c.subs) == 0 {
		return
	}
	subs := append([]subscriber(nil), c.subs...)
	for _, sub := range subs {
		sub.fn(c.State())
	}
}

func (c *Controller) expect(action string, phase Phase) error {
	if c.phase != phase {
		return &InvalidTransitionError{Action: action, Phase: c.phase}
	}
	return nil
}

func (c *Controller) expectScreen(action string, screens ...Screen) error {
	if err := c.expect(action, Unauthenticated); err != nil {
		return err
	}
	for _, s := range screens {
		if c.screen == s {
			return nil
		}
	}
	return &InvalidTransitionError{Action: action, Phase: c.phase, Screen: c.screen}
}

func checkRole(role user.Role) error {
	if !role.IsValid() {
		return core.NewValidationError(user.ErrInvalidRole, core.FieldError{Field: "role", Error: user.ErrInvalidRole.Error()})
	}
	return nil
}

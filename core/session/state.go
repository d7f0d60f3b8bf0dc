package session

import (
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

// Phase of a session.
type Phase int

const (
	Unauthenticated Phase = iota
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case Unauthenticated:
		return "UNAUTHENTICATED"
	case Authenticated:
		return "AUTHENTICATED"
	}
	return "UNKNOWN"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Screen is the credential screen shown while Unauthenticated.
type Screen string

// Screens
const (
	ScreenWelcome Screen = "welcome"
	ScreenLogin   Screen = "login"
	ScreenSignup  Screen = "signup"
)

// DefaultView is selected on login and on every role switch.
const DefaultView = "dashboard"

// State is a snapshot of the session. Every snapshot owns its data: changing it does not
// affect the controller or any other snapshot.
type State struct {
	Phase       Phase     `json:"phase"`
	Screen      Screen    `json:"screen,omitempty"` // Unauthenticated only
	PendingRole user.Role `json:"pending_role"`     // role picked on the welcome screen

	User       *user.User `json:"user"`
	Role       user.Role  `json:"role,omitempty"` // effective role
	ActiveView string     `json:"active_view,omitempty"`

	Courses           []course.Course `json:"courses"`
	EnrolledCourseIDs []string        `json:"enrolled_course_ids"`
}

func (s State) IsAuthenticated() bool { return s.Phase == Authenticated }

package echoapi

import (
	"sync"

	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
)

// actor runs every request against the session controller one at a time,
// the way a single UI event loop would.
type actor struct {
	mu   sync.Mutex
	ctrl *session.Controller
}

func newActor(ctrl *session.Controller) *actor {
	return &actor{ctrl: ctrl}
}

func (a *actor) do(fn func(ctrl *session.Controller) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.ctrl)
}

// doAs runs fn once the session is authenticated with one of roles.
// The role check and fn hold the lock together.
func (a *actor) doAs(roles []user.Role, fn func(ctrl *session.Controller) error) error {
	return a.do(func(ctrl *session.Controller) error {
		if err := authorize(ctrl.State(), roles); err != nil {
			return err
		}
		return fn(ctrl)
	})
}

func (a *actor) state() session.State {
	var s session.State
	_ = a.do(func(ctrl *session.Controller) error {
		s = ctrl.State()
		return nil
	})
	return s
}

func (a *actor) currentUser() (user.User, bool) {
	s := a.state()
	if s.User == nil {
		return user.User{}, false
	}
	return *s.User, true
}

func authorize(s session.State, roles []user.Role) error {
	if !s.IsAuthenticated() {
		return errUnauthorized
	}
	for _, r := range roles {
		if s.Role == r {
			return nil
		}
	}
	return errHttpForbidden
}

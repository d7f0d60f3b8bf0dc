package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
)

type (
	RoleRequest struct {
		Role string `json:"role" validate:"required"`
	}

	ScreenRequest struct {
		Screen string `json:"screen" validate:"required,oneof=welcome login signup"`
	}

	ViewRequest struct {
		View string `json:"view" validate:"notblank"`
	}
)

func (r *RoleRequest) Parse() (user.Role, error) {
	if err := core.CheckStruct(r, "invalid role"); err != nil {
		return "", err
	}
	role, err := user.ParseRole(r.Role)
	if err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: "role", Error: err.Error()})
	}
	return role, nil
}

type sessionApi struct {
	actor *actor
	svc   *user.Service
}

func registerSessionAPI(g *echo.Group, act *actor, svc *user.Service) {
	api := sessionApi{actor: act, svc: svc}

	sg := g.Group("/session")
	sg.GET("", api.retrieve)
	sg.GET("/roles", api.roles)

	// credential screens
	sg.POST("/role", api.selectRole)
	sg.POST("/screen", api.navigate)
	sg.POST("/signup", api.signup)
	sg.POST("/login", api.login)

	// authed endpoints
	sg.POST("/logout", api.logout)
	sg.PUT("/role", api.switchRole)
	sg.PUT("/view", api.setView)
}

// Handlers

func (api *sessionApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.actor.state())
}

// roles lists the roles offered on the welcome screen.
func (api *sessionApi) roles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api *sessionApi) selectRole(ctx echo.Context) error {
	var data RoleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RoleRequest")
	}
	role, err := data.Parse()
	if err != nil {
		return err
	}
	return api.respond(ctx, func(ctrl *session.Controller) error {
		return ctrl.SelectRole(role)
	})
}

func (api *sessionApi) navigate(ctx echo.Context) error {
	var data ScreenRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScreenRequest")
	}
	if err := core.CheckStruct(&data, "invalid screen"); err != nil {
		return err
	}
	return api.respond(ctx, func(ctrl *session.Controller) error {
		switch session.Screen(data.Screen) {
		case session.ScreenLogin:
			return ctrl.ShowLogin()
		case session.ScreenSignup:
			return ctrl.ShowSignup()
		default:
			return ctrl.Back()
		}
	})
}

func (api *sessionApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	return api.respond(ctx, func(ctrl *session.Controller) error {
		// no account is created for a request the session would refuse
		if ctrl.Phase() != session.Unauthenticated {
			return &session.InvalidTransitionError{Action: session.ActionSignup, Phase: ctrl.Phase()}
		}
		if data.Role == "" {
			data.Role = ctrl.State().PendingRole
		}
		usr, err := api.svc.Signup(data)
		if err != nil {
			return err
		}
		return ctrl.Signup(usr)
	})
}

func (api *sessionApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	return api.respond(ctx, func(ctrl *session.Controller) error {
		if ctrl.Phase() != session.Unauthenticated {
			return &session.InvalidTransitionError{Action: session.ActionLogin, Phase: ctrl.Phase()}
		}
		usr, err := api.svc.Authenticate(data)
		if err != nil {
			return err
		}
		return ctrl.Login(usr)
	})
}

func (api *sessionApi) logout(ctx echo.Context) error {
	return api.respond(ctx, func(ctrl *session.Controller) error {
		return ctrl.Logout()
	})
}

func (api *sessionApi) switchRole(ctx echo.Context) error {
	var data RoleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RoleRequest")
	}
	role, err := data.Parse()
	if err != nil {
		return err
	}
	return api.respond(ctx, func(ctrl *session.Controller) error {
		return ctrl.SwitchRole(role)
	})
}

func (api *sessionApi) setView(ctx echo.Context) error {
	var data ViewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ViewRequest")
	}
	if err := core.CheckStruct(&data, "invalid view"); err != nil {
		return err
	}
	return api.respond(ctx, func(ctrl *session.Controller) error {
		return ctrl.SetActiveView(core.CleanString(data.View))
	})
}

// respond runs fn on the controller and answers with the resulting state.
func (api *sessionApi) respond(ctx echo.Context, fn func(ctrl *session.Controller) error) error {
	var state session.State
	err := api.actor.do(func(ctrl *session.Controller) error {
		if err := fn(ctrl); err != nil {
			return err
		}
		state = ctrl.State()
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, state)
}

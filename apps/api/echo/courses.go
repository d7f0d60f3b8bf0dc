package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
)

type EnrollResponse struct {
	AlreadyEnrolled bool          `json:"already_enrolled"`
	Course          course.Course `json:"course"`
}

type (
	GradeRequest struct {
		Grade    *float64 `json:"grade"`
		Feedback string   `json:"feedback"`
	}

	StatusRequest struct {
		Status course.SubmissionStatus `json:"status"`
	}
)

// editors may create, update and grade courses.
var editors = []user.Role{user.RoleEducator, user.RoleAdmin}

type courseApi struct {
	actor *actor
}

func registerCourseAPI(g *echo.Group, act *actor) {
	api := courseApi{actor: act}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.PUT("/:id", api.update)
	cg.POST("/:id/enroll", api.enroll)
	cg.PUT("/:id/submissions/:sid/grade", api.grade)
	cg.PUT("/:id/submissions/:sid/status", api.setStatus)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.actor.state().Courses)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.Course
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Course")
	}
	// new courses always start without enrollments
	data.EnrolledCount = 0

	var created course.Course
	err := api.actor.doAs(editors, func(ctrl *session.Controller) (err error) {
		created, err = ctrl.AddCourse(ctx.Request().Context(), data)
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

// update replaces the whole course: the body must be the complete, already merged record.
func (api *courseApi) update(ctx echo.Context) error {
	var data course.Course
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Course")
	}
	id := ctx.Param("id")

	var updated course.Course
	err := api.actor.doAs(editors, func(ctrl *session.Controller) (err error) {
		if data.ID != "" && data.ID != id {
			return core.NewValidationError(course.ErrIDChanged, core.FieldError{Field: "id", Error: course.ErrIDChanged.Error()})
		}
		data.ID = id
		updated, err = ctrl.UpdateCourse(ctx.Request().Context(), data)
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	id := ctx.Param("id")

	var resp EnrollResponse
	err := api.actor.do(func(ctrl *session.Controller) error {
		res, err := ctrl.EnrollInCourse(ctx.Request().Context(), id)
		if err != nil {
			return err
		}
		resp.AlreadyEnrolled = res.AlreadyEnrolled
		resp.Course = res.Course
		if res.AlreadyEnrolled {
			for _, c := range ctrl.State().Courses {
				if c.ID == id {
					resp.Course = c
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *courseApi) grade(ctx echo.Context) error {
	var data GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	if data.Grade == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "grade", Error: "this field is required"})
	}

	var graded course.Course
	err := api.actor.doAs(editors, func(ctrl *session.Controller) (err error) {
		graded, err = ctrl.GradeSubmission(ctx.Request().Context(), ctx.Param("id"), ctx.Param("sid"), *data.Grade, data.Feedback)
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, graded)
}

func (api *courseApi) setStatus(ctx echo.Context) error {
	var data StatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}

	var updated course.Course
	err := api.actor.doAs(editors, func(ctrl *session.Controller) (err error) {
		updated, err = ctrl.SetSubmissionStatus(ctx.Request().Context(), ctx.Param("id"), ctx.Param("sid"), data.Status)
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

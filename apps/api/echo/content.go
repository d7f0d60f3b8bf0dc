package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
)

type (
	// DashboardResponse is the role-scoped landing view. Data holds one of
	// EducatorDashboard, StudentDashboard or AdminDashboard.
	DashboardResponse struct {
		Role       user.Role   `json:"role"`
		ActiveView string      `json:"active_view"`
		Data       interface{} `json:"data"`
	}

	EducatorDashboard struct {
		Courses        []course.Course     `json:"courses"`
		PendingGrading []PendingSubmission `json:"pending_grading"`
	}

	PendingSubmission struct {
		CourseID    string            `json:"course_id"`
		CourseTitle string            `json:"course_title"`
		Submission  course.Submission `json:"submission"`
	}

	StudentDashboard struct {
		Enrolled  []course.Course `json:"enrolled"`
		Available []course.Course `json:"available"`
	}

	AdminDashboard struct {
		CourseCount      int            `json:"course_count"`
		TotalEnrollments int            `json:"total_enrollments"`
		Categories       map[string]int `json:"categories"`
	}
)

type contentApi struct {
	actor *actor
}

func registerContentAPI(g *echo.Group, act *actor) {
	api := contentApi{actor: act}

	g.GET("/content", api.content)
	g.GET("/dashboard", api.dashboard)
}

// Handlers

func (api *contentApi) content(ctx echo.Context) error {
	var b content.Bundle
	_ = api.actor.do(func(ctrl *session.Controller) error {
		b = ctrl.Content()
		return nil
	})
	return ctx.JSON(http.StatusOK, b)
}

func (api *contentApi) dashboard(ctx echo.Context) error {
	s := api.actor.state()
	if !s.IsAuthenticated() {
		return errUnauthorized
	}

	resp := DashboardResponse{Role: s.Role, ActiveView: s.ActiveView}
	switch s.Role {
	case user.RoleEducator:
		resp.Data = educatorDashboard(s)
	case user.RoleStudent:
		resp.Data = studentDashboard(s)
	case user.RoleAdmin:
		resp.Data = adminDashboard(s)
	default:
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, resp)
}

func educatorDashboard(s session.State) EducatorDashboard {
	d := EducatorDashboard{Courses: s.Courses, PendingGrading: []PendingSubmission{}}
	for _, c := range s.Courses {
		for _, sub := range c.Submissions {
			if sub.Status == course.StatusSubmitted {
				d.PendingGrading = append(d.PendingGrading, PendingSubmission{CourseID: c.ID, CourseTitle: c.Title, Submission: sub})
			}
		}
	}
	return d
}

func studentDashboard(s session.State) StudentDashboard {
	enrolled := make(map[string]bool, len(s.EnrolledCourseIDs))
	for _, id := range s.EnrolledCourseIDs {
		enrolled[id] = true
	}
	d := StudentDashboard{Enrolled: []course.Course{}, Available: []course.Course{}}
	for _, c := range s.Courses {
		if enrolled[c.ID] {
			d.Enrolled = append(d.Enrolled, c)
		} else {
			d.Available = append(d.Available, c)
		}
	}
	return d
}

func adminDashboard(s session.State) AdminDashboard {
	d := AdminDashboard{CourseCount: len(s.Courses), Categories: make(map[string]int)}
	for _, c := range s.Courses {
		d.TotalEnrollments += c.EnrolledCount
		if c.Category != "" {
			d.Categories[c.Category]++
		}
	}
	return d
}

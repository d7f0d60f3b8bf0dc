// Package testutil holds helpers shared by the test suites.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

// Logger is a core.Logger recording every message.
type Logger struct {
	mu   sync.Mutex
	Msgs []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Msgs = append(l.Msgs, level+" "+msg)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg) }

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string, role user.Role) user.User {
	t.Helper()
	usr := user.User{
		ID:    core.NewID(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

// Course returns a valid course with one module holding one resource and one assignment.
func Course(id, title string) course.Course {
	return course.Course{
		ID:          id,
		Title:       title,
		Description: fmt.Sprintf("All about %s.", title),
		Category:    "Computer Science",
		Instructor:  "Dr. Sarah Smith",
		Modules: []course.Module{{
			ID:      id + "-m1",
			Title:   "Getting started",
			Content: "Read the syllabus.",
			Resources: []course.Resource{
				{ID: id + "-r1", Title: "Syllabus", Type: course.ResourcePDF, URL: "https://example.test/" + id + ".pdf"},
			},
		}},
		Assignments: []course.Assignment{{ID: id + "-a1", Title: "First essay", DueDate: "2024-06-01", MaxPoints: 100}},
	}
}

// CheckRoundTrip saves courses through repo and checks they load back unchanged.
func CheckRoundTrip(t *testing.T, repo course.Repository) {
	t.Helper()
	ctx := context.Background()

	empty, err := repo.LoadCourses(ctx)
	if err != nil {
		t.Fatalf("LoadCourses() on empty repo failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("LoadCourses() on empty repo = %d courses, want 0", len(empty))
	}

	first := []course.Course{Course("c1", "Algorithms")}
	second := []course.Course{Course("c1", "Algorithms II"), Course("c2", "Databases")}
	for _, want := range [][]course.Course{first, second} {
		if err := repo.SaveCourses(ctx, want); err != nil {
			t.Fatalf("SaveCourses() failed: %v", err)
		}
		got, err := repo.LoadCourses(ctx)
		if err != nil {
			t.Fatalf("LoadCourses() failed: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("LoadCourses() = %d courses, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i].ID || got[i].Title != want[i].Title {
				t.Errorf("LoadCourses()[%d] = %s/%s, want %s/%s", i, got[i].ID, got[i].Title, want[i].ID, want[i].Title)
			}
			if len(got[i].Modules) != 1 || len(got[i].Modules[0].Resources) != 1 {
				t.Errorf("LoadCourses()[%d] lost its modules: %+v", i, got[i].Modules)
			}
		}
	}
}

package course_test

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/storage/database/inmem"
)

var errDiskFull = errors.New("disk full")

// flakyRepository fails every save while failSaves is set.
type flakyRepository struct {
	course.Repository
	failSaves bool
	saves     int
}

func (repo *flakyRepository) SaveCourses(ctx context.Context, courses []course.Course) error {
	if repo.failSaves {
		return errDiskFull
	}
	repo.saves++
	return repo.Repository.SaveCourses(ctx, courses)
}

func newStore(t *testing.T, seed ...course.Course) (*course.Store, *flakyRepository) {
	t.Helper()
	repo := &flakyRepository{Repository: inmemdb.NewCourseRepository(inmemdb.Open())}
	if len(seed) > 0 {
		require.NoError(t, repo.SaveCourses(context.Background(), seed))
		repo.saves = 0
	}
	store, err := course.NewStore(context.Background(), repo)
	require.NoError(t, err)
	return store, repo
}

func sampleCourse(id, title string) course.Course {
	return course.Course{
		ID:         id,
		Title:      title,
		Category:   "Computer Science",
		Instructor: "Dr. Sarah Johnson",
		Modules: []course.Module{
			{ID: id + "-m1", Title: "Getting started", Resources: []course.Resource{
				{ID: id + "-r1", Title: "Syllabus", Type: course.ResourcePDF, URL: "https://example.test/syllabus.pdf"},
			}},
		},
		Assignments: []course.Assignment{{ID: id + "-a1", Title: "Essay", DueDate: "2024-06-01", MaxPoints: 100}},
	}
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		store, _ := newStore(t)
		assert.Empty(t, store.List())
	})

	t.Run("create then get", func(t *testing.T) {
		store, repo := newStore(t)
		c := sampleCourse("c9", "Algorithms")

		got, err := store.Create(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, c, got)
		assert.Equal(t, 1, repo.saves)

		stored, err := store.Get("c9")
		require.NoError(t, err)
		assert.Equal(t, c, stored)
		assert.Equal(t, 0, stored.EnrolledCount)
	})

	t.Run("duplicate id", func(t *testing.T) {
		store, repo := newStore(t, sampleCourse("c1", "Intro"))

		_, err := store.Create(ctx, sampleCourse("c1", "Other"))
		assert.Equal(t, course.ErrDuplicateID, err)
		assert.Len(t, store.List(), 1)
		assert.Zero(t, repo.saves)
	})

	t.Run("fresh ids", func(t *testing.T) {
		store, _ := newStore(t)
		c := sampleCourse("", "Untitled")
		c.Modules[0].ID = ""
		c.Modules[0].Resources[0].ID = ""

		got, err := store.Create(ctx, c)
		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
		assert.NotEmpty(t, got.Modules[0].ID)
		assert.NotEmpty(t, got.Modules[0].Resources[0].ID)
	})

	t.Run("appends in insertion order", func(t *testing.T) {
		store, _ := newStore(t, sampleCourse("c1", "One"), sampleCourse("c2", "Two"))

		_, err := store.Create(ctx, sampleCourse("c3", "Three"))
		require.NoError(t, err)

		var ids []string
		for _, c := range store.List() {
			ids = append(ids, c.ID)
		}
		assert.Equal(t, []string{"c1", "c2", "c3"}, ids)
	})

	t.Run("persistence failure leaves store unchanged", func(t *testing.T) {
		store, repo := newStore(t, sampleCourse("c1", "One"))
		repo.failSaves = true

		_, err := store.Create(ctx, sampleCourse("c2", "Two"))
		assert.Equal(t, errDiskFull, pkgerrors.Cause(err))
		assert.Len(t, store.List(), 1)
		_, err = store.Get("c2")
		assert.Equal(t, course.ErrNotFound, err)

		// a retry with a healthy repository must not trip over a phantom index entry
		repo.failSaves = false
		_, err = store.Create(ctx, sampleCourse("c2", "Two"))
		assert.NoError(t, err)
	})
}

func TestStore_Create_validation(t *testing.T) {
	ctx := context.Background()

	blankTitle := sampleCourse("c1", "   ")
	negativeCount := sampleCourse("c2", "Count")
	negativeCount.EnrolledCount = -1
	badResource := sampleCourse("c3", "Resource")
	badResource.Modules[0].Resources[0].Type = "ZIP"
	badQuiz := sampleCourse("c4", "Quiz")
	badQuiz.Quizzes = []course.Quiz{{ID: "q1", Title: "Quiz 1", Questions: []course.QuizQuestion{
		{ID: "qq1", Question: "2+2?", Options: []string{"3", "4"}, CorrectOptionIndex: 2},
	}}}
	badStatus := sampleCourse("c5", "Status")
	badStatus.Submissions = []course.Submission{{ID: "s1", AssignmentID: "a1", StudentID: "st1", Status: "LATE"}}

	tests := []struct {
		name      string
		c         course.Course
		wantField string
	}{
		{name: "blank title", c: blankTitle, wantField: "title"},
		{name: "negative enrolled count", c: negativeCount, wantField: "enrolled_count"},
		{name: "unknown resource type", c: badResource, wantField: "modules[0].resources[0].type"},
		{name: "option index out of range", c: badQuiz, wantField: "quizzes[0].questions[0].correct_option_index"},
		{name: "unknown submission status", c: badStatus, wantField: "submissions[0].status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, repo := newStore(t)

			_, err := store.Create(ctx, tt.c)
			require.True(t, core.IsValidationError(err), "err = %v", err)

			verr := pkgerrors.Cause(err).(*core.ValidationError)
			var fields []string
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.wantField)
			assert.Empty(t, store.List())
			assert.Zero(t, repo.saves)
		})
	}
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id", func(t *testing.T) {
		store, _ := newStore(t, sampleCourse("c1", "One"))
		_, err := store.Update(ctx, sampleCourse("nope", "Ghost"))
		assert.Equal(t, course.ErrNotFound, err)
		assert.Len(t, store.List(), 1)
	})

	t.Run("full replacement keeps position", func(t *testing.T) {
		store, _ := newStore(t, sampleCourse("c1", "One"), sampleCourse("c2", "Two"), sampleCourse("c3", "Three"))

		c, err := store.Get("c2")
		require.NoError(t, err)
		c.Title = "Two, revised"
		c.Modules = nil
		c.ImageURL = null.StringFrom("https://example.test/two.png")

		_, err = store.Update(ctx, c)
		require.NoError(t, err)

		list := store.List()
		require.Len(t, list, 3)
		assert.Equal(t, "c2", list[1].ID)
		assert.Equal(t, "Two, revised", list[1].Title)
		assert.Empty(t, list[1].Modules)
		assert.Equal(t, "https://example.test/two.png", list[1].ImageURL.String)
	})

	t.Run("persistence failure leaves store unchanged", func(t *testing.T) {
		store, repo := newStore(t, sampleCourse("c1", "One"))
		repo.failSaves = true

		c := sampleCourse("c1", "Changed")
		_, err := store.Update(ctx, c)
		assert.Error(t, err)

		got, err := store.Get("c1")
		require.NoError(t, err)
		assert.Equal(t, "One", got.Title)
	})

	t.Run("enrolled count keeps its stored value", func(t *testing.T) {
		store, _ := newStore(t, sampleCourse("c1", "One"))
		stale, err := store.Get("c1")
		require.NoError(t, err)

		_, err = store.Modify(ctx, "c1", func(c *course.Course) error {
			c.EnrolledCount++
			return nil
		})
		require.NoError(t, err)

		stale.Title = "One, revised"
		got, err := store.Update(ctx, stale)
		require.NoError(t, err)
		assert.Equal(t, 1, got.EnrolledCount)
		assert.Equal(t, "One, revised", got.Title)

		stale.EnrolledCount = 42
		got, err = store.Update(ctx, stale)
		require.NoError(t, err)
		assert.Equal(t, 1, got.EnrolledCount)

		stored, _ := store.Get("c1")
		assert.Equal(t, 1, stored.EnrolledCount)
	})

	t.Run("submission status cannot regress", func(t *testing.T) {
		seed := sampleCourse("c1", "One")
		seed.Submissions = []course.Submission{{ID: "s1", AssignmentID: "c1-a1", StudentID: "st1", Status: course.StatusGraded}}
		store, _ := newStore(t, seed)

		c := seed.Clone()
		c.Submissions[0].Status = course.StatusSubmitted
		_, err := store.Update(ctx, c)
		require.True(t, core.IsValidationError(err))
		assert.Equal(t, course.ErrStatusRegression, pkgerrors.Cause(err).(*core.ValidationError).Err)

		got, _ := store.Get("c1")
		assert.Equal(t, course.StatusGraded, got.Submissions[0].Status)
	})
}

func TestStore_copiesAreIsolated(t *testing.T) {
	store, _ := newStore(t, sampleCourse("c1", "One"))

	got, err := store.Get("c1")
	require.NoError(t, err)
	got.Title = "Mutated"
	got.Modules[0].Title = "Mutated"
	got.Modules[0].Resources[0].URL = "mutated"

	list := store.List()
	list[0].Assignments[0].MaxPoints = 1

	fresh, _ := store.Get("c1")
	assert.Equal(t, sampleCourse("c1", "One"), fresh)
}

func TestStore_Modify(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, sampleCourse("c1", "One"))

	got, err := store.Modify(ctx, "c1", func(c *course.Course) error {
		c.EnrolledCount++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.EnrolledCount)

	_, err = store.Modify(ctx, "nope", func(c *course.Course) error { return nil })
	assert.Equal(t, course.ErrNotFound, err)

	_, err = store.Modify(ctx, "c1", func(c *course.Course) error {
		c.ID = "c2"
		return nil
	})
	assert.Equal(t, course.ErrIDChanged, err)

	boom := errors.New("boom")
	_, err = store.Modify(ctx, "c1", func(c *course.Course) error {
		c.EnrolledCount = 99
		return boom
	})
	assert.Equal(t, boom, err)

	c, _ := store.Get("c1")
	assert.Equal(t, 1, c.EnrolledCount)
}

func TestStore_persistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewCourseRepository(inmemdb.Open())

	store, err := course.NewStore(ctx, repo)
	require.NoError(t, err)
	_, err = store.Create(ctx, sampleCourse("c1", "One"))
	require.NoError(t, err)
	_, err = store.Create(ctx, sampleCourse("c2", "Two"))
	require.NoError(t, err)

	reopened, err := course.NewStore(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, store.List(), reopened.List())
}

func TestStore_Reload_duplicateIDs(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewCourseRepository(inmemdb.Open())
	require.NoError(t, repo.SaveCourses(ctx, []course.Course{sampleCourse("c1", "One"), sampleCourse("c1", "Again")}))

	_, err := course.NewStore(ctx, repo)
	assert.Equal(t, course.ErrDuplicateID, pkgerrors.Cause(err))
}

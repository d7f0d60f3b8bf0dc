package course

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// Repository persists the full ordered course collection under CollectionName.
type Repository interface {
	LoadCourses(ctx context.Context) ([]Course, error)
	SaveCourses(ctx context.Context, courses []Course) error
}

// Store is the single source of truth for courses.
// Reads hand out deep copies; writes are persisted before they become visible,
// so a failed write leaves both the store and the repository unchanged.
type Store struct {
	repo Repository

	mu      sync.RWMutex
	courses []Course       // insertion order
	index   map[string]int // id -> position in courses
}

// NewStore returns a Store loaded from repo.
func NewStore(ctx context.Context, repo Repository) (*Store, error) {
	s := &Store{repo: repo}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with the persisted collection.
func (s *Store) Reload(ctx context.Context) error {
	courses, err := s.repo.LoadCourses(ctx)
	if err != nil {
		return errors.Wrap(err, "loading courses")
	}

	index := make(map[string]int, len(courses))
	for i, c := range courses {
		if _, ok := index[c.ID]; ok {
			return errors.Wrapf(ErrDuplicateID, "loading courses: %q", c.ID)
		}
		index[c.ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = cloneCourses(courses)
	s.index = index
	return nil
}

// List returns a copy of every course, in insertion order.
func (s *Store) List() []Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCourses(s.courses)
}

func (s *Store) Get(id string) (Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.index[id]; ok {
		return s.courses[i].Clone(), nil
	}
	return Course{}, ErrNotFound
}

// Create adds c to the store. A course without an id is given a fresh one.
func (s *Store) Create(ctx context.Context, c Course) (Course, error) {
	c = c.Clone()
	if c.ID == "" {
		c.ID = newID()
	}
	assignChildIDs(&c)
	if err := c.Validate(); err != nil {
		return Course{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[c.ID]; ok {
		return Course{}, ErrDuplicateID
	}
	next := make([]Course, len(s.courses), len(s.courses)+1)
	copy(next, s.courses)
	next = append(next, c)
	if err := s.commit(ctx, next); err != nil {
		return Course{}, err
	}
	s.index[c.ID] = len(next) - 1
	return c.Clone(), nil
}

// Update replaces the stored record with the same id, keeping its position.
// It is a full replacement, not a merge: callers read the course, change it
// and hand back the complete record. EnrolledCount is owned by enrollment and
// always keeps its stored value; use Modify to change it.
func (s *Store) Update(ctx context.Context, c Course) (Course, error) {
	c = c.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[c.ID]
	if !ok {
		return Course{}, ErrNotFound
	}
	c.EnrolledCount = s.courses[i].EnrolledCount
	return s.replace(ctx, i, c)
}

// Modify applies fn to a copy of the course and stores the result, all under the
// store's write lock. This is the read-modify-write used to keep counters consistent.
func (s *Store) Modify(ctx context.Context, id string, fn func(*Course) error) (Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return Course{}, ErrNotFound
	}
	c := s.courses[i].Clone()
	if err := fn(&c); err != nil {
		return Course{}, err
	}
	if c.ID != id {
		return Course{}, ErrIDChanged
	}
	return s.replace(ctx, i, c)
}

// replace must be called with the write lock held.
func (s *Store) replace(ctx context.Context, i int, c Course) (Course, error) {
	assignChildIDs(&c)
	if err := c.Validate(); err != nil {
		return Course{}, err
	}
	if err := checkTransitions(s.courses[i], c); err != nil {
		return Course{}, err
	}

	next := make([]Course, len(s.courses))
	copy(next, s.courses)
	next[i] = c
	if err := s.commit(ctx, next); err != nil {
		return Course{}, err
	}
	return c.Clone(), nil
}

// commit persists next and makes it the current state. Must be called with the write lock held.
func (s *Store) commit(ctx context.Context, next []Course) error {
	if err := s.repo.SaveCourses(ctx, next); err != nil {
		return errors.Wrap(err, "saving courses")
	}
	s.courses = next
	return nil
}

// assignChildIDs gives a fresh id to every child record that has none.
func assignChildIDs(c *Course) {
	for i := range c.Modules {
		setID(&c.Modules[i].ID)
		for j := range c.Modules[i].Resources {
			setID(&c.Modules[i].Resources[j].ID)
		}
	}
	for i := range c.Assignments {
		setID(&c.Assignments[i].ID)
	}
	for i := range c.Quizzes {
		setID(&c.Quizzes[i].ID)
		for j := range c.Quizzes[i].Questions {
			setID(&c.Quizzes[i].Questions[j].ID)
		}
	}
	for i := range c.ForumPosts {
		setID(&c.ForumPosts[i].ID)
		for j := range c.ForumPosts[i].Replies {
			setID(&c.ForumPosts[i].Replies[j].ID)
		}
	}
	for i := range c.Submissions {
		setID(&c.Submissions[i].ID)
	}
	for i := range c.Announcements {
		setID(&c.Announcements[i].ID)
	}
}

func setID(id *string) {
	if *id == "" {
		*id = newID()
	}
}

var newID = core.NewID // mockable

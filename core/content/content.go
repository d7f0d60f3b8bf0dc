// Package content supplies the read-only notifications, messages, calendar events and badges
// shown alongside the courses. Nothing here is persisted or mutated.
package content

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Notification types
const (
	NotificationDeadline     = "DEADLINE"
	NotificationAnnouncement = "ANNOUNCEMENT"
	NotificationGrade        = "GRADE"
	NotificationBadge        = "BADGE"
)

// Event types
const (
	EventAssignment = "ASSIGNMENT"
	EventClass      = "CLASS"
	EventExam       = "EXAM"
	EventReminder   = "REMINDER"
)

type (
	Notification struct {
		ID      string `json:"id" yaml:"id"`
		Title   string `json:"title" yaml:"title"`
		Message string `json:"message" yaml:"message"`
		Date    string `json:"date" yaml:"date"`
		Read    bool   `json:"read" yaml:"read"`
		Type    string `json:"type" yaml:"type"`
	}

	Message struct {
		ID      string `json:"id" yaml:"id"`
		Sender  string `json:"sender" yaml:"sender"`
		Avatar  string `json:"avatar" yaml:"avatar"`
		Subject string `json:"subject" yaml:"subject"`
		Preview string `json:"preview" yaml:"preview"`
		Date    string `json:"date" yaml:"date"`
		Read    bool   `json:"read" yaml:"read"`
		Content string `json:"content" yaml:"content"`
	}

	CalendarEvent struct {
		ID         string `json:"id" yaml:"id"`
		Title      string `json:"title" yaml:"title"`
		Date       string `json:"date" yaml:"date"`
		Type       string `json:"type" yaml:"type"`
		CourseName string `json:"course_name" yaml:"course_name"`
	}

	Badge struct {
		ID          string `json:"id" yaml:"id"`
		Name        string `json:"name" yaml:"name"`
		Icon        string `json:"icon" yaml:"icon"`
		Description string `json:"description" yaml:"description"`
		EarnedAt    string `json:"earned_at,omitempty" yaml:"earned_at,omitempty"`
	}

	// Bundle is everything a Provider hands out.
	Bundle struct {
		Notifications []Notification  `json:"notifications" yaml:"notifications"`
		Messages      []Message       `json:"messages" yaml:"messages"`
		Events        []CalendarEvent `json:"events" yaml:"events"`
		Badges        []Badge         `json:"badges" yaml:"badges"`
	}
)

// Provider supplies the static content collections.
type Provider interface {
	Bundle() Bundle
}

// Static serves a fixed Bundle.
type Static struct {
	bundle Bundle
}

func NewStatic(b Bundle) *Static {
	return &Static{bundle: b.clone()}
}

// Bundle returns a copy; callers may not reach the provider's own slices.
func (s *Static) Bundle() Bundle {
	return s.bundle.clone()
}

func (b Bundle) clone() Bundle {
	return Bundle{
		Notifications: append([]Notification{}, b.Notifications...),
		Messages:      append([]Message{}, b.Messages...),
		Events:        append([]CalendarEvent{}, b.Events...),
		Badges:        append([]Badge{}, b.Badges...),
	}
}

// LoadFile reads a YAML bundle.
func LoadFile(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, errors.Wrap(err, "reading content file")
	}
	var b Bundle
	if err := yaml.UnmarshalStrict(data, &b); err != nil {
		return Bundle{}, errors.Wrapf(err, "parsing content file %s", path)
	}
	return b, nil
}

// NewProvider returns a provider over the bundle in path, or over the demo bundle when path is empty.
func NewProvider(path string) (*Static, error) {
	if path == "" {
		return NewStatic(Demo()), nil
	}
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewStatic(b), nil
}

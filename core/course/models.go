package course

import (
	"encoding/json"

	"github.com/volatiletech/null/v8"
)

// CollectionName is the name under which the ordered course collection is persisted.
const CollectionName = "lms_courses"

// ResourceType
const (
	ResourcePDF   = "PDF"
	ResourceVideo = "VIDEO"
	ResourceDoc   = "DOC"
	ResourceLink  = "LINK"
)

// SubmissionStatus moves forward only: PENDING -> SUBMITTED -> GRADED.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "PENDING"
	StatusSubmitted SubmissionStatus = "SUBMITTED"
	StatusGraded    SubmissionStatus = "GRADED"
)

var statusRanks = map[SubmissionStatus]int{
	StatusPending:   1,
	StatusSubmitted: 2,
	StatusGraded:    3,
}

func (s SubmissionStatus) rank() int { return statusRanks[s] }

// Course exclusively owns its modules, assignments and the optional quizzes, forum posts,
// submissions and announcements.
type Course struct {
	ID            string         `json:"id"`
	Title         string         `json:"title" validate:"notblank"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Instructor    string         `json:"instructor"`
	Modules       []Module       `json:"modules" validate:"dive"`
	Assignments   []Assignment   `json:"assignments" validate:"dive"`
	Quizzes       []Quiz         `json:"quizzes,omitempty" validate:"dive"`
	ForumPosts    []ForumPost    `json:"forum_posts,omitempty" validate:"dive"`
	Submissions   []Submission   `json:"submissions,omitempty" validate:"dive"`
	Announcements []Announcement `json:"announcements,omitempty" validate:"dive"`
	EnrolledCount int            `json:"enrolled_count" validate:"min=0"`
	ImageURL      null.String    `json:"image_url"`
}

type Module struct {
	ID        string     `json:"id"`
	Title     string     `json:"title" validate:"notblank"`
	Content   string     `json:"content"`
	Resources []Resource `json:"resources,omitempty" validate:"dive"`
}

type Resource struct {
	ID    string `json:"id"`
	Title string `json:"title" validate:"notblank"`
	Type  string `json:"type" validate:"oneof=PDF VIDEO DOC LINK"`
	URL   string `json:"url" validate:"required"`
}

type Assignment struct {
	ID        string `json:"id"`
	Title     string `json:"title" validate:"notblank"`
	DueDate   string `json:"due_date"`
	MaxPoints int    `json:"max_points" validate:"min=0"`
}

type Submission struct {
	ID              string           `json:"id"`
	AssignmentID    string           `json:"assignment_id" validate:"required"`
	StudentID       string           `json:"student_id" validate:"required"`
	StudentName     string           `json:"student_name"`
	FileURL         null.String      `json:"file_url"`
	Content         null.String      `json:"content"`
	Grade           null.Float64     `json:"grade"`
	Feedback        null.String      `json:"feedback"`
	PlagiarismScore null.Float64     `json:"plagiarism_score"`
	Status          SubmissionStatus `json:"status" validate:"oneof=PENDING SUBMITTED GRADED"`
	SubmittedAt     string           `json:"submitted_at"`
}

// Advance moves the submission to next, refusing to go backwards.
func (s *Submission) Advance(next SubmissionStatus) error {
	if next.rank() == 0 {
		return ErrInvalidStatus
	}
	if next.rank() < s.Status.rank() {
		return ErrStatusRegression
	}
	s.Status = next
	return nil
}

// GradeWith records the educator's grade and feedback and marks the submission GRADED.
func (s *Submission) GradeWith(grade float64, feedback string) error {
	if err := s.Advance(StatusGraded); err != nil {
		return err
	}
	s.Grade = null.Float64From(grade)
	s.Feedback = null.NewString(feedback, feedback != "")
	return nil
}

type Announcement struct {
	ID      string `json:"id"`
	Title   string `json:"title" validate:"notblank"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Author  string `json:"author"`
}

type QuizQuestion struct {
	ID                 string   `json:"id"`
	Question           string   `json:"question" validate:"notblank"`
	Options            []string `json:"options" validate:"min=1"`
	CorrectOptionIndex int      `json:"correct_option_index"`
}

type Quiz struct {
	ID        string         `json:"id"`
	Title     string         `json:"title" validate:"notblank"`
	Questions []QuizQuestion `json:"questions" validate:"dive"`
}

type ForumReply struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

type ForumPost struct {
	ID          string       `json:"id"`
	StudentName string       `json:"student_name"`
	Title       string       `json:"title" validate:"notblank"`
	Content     string       `json:"content"`
	Date        string       `json:"date"`
	Replies     []ForumReply `json:"replies"`
}

// MarshalCollection encodes courses as they are persisted under CollectionName.
func MarshalCollection(courses []Course) ([]byte, error) {
	if courses == nil {
		courses = []Course{}
	}
	return json.Marshal(courses)
}

// UnmarshalCollection decodes a persisted collection. Empty data is an empty collection.
func UnmarshalCollection(data []byte) ([]Course, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var courses []Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

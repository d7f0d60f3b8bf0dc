package course

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	optionIndexTag  = "optionindex"
	optionIndexText = "the correct option must be one of the options"
)

func init() {
	core.Validate.RegisterStructValidation(quizQuestionStructValidation, QuizQuestion{})
	core.RegisterCustomTranslation(optionIndexTag, optionIndexText)
}

// Validate checks the whole record, children included.
func (c Course) Validate() error {
	return core.CheckStruct(c, "invalid course")
}

// checkTransitions refuses updates that move an existing submission backwards.
func checkTransitions(prev, next Course) error {
	if len(prev.Submissions) == 0 {
		return nil
	}
	statuses := make(map[string]SubmissionStatus, len(prev.Submissions))
	for _, s := range prev.Submissions {
		statuses[s.ID] = s.Status
	}
	for i, s := range next.Submissions {
		if old, ok := statuses[s.ID]; ok && s.Status.rank() < old.rank() {
			return core.NewValidationError(ErrStatusRegression, core.FieldError{
				Field: fmt.Sprintf("submissions[%d].status", i),
				Error: ErrStatusRegression.Error(),
			})
		}
	}
	return nil
}

// quizQuestionStructValidation checks that CorrectOptionIndex addresses one of the Options.
func quizQuestionStructValidation(sl validator.StructLevel) {
	if q, ok := sl.Current().Interface().(QuizQuestion); ok {
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			sl.ReportError(q.CorrectOptionIndex, "correct_option_index", "CorrectOptionIndex", optionIndexTag, "")
		}
	}
}

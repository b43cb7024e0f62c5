package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/at-ishikawa/englearn/internal/skill"
)

// ValidationError is one problem found in the catalog.
type ValidationError struct {
	Location string
	Message  string
	Severity string // "error" or "warning"
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Location, e.Message)
}

// Validate reports duplicate ids, unknown levels and skills, and words that
// cannot be used in a quiz.
func (c *Catalog) Validate() []ValidationError {
	var errs []ValidationError
	addError := func(location, format string, args ...any) {
		errs = append(errs, ValidationError{Location: location, Message: fmt.Sprintf(format, args...), Severity: "error"})
	}
	addWarning := func(location, format string, args ...any) {
		errs = append(errs, ValidationError{Location: location, Message: fmt.Sprintf(format, args...), Severity: "warning"})
	}

	wordIDs := make(map[string]bool)
	for i, w := range c.Words {
		location := fmt.Sprintf("words[%d]", i)
		if w.ID != "" {
			location = "word " + w.ID
		}
		switch {
		case w.ID == "":
			addError(location, "id is required")
		case wordIDs[w.ID]:
			addError(location, "duplicate id")
		}
		wordIDs[w.ID] = true

		if strings.TrimSpace(w.Word) == "" || strings.TrimSpace(w.Translation) == "" {
			addError(location, "word and translation are required")
		}
		if w.Level != "" && !slices.Contains(skill.Levels, w.Level) {
			addError(location, "unknown level %q", w.Level)
		}
		if w.Topic == "" {
			addWarning(location, "no topic, the word is only used in unfiltered quizzes")
		}
	}

	lessonIDs := make(map[string]bool)
	for i, l := range c.Lessons {
		location := fmt.Sprintf("lessons[%d]", i)
		if l.ID != "" {
			location = "lesson " + l.ID
		}
		switch {
		case l.ID == "":
			addError(location, "id is required")
		case lessonIDs[l.ID]:
			addError(location, "duplicate id")
		}
		lessonIDs[l.ID] = true

		if !slices.Contains(skill.Levels, l.Level) {
			addError(location, "unknown level %q", l.Level)
		}
		if !slices.Contains(skill.SkillTypes, l.SkillType) {
			addError(location, "unknown skill type %q", l.SkillType)
		}
		if l.DurationMinutes <= 0 {
			addWarning(location, "duration is not set")
		}
	}
	return errs
}

func HasErrors(errs []ValidationError) bool {
	return slices.ContainsFunc(errs, func(e ValidationError) bool {
		return e.Severity == "error"
	})
}

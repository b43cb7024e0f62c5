package grading

import (
	"strings"
)

// GenerateDetailedFeedback summarizes a percentage and lists weak areas to focus on.
func GenerateDetailedFeedback(percentage float64, weakAreas []string) string {
	var b strings.Builder
	switch {
	case percentage >= 90:
		b.WriteString("Outstanding work! You have a strong command of this material.")
	case percentage >= 80:
		b.WriteString("Great job! You understand most of this material.")
	case percentage >= 70:
		b.WriteString("Good work. You passed, but there is room to improve.")
	case percentage >= 60:
		b.WriteString("You're getting there. Review the material and try again.")
	default:
		b.WriteString("This topic needs more practice. Go back over the lesson before retrying.")
	}

	if len(weakAreas) > 0 {
		b.WriteString("\n\nFocus on these areas:")
		for _, area := range weakAreas {
			b.WriteString("\n- ")
			b.WriteString(area)
		}
	}
	return b.String()
}

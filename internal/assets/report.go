package assets

import (
	_ "embed"
	"fmt"
	"io"
	"time"
)

const learningReportTemplateName = "learning-report.md.go.tmpl"

//go:embed templates/learning-report.md.go.tmpl
var fallbackLearningReportTemplate string

// ReportTemplate is the top-level data structure for learning report templates
type ReportTemplate struct {
	Title        string
	GeneratedAt  time.Time
	Filter       string // e.g. "2025-02", empty for all time
	Level        string
	WeakestSkill string
	Vocabulary   *VocabularySummary
	Periods      []ReportPeriod
	Total        *ReportPeriod
}

type VocabularySummary struct {
	Total         int
	New           int
	Learning      int
	Reviewing     int
	Mastered      int
	DueToday      int
	RetentionRate float64
}

type ReportPeriod struct {
	Period           string
	Lessons          int
	AverageScore     float64
	TimeSpentSeconds int
	Mistakes         int
	Skills           []ReportSkill
}

type ReportSkill struct {
	SkillType        string
	Lessons          int
	NewLessons       int
	Reviews          int
	AverageScore     float64
	TimeSpentSeconds int
	Mistakes         int
}

// WriteLearningReport renders the report with templatePath, or with the
// embedded template when templatePath is empty.
func WriteLearningReport(output io.Writer, templatePath string, templateData ReportTemplate) error {
	tmpl, err := parseTemplateWithFallback(templatePath, learningReportTemplateName, fallbackLearningReportTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

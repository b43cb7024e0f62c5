package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/at-ishikawa/englearn/internal/assets"
	"github.com/at-ishikawa/englearn/internal/pdf"
	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/skill"
	"github.com/at-ishikawa/englearn/internal/srs"
	"github.com/at-ishikawa/englearn/internal/statistics"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

type ReportOptions struct {
	Year  int
	Month int
	// Markdown writes the report to OutputDirectory instead of the terminal
	Markdown bool
	// PDF converts the markdown report to PDF. It implies Markdown.
	PDF             bool
	OutputDirectory string
	TemplatePath    string
	Now             time.Time
}

func (o ReportOptions) filter() string {
	switch {
	case o.Year != 0 && o.Month != 0:
		return fmt.Sprintf("%d-%02d", o.Year, o.Month)
	case o.Year != 0:
		return fmt.Sprintf("%d", o.Year)
	}
	return ""
}

// RunAnalyzeReport displays learning statistics report
func RunAnalyzeReport(
	ctx context.Context,
	repository *progress.Repository,
	userID string,
	words []vocabulary.Word,
	opts ReportOptions,
	output io.Writer,
) error {
	history, err := repository.History(ctx, userID)
	if err != nil {
		return fmt.Errorf("repository.History(%s) > %w", userID, err)
	}
	result := statistics.CalculateStatistics(history, opts.Year, opts.Month)

	if !opts.Markdown && !opts.PDF {
		printReport(output, result)
		return nil
	}

	data := assets.ReportTemplate{
		Title:       "Learning Report",
		GeneratedAt: opts.Now,
		Filter:      opts.filter(),
		Total:       toReportPeriod(result.Aggregate),
	}
	score, err := repository.Score(ctx, userID)
	switch {
	case err == nil:
		data.Level = string(score.Level)
		data.WeakestSkill = string(skill.FindWeakestSkill(score))
	case !errors.Is(err, progress.ErrNotFound):
		return fmt.Errorf("repository.Score(%s) > %w", userID, err)
	}
	if len(words) > 0 {
		stats := srs.GetStudyStatistics(words, opts.Now)
		data.Vocabulary = &assets.VocabularySummary{
			Total:         stats.Total,
			New:           stats.New,
			Learning:      stats.Learning,
			Reviewing:     stats.Reviewing,
			Mastered:      stats.Mastered,
			DueToday:      stats.DueToday,
			RetentionRate: srs.CalculateRetentionRate(words),
		}
	}
	for _, period := range result.Periods {
		data.Periods = append(data.Periods, *toReportPeriod(period))
	}

	if err := os.MkdirAll(opts.OutputDirectory, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", opts.OutputDirectory, err)
	}
	name := "report"
	if filter := opts.filter(); filter != "" {
		name += "-" + filter
	}
	markdownPath := filepath.Join(opts.OutputDirectory, name+".md")
	file, err := os.Create(markdownPath)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", markdownPath, err)
	}
	if err := assets.WriteLearningReport(file, opts.TemplatePath, data); err != nil {
		_ = file.Close()
		return fmt.Errorf("assets.WriteLearningReport() > %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close() > %w", err)
	}
	fmt.Fprintf(output, "Markdown report: %s\n", markdownPath)

	if opts.PDF {
		pdfPath, err := pdf.ConvertMarkdownToPDF(markdownPath)
		if err != nil {
			return fmt.Errorf("pdf.ConvertMarkdownToPDF(%s) > %w", markdownPath, err)
		}
		fmt.Fprintf(output, "PDF report: %s\n", pdfPath)
	}
	return nil
}

func printReport(output io.Writer, result statistics.StatisticsResult) {
	if len(result.Periods) == 0 {
		fmt.Fprintln(output, "No learning records found for the specified period.")
		return
	}

	fmt.Fprintln(output, "Learning Statistics Report")
	fmt.Fprintln(output, "==========================")
	fmt.Fprintln(output)
	fmt.Fprintf(output, "%-10s  %-12s  %-8s  %-10s  %-8s  %-8s\n", "Period", "Skill", "Lessons", "New/Review", "Average", "Mistakes")
	fmt.Fprintf(output, "%-10s  %-12s  %-8s  %-10s  %-8s  %-8s\n", "------", "-----", "-------", "----------", "-------", "--------")

	for _, period := range result.Periods {
		for _, s := range period.Skills {
			fmt.Fprintf(output, "%-10s  %-12s  %-8d  %-10s  %-8.1f  %-8d\n",
				period.Period,
				s.SkillType,
				s.Lessons,
				fmt.Sprintf("%d / %d", s.NewLessons, s.Reviews),
				s.AverageScore,
				s.Mistakes,
			)
		}
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Totals: %d lessons, average score %.1f, %s spent, %d mistakes\n",
		result.Aggregate.Lessons,
		result.Aggregate.AverageScore,
		time.Duration(result.Aggregate.TimeSpentSeconds)*time.Second,
		result.Aggregate.Mistakes,
	)
}

func toReportPeriod(stats statistics.LearningStatistics) *assets.ReportPeriod {
	period := &assets.ReportPeriod{
		Period:           stats.Period,
		Lessons:          stats.Lessons,
		AverageScore:     stats.AverageScore,
		TimeSpentSeconds: stats.TimeSpentSeconds,
		Mistakes:         stats.Mistakes,
	}
	for _, s := range stats.Skills {
		period.Skills = append(period.Skills, assets.ReportSkill{
			SkillType:        string(s.SkillType),
			Lessons:          s.Lessons,
			NewLessons:       s.NewLessons,
			Reviews:          s.Reviews,
			AverageScore:     s.AverageScore,
			TimeSpentSeconds: s.TimeSpentSeconds,
			Mistakes:         s.Mistakes,
		})
	}
	return period
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/skill"
)

func seedHistory(t *testing.T, repo *progress.Repository) {
	t.Helper()
	require.NoError(t, repo.AppendHistory(context.Background(), "user-1",
		skill.HistoryEntry{SkillType: skill.SkillReading, LessonID: "r-1", CompletedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Score: 80, TimeSpentSeconds: 600, Mistakes: 2},
		skill.HistoryEntry{SkillType: skill.SkillWriting, LessonID: "w-1", CompletedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Score: 60, TimeSpentSeconds: 900, Mistakes: 5},
	))
}

func TestRunAnalyzeReport(t *testing.T) {
	tests := []struct {
		name       string
		seed       bool
		opts       ReportOptions
		wantOutput []string
		wantFiles  []string
	}{
		{
			name:       "terminal report",
			seed:       true,
			opts:       ReportOptions{Year: 2025, Month: 6},
			wantOutput: []string{"Learning Statistics Report", "2025-06     reading", "Totals: 2 lessons, average score 70.0, 25m0s spent, 7 mistakes"},
		},
		{
			name:       "empty history",
			opts:       ReportOptions{Year: 2025, Month: 6},
			wantOutput: []string{"No learning records found for the specified period."},
		},
		{
			name:       "markdown report",
			seed:       true,
			opts:       ReportOptions{Year: 2025, Month: 6, Markdown: true},
			wantOutput: []string{"Markdown report: "},
			wantFiles:  []string{"report-2025-06.md"},
		},
		{
			name:       "pdf report for all time",
			seed:       true,
			opts:       ReportOptions{PDF: true},
			wantOutput: []string{"Markdown report: ", "PDF report: "},
			wantFiles:  []string{"report.md", "report.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := progress.NewRepository(progress.NewYAMLStore(t.TempDir()))
			if tt.seed {
				seedHistory(t, repo)
			}
			outputDir := t.TempDir()
			tt.opts.OutputDirectory = outputDir
			tt.opts.Now = now

			var output bytes.Buffer
			err := RunAnalyzeReport(context.Background(), repo, "user-1", testWords(), tt.opts, &output)
			require.NoError(t, err)

			for _, want := range tt.wantOutput {
				assert.Contains(t, output.String(), want)
			}
			for _, file := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(outputDir, file))
				assert.NoError(t, err, file)
			}
		})
	}
}

func TestRunAnalyzeReport_markdownContents(t *testing.T) {
	repo := progress.NewRepository(progress.NewYAMLStore(t.TempDir()))
	seedHistory(t, repo)
	require.NoError(t, repo.SaveScore(context.Background(), "user-1", skill.NewScoreRecord(map[skill.SkillType]int{
		skill.SkillReading: 90, skill.SkillWriting: 30, skill.SkillListening: 70,
		skill.SkillSpeaking: 70, skill.SkillVocabulary: 70, skill.SkillGrammar: 70,
	}, now)))

	outputDir := t.TempDir()
	var output bytes.Buffer
	require.NoError(t, RunAnalyzeReport(context.Background(), repo, "user-1", testWords(), ReportOptions{
		Year:            2025,
		Markdown:        true,
		OutputDirectory: outputDir,
		Now:             now,
	}, &output))

	content, err := os.ReadFile(filepath.Join(outputDir, "report-2025.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Current level: **B1**, weakest skill: **writing**")
	assert.Contains(t, string(content), "| 4 | 4 | 0 | 0 | 0 | 4 | 0.0% |")
	assert.Contains(t, string(content), "| writing | 1 | 1 | 0 | 60.0 | 15m0s | 5 |")
}

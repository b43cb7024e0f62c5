package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		templatePath string

		wantTemplateName string
		wantErr          bool

		templateData         interface{}
		wantTemplateContents string
	}{
		{
			name: "uses filesystem template when available",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "custom.md.go.tmpl")
				content := `Custom: {{ join .Skills ", " }} in {{ duration .Seconds }}`
				require.NoError(t, os.WriteFile(templatePath, []byte(content), 0644))
				return templatePath
			}(t),
			wantTemplateName: "custom.md.go.tmpl",
			templateData: struct {
				Skills  []string
				Seconds int
			}{
				Skills:  []string{"reading", "writing"},
				Seconds: 3900,
			},
			wantTemplateContents: "Custom: reading, writing in 1h5m0s",
		},
		{
			name:             "uses embedded template when path is empty",
			templatePath:     "",
			wantTemplateName: "fallback.tmpl",
			templateData: struct {
				Rate float64
			}{Rate: 66.666},
			wantTemplateContents: "Fallback 66.7%",
		},
		{
			name:         "fails when file doesn't exist",
			templatePath: "/non/existent/invalid.md.go.tmpl",
			wantErr:      true,
		},
		{
			name: "fails when filesystem template is invalid",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "invalid.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`Bad: {{ .Unclosed`), 0644))
				return templatePath
			}(t),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := parseTemplateWithFallback(tt.templatePath, "fallback.tmpl", `Fallback {{ percent .Rate }}`)
			if tt.wantErr {
				assert.Error(t, gotErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.wantTemplateName, got.Name())

			var buf bytes.Buffer
			require.NoError(t, got.Execute(&buf, tt.templateData))
			assert.Equal(t, tt.wantTemplateContents, buf.String())
		})
	}
}

func TestWriteLearningReport(t *testing.T) {
	data := ReportTemplate{
		Title:        "Learning Report",
		GeneratedAt:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Filter:       "2025-02",
		Level:        "A2",
		WeakestSkill: "writing",
		Vocabulary: &VocabularySummary{
			Total:         40,
			New:           10,
			Learning:      12,
			Reviewing:     15,
			Mastered:      3,
			DueToday:      8,
			RetentionRate: 75,
		},
		Periods: []ReportPeriod{
			{
				Period:           "2025-02",
				Lessons:          2,
				AverageScore:     85,
				TimeSpentSeconds: 900,
				Mistakes:         3,
				Skills: []ReportSkill{
					{SkillType: "reading", Lessons: 2, NewLessons: 1, Reviews: 1, AverageScore: 85, TimeSpentSeconds: 900, Mistakes: 3},
				},
			},
		},
		Total: &ReportPeriod{Lessons: 2, AverageScore: 85, TimeSpentSeconds: 900, Mistakes: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLearningReport(&buf, "", data))
	output := buf.String()

	assert.Contains(t, output, "# Learning Report\n")
	assert.Contains(t, output, "Generated on 2025-03-01 for 2025-02.")
	assert.Contains(t, output, "Current level: **A2**, weakest skill: **writing**")
	assert.Contains(t, output, "| 40 | 10 | 12 | 15 | 3 | 8 | 75.0% |")
	assert.Contains(t, output, "## 2025-02\n")
	assert.Contains(t, output, "| reading | 2 | 1 | 1 | 85.0 | 15m0s | 3 |")
	assert.Contains(t, output, "## Total\n\n2 lessons, average score 85.0, 15m0s spent, 3 mistakes.")
}

func TestWriteLearningReport_noPeriods(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLearningReport(&buf, "", ReportTemplate{
		Title:       "Learning Report",
		GeneratedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}))

	output := buf.String()
	assert.Contains(t, output, "No lessons were completed in this period.")
	assert.NotContains(t, output, "## Vocabulary")
	assert.NotContains(t, output, "## Total")
}

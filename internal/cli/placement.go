package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/skill"
)

// RunPlacement records a placement test result and prints the derived level.
// Every score must be between 0 and 100.
func RunPlacement(
	ctx context.Context,
	repository *progress.Repository,
	userID string,
	scores map[skill.SkillType]int,
	now time.Time,
	output io.Writer,
) (skill.ScoreRecord, error) {
	for _, skillType := range skill.SkillTypes {
		if score := scores[skillType]; score < 0 || score > 100 {
			return skill.ScoreRecord{}, fmt.Errorf("%s score must be between 0 and 100, got %d", skillType, score)
		}
	}

	record := skill.NewScoreRecord(scores, now)
	if err := repository.SaveScore(ctx, userID, record); err != nil {
		return skill.ScoreRecord{}, fmt.Errorf("repository.SaveScore(%s) > %w", userID, err)
	}

	bold := color.New(color.Bold)
	for _, skillType := range skill.SkillTypes {
		fmt.Fprintf(output, "%-11s %3d\n", skillType, record.Score(skillType))
	}
	_, _ = bold.Fprintf(output, "\nTotal %d, level %s\n", record.Total, record.Level)
	fmt.Fprintf(output, "Weakest skill: %s\n", skill.FindWeakestSkill(record))
	return record, nil
}

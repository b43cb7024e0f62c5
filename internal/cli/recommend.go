package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/recommend"
	"github.com/at-ishikawa/englearn/internal/skill"
)

// RunRecommend prints lesson recommendations for the user's latest placement score.
func RunRecommend(
	ctx context.Context,
	repository *progress.Repository,
	userID string,
	lessons []recommend.Lesson,
	maxResults int,
	now time.Time,
	output io.Writer,
) error {
	score, err := repository.Score(ctx, userID)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			fmt.Fprintln(output, "No placement score yet. Take the placement test first.")
			return nil
		}
		return fmt.Errorf("repository.Score(%s) > %w", userID, err)
	}
	history, err := repository.History(ctx, userID)
	if err != nil {
		return fmt.Errorf("repository.History(%s) > %w", userID, err)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(output, "Level %s, weakest skill: %s\n\n", score.Level, skill.FindWeakestSkill(score))

	recommendations := recommend.GenerateLessonRecommendations(score, history, lessons, maxResults, now)
	if len(recommendations) == 0 {
		fmt.Fprintln(output, "No lessons to recommend. Add lessons for your level to the catalog.")
		return nil
	}
	for i, r := range recommendations {
		fmt.Fprintf(output, "%d. [%s] %s (%s, %s, %d min)\n   %s\n",
			i+1, r.Priority, r.Lesson.Title, r.Lesson.SkillType, r.Lesson.Level, r.Lesson.DurationMinutes, r.Reason)
	}
	return nil
}

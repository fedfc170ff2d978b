package workflow

import (
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

// ChapterAction is an operation on a syllabus chapter.
type ChapterAction string

const (
	ChapterUnlock         ChapterAction = "unlock"
	ChapterLock           ChapterAction = "lock"
	ChapterComplete       ChapterAction = "complete"
	ChapterSetDeadline    ChapterAction = "set_deadline"
	ChapterRevealScores   ChapterAction = "reveal_scores"
	ChapterUpdatePortions ChapterAction = "update_portions"
)

// UnlockChapter opens a draft or locked chapter. Any prior deadline is replaced by deadline, which may be nil.
func UnlockChapter(c models.Chapter, deadline *time.Time, now time.Time) (models.Chapter, error) {
	if c.Status != models.ChapterStatusDraft && c.Status != models.ChapterStatusLocked {
		return c, appErrors.InvalidTransition("chapter", string(ChapterUnlock), string(c.Status), string(models.ChapterStatusUnlocked))
	}
	if deadline != nil && !deadline.After(now) {
		return c, appErrors.ErrInvalidDeadline
	}
	next := c
	next.Status = models.ChapterStatusUnlocked
	next.Deadline = nil
	if deadline != nil {
		d := deadline.UTC()
		next.Deadline = &d
	}
	return next, nil
}

// LockChapter closes an unlocked chapter and drops its deadline.
func LockChapter(c models.Chapter) (models.Chapter, error) {
	if c.Status != models.ChapterStatusUnlocked {
		return c, appErrors.InvalidTransition("chapter", string(ChapterLock), string(c.Status), string(models.ChapterStatusLocked))
	}
	next := c
	next.Status = models.ChapterStatusLocked
	next.Deadline = nil
	return next, nil
}

// CompleteChapter marks the chapter exam as finished.
func CompleteChapter(c models.Chapter) (models.Chapter, error) {
	if c.Status != models.ChapterStatusUnlocked {
		return c, appErrors.InvalidTransition("chapter", string(ChapterComplete), string(c.Status), string(models.ChapterStatusCompleted))
	}
	next := c
	next.Status = models.ChapterStatusCompleted
	next.Deadline = nil
	return next, nil
}

// SetChapterDeadline sets a future deadline on an unlocked chapter.
func SetChapterDeadline(c models.Chapter, deadline time.Time, now time.Time) (models.Chapter, error) {
	if c.Status != models.ChapterStatusUnlocked {
		return c, appErrors.InvalidTransition("chapter", string(ChapterSetDeadline), string(c.Status), "")
	}
	if !deadline.After(now) {
		return c, appErrors.ErrInvalidDeadline
	}
	next := c
	d := deadline.UTC()
	next.Deadline = &d
	return next, nil
}

// RevealChapterScores publishes scores of a completed chapter. changed is false if already revealed.
func RevealChapterScores(c models.Chapter) (next models.Chapter, changed bool, err error) {
	if c.Status != models.ChapterStatusCompleted {
		return c, false, appErrors.WithDetails(appErrors.ErrNotCompleted, map[string]interface{}{"status": string(c.Status)})
	}
	if c.ScoresRevealed {
		return c, false, nil
	}
	next = c
	next.ScoresRevealed = true
	return next, true, nil
}

// UpdatePortions replaces the completed topic set. Unknown topics reject the whole update.
// The stored order follows the chapter's topic order.
func UpdatePortions(c models.Chapter, completed []string) (models.Chapter, error) {
	index := make(map[string]int, len(c.Topics))
	for i, topic := range c.Topics {
		index[topic] = i
	}
	seen := make(map[string]struct{}, len(completed))
	var unknown []string
	accepted := make([]string, 0, len(completed))
	for _, raw := range completed {
		topic := strings.TrimSpace(raw)
		if _, ok := index[topic]; !ok {
			unknown = append(unknown, raw)
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		accepted = append(accepted, topic)
	}
	if len(unknown) > 0 {
		return c, appErrors.WithDetails(appErrors.ErrInvalidTopics, map[string]interface{}{"unknownTopics": unknown})
	}
	sort.SliceStable(accepted, func(i, j int) bool { return index[accepted[i]] < index[accepted[j]] })
	next := c
	next.CompletedTopics = pq.StringArray(accepted)
	return next, nil
}

// NormalizeTopics trims, drops blanks and removes duplicates while keeping order.
func NormalizeTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, raw := range topics {
		topic := strings.TrimSpace(raw)
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		out = append(out, topic)
	}
	return out
}

package bot

import (
	"fmt"
	"strings"

	"github.com/example/vocabbot/internal/engine"
	"github.com/example/vocabbot/internal/mastery"
	"github.com/example/vocabbot/internal/ranking"
	"github.com/example/vocabbot/pkg/models"
)

// Reply is one rendered chat message
type Reply struct {
	Text string
	// Choices are shown as reply buttons that send their text back
	Choices []string
	// Buttons are inline buttons whose callback data is passed to the engine
	Buttons [][]MenuButton
}

const helpText = "Commands:\n" +
	"/learn - pick a range to study\n" +
	"/stats - your mastery per range\n" +
	"/ranking - weekly rewards and top learners\n" +
	"/name <name> - change your display name (or send @name)"

// Render formats an engine payload for Telegram
func Render(p engine.Payload) []Reply {
	switch v := p.(type) {
	case engine.Question:
		return []Reply{renderQuestion(v)}
	case engine.Feedback:
		return []Reply{{Text: renderFeedback(v)}}
	case engine.Stats:
		return []Reply{{Text: renderStats(v)}}
	case engine.Leaderboard:
		return []Reply{{Text: renderLeaderboard(v)}}
	case engine.Menu:
		return []Reply{renderMenu(v)}
	case engine.Notice:
		return []Reply{{Text: renderNotice(v)}}
	case engine.Tip:
		return []Reply{{Text: "💡 " + v.Text}}
	default:
		return nil
	}
}

func marks(score int) string {
	if score <= 0 {
		return "✗"
	}
	return strings.Repeat("✓", score)
}

func renderQuestion(q engine.Question) Reply {
	var sb strings.Builder
	if q.Review {
		fmt.Fprintf(&sb, "🔁 Review (%d missed left)\n", q.Remaining)
	} else {
		fmt.Fprintf(&sb, "📖 %s (%d new left)\n", q.RangeKey, q.Remaining)
	}
	if q.Seen {
		fmt.Fprintf(&sb, "Mastery: %s\n", marks(q.Score))
	} else {
		sb.WriteString("New word\n")
	}
	fmt.Fprintf(&sb, "\n%s", q.Text)
	return Reply{Text: sb.String(), Choices: q.Choices}
}

func renderFeedback(f engine.Feedback) string {
	var sb strings.Builder
	if !f.Correct {
		fmt.Fprintf(&sb, "❌ Wrong. The answer was %s", f.Answer)
	} else {
		fmt.Fprintf(&sb, "%s %s (%.1fs)", f.Tier, f.Answer, f.Elapsed.Seconds())
	}
	if f.Meaning != "" {
		fmt.Fprintf(&sb, "\n%s", f.Meaning)
	}
	fmt.Fprintf(&sb, "\nMastery: %s → %s", marks(f.PriorScore), marks(f.Score))
	if f.Correct {
		fmt.Fprintf(&sb, "\n+%d points (%d × %d × %d³", f.Points, f.TierPoints, f.MasteryFactor, f.Streak)
		if f.Fever {
			sb.WriteString(" × 🔥FEVER")
		}
		fmt.Fprintf(&sb, ")\nStreak %d, this week %d", f.Streak, f.PeriodTotal)
	}
	return sb.String()
}

// formatRate shows a rate on the 0-10000 scale as a percentage
func formatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100/ranking.Scale)
}

func renderStats(s engine.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %s\n", s.Name)
	for _, r := range s.Ranges {
		fmt.Fprintf(&sb, "%s: %s\n", r.Title, formatRate(float64(r.Rating)))
	}
	fmt.Fprintf(&sb, "Total: %s\n", formatRate(s.TotalRating))
	for score := mastery.MaxScore; score >= mastery.MinScore; score-- {
		fmt.Fprintf(&sb, "\n%s %d", marks(score), s.Distribution[score])
	}
	return sb.String()
}

func renderLeaderboard(l engine.Leaderboard) string {
	var sb strings.Builder
	if l.Metric == models.MetricReward {
		sb.WriteString("🏆 Weekly rewards")
	} else {
		sb.WriteString("🎓 Top learners")
	}
	if len(l.Rows) == 0 {
		sb.WriteString("\nNobody yet")
		return sb.String()
	}
	for _, row := range l.Rows {
		name := row.Name
		if name == "" {
			name = row.UserID
		}
		if l.Metric == models.MetricReward {
			fmt.Fprintf(&sb, "\n%d. %s %.0f", row.Rank, name, row.Value)
		} else {
			fmt.Fprintf(&sb, "\n%d. %s %s", row.Rank, name, formatRate(row.Value))
		}
	}
	return sb.String()
}

func renderMenu(m engine.Menu) Reply {
	buttons := make([][]MenuButton, 0, len(m.Options))
	for _, o := range m.Options {
		buttons = append(buttons, []MenuButton{{Text: o.Title, CallbackData: o.Key}})
	}
	return Reply{Text: "Choose what to study:", Buttons: buttons}
}

func renderNotice(n engine.Notice) string {
	switch n.Kind {
	case engine.NoticeNothingToShow:
		return "Nothing to review right now. 🎉"
	case engine.NoticeEmptyPool:
		return fmt.Sprintf("Range %s has no words yet.", n.Detail)
	case engine.NoticeInvalidName:
		return "That name can't be used: " + n.Detail
	case engine.NoticeInvalidChoice:
		return "Please pick one of the offered answers."
	case engine.NoticeNoPendingSession:
		return "There is no open question. Send /learn to start."
	case engine.NoticeNameChanged:
		return fmt.Sprintf("You are now %s.", n.Detail)
	default:
		return "Something went wrong, please try again later."
	}
}

// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
)

// Error and info messages.
const (
	msgInternalError  = "Something went wrong. Please try again later."
	msgUnknownCommand = "Unknown command. Available commands:\n\n/play - choose tables and play\n/stats - your recent games\n/reset - abort the current game\n/help - how to play"
	msgGameRunning    = "A game is already running. Finish it or use /reset."
	msgSelectTable    = "Select at least one table first."
	msgQuestionOver   = "This question is already over."
)

const progressBarLength = 10

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// welcomeMarkdownV2 returns the /start text.
func welcomeMarkdownV2() string {
	return fmt.Sprintf(
		"%s\n\n%s\n%s",
		bold("✖️ Times tables quiz"),
		md("Pick one or more tables, press Start and answer 9 questions per table."),
		md("Every question has 4 options and 10 seconds on the clock."),
	)
}

// helpMarkdownV2 returns the /help text.
func helpMarkdownV2() string {
	return strings.Join([]string{
		bold("How to play"),
		"",
		md("1. Tap the tables you want to practise, tap again to deselect."),
		md("2. Press ▶️ Start."),
		md("3. Pick the right product before the timer runs out."),
		md("4. At the end you get your score, press Continue to play again."),
		"",
		md("/play - choose tables and play"),
		md("/stats - your recent games"),
		md("/reset - abort the current game"),
	}, "\n")
}

// formatSelection formats the table selection screen.
func formatSelection(selected []int) string {
	if len(selected) == 0 {
		return fmt.Sprintf("%s\n\n%s", bold("🔢 Choose tables"), md("Nothing selected yet."))
	}

	return fmt.Sprintf(
		"%s\n\n%s %s\n%s",
		bold("🔢 Choose tables"),
		md("Selected:"),
		bold(joinInts(selected, ", ")),
		md(fmt.Sprintf("%d questions", len(selected)*entities.MultipliersPerTable)),
	)
}

// formatQuestion formats a question with the remaining time. A negative
// seconds value means the countdown has not ticked yet.
func formatQuestion(q entities.Question, seconds int) string {
	timer := "⏱ …"
	if seconds >= 0 {
		timer = fmt.Sprintf("⏱ %d", seconds)
	}

	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		md(fmt.Sprintf("Question %d of %d", q.Number, q.Total)),
		bold(q.Text()),
		md(timer),
	)
}

// formatSummary formats the end-of-game summary.
func formatSummary(s entities.Summary) string {
	emoji, message := "📚", "Keep practising!"
	switch {
	case s.Percentage >= 90:
		emoji, message = "🌟", "Excellent!"
	case s.Percentage >= 70:
		emoji, message = "👍", "Good job!"
	case s.Percentage >= 50:
		emoji, message = "💪", "Not bad, keep going!"
	}

	return fmt.Sprintf(
		"%s %s\n\n%s\n%s\n%s\n\n%s",
		md(emoji),
		bold("Game over"),
		md(s.CorrectText()),
		bold(s.PercentageText()),
		md(buildProgressBar(s.Correct, s.Total, progressBarLength)),
		md(message),
	)
}

// formatStats formats the chat totals and the latest results.
func formatStats(stats *entities.ChatStats, results []*entities.GameResult) string {
	if stats == nil || stats.GamesPlayed == 0 {
		return md("📊 No finished games yet. Use /play to start one.")
	}

	lines := []string{
		bold("📊 Your results"),
		"",
		md(fmt.Sprintf("🎮 Games played: %d", stats.GamesPlayed)),
		md(fmt.Sprintf("🎯 Accuracy: %s%%", entities.FormatPercentage(stats.Accuracy()))),
		md(fmt.Sprintf("🏆 Best score: %s%%", entities.FormatPercentage(stats.BestPercentage))),
	}

	if len(results) > 0 {
		lines = append(lines, "", bold("Latest games"))
		for _, r := range results {
			s := r.Summary()
			lines = append(lines, md(fmt.Sprintf(
				"%s · tables %s · %s · %s",
				r.FinishedAt.UTC().Format("02 Jan 15:04"),
				joinInts(r.Tables, ","),
				s.CorrectText(),
				s.PercentageText(),
			)))
		}
	}

	return strings.Join(lines, "\n")
}

// buildProgressBar creates an ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return strings.Repeat("░", length)
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

func joinInts(nums []int, sep string) string {
	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		parts = append(parts, fmt.Sprint(n))
	}
	return strings.Join(parts, sep)
}

package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
)

const (
	tablesPerRow  = 5
	answersPerRow = 2
)

// buildSelectionKeyboard builds the table grid. The start row is only shown
// when at least one table is selected.
func buildSelectionKeyboard(tables, selected []int, startEnabled bool) tgbotapi.InlineKeyboardMarkup {
	chosen := make(map[int]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range tables {
		label := strconv.Itoa(t)
		if chosen[t] {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildTableToggleCallback(t)))
		if len(row) == tablesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if startEnabled {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Start", buildTableStartCallback()),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildAnswerKeyboard builds the answer buttons of a question. marks may be
// nil while the question is still open.
func buildAnswerKeyboard(q entities.Question, marks []entities.AnswerMark) tgbotapi.InlineKeyboardMarkup {
	states := make(map[int]entities.MarkState, len(marks))
	for _, m := range marks {
		states[m.Value] = m.State
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, a := range q.Answers {
		label := answerLabel(a, states[a])
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildQuizAnswerCallback(q.Seq, a)))
		if len(row) == answersPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func answerLabel(value int, state entities.MarkState) string {
	switch state {
	case entities.MarkCorrect:
		return fmt.Sprintf("✅ %d", value)
	case entities.MarkIncorrect:
		return fmt.Sprintf("❌ %d", value)
	default:
		return strconv.Itoa(value)
	}
}

// buildSummaryKeyboard builds keyboard for the end-of-game summary.
func buildSummaryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Continue ➡️", buildQuizContinueCallback()),
		),
	)
}

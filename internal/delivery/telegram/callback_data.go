package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionTable = "table"
	actionQuiz  = "quiz"
)

// Table sub-actions.
const (
	tableToggle = "toggle"
	tableStart  = "start"
)

// Quiz sub-actions.
const (
	quizAnswer   = "answer"
	quizContinue = "continue"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// sub returns the sub-action, or an empty string.
func (cd callbackData) sub() string {
	if len(cd.Params) == 0 {
		return ""
	}
	return cd.Params[0]
}

// intParam parses the i-th parameter as an integer.
func (cd callbackData) intParam(i int) (int, bool) {
	if i >= len(cd.Params) {
		return 0, false
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// buildTableToggleCallback builds callback data for selecting or deselecting a table.
func buildTableToggleCallback(table int) string {
	return callbackData{
		Action: actionTable,
		Params: []string{tableToggle, strconv.Itoa(table)},
	}.encode()
}

// buildTableStartCallback builds callback data for starting a game.
func buildTableStartCallback() string {
	return callbackData{
		Action: actionTable,
		Params: []string{tableStart},
	}.encode()
}

// buildQuizAnswerCallback builds callback data for answering question seq with value.
func buildQuizAnswerCallback(seq, value int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizAnswer, strconv.Itoa(seq), strconv.Itoa(value)},
	}.encode()
}

// buildQuizContinueCallback builds callback data for dismissing the summary.
func buildQuizContinueCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizContinue},
	}.encode()
}

package telegram

import (
	"errors"
	"strconv"
	"strings"
)

var errBadCallback = errors.New("malformed callback data")

// Callback action constants.
const (
	actionFlashcards = "fc"
	actionPractice   = "pr"
	actionLearn      = "lr"
)

// Flashcard sub-actions.
const (
	flashcardPrev = "prev"
	flashcardNext = "next"
	flashcardFlip = "flip"
	flashcardNew  = "new"
)

// Practice sub-actions.
const (
	practiceRestart = "restart"
)

// callbackData represents structured callback data: action:session:params...
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

// sessionID returns the session id carried in the first parameter.
func (cd callbackData) sessionID() string {
	if len(cd.Params) == 0 {
		return ""
	}
	return cd.Params[0]
}

// intParam parses the i-th parameter as a non-negative integer.
func (cd callbackData) intParam(i int) (int, error) {
	if i >= len(cd.Params) {
		return 0, errBadCallback
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil || n < 0 {
		return 0, errBadCallback
	}
	return n, nil
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildFlashcardCallback(sessionID, op string) string {
	return callbackData{
		Action: actionFlashcards,
		Params: []string{sessionID, op},
	}.encode()
}

// buildPracticeAnswerCallback builds callback data for answering a practice question.
func buildPracticeAnswerCallback(sessionID string, questionNum, choiceIndex int) string {
	return callbackData{
		Action: actionPractice,
		Params: []string{
			sessionID,
			strconv.Itoa(questionNum),
			strconv.Itoa(choiceIndex),
		},
	}.encode()
}

func buildPracticeRestartCallback(sessionID string) string {
	return callbackData{
		Action: actionPractice,
		Params: []string{sessionID, practiceRestart},
	}.encode()
}

// buildLearnPageCallback builds callback data for opening a page of search results.
func buildLearnPageCallback(sessionID string, page int) string {
	return callbackData{
		Action: actionLearn,
		Params: []string{sessionID, strconv.Itoa(page)},
	}.encode()
}

// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects longer message texts.
const maxMessageLength = 4096

const msgWelcome = `<b>DMV Study Bot</b> 🚗

Get ready for the written driving test.

/flashcards [n] - study a deck of n cards (flip to see the answer)
/practice [n] - answer n multiple choice questions
/learn [words] - search questions, answers and explanations

You can also just send any words to search.`

const msgHelp = `<b>Commands</b>

/flashcards [n] - new flashcard deck, 1 to %d cards (default %d)
/practice [n] - new practice set, 1 to %d questions (default %d)
/learn [words] - search the question bank, no words lists everything
/explain - show or hide explanations during practice
/help - this message`

// Error and notice messages.
const (
	msgInternalError  = "Something went wrong. Please try again later."
	msgUnknownCommand = "Unknown command. Send /help to see what I can do."
	msgSlowDown       = "Too many requests, please slow down."
	msgSessionExpired = "This session has ended. Start a new one."
	msgAlreadyHandled = "Already answered."
	msgUseFlashcards  = "Use: /flashcards 25 (a number from 1 to %d)."
	msgUsePractice    = "Use: /practice 10 (a number from 1 to %d)."
	msgNoPractice     = "No practice set in progress. Start one with /practice."
	msgExplainOn      = "Explanations will be shown after each answer."
	msgExplainOff     = "Explanations are hidden."
	msgNothingFound   = "Nothing found for <b>%s</b>. Try other words."
	msgCorrect        = "✅ Correct!"
	msgWrong          = "❌ Wrong"
)

// Button labels.
const (
	btnPrev        = "◀️ Prev"
	btnNext        = "Next ▶️"
	btnFlip        = "🔄 Flip"
	btnHide        = "🙈 Hide"
	btnNewDeck     = "🔀 New deck"
	btnNewPractice = "🔁 New practice set"
)

// esc escapes plain text for HTML parse mode.
func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

func newHTMLEdit(chatID int64, msgID int, text string, kb *tgbotapi.InlineKeyboardMarkup) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = kb
	return edit
}

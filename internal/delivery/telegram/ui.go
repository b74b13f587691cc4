package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// buildPageKeyboard builds pagination keyboard for a list of results.
func buildPageKeyboard(page, totalPages int, prevData, nextData string) *tgbotapi.InlineKeyboardMarkup {
	if totalPages <= 1 {
		return nil
	}

	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(btnPrev, prevData))
	}

	if page < totalPages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(btnNext, nextData))
	}

	kb := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{row},
	}

	return &kb
}

// buildFlashcardKeyboard builds navigation keyboard for a flashcard.
func buildFlashcardKeyboard(sessionID string, flipped bool) *tgbotapi.InlineKeyboardMarkup {
	flip := btnFlip
	if flipped {
		flip = btnHide
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnPrev, buildFlashcardCallback(sessionID, flashcardPrev)),
			tgbotapi.NewInlineKeyboardButtonData(flip, buildFlashcardCallback(sessionID, flashcardFlip)),
			tgbotapi.NewInlineKeyboardButtonData(btnNext, buildFlashcardCallback(sessionID, flashcardNext)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnNewDeck, buildFlashcardCallback(sessionID, flashcardNew)),
		),
	)
	return &kb
}

// buildPracticeAnswerKeyboard builds one button per option, labelled A, B, C...
func buildPracticeAnswerKeyboard(sessionID string, questionNum, choices int) *tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, choices)
	for i := range choices {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			choiceLabel(i),
			buildPracticeAnswerCallback(sessionID, questionNum, i),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(row)
	return &kb
}

// buildPracticeResultKeyboard builds keyboard for the practice results screen.
func buildPracticeResultKeyboard(sessionID string) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnNewPractice, buildPracticeRestartCallback(sessionID)),
		),
	)
	return &kb
}

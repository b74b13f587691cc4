package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleFlashcards starts a new flashcard deck for the chat.
func (h *Handler) handleFlashcards(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		limits := h.study.Limits()

		size, ok := parseSize(args, limits.FlashcardsDefault)
		if !ok {
			return h.send(newHTMLMessage(chatID, fmt.Sprintf(msgUseFlashcards, limits.FlashcardsMax)))
		}

		sess := h.study.StartFlashcards(size)
		id, err := h.flashcards.Start(chatID, sess)
		if err != nil {
			return err
		}

		h.logger.Debug("flashcards session started",
			zap.Int64("chat_id", chatID),
			zap.String("session_id", id),
			zap.Int("size", sess.Len()),
		)

		msg := newHTMLMessage(chatID, renderFlashcard(sess))
		msg.ReplyMarkup = buildFlashcardKeyboard(id, sess.Flipped())
		return h.send(msg)
	}
}

func (h *Handler) flashcardCallback(_ context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	if len(data.Params) != 2 {
		return "", errBadCallback
	}

	id := data.sessionID()
	sess, err := h.flashcards.Get(cb.Message.Chat.ID, id)
	if err != nil {
		return "", err
	}

	switch data.Params[1] {
	case flashcardPrev:
		sess.Prev()
	case flashcardNext:
		sess.Next()
	case flashcardFlip:
		sess.Flip()
	case flashcardNew:
		sess.NewDeck()
	default:
		return "", errBadCallback
	}

	return "", h.editCallbackMessage(cb, renderFlashcard(sess), buildFlashcardKeyboard(id, sess.Flipped()))
}

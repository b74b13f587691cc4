package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/dmv-study-bot/internal/storage"
)

// callbackFunc handles one callback and returns an optional notice for the user.
type callbackFunc func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := decodeCallback(cb.Data)

	var fn callbackFunc
	switch data.Action {
	case actionFlashcards:
		fn = h.flashcardCallback
	case actionPractice:
		fn = h.practiceCallback
	case actionLearn:
		fn = h.learnCallback
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	notice, err := fn(ctx, cb, data)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrSessionNotFound):
		notice = msgSessionExpired
	case errors.Is(err, errBadCallback):
		h.logger.Warn("invalid callback data", zap.String("data", cb.Data))
	default:
		h.logger.Error("handle callback",
			zap.Int64("chat_id", cb.Message.Chat.ID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		notice = msgInternalError
	}

	h.answerCallback(cb.ID, notice)
}

// editCallbackMessage replaces the text and keyboard of the message the button belongs to.
func (h *Handler) editCallbackMessage(cb *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	return h.send(newHTMLEdit(cb.Message.Chat.ID, cb.Message.MessageID, text, kb))
}

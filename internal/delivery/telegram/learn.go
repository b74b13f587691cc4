package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/dmv-study-bot/internal/service"
)

// handleLearn searches the question bank and shows the first page of results.
func (h *Handler) handleLearn(query string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		sess := h.study.Search(query)
		id, err := h.searches.Start(chatID, sess)
		if err != nil {
			return err
		}

		text, kb := buildLearnPage(id, sess, 0)
		msg := newHTMLMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = kb
		}
		return h.send(msg)
	}
}

func (h *Handler) learnCallback(_ context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	if len(data.Params) != 2 {
		return "", errBadCallback
	}
	page, err := data.intParam(1)
	if err != nil {
		return "", err
	}

	id := data.sessionID()
	sess, err := h.searches.Get(cb.Message.Chat.ID, id)
	if err != nil {
		return "", err
	}

	if _, totalPages := sess.Page(page); page >= totalPages {
		return "", errBadCallback
	}

	text, kb := buildLearnPage(id, sess, page)
	return "", h.editCallbackMessage(cb, text, kb)
}

func buildLearnPage(sessionID string, sess *service.SearchSession, page int) (string, *tgbotapi.InlineKeyboardMarkup) {
	items, totalPages := sess.Page(page)
	text := renderLearnPage(sess, items, page, totalPages)
	kb := buildPageKeyboard(
		page,
		totalPages,
		buildLearnPageCallback(sessionID, page-1),
		buildLearnPageCallback(sessionID, page+1),
	)
	return text, kb
}

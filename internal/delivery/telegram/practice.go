package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/dmv-study-bot/internal/service"
)

// handlePractice starts a new practice set for the chat.
func (h *Handler) handlePractice(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		limits := h.study.Limits()

		size, ok := parseSize(args, limits.PracticeDefault)
		if !ok {
			return h.send(newHTMLMessage(chatID, fmt.Sprintf(msgUsePractice, limits.PracticeMax)))
		}

		sess := h.study.StartPractice(size, h.now())
		id, err := h.practice.Start(chatID, sess)
		if err != nil {
			return err
		}

		h.logger.Debug("practice session started",
			zap.Int64("chat_id", chatID),
			zap.String("session_id", id),
			zap.Int("size", sess.Len()),
		)

		return h.deliverPracticeStep(chatID, id, sess)
	}
}

// handleExplain toggles explanations for the chat's practice set.
func (h *Handler) handleExplain() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		_, sess, ok := h.practice.Current(chatID)
		if !ok {
			return h.send(newHTMLMessage(chatID, msgNoPractice))
		}

		sess.ShowExplanation = !sess.ShowExplanation
		if sess.ShowExplanation {
			return h.send(newHTMLMessage(chatID, msgExplainOn))
		}
		return h.send(newHTMLMessage(chatID, msgExplainOff))
	}
}

// deliverPracticeStep sends the next step and remembers a failed delivery,
// so a later tap on the previous question can send it again.
func (h *Handler) deliverPracticeStep(chatID int64, sessionID string, sess *service.PracticeSession) error {
	if err := h.sendPracticeStep(chatID, sessionID, sess); err != nil {
		h.undelivered[chatID] = sessionID
		return err
	}
	delete(h.undelivered, chatID)
	return nil
}

// sendPracticeStep sends the current question, or the result once the set is done.
func (h *Handler) sendPracticeStep(chatID int64, sessionID string, sess *service.PracticeSession) error {
	if sess.Done() {
		msg := newHTMLMessage(chatID, renderPracticeResult(sess.Result(h.now())))
		msg.ReplyMarkup = buildPracticeResultKeyboard(sessionID)
		return h.send(msg)
	}

	q, choices := sess.Current()
	pos, total := sess.Position()

	msg := newHTMLMessage(chatID, renderPracticeQuestion(q, choices, pos, total))
	msg.ReplyMarkup = buildPracticeAnswerKeyboard(sessionID, pos, len(choices))
	return h.send(msg)
}

func (h *Handler) practiceCallback(_ context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	chatID := cb.Message.Chat.ID

	if len(data.Params) == 2 && data.Params[1] == practiceRestart {
		return "", h.restartPractice(cb, data.sessionID())
	}
	if len(data.Params) != 3 {
		return "", errBadCallback
	}

	questionNum, err := data.intParam(1)
	if err != nil {
		return "", err
	}
	choice, err := data.intParam(2)
	if err != nil {
		return "", err
	}

	id := data.sessionID()
	sess, err := h.practice.Get(chatID, id)
	if err != nil {
		return "", err
	}

	// Buttons of an earlier question.
	if pos, _ := sess.Position(); sess.Done() || pos != questionNum {
		if h.undelivered[chatID] == id {
			return msgAlreadyHandled, h.deliverPracticeStep(chatID, id, sess)
		}
		return msgAlreadyHandled, nil
	}

	now := h.now()
	q, choices := sess.Current()
	pos, total := sess.Position()

	rec, err := sess.PickIndex(choice, now)
	switch {
	case errors.Is(err, service.ErrAlreadyAnswered), errors.Is(err, service.ErrSessionFinished):
		return msgAlreadyHandled, nil
	case errors.Is(err, service.ErrInvalidChoice):
		return "", errBadCallback
	case err != nil:
		return "", err
	}
	h.study.RecordAnswer(rec)

	if err := sess.Advance(now); err != nil {
		return "", err
	}

	// The answer is already recorded, a stale question message is only cosmetic.
	if err := h.editCallbackMessage(cb, renderPracticeAnswered(q, choices, rec, pos, total, sess.ShowExplanation), nil); err != nil {
		h.logger.Warn("failed to mark answered question",
			zap.Int64("chat_id", chatID),
			zap.String("session_id", id),
			zap.Error(err),
		)
	}

	if err := h.deliverPracticeStep(chatID, id, sess); err != nil {
		return "", err
	}

	if rec.IsCorrect {
		return msgCorrect, nil
	}
	return msgWrong, nil
}

// restartPractice reshuffles the chat's practice set under a new session id,
// so buttons from the previous run stop working.
func (h *Handler) restartPractice(cb *tgbotapi.CallbackQuery, sessionID string) error {
	chatID := cb.Message.Chat.ID

	sess, err := h.practice.Get(chatID, sessionID)
	if err != nil {
		return err
	}

	sess.Restart(h.now())
	id, err := h.practice.Start(chatID, sess)
	if err != nil {
		return err
	}

	// Drop the restart button from the old result.
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if err := h.send(edit); err != nil {
		h.logger.Warn("failed to clear result keyboard",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}

	return h.deliverPracticeStep(chatID, id, sess)
}

package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/dmv-study-bot/internal/service"
	"github.com/aliskhannn/dmv-study-bot/internal/storage"
)

// Update kinds, used as metric labels.
const (
	kindCommand  = "command"
	kindMessage  = "message"
	kindCallback = "callback"
)

// Options configures polling and throttling.
type Options struct {
	PollTimeout int     // long polling timeout in seconds
	RateLimit   float64 // updates per second per chat, 0 disables the limiter
	RateBurst   int
}

// sessionIdleTTL is how long an untouched study session is kept.
const sessionIdleTTL = 30 * time.Minute

type noopMetrics struct{}

func (noopMetrics) UpdateReceived(string) {}
func (noopMetrics) RateLimited()          {}

type Handler struct {
	bot         BotAPI
	logger      *zap.Logger
	study       StudyService
	metrics     UpdateMetrics
	limiter     *chatLimiter
	pollTimeout int
	now         func() time.Time

	flashcards *storage.Sessions[*service.FlashcardSession]
	practice   *storage.Sessions[*service.PracticeSession]
	searches   *storage.Sessions[*service.SearchSession]

	// undelivered holds the practice session id of chats whose next step failed to send.
	undelivered map[int64]string
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	study StudyService,
	metrics UpdateMetrics,
	opts Options,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 60
	}

	return &Handler{
		bot:         bot,
		logger:      logger,
		study:       study,
		metrics:     metrics,
		limiter:     newChatLimiter(opts.RateLimit, opts.RateBurst),
		pollTimeout: opts.PollTimeout,
		now:         time.Now,
		flashcards:  storage.NewSessions[*service.FlashcardSession](),
		practice:    storage.NewSessions[*service.PracticeSession](),
		searches:    storage.NewSessions[*service.SearchSession](),
		undelivered: make(map[int64]string),
	}
}

// Run handles updates one at a time until ctx is cancelled.
// Sessions are only touched from this loop.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.pollTimeout

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	cleanup := time.NewTicker(limiterCleanupInterval)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-cleanup.C:
			h.cleanup()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

// cleanup forgets idle chats and sessions.
func (h *Handler) cleanup() {
	h.limiter.cleanup(h.now())

	dropped := h.flashcards.Cleanup(sessionIdleTTL) +
		h.practice.Cleanup(sessionIdleTTL) +
		h.searches.Cleanup(sessionIdleTTL)

	for chatID, id := range h.undelivered {
		if !h.practice.Has(chatID, id) {
			delete(h.undelivered, chatID)
		}
	}

	if dropped > 0 {
		h.logger.Debug("idle sessions dropped", zap.Int("count", dropped))
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		h.metrics.UpdateReceived(kindCallback)
		h.logger.Debug("callback received", zap.String("data", cb.Data))

		if cb.Message == nil {
			h.answerCallback(cb.ID, "")
			return
		}
		if allowed, _ := h.limiter.Allow(cb.Message.Chat.ID, h.now()); !allowed {
			h.metrics.RateLimited()
			h.answerCallback(cb.ID, msgSlowDown)
			return
		}

		h.handleCallback(ctx, cb)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	message := update.Message
	chatID := message.Chat.ID

	kind := kindMessage
	if message.IsCommand() {
		kind = kindCommand
	}
	h.metrics.UpdateReceived(kind)

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", message.Text),
	)

	allowed, notify := h.limiter.Allow(chatID, h.now())
	if !allowed {
		h.metrics.RateLimited()
		h.logger.Debug("update throttled", zap.Int64("chat_id", chatID))
		if notify {
			_ = h.send(newHTMLMessage(chatID, msgSlowDown))
		}
		return
	}

	if message.IsCommand() {
		args := message.CommandArguments()

		switch message.Command() {
		case "start":
			_ = h.send(newHTMLMessage(chatID, msgWelcome))

		case "help":
			_ = h.send(newHTMLMessage(chatID, h.helpText()))

		case "flashcards":
			_ = h.withErrorHandling(h.handleFlashcards(args))(ctx, chatID)

		case "practice":
			_ = h.withErrorHandling(h.handlePractice(args))(ctx, chatID)

		case "explain":
			_ = h.withErrorHandling(h.handleExplain())(ctx, chatID)

		case "learn":
			_ = h.withErrorHandling(h.handleLearn(args))(ctx, chatID)

		default:
			_ = h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}

		return
	}

	// Plain text is treated as a learn search.
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}
	_ = h.withErrorHandling(h.handleLearn(text))(ctx, chatID)
}

func (h *Handler) helpText() string {
	l := h.study.Limits()
	return fmt.Sprintf(msgHelp, l.FlashcardsMax, l.FlashcardsDefault, l.PracticeMax, l.PracticeDefault)
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	_ = h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		// Re-rendering an unchanged card is not a failure.
		if isNotModified(err) {
			return nil
		}
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// answerCallback removes the user's "clock", optionally with a short notice.
func (h *Handler) answerCallback(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

package telegram

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
	"github.com/aliskhannn/dmv-study-bot/internal/repository"
	"github.com/aliskhannn/dmv-study-bot/internal/service"
)

const testChatID int64 = 1001

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testQuestions() []*entities.Question {
	return []*entities.Question{
		{ID: "1", Question: "What does a red octagonal sign mean?", Answer: "Stop completely", Explanation: "Come to a full stop at the limit line."},
		{ID: "2", Question: "What is the speed limit in a school zone when children are present?", Answer: "25 mph"},
		{ID: "3", Question: "When must you use headlights?", Answer: "From 30 minutes after sunset until 30 minutes before sunrise", Explanation: "Also when visibility is < 1000 feet."},
		{ID: "4", Question: "What does a flashing yellow light mean?", Answer: "Proceed with caution"},
		{ID: "5", Question: "Who has the right-of-way at an uncontrolled intersection?", Answer: "The vehicle that arrived first"},
		{ID: "6", Question: "How far ahead should you signal before turning?", Answer: "At least 100 feet"},
		{ID: "7", Question: "What is the legal blood alcohol limit for drivers over 21?", Answer: "0.08%"},
		{ID: "8", Question: "What should you do when an emergency vehicle approaches with sirens?", Answer: "Pull over to the right and stop"},
	}
}

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	sendErr  error
	editErr  error // returned for edits only
	stopped  bool
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	switch c.(type) {
	case tgbotapi.EditMessageTextConfig, tgbotapi.EditMessageReplyMarkupConfig:
		if b.editErr != nil {
			return tgbotapi.Message{}, b.editErr
		}
	}
	return tgbotapi.Message{}, b.sendErr
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) StopReceivingUpdates() { b.stopped = true }

// reset forgets everything sent so far.
func (b *fakeBot) reset() {
	b.sent = nil
	b.requests = nil
}

type fakeMetrics struct {
	updates map[string]int
	limited int
}

func (m *fakeMetrics) UpdateReceived(kind string) {
	if m.updates == nil {
		m.updates = make(map[string]int)
	}
	m.updates[kind]++
}

func (m *fakeMetrics) RateLimited() { m.limited++ }

func newTestHandler(t *testing.T, opts Options) (*Handler, *fakeBot, *fakeMetrics) {
	t.Helper()

	repo, err := repository.NewQuestionRepository(testQuestions())
	if err != nil {
		t.Fatalf("NewQuestionRepository: %v", err)
	}
	study, err := service.NewStudyService(context.Background(), repo, service.DefaultLimits(), zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("NewStudyService: %v", err)
	}

	bot := &fakeBot{}
	m := &fakeMetrics{}
	h := NewHandler(bot, zap.NewNop(), study, m, opts)
	h.now = func() time.Time { return testNow }
	return h, bot, m
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: chatID},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		},
	}
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: chatID},
		},
	}
}

func callbackUpdate(chatID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-" + data,
			Data: data,
			Message: &tgbotapi.Message{
				MessageID: messageID,
				Chat:      &tgbotapi.Chat{ID: chatID},
			},
		},
	}
}

func sentMessages(t *testing.T, b *fakeBot) []tgbotapi.MessageConfig {
	t.Helper()
	var out []tgbotapi.MessageConfig
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func lastMessage(t *testing.T, b *fakeBot) tgbotapi.MessageConfig {
	t.Helper()
	msgs := sentMessages(t, b)
	if len(msgs) == 0 {
		t.Fatal("no message sent")
	}
	return msgs[len(msgs)-1]
}

func lastEdit(t *testing.T, b *fakeBot) tgbotapi.EditMessageTextConfig {
	t.Helper()
	for i := len(b.sent) - 1; i >= 0; i-- {
		if e, ok := b.sent[i].(tgbotapi.EditMessageTextConfig); ok {
			return e
		}
	}
	t.Fatal("no edit sent")
	return tgbotapi.EditMessageTextConfig{}
}

func lastCallbackAnswer(t *testing.T, b *fakeBot) tgbotapi.CallbackConfig {
	t.Helper()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if c, ok := b.requests[i].(tgbotapi.CallbackConfig); ok {
			return c
		}
	}
	t.Fatal("callback was not answered")
	return tgbotapi.CallbackConfig{}
}

func keyboardOf(t *testing.T, markup any) *tgbotapi.InlineKeyboardMarkup {
	t.Helper()
	kb, ok := markup.(*tgbotapi.InlineKeyboardMarkup)
	if !ok || kb == nil {
		t.Fatalf("reply markup = %T, want inline keyboard", markup)
	}
	return kb
}

// buttonData returns the callback data of the first button whose label contains label.
func buttonData(t *testing.T, kb *tgbotapi.InlineKeyboardMarkup, label string) string {
	t.Helper()
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if strings.Contains(btn.Text, label) && btn.CallbackData != nil {
				return *btn.CallbackData
			}
		}
	}
	t.Fatalf("no button labelled %q", label)
	return ""
}

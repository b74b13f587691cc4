package telegram

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
	"github.com/aliskhannn/dmv-study-bot/internal/service"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by the handler.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type StudyService interface {
	Limits() service.Limits
	StartFlashcards(size int) *service.FlashcardSession
	StartPractice(size int, now time.Time) *service.PracticeSession
	RecordAnswer(rec entities.AnswerRecord)
	Search(query string) *service.SearchSession
}

type UpdateMetrics interface {
	UpdateReceived(kind string)
	RateLimited()
}

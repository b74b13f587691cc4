package service

import (
	"context"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
)

type QuestionRepository interface {
	GetAll(ctx context.Context) ([]*entities.Question, error)
}

// StudyMetrics records study activity.
type StudyMetrics interface {
	ChoiceObserver
	SessionStarted(mode string)
	AnswerRecorded(correct bool)
	SearchPerformed()
}

package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
)

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrDatasetEmpty      = errors.New("dataset has no valid questions")
	ErrDuplicateID       = errors.New("duplicate question id")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// QuestionRepository provides read-only access to the question pool.
// The pool is loaded once and never modified afterwards.
type QuestionRepository struct {
	questions []*entities.Question
	byID      map[entities.QuestionID]*entities.Question
	skipped   int
}

// NewQuestionRepository validates questions and indexes them by id.
// Records without question or answer text are skipped, duplicate ids are an error.
func NewQuestionRepository(questions []*entities.Question) (*QuestionRepository, error) {
	validate := newValidator()

	r := &QuestionRepository{
		questions: make([]*entities.Question, 0, len(questions)),
		byID:      make(map[entities.QuestionID]*entities.Question, len(questions)),
	}

	for _, q := range questions {
		if q == nil {
			r.skipped++
			continue
		}
		if err := validate.Struct(q); err != nil {
			r.skipped++
			continue
		}
		if _, ok := r.byID[q.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, q.ID)
		}
		r.byID[q.ID] = q
		r.questions = append(r.questions, q)
	}

	if len(r.questions) == 0 {
		return nil, ErrDatasetEmpty
	}

	return r, nil
}

// LoadQuestionRepository reads a dataset file and builds a repository from it.
func LoadQuestionRepository(path string) (*QuestionRepository, error) {
	questions, err := LoadQuestions(path)
	if err != nil {
		return nil, err
	}
	return NewQuestionRepository(questions)
}

// GetAll returns every valid question in dataset order.
func (r *QuestionRepository) GetAll(_ context.Context) ([]*entities.Question, error) {
	return append([]*entities.Question(nil), r.questions...), nil
}

// GetByID retrieves a question by its id.
func (r *QuestionRepository) GetByID(_ context.Context, id entities.QuestionID) (*entities.Question, error) {
	q, ok := r.byID[id]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// Count returns the number of valid questions.
func (r *QuestionRepository) Count() int { return len(r.questions) }

// Skipped returns the number of records dropped by validation.
func (r *QuestionRepository) Skipped() int { return r.skipped }

// LoadQuestions decodes a JSON or YAML dataset chosen by file extension.
// Both a bare list and an object with a "questions" list are accepted.
func LoadQuestions(path string) ([]*entities.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func decodeJSON(data []byte) ([]*entities.Question, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []*entities.Question
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions JSON: %w", err)
		}
		return list, nil
	}

	var wrapper struct {
		Questions []*entities.Question `json:"questions"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions JSON: %w", err)
	}
	return wrapper.Questions, nil
}

func decodeYAML(data []byte) ([]*entities.Question, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var list []*entities.Question
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("failed to decode questions YAML: %w", err)
		}
		return list, nil
	}

	var wrapper struct {
		Questions []*entities.Question `yaml:"questions"`
	}
	if err := root.Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode questions YAML: %w", err)
	}
	return wrapper.Questions, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
	"github.com/aliskhannn/dmv-study-bot/internal/infra/postgres"
)

var ErrQuestionNotFound = errors.New("question not found")

// QuestionRepository reads questions from the questions table.
//
//	CREATE TABLE questions (
//		id          BIGSERIAL PRIMARY KEY,
//		question    TEXT NOT NULL,
//		answer      TEXT NOT NULL,
//		explanation TEXT
//	);
type QuestionRepository struct {
	db postgres.DBTX
}

// NewQuestionRepository creates a new QuestionRepository over a pool or transaction.
func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetAll returns every question ordered by id.
func (r *QuestionRepository) GetAll(ctx context.Context) ([]*entities.Question, error) {
	query := `
		SELECT id::text, question, answer, COALESCE(explanation, '')
		FROM questions
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []*entities.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// GetByID returns a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id entities.QuestionID) (*entities.Question, error) {
	query := `
		SELECT id::text, question, answer, COALESCE(explanation, '')
		FROM questions
		WHERE id::text = $1
	`

	q, err := scanQuestion(r.db.QueryRow(ctx, query, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	return q, nil
}

// Count returns the number of rows in the questions table.
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM questions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

func scanQuestion(row pgx.Row) (*entities.Question, error) {
	var (
		id string
		q  entities.Question
	)
	if err := row.Scan(&id, &q.Question, &q.Answer, &q.Explanation); err != nil {
		return nil, err
	}
	q.ID = entities.QuestionID(id)
	return &q, nil
}

package service

import (
	"strings"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
)

// Search returns the questions whose text, answer or explanation contains query.
// Matching is case- and whitespace-insensitive; an empty query matches everything.
func Search(pool []*entities.Question, query string) []*entities.Question {
	needle := normalize(query)
	if needle == "" {
		return append([]*entities.Question(nil), pool...)
	}

	out := make([]*entities.Question, 0)
	for _, q := range pool {
		if q == nil {
			continue
		}
		if strings.Contains(normalize(q.Question), needle) ||
			strings.Contains(normalize(q.Answer), needle) ||
			strings.Contains(normalize(q.Explanation), needle) {
			out = append(out, q)
		}
	}
	return out
}

// Paginate returns the items of the given 0-based page and the total page count.
func Paginate[T any](items []T, page, size int) ([]T, int) {
	if size <= 0 {
		size = 1
	}
	totalPages := (len(items) + size - 1) / size
	if page < 0 || page >= totalPages {
		return nil, totalPages
	}

	start := page * size
	end := min(start+size, len(items))
	return items[start:end], totalPages
}

// SearchSession keeps the results of one search for paging.
type SearchSession struct {
	Query    string
	Results  []*entities.Question
	PageSize int
}

// NewSearchSession runs the search and stores the results.
func NewSearchSession(pool []*entities.Question, query string, pageSize int) *SearchSession {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &SearchSession{
		Query:    strings.TrimSpace(query),
		Results:  Search(pool, query),
		PageSize: pageSize,
	}
}

// Page returns one page of results and the total page count.
func (s *SearchSession) Page(page int) ([]*entities.Question, int) {
	return Paginate(s.Results, page, s.PageSize)
}

package telegram

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
	"github.com/aliskhannn/dmv-study-bot/internal/service"
)

var choiceLetters = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

func choiceLabel(i int) string {
	if i < len(choiceLetters) {
		return choiceLetters[i]
	}
	return fmt.Sprint(i + 1)
}

func ratingTitle(r entities.Rating) string {
	switch r {
	case entities.RatingPerfect:
		return "🎉 Perfect Score! 🎉"
	case entities.RatingExcellent:
		return "🌟 Excellent! 🌟"
	case entities.RatingGood:
		return "👍 Good Job! 👍"
	default:
		return "📚 Keep Studying! 📚"
	}
}

// formatSeconds renders a duration as whole seconds.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%ds", int(math.Round(d.Seconds())))
}

func renderFlashcard(s *service.FlashcardSession) string {
	q := s.Current()
	if q == nil {
		return msgSessionExpired
	}
	pos, total := s.Position()

	var b strings.Builder
	fmt.Fprintf(&b, "🗂 <b>Card %d/%d</b>\n\n", pos, total)
	fmt.Fprintf(&b, "<b>Q:</b> %s", esc(q.Question))

	if s.Flipped() {
		fmt.Fprintf(&b, "\n\n<b>A:</b> %s", esc(q.Answer))
		if q.Explanation != "" {
			fmt.Fprintf(&b, "\n\n<i>%s</i>", esc(q.Explanation))
		}
	}

	return b.String()
}

func renderPracticeQuestion(q *entities.Question, choices []string, pos, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 <b>Question %d/%d</b>\n\n%s\n", pos, total, esc(q.Question))
	for i, c := range choices {
		fmt.Fprintf(&b, "\n<b>%s.</b> %s", choiceLabel(i), esc(c))
	}
	return b.String()
}

// renderPracticeAnswered shows the question again with the picked and correct options marked.
func renderPracticeAnswered(q *entities.Question, choices []string, rec entities.AnswerRecord, pos, total int, showExplanation bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 <b>Question %d/%d</b>\n\n%s\n", pos, total, esc(q.Question))

	for i, c := range choices {
		mark := "▫️"
		switch {
		case c == rec.Correct:
			mark = "✅"
		case c == rec.Selected:
			mark = "❌"
		}
		fmt.Fprintf(&b, "\n%s <b>%s.</b> %s", mark, choiceLabel(i), esc(c))
	}

	if rec.IsCorrect {
		b.WriteString("\n\n" + msgCorrect)
	} else {
		b.WriteString("\n\n" + msgWrong)
	}

	if showExplanation && q.Explanation != "" {
		fmt.Fprintf(&b, "\n\n💡 <i>%s</i>", esc(q.Explanation))
	}

	return b.String()
}

func renderPracticeResult(res entities.PracticeResult) string {
	var head strings.Builder
	fmt.Fprintf(&head, "<b>%s</b>\n\n", ratingTitle(res.Rating))
	fmt.Fprintf(&head, "Score: <b>%d/%d</b> (%d%%)\n", res.Score, res.Total, res.Percent)
	fmt.Fprintf(&head, "⏱️ Total time: %s\n", formatSeconds(res.TotalTime))
	fmt.Fprintf(&head, "⚡ Avg per question: %s", formatSeconds(res.AveragePerQuestion))

	if len(res.Answers) == 0 {
		return head.String()
	}

	entries := make([]string, 0, len(res.Answers))
	for i, a := range res.Answers {
		entries = append(entries, renderReviewEntry(i+1, a))
	}

	return joinWithinLimit(head.String()+"\n\n<b>Review</b>", entries, maxMessageLength)
}

func renderReviewEntry(n int, a entities.AnswerRecord) string {
	mark := "❌"
	if a.IsCorrect {
		mark = "✅"
	}

	question := ""
	if a.Question != nil {
		question = a.Question.Question
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d. %s\n", mark, n, esc(question))
	fmt.Fprintf(&b, "Your answer: %s", esc(a.Selected))
	if !a.IsCorrect {
		fmt.Fprintf(&b, "\nCorrect: <b>%s</b>", esc(a.Correct))
	}
	fmt.Fprintf(&b, "\n⏱️ %s", formatSeconds(a.TimeSpent))
	return b.String()
}

// joinWithinLimit appends entries to head until the text would exceed limit runes,
// then notes how many entries were left out. Entries are never cut in half,
// so HTML tags stay balanced.
func joinWithinLimit(head string, entries []string, limit int) string {
	const sep = "\n\n"

	var b strings.Builder
	b.WriteString(head)
	size := utf8.RuneCountInString(head)

	for i, e := range entries {
		more := fmt.Sprintf("%s…and %d more", sep, len(entries)-i)
		n := utf8.RuneCountInString(sep + e)
		reserve := 0
		if i < len(entries)-1 {
			reserve = utf8.RuneCountInString(more)
		}
		if size+n+reserve > limit {
			b.WriteString(more)
			return b.String()
		}
		b.WriteString(sep + e)
		size += n
	}

	return b.String()
}

func renderLearnPage(s *service.SearchSession, items []*entities.Question, page, totalPages int) string {
	if len(s.Results) == 0 {
		return fmt.Sprintf(msgNothingFound, esc(s.Query))
	}

	var b strings.Builder
	if s.Query == "" {
		fmt.Fprintf(&b, "📚 <b>All questions</b> (%d)", len(s.Results))
	} else {
		fmt.Fprintf(&b, "🔎 <b>%s</b>: %d found", esc(s.Query), len(s.Results))
	}
	if totalPages > 1 {
		fmt.Fprintf(&b, ", page %d/%d", page+1, totalPages)
	}

	offset := page * s.PageSize
	for i, q := range items {
		fmt.Fprintf(&b, "\n\n<b>%d. %s</b>\n%s", offset+i+1, esc(q.Question), esc(q.Answer))
		if q.Explanation != "" {
			fmt.Fprintf(&b, "\n<i>%s</i>", esc(q.Explanation))
		}
	}

	return b.String()
}

package entities

import "time"

// Rating is the verdict shown at the end of a practice set.
type Rating string

const (
	RatingPerfect      Rating = "perfect"
	RatingExcellent    Rating = "excellent"
	RatingGood         Rating = "good"
	RatingKeepStudying Rating = "keep_studying"
)

// AnswerRecord represents a user's answer to a practice question.
type AnswerRecord struct {
	Question  *Question     // question that was answered
	Selected  string        // option the user picked
	Correct   string        // trimmed correct answer
	IsCorrect bool          // whether the pick matched the correct answer
	TimeSpent time.Duration // time between the question being shown and the pick
}

// PracticeResult summarizes a finished (or abandoned) practice set.
type PracticeResult struct {
	Score              int
	Total              int
	Percent            int
	Rating             Rating
	TotalTime          time.Duration
	AveragePerQuestion time.Duration
	Answers            []AnswerRecord
}

// RateScore maps a score to a rating.
// A perfect score needs every question answered correctly, then 80% and 60% thresholds apply.
func RateScore(score, total int) Rating {
	switch {
	case total <= 0:
		return RatingKeepStudying
	case score >= total:
		return RatingPerfect
	case float64(score) >= float64(total)*0.8:
		return RatingExcellent
	case float64(score) >= float64(total)*0.6:
		return RatingGood
	default:
		return RatingKeepStudying
	}
}

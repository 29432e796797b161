package polls

import "time"

// recentWindow is how far back a question still counts as freshly published.
const recentWindow = 24 * time.Hour

type Question struct {
	ID           int64     `db:"id"`
	QuestionText string    `db:"question_text"`
	PubDate      time.Time `db:"pub_date"`
}

type Choice struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	ChoiceText string `db:"choice_text"`
	Votes      int64  `db:"votes"`
}

func NewQuestion(text string, pubDate time.Time) *Question {
	return &Question{
		QuestionText: text,
		PubDate:      pubDate,
	}
}

func NewChoice(questionID int64, text string) *Choice {
	return &Choice{
		QuestionID: questionID,
		ChoiceText: text,
		Votes:      0,
	}
}

// IsPublished reports whether the question is visible at the given time.
func (q *Question) IsPublished(now time.Time) bool {
	return !q.PubDate.After(now)
}

// PublishedRecently reports whether the question went public within the last day.
// Questions scheduled in the future are never recent.
func (q *Question) PublishedRecently(now time.Time) bool {
	return q.IsPublished(now) && !q.PubDate.Before(now.Add(-recentWindow))
}

package polls

import (
	"strconv"
	"time"

	"github.com/jhchabran/polls/tally"
)

// questionPath, resultsPath and votePath mirror the route table.
func questionPath(id int64) string {
	return "/" + strconv.FormatInt(id, 10) + "/"
}

func resultsPath(id int64) string {
	return questionPath(id) + "results/"
}

func votePath(id int64) string {
	return questionPath(id) + "vote/"
}

type questionPresenter struct {
	ID          int64
	Text        string
	PubDate     time.Time
	Recent      bool
	Path        string
	ResultsPath string
	VotePath    string
}

func newQuestionPresenter(q *Question, now time.Time) *questionPresenter {
	return &questionPresenter{
		ID:          q.ID,
		Text:        q.QuestionText,
		PubDate:     q.PubDate,
		Recent:      q.PublishedRecently(now),
		Path:        questionPath(q.ID),
		ResultsPath: resultsPath(q.ID),
		VotePath:    votePath(q.ID),
	}
}

type choicePresenter struct {
	ID      int64
	Text    string
	Votes   int64
	Share   float64
	Leading bool
}

// newChoicePresenters keeps the storage order of choices, annotating each with its share of
// the total.
func newChoicePresenters(choices []*Choice) ([]*choicePresenter, int64) {
	counts := make([]int64, len(choices))
	for i, c := range choices {
		counts[i] = c.Votes
	}
	total := tally.Total(counts...)

	ps := make([]*choicePresenter, len(choices))
	for i, c := range choices {
		ps[i] = &choicePresenter{
			ID:    c.ID,
			Text:  c.ChoiceText,
			Votes: c.Votes,
			Share: tally.Share(c.Votes, total),
		}
	}
	for _, i := range tally.Leading(counts...) {
		ps[i].Leading = true
	}

	return ps, total
}

package polls

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when a lookup does not resolve to a record.
var ErrNotFound = errors.New("record not found")

// A Store gives access to persisted questions and their choices.
//
// Lookups that do not resolve return an error matching ErrNotFound. Callers pass the current
// time explicitly wherever publication matters.
type Store interface {
	Connect() error
	FindPublishedQuestions(ctx context.Context, now time.Time, limit int) ([]*Question, error)
	FindQuestion(ctx context.Context, id int64) (*Question, error)
	FindPublishedQuestion(ctx context.Context, id int64, now time.Time) (*Question, error)
	ListChoices(ctx context.Context, questionID int64) ([]*Choice, error)
	FindChoice(ctx context.Context, questionID int64, choiceID int64) (*Choice, error)
	// IncrementVotes adds exactly one vote to the choice. The increment happens in a single
	// statement so concurrent votes are never lost.
	IncrementVotes(ctx context.Context, questionID int64, choiceID int64) error
	InsertQuestion(ctx context.Context, question *Question) error
	InsertChoice(ctx context.Context, choice *Choice) error
}

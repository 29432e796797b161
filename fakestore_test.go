package polls

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// fakeStore is an in-memory Store used to exercise the handlers without a database.
type fakeStore struct {
	mu        sync.Mutex
	questions []*Question
	choices   []*Choice
	nextID    int64
	// err, when set, is returned by every read.
	err error
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Connect() error {
	return nil
}

func (s *fakeStore) FindPublishedQuestions(ctx context.Context, now time.Time, limit int) ([]*Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	res := []*Question{}
	for _, q := range s.questions {
		if q.IsPublished(now) {
			cp := *q
			res = append(res, &cp)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].PubDate.After(res[j].PubDate)
	})
	if len(res) > limit {
		res = res[:limit]
	}

	return res, nil
}

func (s *fakeStore) FindQuestion(ctx context.Context, id int64) (*Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	for _, q := range s.questions {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}

	return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
}

func (s *fakeStore) FindPublishedQuestion(ctx context.Context, id int64, now time.Time) (*Question, error) {
	q, err := s.FindQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.IsPublished(now) {
		return nil, fmt.Errorf("published question %d: %w", id, ErrNotFound)
	}

	return q, nil
}

func (s *fakeStore) ListChoices(ctx context.Context, questionID int64) ([]*Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	res := []*Choice{}
	for _, c := range s.choices {
		if c.QuestionID == questionID {
			cp := *c
			res = append(res, &cp)
		}
	}

	return res, nil
}

func (s *fakeStore) FindChoice(ctx context.Context, questionID int64, choiceID int64) (*Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	if c := s.choice(questionID, choiceID); c != nil {
		cp := *c
		return &cp, nil
	}

	return nil, fmt.Errorf("choice %d: %w", choiceID, ErrNotFound)
}

func (s *fakeStore) IncrementVotes(ctx context.Context, questionID int64, choiceID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.choice(questionID, choiceID)
	if c == nil {
		return fmt.Errorf("choice %d: %w", choiceID, ErrNotFound)
	}
	c.Votes++

	return nil
}

func (s *fakeStore) choice(questionID int64, choiceID int64) *Choice {
	for _, c := range s.choices {
		if c.ID == choiceID && c.QuestionID == questionID {
			return c
		}
	}

	return nil
}

func (s *fakeStore) InsertQuestion(ctx context.Context, question *Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	question.ID = s.nextID
	cp := *question
	s.questions = append(s.questions, &cp)

	return nil
}

func (s *fakeStore) InsertChoice(ctx context.Context, choice *Choice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	choice.ID = s.nextID
	cp := *choice
	s.choices = append(s.choices, &cp)

	return nil
}

// votes returns the current count of every choice, by id.
func (s *fakeStore) votes() map[int64]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := map[int64]int64{}
	for _, c := range s.choices {
		res[c.ID] = c.Votes
	}

	return res
}

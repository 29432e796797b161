// Package sqlstore implements polls.Store on top of a SQL database, either Postgresql through
// lib/pq or an embedded SQLite through modernc.org/sqlite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhchabran/polls"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// A Store is responsible of interacting with the storage layer. Queries are written with
// question mark placeholders and rebound for the driver in use.
type Store struct {
	driver string
	dsn    string
	db     *sqlx.DB
}

var _ polls.Store = (*Store)(nil)

// New returns a Store for the given driver. For postgres the dsn uses the
// "user=postgres dbname=polls ..." format, for sqlite it's a file path or ":memory:".
func New(driver string, dsn string) *Store {
	return &Store{
		driver: driver,
		dsn:    dsn,
	}
}

// Connect establishes a connection with the database and creates the tables if needed.
func (s *Store) Connect() error {
	db, err := sqlx.Connect(s.driver, s.dsn)
	if err != nil {
		return err
	}

	if s.driver == DriverSQLite {
		// One connection keeps a ":memory:" database alive and in one piece, SQLite
		// serializes writes anyway.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}

	err = Migrate(db, s.driver)
	if err != nil {
		db.Close()
		return err
	}

	s.db = db

	return nil
}

// DB returns the existing connection, making it suitable to perform requests not already supported by
// the store interface. If called while not connected, it will return nil.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// notFound maps sql.ErrNoRows onto polls.ErrNotFound, keeping both in the chain.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), polls.ErrNotFound, err)
	}

	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func (s *Store) FindPublishedQuestions(ctx context.Context, now time.Time, limit int) ([]*polls.Question, error) {
	questions := []*polls.Question{}
	err := s.db.SelectContext(ctx, &questions,
		s.db.Rebind("SELECT id, question_text, pub_date FROM questions WHERE pub_date <= ? ORDER BY pub_date DESC, id DESC LIMIT ?"),
		now.UTC(), limit)
	if err != nil {
		return nil, err
	}

	return questions, nil
}

func (s *Store) FindQuestion(ctx context.Context, id int64) (*polls.Question, error) {
	question := polls.Question{}
	err := s.db.GetContext(ctx, &question,
		s.db.Rebind("SELECT id, question_text, pub_date FROM questions WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err, "question %d", id)
	}

	return &question, nil
}

func (s *Store) FindPublishedQuestion(ctx context.Context, id int64, now time.Time) (*polls.Question, error) {
	question := polls.Question{}
	err := s.db.GetContext(ctx, &question,
		s.db.Rebind("SELECT id, question_text, pub_date FROM questions WHERE id = ? AND pub_date <= ?"), id, now.UTC())
	if err != nil {
		return nil, notFound(err, "published question %d", id)
	}

	return &question, nil
}

func (s *Store) ListChoices(ctx context.Context, questionID int64) ([]*polls.Choice, error) {
	choices := []*polls.Choice{}
	err := s.db.SelectContext(ctx, &choices,
		s.db.Rebind("SELECT id, question_id, choice_text, votes FROM choices WHERE question_id = ? ORDER BY id"), questionID)
	if err != nil {
		return nil, err
	}

	return choices, nil
}

func (s *Store) FindChoice(ctx context.Context, questionID int64, choiceID int64) (*polls.Choice, error) {
	choice := polls.Choice{}
	err := s.db.GetContext(ctx, &choice,
		s.db.Rebind("SELECT id, question_id, choice_text, votes FROM choices WHERE id = ? AND question_id = ?"),
		choiceID, questionID)
	if err != nil {
		return nil, notFound(err, "choice %d of question %d", choiceID, questionID)
	}

	return &choice, nil
}

// IncrementVotes lets the database do the addition, so concurrent votes on the same choice
// all count.
func (s *Store) IncrementVotes(ctx context.Context, questionID int64, choiceID int64) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE choices SET votes = votes + 1 WHERE id = ? AND question_id = ?"),
		choiceID, questionID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("choice %d of question %d: %w", choiceID, questionID, polls.ErrNotFound)
	}

	return nil
}

func (s *Store) InsertQuestion(ctx context.Context, question *polls.Question) error {
	var id int64
	err := s.db.GetContext(ctx, &id,
		s.db.Rebind("INSERT INTO questions (question_text, pub_date) VALUES (?, ?) RETURNING id"),
		question.QuestionText, question.PubDate.UTC())
	if err != nil {
		return err
	}

	question.ID = id

	return nil
}

func (s *Store) InsertChoice(ctx context.Context, choice *polls.Choice) error {
	var id int64
	err := s.db.GetContext(ctx, &id,
		s.db.Rebind("INSERT INTO choices (question_id, choice_text, votes) VALUES (?, ?, ?) RETURNING id"),
		choice.QuestionID, choice.ChoiceText, choice.Votes)
	if err != nil {
		return err
	}

	choice.ID = id

	return nil
}

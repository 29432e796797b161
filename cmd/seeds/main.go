package main

import (
	"context"
	"time"

	"github.com/jhchabran/polls"
	"github.com/jhchabran/polls/cmd"
	"github.com/jhchabran/polls/sqlstore"
	"github.com/rs/zerolog/log"
)

type seed struct {
	text    string
	age     time.Duration
	choices []string
}

// Published questions show up on the index, the last one stays scheduled for tomorrow.
var seeds = []seed{
	{text: "What's up?", age: 2 * time.Hour, choices: []string{"Not much", "The sky", "Just hacking again"}},
	{text: "Which editor do you use?", age: 3 * 24 * time.Hour, choices: []string{"vim", "emacs", "Something else"}},
	{text: "Tabs or spaces?", age: 30 * 24 * time.Hour, choices: []string{"Tabs", "Spaces"}},
	{text: "What should we ask tomorrow?", age: -24 * time.Hour, choices: []string{"Coffee or tea?", "Cats or dogs?"}},
}

func main() {
	cfg := cmd.DefaultConfig()
	err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot read configuration")
	}
	logger := cmd.SetupLogger(cfg)
	logger.Info().Msg("Seeding database")

	store := sqlstore.New(cfg.DatabaseDriver, cfg.DSN())
	err = store.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg("Can't connect to database")
	}
	defer store.Close()

	ctx := context.Background()
	now := polls.NowFunc()
	for _, s := range seeds {
		q := polls.NewQuestion(s.text, now.Add(-s.age))
		err := store.InsertQuestion(ctx, q)
		if err != nil {
			logger.Fatal().Err(err).Msg("Can't create question")
		}

		for _, text := range s.choices {
			err := store.InsertChoice(ctx, polls.NewChoice(q.ID, text))
			if err != nil {
				logger.Fatal().Err(err).Msg("Can't create choice")
			}
		}

		logger.Info().Int64("id", q.ID).Str("question", s.text).Msg("Question created")
	}
}

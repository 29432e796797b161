package polls

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// noChoiceMessage is shown when a vote doesn't designate one of the question's choices.
const noChoiceMessage = "You didn't select a choice."

// maxFormMemory caps how much of a multipart vote form is kept in memory.
const maxFormMemory = 1 << 20

// HandleIndex handles requests for the root path, listing the latest published questions,
// most recent first.
func (s *Server) HandleIndex() httprouter.Handle {
	return func(res http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		now := NowFunc()
		questions, err := s.store.FindPublishedQuestions(req.Context(), now, LatestQuestionsCount)
		if err != nil {
			s.respondError(res, req, err)
			return
		}

		presenters := make([]*questionPresenter, len(questions))
		for i, q := range questions {
			presenters[i] = newQuestionPresenter(q, now)
		}

		s.render(res, req, http.StatusOK, indexTemplate, map[string]interface{}{
			"Questions": presenters,
			"Flashes":   s.flashes(res, req),
		})
	}
}

// HandleDetail handles requests to show a question and the form to vote on it. Questions that
// aren't published yet are not found.
func (s *Server) HandleDetail() idHandle {
	return func(res http.ResponseWriter, req *http.Request, id int64) {
		question, err := s.store.FindPublishedQuestion(req.Context(), id, NowFunc())
		if err != nil {
			s.respondError(res, req, Maybe404(err))
			return
		}

		s.renderDetail(res, req, question, "")
	}
}

// HandleResults handles requests to show how many votes each choice of a question got.
//
// Unlike HandleDetail, it doesn't check the publication date: results of a scheduled question
// can be looked at before it goes public.
func (s *Server) HandleResults() idHandle {
	return func(res http.ResponseWriter, req *http.Request, id int64) {
		question, err := s.store.FindQuestion(req.Context(), id)
		if err != nil {
			s.respondError(res, req, Maybe404(err))
			return
		}

		now := NowFunc()
		if !question.IsPublished(now) {
			requestLogger(req, s.Logger).Debug().Int64("question_id", id).Msg("Showing results of an unpublished question")
		}

		choices, err := s.store.ListChoices(req.Context(), question.ID)
		if err != nil {
			s.respondError(res, req, err)
			return
		}
		presenters, total := newChoicePresenters(choices)

		s.render(res, req, http.StatusOK, resultsTemplate, map[string]interface{}{
			"Question": newQuestionPresenter(question, now),
			"Choices":  presenters,
			"Total":    total,
			"Flashes":  s.flashes(res, req),
		})
	}
}

// HandleVote handles a vote submission for a question. On success it redirects to the results,
// so reloading the page afterwards can't submit the vote again. A missing or foreign choice
// redisplays the voting form with an error message.
func (s *Server) HandleVote() idHandle {
	return func(res http.ResponseWriter, req *http.Request, questionID int64) {
		logger := requestLogger(req, s.Logger)

		question, err := s.store.FindQuestion(req.Context(), questionID)
		if err != nil {
			s.respondError(res, req, Maybe404(err))
			return
		}

		err = req.ParseMultipartForm(maxFormMemory)
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			logger.Debug().Err(err).Int64("question_id", question.ID).Msg("Vote with an unreadable form")
			s.renderDetail(res, req, question, noChoiceMessage)
			return
		}

		values := req.PostForm["choice"]
		if len(values) == 0 {
			logger.Debug().Int64("question_id", question.ID).Msg("Vote without a choice")
			s.renderDetail(res, req, question, noChoiceMessage)
			return
		}

		// the last value wins when the field is repeated
		raw := values[len(values)-1]
		choiceID, err := parseID(raw)
		if err != nil {
			logger.Debug().Str("choice", raw).Msg("Vote with a malformed choice")
			s.renderDetail(res, req, question, noChoiceMessage)
			return
		}

		choice, err := s.store.FindChoice(req.Context(), question.ID, choiceID)
		if errors.Is(err, ErrNotFound) {
			logger.Debug().Int64("question_id", question.ID).Int64("choice_id", choiceID).Msg("Vote for a foreign choice")
			s.renderDetail(res, req, question, noChoiceMessage)
			return
		}
		if err != nil {
			s.respondError(res, req, err)
			return
		}

		err = s.store.IncrementVotes(req.Context(), question.ID, choice.ID)
		if errors.Is(err, ErrNotFound) {
			// the choice went away between the lookup and the update
			s.renderDetail(res, req, question, noChoiceMessage)
			return
		}
		if err != nil {
			s.respondError(res, req, err)
			return
		}

		s.addFlash(res, req, fmt.Sprintf("Your vote for \"%s\" was recorded.", choice.ChoiceText))
		http.Redirect(res, req, resultsPath(question.ID), http.StatusFound)
	}
}

// renderDetail renders the voting form of a question, with an optional error message.
func (s *Server) renderDetail(res http.ResponseWriter, req *http.Request, question *Question, errorMessage string) {
	choices, err := s.store.ListChoices(req.Context(), question.ID)
	if err != nil {
		s.respondError(res, req, err)
		return
	}
	presenters, _ := newChoicePresenters(choices)

	s.render(res, req, http.StatusOK, detailTemplate, map[string]interface{}{
		"Question":     newQuestionPresenter(question, NowFunc()),
		"Choices":      presenters,
		"ErrorMessage": errorMessage,
		"Flashes":      s.flashes(res, req),
	})
}

// render buffers the page so a template failure can still turn into a proper error response.
func (s *Server) render(res http.ResponseWriter, req *http.Request, status int, name string, vars map[string]interface{}) {
	buf := &bytes.Buffer{}
	err := s.renderer.Render(buf, name, vars)
	if err != nil {
		requestLogger(req, s.Logger).Error().Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(res, "Failed to render template", http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(status)
	_, _ = buf.WriteTo(res)
}

// flashes pops the flash messages stored in the session.
func (s *Server) flashes(res http.ResponseWriter, req *http.Request) []interface{} {
	session, err := s.sessionStore.Get(req, sessionKey)
	if err != nil {
		requestLogger(req, s.Logger).Warn().Err(err).Msg("Failed to load session")
		return nil
	}

	flashes := session.Flashes()
	if len(flashes) > 0 {
		if err := session.Save(req, res); err != nil {
			requestLogger(req, s.Logger).Warn().Err(err).Msg("Failed to save session")
		}
	}

	return flashes
}

// addFlash stores a message to display on the next page. Losing it is not worth failing the
// request over.
func (s *Server) addFlash(res http.ResponseWriter, req *http.Request, msg string) {
	session, err := s.sessionStore.Get(req, sessionKey)
	if err != nil {
		requestLogger(req, s.Logger).Warn().Err(err).Msg("Failed to load session")
	}

	session.AddFlash(msg)
	if err := session.Save(req, res); err != nil {
		requestLogger(req, s.Logger).Warn().Err(err).Msg("Failed to save session")
	}
}

// Package integration runs the whole application, routes, templates and SQL store included,
// behind a test HTTP server.
package integration

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	qt "github.com/frankban/quicktest"
	"github.com/jhchabran/polls"
	"github.com/jhchabran/polls/sqlstore"
	"github.com/rs/zerolog"
)

// testingLogWriter is an output target for zerolog which will print on the testing logger.
type testingLogWriter struct {
	c *qt.C
}

// Write outputs on the passed bytes on the test logger
func (l *testingLogWriter) Write(p []byte) (n int, err error) {
	l.c.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// A struct to hold the server and its components.
// Provides a few helpers for convenience.
type testContext struct {
	c          *qt.C
	now        time.Time
	server     *polls.Server
	testServer *httptest.Server
	store      *sqlstore.Store
}

// newTestContext boots up a server backed by an in-memory SQLite database, and sets up its
// teardown for the current test.
func newTestContext(c *qt.C) *testContext {
	tc := testContext{c: c, now: time.Now().UTC().Truncate(time.Second)}

	w := testingLogWriter{c}
	output := zerolog.ConsoleWriter{Out: &w, NoColor: true}
	logger := zerolog.New(output)

	tc.store = sqlstore.New(sqlstore.DriverSQLite, ":memory:")
	tc.server = polls.NewServer(&polls.ServerConfig{Secret: "test"}, logger, tc.store)
	c.Assert(tc.server.Prepare(), qt.IsNil, qt.Commentf("couldn't prepare the server"))

	tc.testServer = httptest.NewServer(tc.server)
	c.Cleanup(func() {
		tc.testServer.Close()
		tc.store.Close()
	})

	return &tc
}

// url returns an url to the test server based on the given path
func (tc *testContext) url(path string) string {
	return tc.testServer.URL + path
}

func (tc *testContext) createQuestion(text string, pubDate time.Time, choices ...string) (*polls.Question, []*polls.Choice) {
	ctx := context.Background()
	q := polls.NewQuestion(text, pubDate)
	tc.c.Assert(tc.store.InsertQuestion(ctx, q), qt.IsNil)

	var cs []*polls.Choice
	for _, text := range choices {
		ch := polls.NewChoice(q.ID, text)
		tc.c.Assert(tc.store.InsertChoice(ctx, ch), qt.IsNil)
		cs = append(cs, ch)
	}

	return q, cs
}

// setVotes overwrites a vote count, votes can't be set through the application itself.
func (tc *testContext) setVotes(choice *polls.Choice, votes int64) {
	db := tc.store.DB()
	db.MustExec(db.Rebind("UPDATE choices SET votes = ? WHERE id = ?"), votes, choice.ID)
	choice.Votes = votes
}

func (tc *testContext) newHTTPClient() *http.Client {
	jar, err := cookiejar.New(nil)
	tc.c.Assert(err, qt.IsNil)

	return &http.Client{
		Jar: jar,
	}
}

// get fetches a page and parses it.
func (tc *testContext) get(client *http.Client, path string) (*http.Response, *goquery.Document) {
	resp, err := client.Get(tc.url(path))
	tc.c.Assert(err, qt.IsNil)
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	tc.c.Assert(err, qt.IsNil)

	return resp, doc
}

// votesOf reads the vote count of a choice from a results page.
func votesOf(doc *goquery.Document, choice *polls.Choice) string {
	return doc.Find(`[data-choice-id="` + itoa(choice.ID) + `"]`).AttrOr("data-votes", "")
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

package polls

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

const (
	sessionKey = "polls-session"

	// LatestQuestionsCount is how many questions the index lists.
	LatestQuestionsCount = 5
)

type ServerConfig struct {
	Addr string
	// Secret signs the session cookie carrying flash messages.
	Secret string
	// Templates overrides the templates embedded in the binary when set.
	Templates fs.FS
}

type Server struct {
	Logger          zerolog.Logger
	config          *ServerConfig
	store           Store
	router          *httprouter.Router
	renderer        Renderer
	sessionStore    *sessions.CookieStore
	done            chan struct{}
	idleConnsClosed chan struct{}
}

func NewServer(config *ServerConfig, logger zerolog.Logger, store Store) *Server {
	sessionStore := sessions.NewCookieStore([]byte(config.Secret))
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		config:          config,
		store:           store,
		router:          httprouter.New(),
		Logger:          logger,
		sessionStore:    sessionStore,
		done:            make(chan struct{}),
		idleConnsClosed: make(chan struct{}),
	}
}

// Prepare connects the store, loads the templates and declares the routes. It must be called
// before serving any request.
func (s *Server) Prepare() error {
	// database
	err := s.store.Connect()
	if err != nil {
		return err
	}

	// templates
	if s.renderer == nil {
		r, err := NewTemplateRenderer(s.config.Templates)
		if err != nil {
			return err
		}
		s.renderer = r
	}

	// routes
	s.router.NotFound = http.HandlerFunc(s.notFound)

	withMiddlewares(func(m middleware) {
		s.router.GET("/", m(s.HandleIndex()))
		s.router.GET("/:id/", m(s.idParam("id", s.HandleDetail())))
		s.router.GET("/:id/results/", m(s.idParam("id", s.HandleResults())))
		s.router.POST("/:id/vote/", m(s.idParam("id", s.HandleVote())))
	}, s.logRequestMiddleware())

	return nil
}

// Start listens on the configured address until Stop is called.
func (s *Server) Start() error {
	httpServer := http.Server{Addr: s.config.Addr, Handler: s}
	errc := make(chan error, 1)

	go func() {
		s.Logger.Info().Str("addr", s.config.Addr).Msg("Listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-s.done:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := httpServer.Shutdown(ctx)
	close(s.idleConnsClosed)

	return err
}

func (s *Server) Stop() {
	close(s.done)
	<-s.idleConnsClosed
}

func (s *Server) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(res, req)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

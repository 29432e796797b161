package polls

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// middleware is a convenient type for declaring middlewares.
type middleware func(httprouter.Handle) httprouter.Handle

// idHandle is a handle whose id path parameter has already been parsed.
type idHandle func(http.ResponseWriter, *http.Request, int64)

// contextKey is a type for storing values in each request context.
type contextKey string

// String returns a stringified context key.
func (k contextKey) String() string { return string(k) }

// ctxKeyLogger is the context key for storing the request scoped logger.
var ctxKeyLogger = contextKey("logger")

// requestLogger fetches the request scoped logger, or returns the fallback when the request
// didn't go through the logging middleware.
func requestLogger(r *http.Request, fallback zerolog.Logger) *zerolog.Logger {
	if l, ok := r.Context().Value(ctxKeyLogger).(*zerolog.Logger); ok {
		return l
	}

	return &fallback
}

// withMiddlewares is a helper function to declare routes with middlewares more easily.
// The caller declares its routes in the body on the f function, calling f's argument on its
// httprouter.Handle to wrap them.
func withMiddlewares(f func(middleware), middlewares ...middleware) {
	wrapper := func(handle httprouter.Handle) httprouter.Handle {
		h := handle
		for i := len(middlewares) - 1; i >= 0; i-- {
			m := middlewares[i]
			h = m(h)
		}
		return h
	}

	f(wrapper)
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequestMiddleware tags the request with an id, stores a logger carrying it in the request
// context and logs the outcome once the handler returns.
func (s *Server) logRequestMiddleware() middleware {
	return func(next httprouter.Handle) httprouter.Handle {
		return httprouter.Handle(func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
			start := time.Now()
			logger := s.Logger.With().Str("request_id", uuid.NewString()).Logger()

			ctx := context.WithValue(r.Context(), ctxKeyLogger, &logger)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next(rec, r.WithContext(ctx), p)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// idParam turns an idHandle into a route handle. Ids that aren't made of decimal digits don't
// match the route at all, so they get the router's not found response.
func (s *Server) idParam(name string, h idHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		raw := p.ByName(name)
		id, err := parseID(raw)
		if err != nil {
			requestLogger(r, s.Logger).Debug().Str(name, raw).Msg("route did not match")
			s.notFound(w, r)
			return
		}

		h(w, r, id)
	}
}

// parseID accepts digits only, rejecting the signs and spaces strconv would otherwise tolerate.
func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, strconv.ErrSyntax
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}

	return strconv.ParseInt(raw, 10, 64)
}

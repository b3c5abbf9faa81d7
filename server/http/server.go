package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/newsagent/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type httpServer struct {
	options server.Options
	srv     *http.Server
}

func (s *httpServer) Run() error {
	slog.InfoContext(s.options.Context, "http server listening", "address", s.options.Address)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// NewRouter exposes the agent over REST.
func NewRouter(agent Agent, opts ...server.Option) http.Handler {
	options := server.NewOptions(opts...)

	h := &handlers{agent: agent}

	router := mux.NewRouter()
	router.HandleFunc("/agent", h.ask).Methods(http.MethodPost)
	router.HandleFunc("/agent/stream", h.askStream).Methods(http.MethodPost)
	router.HandleFunc("/health", h.health).Methods(http.MethodGet)

	var handler http.Handler = router

	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	return otelhttp.NewHandler(handler, options.Name)
}

func NewServer(agent Agent, opts ...server.Option) server.Server {
	if agent == nil {
		panic("agent is required")
	}

	options := server.NewOptions(opts...)

	s := &httpServer{
		options: options,
		srv: &http.Server{
			Addr:              options.Address,
			Handler:           NewRouter(agent, opts...),
			ReadHeaderTimeout: ReadHeaderTimeoutFrom(options.Context),
		},
	}

	return s
}

// Package rest exposes the DevConnector services over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/logging"
	"github.com/dmitrijs2005/devconnector/internal/server/services"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address  string
	users    *services.UserService
	profiles *services.ProfileService
	posts    *services.PostService
	logger   logging.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	router   *mux.Router
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ps *services.ProfileService, pos *services.PostService) *HTTPServer {
	registry := prometheus.NewRegistry()
	s := &HTTPServer{
		address:  a,
		logger:   l.With("module", "http_server"),
		users:    us,
		profiles: ps,
		posts:    pos,
		registry: registry,
		metrics:  NewMetrics(registry),
		router:   mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the fully wired router.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) setupRoutes() {
	r := s.router
	r.Use(s.middleware()...)

	// mux does not run Use middleware for unmatched requests
	r.NotFoundHandler = s.chain(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = s.chain(http.HandlerFunc(methodNotAllowed))

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.health).Methods(http.MethodGet)

	// users
	r.HandleFunc("/api/users/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", s.login).Methods(http.MethodPost)
	r.Handle("/api/users/current", s.authenticated(s.current)).Methods(http.MethodGet)
	r.Handle("/api/users/avatar", s.authenticated(s.uploadAvatar)).Methods(http.MethodPost)

	// profiles
	r.Handle("/api/profile", s.authenticated(s.getOwnProfile)).Methods(http.MethodGet)
	r.Handle("/api/profile", s.authenticated(s.upsertProfile)).Methods(http.MethodPost)
	r.Handle("/api/profile", s.authenticated(s.deleteAccount)).Methods(http.MethodDelete)
	r.HandleFunc("/api/profile/all", s.listProfiles).Methods(http.MethodGet)
	r.HandleFunc("/api/profile/handle/{handle}", s.getProfileByHandle).Methods(http.MethodGet)
	r.HandleFunc("/api/profile/user/{user_id}", s.getProfileByUser).Methods(http.MethodGet)
	r.Handle("/api/profile/experience", s.authenticated(s.addExperience)).Methods(http.MethodPost)
	r.Handle("/api/profile/experience/{exp_id}", s.authenticated(s.removeExperience)).Methods(http.MethodDelete)
	r.Handle("/api/profile/education", s.authenticated(s.addEducation)).Methods(http.MethodPost)
	r.Handle("/api/profile/education/{edu_id}", s.authenticated(s.removeEducation)).Methods(http.MethodDelete)

	// posts
	r.HandleFunc("/api/posts", s.listPosts).Methods(http.MethodGet)
	r.Handle("/api/posts", s.authenticated(s.createPost)).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{id}", s.getPost).Methods(http.MethodGet)
	r.Handle("/api/posts/{id}", s.authenticated(s.deletePost)).Methods(http.MethodDelete)
	r.Handle("/api/posts/like/{id}", s.authenticated(s.likePost)).Methods(http.MethodPost)
	r.Handle("/api/posts/unlike/{id}", s.authenticated(s.unlikePost)).Methods(http.MethodPost)
	r.Handle("/api/posts/comment/{id}", s.authenticated(s.commentPost)).Methods(http.MethodPost)
	r.Handle("/api/posts/comment/{id}/{comment_id}", s.authenticated(s.deleteComment)).Methods(http.MethodDelete)
}

// middleware is the chain every request passes through, outermost first.
// Metrics sits outside recovery so panics are counted as 500s.
func (s *HTTPServer) middleware() []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{s.requestIDMiddleware, s.loggingMiddleware, s.metrics.Middleware, s.recoveryMiddleware}
}

func (s *HTTPServer) chain(h http.Handler) http.Handler {
	mw := s.middleware()
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody(http.StatusText(http.StatusNotFound)))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody(http.StatusText(http.StatusMethodNotAllowed)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-done
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ai-fitness-planner/internal/app"
)

// Server exposes the planner operations over HTTP.
type Server struct {
	app            *app.App
	log            logrus.FieldLogger
	allowedOrigins []string
	dataFiles      []string
}

// New creates a Server. dataFiles are the reference files reported by the
// health endpoint.
func New(a *app.App, allowedOrigins []string, dataFiles []string, log logrus.FieldLogger) *Server {
	return &Server{
		app:            a,
		log:            log,
		allowedOrigins: allowedOrigins,
		dataFiles:      dataFiles,
	}
}

// Router returns the route table without middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.rootHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/_healthz", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/predict/diet", s.dietHandler).Methods(http.MethodPost)
	r.HandleFunc("/predict/workout", s.workoutHandler).Methods(http.MethodPost)
	return r
}

// Handler returns the full handler chain: routing, request logging, CORS
// and tracing.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.Router()
	handler = &logHandler{log: s.log, next: handler}
	handler = cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(handler)
	handler = otelhttp.NewHandler(handler, "fitness-api")
	return handler
}

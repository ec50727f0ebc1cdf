package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"practice-quiz-service/internal/app"
)

// NewRouter mounts the REST API and the websocket play channel.
func NewRouter(service *app.PlayService) http.Handler {
	api := NewAPI(service)
	ws := NewWSHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", api.listQuizzes)
			r.Post("/", api.uploadQuiz)
			r.Delete("/", api.clearQuizzes)
			r.Post("/import", api.importWorkbook)
			r.Get("/{id}", api.getQuiz)
			r.Delete("/{id}", api.deleteQuiz)
			r.Post("/{id}/sessions", api.startSession)
		})
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", api.viewSession)
			r.Delete("/", api.endSession)
			r.Post("/select", api.selectOption)
			r.Post("/submit", api.submit)
			r.Post("/advance", api.advance)
			r.Post("/retreat", api.retreat)
			r.Post("/restart", api.restart)
			r.Get("/results", api.results)
			r.Get("/results.xlsx", api.resultsWorkbook)
		})
	})
	return r
}

// Package http exposes the portal's routes: the anonymous quiz flow, the
// sign-in roundtrip, and the role-gated user/admin dashboards.
package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"quiz-portal/internal/app"
	"quiz-portal/internal/domain"
	"quiz-portal/internal/guard"
	"quiz-portal/internal/identity"
)

// Server bundles the collaborators every handler needs.
type Server struct {
	quiz     *app.QuizService
	catalog  CatalogGateway
	attempts AttemptGateway
	admin    AdminGateway

	auth     *identity.Store
	provider identity.Provider
	guard    *guard.Guard

	cookieName string
	logger     *zap.Logger
}

// Options configures the HTTP surface.
type Options struct {
	CookieName     string
	AllowedOrigins []string
}

func NewServer(
	quiz *app.QuizService,
	catalog CatalogGateway,
	attempts AttemptGateway,
	admin AdminGateway,
	auth *identity.Store,
	provider identity.Provider,
	g *guard.Guard,
	logger *zap.Logger,
	opts Options,
) *Server {
	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = "quiz_sid"
	}
	return &Server{
		quiz:       quiz,
		catalog:    catalog,
		attempts:   attempts,
		admin:      admin,
		auth:       auth,
		provider:   provider,
		guard:      g,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Handler builds the router and wraps it with CORS.
func (s *Server) Handler(opts Options) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	router.HandleFunc("/about", s.handleAbout).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/login", s.handleLogin).Methods(http.MethodGet)
	router.HandleFunc("/callback", s.handleCallback).Methods(http.MethodGet)
	router.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost, http.MethodGet)

	// Anonymous quiz flow; no role requirement.
	router.HandleFunc("/quiz", s.handleSnapshot).Methods(http.MethodGet)
	router.HandleFunc("/quiz/start", s.handleStart).Methods(http.MethodPost)
	router.HandleFunc("/quiz/answer", s.handleAnswer).Methods(http.MethodPost)
	router.HandleFunc("/quiz/navigate", s.handleNavigate).Methods(http.MethodPost)
	router.HandleFunc("/quiz/view", s.handleViewMode).Methods(http.MethodPost)
	router.HandleFunc("/quiz/submit", s.handleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/quiz/restart", s.handleRestart).Methods(http.MethodPost)
	router.HandleFunc("/ws/quiz", s.handleQuizWS).Methods(http.MethodGet)

	userRouter := router.PathPrefix("/user").Subrouter()
	userRouter.Use(s.requireRole(domain.RoleUser))
	userRouter.HandleFunc("", s.handleUserHome).Methods(http.MethodGet)
	userRouter.HandleFunc("/quizzes", s.handleListQuizzes).Methods(http.MethodGet)
	userRouter.HandleFunc("/quizzes/{quizID}/questions", s.handleQuizQuestions).Methods(http.MethodGet)
	userRouter.HandleFunc("/quizzes/{quizID}/submit", s.handleSubmitQuiz).Methods(http.MethodPost)
	userRouter.HandleFunc("/scores", s.handleMyScores).Methods(http.MethodGet)

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(s.requireRole(domain.RoleAdmin))
	adminRouter.HandleFunc("", s.handleAdminHome).Methods(http.MethodGet)
	adminRouter.HandleFunc("/questions", s.handleAddQuestion).Methods(http.MethodPost)
	adminRouter.HandleFunc("/quizzes", s.handleCreateQuiz).Methods(http.MethodPost)
	adminRouter.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet)
	adminRouter.HandleFunc("/scores", s.handleAllScores).Methods(http.MethodGet)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return corsMiddleware.Handler(router)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "quiz-portal",
		"quiz":    "/quiz",
		"login":   "/login",
	})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"about": "Quiz portal fronting a remote question bank with role-gated dashboards.",
	})
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/auth"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/config"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/http/handler"
	mw "github.com/Orlando-Villanueva/my-delight-sub000/internal/http/middleware"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/reading"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/stats"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, readingSvc *reading.Service, statsSvc *stats.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{DB: db}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	readingH := &handler.ReadingHandler{Svc: readingSvc}
	statsH := &handler.StatsHandler{Stats: statsSvc, Repo: &reading.Repo{DB: db}}

	r.Route("/readings", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/", readingH.Create)
		r.Delete("/", readingH.Delete)
	})

	r.Route("/stats", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/streak", statsH.Streak)
		r.Get("/week", statsH.Week)
		r.Get("/summary", statsH.Summary)
		r.Get("/heatmap", statsH.Heatmap)
		r.Get("/message", statsH.Message)
		r.Get("/books/{bookID}", statsH.Book)
	})

	return r
}

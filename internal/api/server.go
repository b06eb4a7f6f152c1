// Package api exposes the catalog, meal plans and analytics over a small
// read-only JSON HTTP surface.
package api

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/nutrition"
	"github.com/saadjs/mealwise/internal/planner"
	"github.com/saadjs/mealwise/internal/service"
)

const (
	defaultRate  = rate.Limit(10)
	defaultBurst = 20
)

type Options struct {
	Logger         *zap.Logger
	Rate           rate.Limit
	Burst          int
	AllowedOrigins []string
	// Now fixes the analytics reference time. Defaults to time.Now.
	Now func() time.Time
	// Generator is used for /plan when the request carries no seed.
	Generator *planner.Generator
}

type Server struct {
	db      *sql.DB
	log     *zap.Logger
	limiter *rateLimiter
	origins []string
	now     func() time.Time
	gen     *planner.Generator
}

func New(db *sql.DB, opts Options) *Server {
	s := &Server{
		db:      db,
		log:     opts.Logger,
		origins: opts.AllowedOrigins,
		now:     opts.Now,
		gen:     opts.Generator,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.gen == nil {
		s.gen = planner.New(planner.Options{})
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	limit, burst := opts.Rate, opts.Burst
	if limit <= 0 {
		limit = defaultRate
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	s.limiter = newRateLimiter(limit, burst)
	return s
}

// Handler returns the routed handler wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/healthz", s.handleHealth)
	router.GET("/foods", s.limiter.Limit(s.handleFoods))
	router.GET("/plan", s.limiter.Limit(s.handlePlan))
	router.GET("/analytics", s.limiter.Limit(s.handleAnalytics))
	router.GET("/analytics/streak", s.limiter.Limit(s.handleStreak))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
	return loggingMiddleware(s.log, corsHandler)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := s.db.PingContext(r.Context()); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFoods(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	filter := service.ListFoodsFilter{
		Category: q.Get("category"),
		FoodType: model.FoodType(q.Get("type")),
		Query:    q.Get("q"),
	}
	if filter.FoodType != "" && !filter.FoodType.Valid() {
		respondWithError(w, http.StatusBadRequest, "invalid food type")
		return
	}
	var diet model.DietPreference
	if raw := q.Get("diet"); raw != "" {
		p, err := service.ParseDietPreference(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		diet = p
	}
	foods, err := service.ListFoods(s.db, filter)
	if err != nil {
		s.internalError(w, "list foods", err)
		return
	}
	if diet != "" {
		foods = nutrition.FilterByDiet(foods, diet)
	}
	respondWithJSON(w, http.StatusOK, foods)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	gen := s.gen
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid seed")
			return
		}
		gen = planner.New(planner.Options{Rand: rand.New(rand.NewSource(seed))})
	}
	plan, err := service.GeneratePlan(s.db, gen)
	if err != nil {
		s.internalError(w, "generate plan", err)
		return
	}
	s.log.Debug("plan generated",
		zap.Int("candidates", plan.Candidates),
		zap.Int("calories", plan.TotalCalories),
		zap.Float64("protein", plan.TotalProtein),
	)
	respondWithJSON(w, http.StatusOK, plan)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	now, ok := s.referenceTime(w, r)
	if !ok {
		return
	}
	report, err := service.BuildReport(s.db, now)
	if err != nil {
		s.internalError(w, "build report", err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	now, ok := s.referenceTime(w, r)
	if !ok {
		return
	}
	streak, err := service.CurrentStreak(s.db, now)
	if err != nil {
		s.internalError(w, "calculate streak", err)
		return
	}
	respondWithJSON(w, http.StatusOK, streak)
}

func (s *Server) referenceTime(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return s.now(), true
	}
	now, err := service.ParseAsOf(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return now, true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error(op+" failed", zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "internal error")
}

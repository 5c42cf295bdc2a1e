// Package server provides a local stand-in for the emotion-classification
// service. It answers /analyze with a random label so the client can be
// exercised without the hosted API.
package server

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/f3rmion/emoreflect/internal/config"
	"github.com/f3rmion/emoreflect/internal/emotion"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Labels are the emotions the stand-in answers with.
var Labels = []emotion.Label{emotion.Happy, emotion.Sad, emotion.Anxious, emotion.Excited, emotion.Angry}

const (
	minConfidence = 0.70
	maxConfidence = 0.99
)

// Server is the stand-in classifier.
type Server struct {
	echo    *echo.Echo
	logger  *zap.Logger
	config  config.ServeConfig
	metrics *metrics

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Server.
type Option func(*Server)

// WithRand makes the answers deterministic.
func WithRand(r *rand.Rand) Option {
	return func(s *Server) {
		s.rng = r
	}
}

// New creates a stand-in server.
func New(cfg config.ServeConfig, logger *zap.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"*"},
		AllowHeaders: []string{"*"},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:    e,
		logger:  logger,
		config:  cfg,
		metrics: newMetrics(),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleHello)
	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/analyze", s.handleAnalyze)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
}

// ServeHTTP lets the server be mounted in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleHello(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"hello": "world"})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Text *string `json:"text"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil || req.Text == nil {
		s.metrics.rejected.Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "field required: text")
	}

	result := s.classify()
	s.metrics.analyses.WithLabelValues(string(result.Emotion)).Inc()
	s.logger.Debug("classified",
		zap.Int("text_len", len(strings.TrimSpace(*req.Text))),
		zap.String("emotion", string(result.Emotion)),
		zap.Float64("confidence", result.Confidence),
	)
	return c.JSON(http.StatusOK, result)
}

// classify picks a random label and a confidence in [0.70, 0.99] rounded to
// two decimals.
func (s *Server) classify() emotion.Result {
	s.mu.Lock()
	label := Labels[s.rng.IntN(len(Labels))]
	raw := minConfidence + s.rng.Float64()*(maxConfidence-minConfidence)
	s.mu.Unlock()

	return emotion.Result{
		Emotion:    label,
		Confidence: math.Round(raw*100) / 100,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting stand-in classifier", zap.String("addr", s.Addr()))
	if err := s.echo.Start(s.Addr()); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down stand-in classifier")
	return s.echo.Shutdown(ctx)
}

type metrics struct {
	registry *prometheus.Registry
	analyses *prometheus.CounterVec
	rejected prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emoreflect_analyses_total",
			Help: "Analyses answered by the stand-in classifier, by emotion.",
		}, []string{"emotion"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "emoreflect_rejected_requests_total",
			Help: "Analyze requests rejected for a missing text field.",
		}),
	}
	m.registry.MustRegister(m.analyses, m.rejected)
	return m
}

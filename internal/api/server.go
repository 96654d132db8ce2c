// Package api exposes the workspace to the UI collaborator over HTTP:
// the planet graph, enumeration and ranking queries, and the mutators
// for mining units and prices. A websocket hub pushes a refreshed
// ranking summary after every mutation.
package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/echomine/planetctl/internal/analytics"
	"github.com/echomine/planetctl/internal/observability"
	"github.com/echomine/planetctl/internal/workspace"
)

type Config struct {
	ListenAddr  string
	CorsOrigins []string
}

// Server serves one workspace. The workspace supports a single active
// session, so every handler serializes through mu: writers exclusively,
// readers shared.
type Server struct {
	cfg     Config
	log     zerolog.Logger
	mu      sync.RWMutex
	ws      *workspace.Workspace
	engine  *analytics.Engine
	hub     *Hub
	router  *gin.Engine
	started time.Time
}

func NewServer(cfg Config, ws *workspace.Workspace, log zerolog.Logger) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST", "PUT"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		cfg:     cfg,
		log:     log,
		ws:      ws,
		engine:  analytics.NewEngine(ws),
		hub:     NewHub(log),
		router:  r,
		started: time.Now(),
	}
	s.registerRoutes()
	return s
}

// Router exposes the underlying engine, mainly for httptest.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Serve runs the hub broadcast loop and the HTTP listener.
func (s *Server) Serve() error {
	go s.hub.Run()
	return s.router.Run(s.cfg.ListenAddr)
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			out = append(out, origin)
		}
	}
	if len(out) == 0 {
		out = []string{"http://localhost:3000"}
	}
	return out
}

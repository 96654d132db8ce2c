package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/echomine/planetctl/internal/observability"
	"github.com/echomine/planetctl/internal/prices"
)

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"service": "planetctl",
			"version": "0.1.0",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"planets": len(s.ws.Catalog().Planets),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/ws", s.handleWebsocket)

	apiGroup := s.router.Group("/api")

	apiGroup.GET("/planets", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		c.JSON(http.StatusOK, gin.H{"planets": s.ws.Planets()})
	})

	apiGroup.GET("/resources", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		c.JSON(http.StatusOK, gin.H{"resources": s.ws.Catalog().ResourceNames})
	})

	apiGroup.GET("/regions", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		c.JSON(http.StatusOK, gin.H{"regions": s.ws.Catalog().Regions()})
	})

	apiGroup.GET("/constellations", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		regions := c.QueryArray("region")
		c.JSON(http.StatusOK, gin.H{"constellations": s.ws.Catalog().Constellations(regions...)})
	})

	apiGroup.GET("/systems", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		constellations := c.QueryArray("constellation")
		c.JSON(http.StatusOK, gin.H{"systems": s.ws.Catalog().Systems(constellations...)})
	})

	apiGroup.GET("/systems/active", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		c.JSON(http.StatusOK, gin.H{"systems": s.engine.ActiveMiningSystems()})
	})

	apiGroup.GET("/rankings/planets", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		observability.RecordRankingQuery("top_planets")
		c.JSON(http.StatusOK, gin.H{"planets": s.engine.TopPlanets(queryInt(c, "n", 10))})
	})

	apiGroup.GET("/rankings/systems", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		observability.RecordRankingQuery("top_systems")
		c.JSON(http.StatusOK, gin.H{"systems": s.engine.TopSystems(queryInt(c, "n", 10))})
	})

	apiGroup.GET("/distribution/:resource", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		observability.RecordRankingQuery("distribution")
		resource := c.Param("resource")
		c.JSON(http.StatusOK, gin.H{
			"resource":     resource,
			"distribution": s.engine.ResourceDistribution(resource),
		})
	})

	apiGroup.GET("/routes", s.handleRoutes)

	apiGroup.PUT("/mining-units", s.handleSetMiningUnits)

	apiGroup.GET("/prices", func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		c.JSON(http.StatusOK, gin.H{"prices": s.ws.PriceTable().All()})
	})

	apiGroup.PUT("/prices", s.handleUpdatePrices(false))
	apiGroup.POST("/prices/replace", s.handleUpdatePrices(true))
	apiGroup.POST("/prices/import", s.handleImportPrices)

	apiGroup.GET("/prices/history", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"points": prices.History(s.ws.ImportsDir(), s.log)})
	})
}

func (s *Server) handleRoutes(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	observability.RecordRankingQuery("route_candidates")
	start := c.Query("start")
	maxJumps := queryInt(c, "max_jumps", 5)

	candidates := s.engine.RouteCandidates(start, maxJumps)
	response := gin.H{"start": start, "candidates": candidates}
	if len(candidates) == 0 && start != "" {
		if suggestion, ok := closestSystem(start, s.ws.Catalog().Systems()); ok {
			response["suggestion"] = suggestion
		}
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleSetMiningUnits(c *gin.Context) {
	var req struct {
		PlanetID int    `json:"planet_id" binding:"required"`
		Resource string `json:"resource" binding:"required"`
		Units    *int   `json:"units" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ws.SetMiningUnits(req.PlanetID, req.Resource, *req.Units); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := s.ws.SaveAllocations(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.broadcastSummary()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleUpdatePrices(replace bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update map[string]float64
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		table := s.ws.PriceTable()
		if replace {
			table.ReplaceAll(update)
		} else {
			table.Update(update)
		}
		if err := table.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		s.broadcastSummary()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "prices": table.Len()})
	}
}

func (s *Server) handleImportPrices(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	imported, stats := prices.ParseCSV(src, s.log)
	if c.Query("match") != "false" {
		imported, stats.Matched = prices.MatchKnown(imported, s.ws.Catalog().ResourceNames)
	}
	observability.RecordImportRows(stats.Rows, stats.Skipped, stats.Coerced)

	table := s.ws.PriceTable()
	table.Update(imported)
	if err := table.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.archiveImport(c, file.Filename)

	s.broadcastSummary()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "stats": stats})
}

// archiveImport keeps a dated copy of the uploaded file so the history
// endpoint can replay past imports. Failure here never fails the import.
func (s *Server) archiveImport(c *gin.Context, original string) {
	dir := s.ws.ImportsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Warn().Err(err).Msg("price import archive dir unavailable")
		return
	}
	name := fmt.Sprintf("%s_%s", time.Now().Format("2006-01-02"), filepath.Base(original))
	file, err := c.FormFile("file")
	if err != nil {
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		s.log.Warn().Err(err).Msg("price import archive failed")
	}
}

func (s *Server) broadcastSummary() {
	s.hub.BroadcastSummary(s.engine.TopPlanets(10))
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func closestSystem(name string, systems []string) (string, bool) {
	best := ""
	bestDist := -1
	for _, system := range systems {
		dist := levenshtein.ComputeDistance(name, system)
		if dist > 3 {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best = system
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

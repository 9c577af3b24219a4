// Package server exposes the dashboard state to operator consoles as a
// JSON HTTP API. Handlers only read session state and forward intents; all
// derivation happens in the owning components.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"rescue-gcs/internal/control"
	"rescue-gcs/internal/predict"
	"rescue-gcs/internal/renderer"
	"rescue-gcs/internal/route"
)

type Server struct {
	session   *renderer.Session
	estimator *route.Estimator
	relay     *control.Relay
	log       *slog.Logger
	engine    *gin.Engine
}

func New(session *renderer.Session, estimator *route.Estimator, relay *control.Relay, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		session:   session,
		estimator: estimator,
		relay:     relay,
		log:       log.With("component", "http"),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/telemetry", s.telemetry)
		api.GET("/link", s.link)
		api.GET("/scene", s.scene)
		api.GET("/spark.png", s.sparkline)
		api.GET("/saferoute", s.safeRoute)
		api.POST("/target/arm", s.armTarget)
		api.POST("/target", s.target)
		api.POST("/recommend", s.recommend)
		api.POST("/control", s.control)
	}
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	s.engine = r
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Run(port string) error {
	s.log.Info("dashboard API listening", "port", port)
	return s.engine.Run(":" + port)
}

func (s *Server) telemetry(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Telemetry())
}

func (s *Server) link(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Link())
}

func (s *Server) scene(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"map":       s.session.Backend.Scene(),
		"targeting": s.estimator.Armed(),
		"route":     s.estimator.Current(),
	})
}

func (s *Server) sparkline(c *gin.Context) {
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := s.session.Spark.Render(c.Writer); err != nil {
		s.log.Warn("sparkline render failed", "err", err)
	}
}

// clickRequest uses pointer fields so a coordinate of exactly 0 (equator,
// prime meridian) still counts as present; "required" on a plain float64
// would reject it as missing.
type clickRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// armTarget puts the map into single-shot targeting mode.
func (s *Server) armTarget(c *gin.Context) {
	s.estimator.Arm()
	c.JSON(http.StatusOK, gin.H{"targeting": true})
}

// target is the console's map-click callback. The click routes through the
// backend's registered handler, so an unarmed click is simply ignored.
func (s *Server) target(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng required"})
		return
	}
	s.session.Backend.Click(*req.Lat, *req.Lng)
	c.JSON(http.StatusOK, gin.H{
		"targeting": s.estimator.Armed(),
		"route":     s.estimator.Current(),
	})
}

func (s *Server) safeRoute(c *gin.Context) {
	// Pointer fields for the same zero-coordinate reason as clickRequest.
	var req struct {
		Lat *float64 `form:"lat" binding:"required"`
		Lng *float64 `form:"lng" binding:"required"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng required"})
		return
	}
	pts, cost, ok := s.session.PlanSafeRoute(*req.Lat, *req.Lng)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "waypoints": pts, "cost": cost})
}

type recommendRequest struct {
	Survivors float64 `json:"survivors"`
}

// recommend is the operator's manual override. It calls the same function
// as the sensor-driven path, so identical input gives identical output.
func (s *Server) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "survivors required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"survivors": req.Survivors,
		"rescuers":  predict.Recommend(req.Survivors),
	})
}

type controlRequest struct {
	Cmd string `json:"cmd" binding:"required"`
}

func (s *Server) control(c *gin.Context) {
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, control.Result{OK: false, Error: "cmd required"})
		return
	}
	res := s.relay.Send(c.Request.Context(), req.Cmd)
	status := http.StatusOK
	switch {
	case res.Error == "unknown_command":
		status = http.StatusBadRequest
	case !res.OK && res.Status != 0:
		status = http.StatusBadGateway
	}
	c.JSON(status, res)
}

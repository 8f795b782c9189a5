package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/banachtech/bsmc/mc"
	"github.com/banachtech/bsmc/pricer"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Options configures access control and request defaults.
type Options struct {
	// KeyHash is the bcrypt hash of the accepted API key. Empty disables authentication.
	KeyHash string
	// Rate is the sustained number of requests per second allowed per key; 0 disables limiting.
	Rate  float64
	Burst int
	// Defaults fills simulation fields a request leaves out.
	Defaults mc.Config
}

// Server serves HTTP requests for the Monte Carlo pricer.
type Server struct {
	pricer   pricer.Pricer
	router   *gin.Engine
	keyHash  []byte
	limiters *limiters
	defaults mc.Config
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(p pricer.Pricer, opts Options) *Server {
	server := &Server{
		pricer:   p,
		defaults: opts.Defaults,
	}
	if opts.KeyHash != "" {
		server.keyHash = []byte(opts.KeyHash)
	}
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		server.limiters = newLimiters(rate.Limit(opts.Rate), burst)
	}

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := router.Group("/v1").Use(server.authentication, server.rateLimit)
	authRoutes.POST("/price", server.price)
	authRoutes.POST("/greeks", server.greeks)
	authRoutes.POST("/analytic", server.analytic)
	authRoutes.POST("/implied-vol", server.impliedVol)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

// Handler exposes the router, e.g. for an http.Server with timeouts.
func (server *Server) Handler() http.Handler {
	return server.router
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// statusFor maps estimator errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mc.ErrInvalidParameter), errors.Is(err, mc.ErrUnknownEstimator):
		return http.StatusBadRequest
	case errors.Is(err, mc.ErrDegenerateInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

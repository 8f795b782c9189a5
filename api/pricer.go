package api

import (
	"fmt"
	"math"
	"net/http"

	"github.com/banachtech/bsmc/mc"
	"github.com/banachtech/bsmc/pricer"
	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
)

type marketRequest struct {
	Spot     float64 `json:"spot" binding:"required"`
	Strike   float64 `json:"strike" binding:"required"`
	Rate     float64 `json:"rate"`
	Vol      float64 `json:"vol" binding:"required"`
	Maturity float64 `json:"maturity" binding:"required"`
}

func (r marketRequest) market() mc.Market {
	return mc.Market{Spot: r.Spot, Strike: r.Strike, Rate: r.Rate, Vol: r.Vol, Maturity: r.Maturity}
}

// simulationRequest overrides the server defaults field by field.
type simulationRequest struct {
	Paths   int     `json:"paths" binding:"omitempty,min=1"`
	Steps   int     `json:"steps" binding:"omitempty,min=1"`
	Workers int     `json:"workers" binding:"omitempty,min=1"`
	Bump    float64 `json:"bump" binding:"omitempty,gt=0"`
	StdErr  string  `json:"stderr"`
	Gamma   string  `json:"gamma_mode"`
}

type priceRequest struct {
	Estimator  string            `json:"estimator" binding:"required"`
	Market     marketRequest     `json:"market"`
	Simulation simulationRequest `json:"simulation"`
}

type priceResponse struct {
	Estimator string   `json:"estimator"`
	Price     float64  `json:"price"`
	StdErr    *float64 `json:"stderr"` // null for a single path
	Paths     int      `json:"paths"`
	Analytic  float64  `json:"analytic"`
}

type greekRequest struct {
	Greek      string            `json:"greek" binding:"required"`
	Market     marketRequest     `json:"market"`
	Simulation simulationRequest `json:"simulation"`
}

type greekResponse struct {
	Greek    string  `json:"greek"`
	Value    float64 `json:"value"`
	Analytic float64 `json:"analytic"`
}

type analyticRequest struct {
	Market marketRequest `json:"market"`
}

type impliedVolRequest struct {
	Spot     float64 `json:"spot" binding:"required"`
	Strike   float64 `json:"strike" binding:"required"`
	Rate     float64 `json:"rate"`
	Maturity float64 `json:"maturity" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
}

func (server *Server) simulation(req simulationRequest) (mc.Config, error) {
	cfg := server.defaults
	if req.Paths > 0 {
		cfg.Paths = req.Paths
	}
	if req.Steps > 0 {
		cfg.Steps = req.Steps
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	if req.Bump > 0 {
		cfg.Bump = req.Bump
	}
	if req.StdErr != "" {
		conv, err := mc.ParseStdErrConvention(req.StdErr)
		if err != nil {
			return mc.Config{}, err
		}
		cfg.StdErr = conv
	}
	if req.Gamma != "" {
		mode, err := mc.ParseGammaMode(req.Gamma)
		if err != nil {
			return mc.Config{}, err
		}
		cfg.Gamma = mode
	}
	return cfg, nil
}

func (server *Server) price(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	cfg, err := server.simulation(req.Simulation)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	m := req.Market.market()
	quote, err := server.pricer.Analytic(m)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	res, err := server.pricer.Price(c.Request.Context(), pricer.PriceRequest{Estimator: req.Estimator, Market: m, Config: cfg})
	if err != nil {
		glog.Errorf("api: price %s: %v", req.Estimator, err)
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	resp := priceResponse{
		Estimator: req.Estimator,
		Price:     res.Price,
		Paths:     res.Paths,
		Analytic:  quote.Price,
	}
	if !math.IsNaN(res.StdErr) {
		se := res.StdErr
		resp.StdErr = &se
	}
	c.JSON(http.StatusOK, resp)
}

func (server *Server) greeks(c *gin.Context) {
	var req greekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	cfg, err := server.simulation(req.Simulation)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	m := req.Market.market()
	quote, err := server.pricer.Analytic(m)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	var want float64
	switch req.Greek {
	case "delta":
		want = quote.Delta
	case "gamma":
		want = quote.Gamma
	default:
		err := fmt.Errorf("%w: %q", mc.ErrUnknownEstimator, req.Greek)
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	v, err := server.pricer.Sensitivity(c.Request.Context(), pricer.GreekRequest{Greek: req.Greek, Market: m, Config: cfg})
	if err != nil {
		glog.Errorf("api: greek %s: %v", req.Greek, err)
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, greekResponse{Greek: req.Greek, Value: v, Analytic: want})
}

func (server *Server) analytic(c *gin.Context) {
	var req analyticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	quote, err := server.pricer.Analytic(req.Market.market())
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (server *Server) impliedVol(c *gin.Context) {
	var req impliedVolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	m := mc.Market{Spot: req.Spot, Strike: req.Strike, Rate: req.Rate, Maturity: req.Maturity}
	vol, err := server.pricer.ImpliedVol(m, req.Price)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"vol": vol})
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/banachtech/bsmc/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	authorizationHeaderKey  = "authorization"
	authorizationTypeBearer = "bearer"
	clientKey               = "client"
)

// authentication checks the bearer API key against the configured bcrypt hash and
// records the key prefix as the client identity. Without a hash every request passes
// and the client IP is used instead.
func (server *Server) authentication(c *gin.Context) {
	if len(server.keyHash) == 0 {
		c.Set(clientKey, c.ClientIP())
		c.Next()
		return
	}

	authorizationHeader := c.GetHeader(authorizationHeaderKey)

	if len(authorizationHeader) == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("authorization header is not provided")))
		return
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) < 2 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("invalid authorization header format")))
		return
	}

	authorizationType := strings.ToLower(fields[0])
	if authorizationType != authorizationTypeBearer {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(fmt.Errorf("unsupported authorization type: %s", authorizationType)))
		return
	}

	apiKey := fields[1]

	prefix := util.KeyPrefix(apiKey)
	if prefix == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	if err := bcrypt.CompareHashAndPassword(server.keyHash, []byte(apiKey)); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	c.Set(clientKey, prefix)
	c.Next()
}

type limiters struct {
	mu    sync.Mutex
	every rate.Limit
	burst int
	m     map[string]*rate.Limiter
}

func newLimiters(every rate.Limit, burst int) *limiters {
	return &limiters{every: every, burst: burst, m: make(map[string]*rate.Limiter)}
}

func (l *limiters) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.m[client]
	if !ok {
		limiter = rate.NewLimiter(l.every, l.burst)
		l.m[client] = limiter
	}
	return limiter
}

func (server *Server) rateLimit(c *gin.Context) {
	if server.limiters == nil {
		c.Next()
		return
	}
	if !server.limiters.get(c.GetString(clientKey)).Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse(errors.New("too many requests")))
		return
	}
	c.Next()
}

// app/echoServer/middleware.go
package echoServer

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())

	e.Use(RateLimit())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			)
			return err
		}
	}
}

// RateLimit gives each client IP a token bucket of 2 req/s with burst 4.
// Stale entries are evicted so the map does not grow forever.
func RateLimit() echo.MiddlewareFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	go func() {
		for {
			time.Sleep(time.Minute)
			mu.Lock()
			for ip, cl := range clients {
				if time.Since(cl.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			mu.Lock()
			cl, ok := clients[ip]
			if !ok {
				cl = &client{limiter: rate.NewLimiter(2, 4)}
				clients[ip] = cl
			}
			cl.lastSeen = time.Now()
			allowed := cl.limiter.Allow()
			mu.Unlock()

			if !allowed {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"message": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}

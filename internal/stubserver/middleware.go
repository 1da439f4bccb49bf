package stubserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/yildizm/SentiDash/internal/logger"
)

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

			next.ServeHTTP(ww, req)

			log.DebugWithFields("request", []logger.Field{
				logger.F("method", req.Method),
				logger.F("path", req.URL.Path),
				logger.F("status", ww.Status()),
				logger.F("remote_ip", req.RemoteAddr),
				logger.Duration(time.Since(start)),
			})
		})
	}
}

package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mumumio1/mockapi/internal/log"
	"github.com/mumumio1/mockapi/internal/metrics"
	"github.com/mumumio1/mockapi/internal/model"
)

const (
	headerRequestID  = "X-Request-ID"
	headerServerName = "X-Server-Name"
	headerLanguage   = "X-Language"

	unmatchedRoute = "unmatched"
)

// requestIDMiddleware adds a unique request ID to each request
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(headerRequestID, requestID)
		ctx := log.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityMiddleware tags every response with the instance that served it
func identityMiddleware(next http.Handler, serverName string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerServerName, serverName)
		w.Header().Set(headerLanguage, model.Language)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(next http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &wrappedWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		logger.WithContext(r.Context()).Info("HTTP request",
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.String("remote_addr", r.RemoteAddr),
			log.Int("status", ww.statusCode),
			log.Duration("duration", time.Since(start)),
		)
	})
}

type routeKey struct{}

// routeLabel is filled in by captureRoute once the router has matched
type routeLabel struct {
	template string
}

// captureRoute runs inside the router and records the matched template
// for metricsMiddleware, which sits outside it.
func captureRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if label, ok := r.Context().Value(routeKey{}).(*routeLabel); ok {
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					label.template = tpl
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records request metrics
func metricsMiddleware(next http.Handler, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.IncInFlight()
		defer m.DecInFlight()

		label := &routeLabel{template: unmatchedRoute}
		ctx := context.WithValue(r.Context(), routeKey{}, label)
		ww := &wrappedWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r.WithContext(ctx))

		m.RecordRequest(
			r.Method,
			label.template,
			ww.statusCode,
			time.Since(start),
			ww.bytesWritten,
		)
	})
}

// wrappedWriter wraps http.ResponseWriter to capture status code and bytes written
type wrappedWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	written      bool
}

func (ww *wrappedWriter) WriteHeader(code int) {
	if !ww.written {
		ww.statusCode = code
		ww.ResponseWriter.WriteHeader(code)
		ww.written = true
	}
}

func (ww *wrappedWriter) Write(b []byte) (int, error) {
	if !ww.written {
		ww.WriteHeader(http.StatusOK)
	}
	n, err := ww.ResponseWriter.Write(b)
	ww.bytesWritten += int64(n)
	return n, err
}

func (ww *wrappedWriter) Flush() {
	if f, ok := ww.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (ww *wrappedWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := ww.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("hijack not supported")
	}
	return h.Hijack()
}

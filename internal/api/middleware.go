package api

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"field-route-service/internal/platform/obs"
)

// responseRecorder captures the status code and body size a handler
// actually sent, since ResponseWriter exposes neither after the fact.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Handlers that never call WriteHeader still send an implicit 200.
func (w *responseRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger assigns each request an id, threads it through the
// context for obs.Time call sites, and logs one summary line per
// request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()

		rec := &responseRecorder{ResponseWriter: w}
		r = r.WithContext(obs.WithRequestID(r.Context(), reqID))

		next.ServeHTTP(rec, r)

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			reqID, r.Method, r.URL.RequestURI(), rec.status, rec.bytes,
			time.Since(start).Milliseconds(),
		)
	})
}

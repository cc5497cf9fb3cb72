package middleware

import (
	"net/http"
)

// Response writer that remembers status and body size for logging and metrics
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusWriter) Write(p []byte) (int, error) {
	size, err := w.ResponseWriter.Write(p)
	w.size += size
	return size, err
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.status = statusCode
}

// Allow http.ResponseController to reach the wrapped writer
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/zstd"
)

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("[INFO] %s %s -> %d (%d bytes, %dms) req=%s",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
			time.Since(start).Milliseconds(), middleware.GetReqID(r.Context()))
	})
}

// zstdResponseWriter starts the encoder on the first body write, so
// responses without a body go out untouched.
type zstdResponseWriter struct {
	http.ResponseWriter
	encoder     *zstd.Encoder
	wroteHeader bool
	passthrough bool
}

func (w *zstdResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified {
		w.passthrough = true
	} else {
		w.Header().Del("Content-Length")
		w.Header().Set("Content-Encoding", "zstd")
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *zstdResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return w.ResponseWriter.Write(b)
	}
	if w.encoder == nil {
		enc, err := zstd.NewWriter(w.ResponseWriter,
			zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
		if err != nil {
			return 0, err
		}
		w.encoder = enc
	}
	return w.encoder.Write(b)
}

func (w *zstdResponseWriter) close() {
	if w.encoder == nil {
		return
	}
	if err := w.encoder.Close(); err != nil {
		log.Printf("[WARN] zstd close: %v", err)
	}
}

// zstdCompress encodes response bodies for clients that accept zstd.
func zstdCompress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if r.Method == http.MethodHead || !strings.Contains(r.Header.Get("Accept-Encoding"), "zstd") {
			next.ServeHTTP(w, r)
			return
		}
		zw := &zstdResponseWriter{ResponseWriter: w}
		defer zw.close()
		next.ServeHTTP(zw, r)
	})
}

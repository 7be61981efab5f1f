package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"callforscience/i18n"
	"callforscience/services"
)

type ctxKey int

const ctxKeyLang ctxKey = iota

// langCookie persists the language toggle across sessions.
const langCookie = "lang"

const langCookieMaxAge = 365 * 24 * 60 * 60

// requestLogger emits one structured entry per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("remote_ip", r.RemoteAddr),
				zap.String("request_id", chiMid.GetReqID(r.Context())),
			)
		})
	}
}

// locale resolves the active language: ?lang= (persisted to the cookie), then
// the cookie, then Accept-Language, then the bundle fallback.
func locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))); q != "" && bundle.IsSupported(q) {
				lang = q
				http.SetCookie(w, &http.Cookie{
					Name:     langCookie,
					Value:    q,
					Path:     "/",
					MaxAge:   langCookieMaxAge,
					SameSite: http.SameSiteLaxMode,
				})
			} else if c, err := r.Cookie(langCookie); err == nil && bundle.IsSupported(strings.ToLower(c.Value)) {
				lang = strings.ToLower(c.Value)
			} else {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			lang = services.NormaliseLang(lang)
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyLang, lang)))
		})
	}
}

// Lang returns the language resolved for r, or "es" outside the locale middleware.
func Lang(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKeyLang).(string); ok && v != "" {
		return v
	}
	return services.LangES
}

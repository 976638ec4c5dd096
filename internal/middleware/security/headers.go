package security

import "net/http"

// HeadersConfig holds security and CORS header configuration
type HeadersConfig struct {
	CSP                 string
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string

	// CORS; the API serves a separate browser frontend.
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
}

// DefaultHeadersConfig returns secure defaults for a JSON API
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP:                 "default-src 'none'; frame-ancestors 'none'",
		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "strict-origin-when-cross-origin",

		AllowOrigin:  "*",
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "Content-Type",
	}
}

// HeadersMiddleware applies security and CORS headers to responses
type HeadersMiddleware struct {
	config HeadersConfig
}

func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	return &HeadersMiddleware{config: config}
}

// Middleware sets the configured headers and short-circuits CORS preflight
// requests.
func (m *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", m.config.CSP)
		h.Set("X-Frame-Options", m.config.XFrameOptions)
		h.Set("X-Content-Type-Options", m.config.XContentTypeOptions)
		h.Set("Referrer-Policy", m.config.ReferrerPolicy)

		h.Set("Access-Control-Allow-Origin", m.config.AllowOrigin)
		h.Set("Access-Control-Allow-Methods", m.config.AllowMethods)
		h.Set("Access-Control-Allow-Headers", m.config.AllowHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

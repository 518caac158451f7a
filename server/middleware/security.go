package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SecurityPolicy describes the protective headers sent with every response.
// Empty fields leave the matching header unset.
type SecurityPolicy struct {
	// CSP directives, joined with "; "
	ContentSecurity []string
	FrameOptions    string
	ReferrerPolicy  string
	// HSTS is only sent over TLS
	HSTSMaxAge time.Duration
}

// DefaultSecurityPolicy allows the bundled front-end, which loads its script,
// stylesheet and API calls from the same origin only.
func DefaultSecurityPolicy() SecurityPolicy {
	return SecurityPolicy{
		ContentSecurity: []string{
			"default-src 'self'",
			"script-src 'self'",
			"style-src 'self'",
			"img-src 'self' data:",
			"connect-src 'self'",
			"object-src 'none'",
			"base-uri 'self'",
			"form-action 'self'",
		},
		FrameOptions:   "DENY",
		ReferrerPolicy: "strict-origin-when-cross-origin",
		HSTSMaxAge:     365 * 24 * time.Hour,
	}
}

func (p SecurityPolicy) headers() http.Header {
	h := http.Header{}
	h.Set("X-Content-Type-Options", "nosniff")
	if len(p.ContentSecurity) > 0 {
		h.Set("Content-Security-Policy", strings.Join(p.ContentSecurity, "; "))
	}
	if p.FrameOptions != "" {
		h.Set("X-Frame-Options", p.FrameOptions)
	}
	if p.ReferrerPolicy != "" {
		h.Set("Referrer-Policy", p.ReferrerPolicy)
	}
	return h
}

// SecurityHeaders applies the policy before the handler writes anything
func SecurityHeaders(policy SecurityPolicy) func(http.Handler) http.Handler {
	static := policy.headers()
	hsts := ""
	if policy.HSTSMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d; includeSubDomains", int64(policy.HSTSMaxAge/time.Second))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dst := w.Header()
			for name, values := range static {
				dst[name] = append([]string(nil), values...)
			}
			if hsts != "" && r.TLS != nil {
				dst.Set("Strict-Transport-Security", hsts)
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"log/slog"
	"net/http"

	slackapi "github.com/slack-go/slack"
)

// SlackSignature returns middleware that verifies the X-Slack-Signature and
// X-Slack-Request-Timestamp headers against the signing secret. An empty
// secret disables verification. BodyReader must run first.
func SlackSignature(signingSecret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if signingSecret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, ok := RawBody(r.Context())
			if !ok {
				http.Error(w, "request body not available for signature verification", http.StatusInternalServerError)
				return
			}

			verifier, err := slackapi.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				logger.Warn("slack signature headers rejected", "error", err, "path", r.URL.Path)
				http.Error(w, "invalid slack signature headers", http.StatusUnauthorized)
				return
			}
			if _, err := verifier.Write(body); err != nil {
				http.Error(w, "failed to verify signature", http.StatusInternalServerError)
				return
			}
			if err := verifier.Ensure(); err != nil {
				logger.Warn("slack signature mismatch", "path", r.URL.Path)
				http.Error(w, "invalid slack signature", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

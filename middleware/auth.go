package middleware

import (
	"context"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

type contextKey string

const (
	UIDKey   contextKey = "uid"
	EmailKey contextKey = "email"
)

// VerifyFirebaseToken returns a middleware that checks
// “Authorization: Bearer <idToken>” against Firebase Auth and passes the
// verified uid and email down in the request context.
func VerifyFirebaseToken(app *firebase.App) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			idToken := strings.TrimPrefix(header, "Bearer ")

			client, err := app.Auth(r.Context())
			if err != nil {
				http.Error(w, "auth init error", http.StatusInternalServerError)
				return
			}
			tok, err := client.VerifyIDToken(r.Context(), idToken)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UIDKey, tok.UID)
			ctx = context.WithValue(ctx, EmailKey, tokenEmail(tok))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenEmail(tok *auth.Token) string {
	if email, ok := tok.Claims["email"].(string); ok {
		return email
	}
	return ""
}

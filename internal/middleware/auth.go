package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"pantry-chef-api/internal/model"
	"pantry-chef-api/pkg/apierror"

	"github.com/golang-jwt/jwt/v5"
)

// PrincipalKey is the key for storing the verified principal in request context.
const PrincipalKey contextKey = "principal"

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Secret verifies HMAC-signed bearer tokens. Empty rejects every token.
	Secret string
	// Issuer, when set, must match the iss claim.
	Issuer string
	// EmailClaim names the claim carrying the user's e-mail address.
	EmailClaim string
}

// NewAuthMiddleware creates an authentication middleware with injected dependencies.
// Authentication is optional here: requests without a bearer token pass through
// anonymously and handlers decide whether they need a principal. A token that is
// present but invalid is always rejected.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	if cfg.EmailClaim == "" {
		cfg.EmailClaim = "email"
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(parserOpts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := verify(parser, cfg, token)
			if err != nil {
				log.Printf("[Auth] Rejected token (request %s): %v", GetRequestID(r.Context()), err)
				writeError(w, apierror.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var errNoSecret = errors.New("no token secret configured")

func verify(parser *jwt.Parser, cfg AuthConfig, tokenString string) (*model.Principal, error) {
	if cfg.Secret == "" {
		return nil, errNoSecret
	}

	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("sub claim missing")
	}

	email, _ := claims[cfg.EmailClaim].(string)
	return &model.Principal{ExternalID: subject, Email: email}, nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(auth[7:])
	return token, token != ""
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// GetPrincipal retrieves the verified principal from context, or nil for anonymous requests.
func GetPrincipal(ctx context.Context) *model.Principal {
	if p, ok := ctx.Value(PrincipalKey).(*model.Principal); ok {
		return p
	}
	return nil
}

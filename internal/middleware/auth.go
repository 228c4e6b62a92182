package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

type contextKey string

const (
	// ContextKeyPrincipal is the key for storing the caller in request context.
	ContextKeyPrincipal contextKey = "principal"
)

// ClientLookup finds the client a portal user represents.
type ClientLookup interface {
	GetClientByUser(ctx context.Context, userID string) (*domain.Client, error)
}

// Claims are the JWT claims issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	ClientID string `json:"client_id,omitempty"`
}

// AuthMiddleware handles Bearer JWT authentication.
type AuthMiddleware struct {
	secret  []byte
	clients ClientLookup
	parser  *jwt.Parser
}

// NewAuthMiddleware creates a new AuthMiddleware. clients resolves the client
// of a client-role token that carries no client_id claim; it may be nil.
func NewAuthMiddleware(secret string, clients ClientLookup) *AuthMiddleware {
	return &AuthMiddleware{
		secret:  []byte(secret),
		clients: clients,
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Authenticate validates the Bearer token and adds the principal to request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		principal, err := m.Principal(r.Context(), parts[1])
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			slog.Error("failed to resolve principal", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Principal parses a token into the authenticated caller.
func (m *AuthMiddleware) Principal(ctx context.Context, token string) (domain.Principal, error) {
	if len(m.secret) == 0 {
		return domain.Principal{}, fmt.Errorf("%w: jwt secret not configured", domain.ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := m.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return domain.Principal{}, fmt.Errorf("%w: subject claim required", domain.ErrInvalidToken)
	}

	p := domain.Principal{UserID: claims.Subject, Role: domain.Role(claims.Role)}
	switch p.Role {
	case domain.RoleAdmin, domain.RoleStaff:
		return p, nil
	case domain.RoleClient:
	default:
		return domain.Principal{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidToken, claims.Role)
	}

	if claims.ClientID != "" {
		p.ClientID = &claims.ClientID
		return p, nil
	}
	if m.clients == nil {
		return p, nil
	}
	client, err := m.clients.GetClientByUser(ctx, p.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return p, nil
	case err != nil:
		return domain.Principal{}, fmt.Errorf("resolve client for user %s: %w", p.UserID, err)
	}
	p.ClientID = &client.ID
	return p, nil
}

// GetPrincipalFromContext retrieves the authenticated caller from request context.
func GetPrincipalFromContext(ctx context.Context) (domain.Principal, error) {
	p, ok := ctx.Value(ContextKeyPrincipal).(domain.Principal)
	if !ok || p.UserID == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}

// IssueToken signs a token for the given caller. Used by the CLI and tests.
func IssueToken(secret string, p domain.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(p.Role),
	}
	if p.ClientID != nil {
		claims.ClientID = *p.ClientID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

package websocket

import (
	"context"
	"crypto/rsa"
	"net/http"
	"strings"

	"github.com/daniel-training/chat-backend/internal/entity"
	"github.com/daniel-training/chat-backend/internal/utils"
)

// Authenticator resolves the user behind a websocket handshake.
type AuthenticatorFunc func(r *http.Request) (*entity.User, error)

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// UserResolver looks up a registered account by its public uuid.
type UserResolver interface {
	ResolveByUUID(ctx context.Context, uuid string) (*entity.User, error)
}

// GuestMinter synthesizes a throwaway guest identity for handshakes
// that carry no token.
type GuestMinter interface {
	MintGuest(ctx context.Context) (*entity.User, error)
}

// JWTWebSocketAuth authenticates the handshake. A bearer token resolves
// to the registered account it was issued for; an absent token falls
// back to minting a guest. A present but invalid token is rejected, it
// never silently downgrades to guest.
func JWTWebSocketAuth(publicKey *rsa.PublicKey, users UserResolver, guests GuestMinter) AuthenticatorFunc {
	return func(r *http.Request) (*entity.User, error) {
		token := getTokenFromRequest(r)
		if token == "" {
			user, err := guests.MintGuest(r.Context())
			if err != nil {
				return nil, &AuthError{Message: "unable to mint guest identity"}
			}
			return user, nil
		}

		claims, err := utils.ParseAndVerifySign(token, publicKey)
		if err != nil {
			return nil, &AuthError{Message: "invalid or expired token"}
		}

		user, err := users.ResolveByUUID(r.Context(), claims.Sub)
		if err != nil {
			return nil, &AuthError{Message: "unknown account"}
		}
		return user, nil
	}
}

func getTokenFromRequest(r *http.Request) string {
	// Option 1: Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// Option 2: Query parameter
	token := r.URL.Query().Get("token")
	if token != "" {
		return token
	}

	// Option 3: Cookie
	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

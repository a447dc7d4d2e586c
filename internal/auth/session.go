// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// TokenTTLSeconds is how long issued session tokens stay valid.
	// 0 means tokens never expire.
	TokenTTLSeconds int
)

// parseTokenTTL reads TOKEN_EXPIRE_TIME (a Go duration string, or
// "never"/"0"/empty for no expiry) into TokenTTLSeconds.
func parseTokenTTL() {
	raw := os.Getenv("TOKEN_EXPIRE_TIME")
	if raw == "never" || raw == "0" || raw == "" {
		TokenTTLSeconds = 0
		return
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid TOKEN_EXPIRE_TIME %q: %v\n", raw, err)
		os.Exit(1)
	}
	TokenTTLSeconds = int(d.Seconds())
}

// Init generates a fresh ed25519 signing key pair for this process. Sessions
// do not survive a restart; clients fall back to the guest flow and re-join.
func Init() {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate session key pair: %v\n", err)
		os.Exit(1)
	}
	parseTokenTTL()
}

// InitFromPath loads an ed25519 key pair from disk instead of generating one,
// for deployments where sessions must survive restarts.
func InitFromPath(privatePath, publicPath string) error {
	priv, err := os.ReadFile(privatePath)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}
	pub, err := os.ReadFile(publicPath)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}
	privateKey = ed25519.PrivateKey(priv)
	publicKey = ed25519.PublicKey(pub)
	parseTokenTTL()
	return nil
}

// CreateJWT issues a signed session token carrying the user id as "sub".
func CreateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{"sub": userID}
	if TokenTTLSeconds > 0 {
		claims["exp"] = time.Now().Add(time.Duration(TokenTTLSeconds) * time.Second).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a session token and returns its user id.
func AuthenticateJWT(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid session token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims shape")
	}
	userID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("session token has no subject")
	}
	return userID, nil
}

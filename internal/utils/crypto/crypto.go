// Package crypto holds the RSA key pair used to sign shared-link tokens.
// Tokens are self-contained, so the public share endpoint can verify them
// before touching the database.
package crypto

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	base64_ "brandvault/internal/utils/base64"
	"brandvault/internal/utils/logger"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/ssh"
)

var log = logger.New("crypto")

var PrivateKey *rsa.PrivateKey
var PublicKey *rsa.PublicKey

// InitializeKeys loads the base64-encoded PEM private key from the
// environment. Shared links cannot be created or resolved without it.
func InitializeKeys(privateKeyEnv string) error {
	log.Info("Initializing keys")

	if privateKeyEnv == "" {
		return errors.New("private key not found")
	}

	decoded, err := base64_.DecodeFromBase64(privateKeyEnv)
	if err != nil {
		return fmt.Errorf("failed to decode private key: %w", err)
	}

	key, err := ssh.ParseRawPrivateKey([]byte(decoded))
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return errors.New("private key is not RSA")
	}

	PrivateKey = rsaKey
	PublicKey = &rsaKey.PublicKey
	return nil
}

// ShareClaims is the payload inside a shared-link token.
type ShareClaims struct {
	LinkID  string `json:"link_id"`
	AssetID string `json:"asset_id"`
	jwt.RegisteredClaims
}

// SignShareToken issues an RS256 token for one shared link. A nil expiry
// makes the token non-expiring; the link row can still be deactivated.
func SignShareToken(linkID, assetID string, expiresAt *time.Time) (string, error) {
	if PrivateKey == nil {
		return "", errors.New("private key not initialized")
	}

	claims := ShareClaims{
		LinkID:  linkID,
		AssetID: assetID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(PrivateKey)
}

// VerifyShareToken validates signature and expiry and returns the claims.
func VerifyShareToken(tokenString string) (*ShareClaims, error) {
	if PublicKey == nil {
		return nil, errors.New("public key not initialized")
	}

	claims := &ShareClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return PublicKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

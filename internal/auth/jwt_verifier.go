package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"signpost/internal/domain"
	"signpost/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms guards against algorithm confusion (e.g. HS256 signed
// with a public key).
var allowedAlgorithms = []string{"RS256", "ES256"}

// KeyfuncVerifier implements JWTVerifier on top of a jwt.Keyfunc.
type KeyfuncVerifier struct {
	keyfunc jwt.Keyfunc
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from a JWKS
// endpoint. keyfunc caches the keys and refreshes them in the background
// until Close is called.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &KeyfuncVerifier{
		keyfunc: jwks.Keyfunc,
		cancel:  cancel,
		logger:  logger,
	}, nil
}

// NewStaticVerifier creates a verifier with a fixed key lookup, for tests
// and for deployments that pin their signing keys.
func NewStaticVerifier(kf jwt.Keyfunc, logger *slog.Logger) JWTVerifier {
	return &KeyfuncVerifier{keyfunc: kf, logger: logger}
}

// VerifyToken validates a JWT token and extracts its claims.
// Every failure is reported as domain.ErrUnauthorized.
func (v *KeyfuncVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, v.keyfunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	return claims, nil
}

// Close stops the JWKS background refresh.
func (v *KeyfuncVerifier) Close() error {
	if v.cancel != nil {
		v.cancel()
	}
	v.logger.Info("JWT verifier closed")
	return nil
}

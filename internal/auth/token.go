// Package auth issues and verifies the player tokens that bind an
// authenticated identity to a single game. Tokens are ed25519-signed JWTs;
// the websocket transport verifies one on every connection and trusts
// nothing from message content afterwards.
package auth

import (
	"crypto/ed25519"
	cryptorand "crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/liarsdice/internal/id"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Issuer     string        `env:"LIARSDICE_TOKEN_ISSUER"      envDefault:"liarsdice"`
	Audience   string        `env:"LIARSDICE_TOKEN_AUDIENCE"    envDefault:"liarsdice-players"`
	PrivateKey string        `env:"LIARSDICE_TOKEN_PRIVATE_KEY"`
	TTL        time.Duration `env:"LIARSDICE_TOKEN_TTL"         envDefault:"24h"`
}

// Config defines how player tokens are minted and verified.
type Config struct {
	Issuer   string
	Audience string
	TTL      time.Duration
	Private  ed25519.PrivateKey
	Public   ed25519.PublicKey
	Now      func() time.Time
}

// Ticket is the authenticated identity extracted from a verified token.
type Ticket struct {
	PlayerID string
	GameCode string
}

// tokenClaims is the internal claims type used for JWT parsing.
type tokenClaims struct {
	jwt.RegisteredClaims
	PlayerID string `json:"player_id"`
	GameCode string `json:"game_code"`
}

// LoadConfigFromEnv reads token configuration. When no private key is set
// an ephemeral keypair is generated, which is fine for development but
// invalidates every outstanding token on restart.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw tokenEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse token env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	if issuer == "" {
		return Config{}, fmt.Errorf("LIARSDICE_TOKEN_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("LIARSDICE_TOKEN_AUDIENCE is required")
	}
	if raw.TTL <= 0 {
		return Config{}, fmt.Errorf("token ttl must be positive")
	}
	if now == nil {
		now = time.Now
	}

	cfg := Config{
		Issuer:   issuer,
		Audience: audience,
		TTL:      raw.TTL,
		Now:      now,
	}

	privateKey := strings.TrimSpace(raw.PrivateKey)
	if privateKey == "" {
		public, private, err := ed25519.GenerateKey(cryptorand.Reader)
		if err != nil {
			return Config{}, fmt.Errorf("generate token keypair: %w", err)
		}
		cfg.Private = private
		cfg.Public = public
		return cfg, nil
	}

	keyBytes, err := decodeBase64(privateKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode token private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return Config{}, fmt.Errorf("token private key must be %d bytes", ed25519.PrivateKeySize)
	}
	cfg.Private = ed25519.PrivateKey(keyBytes)
	cfg.Public = cfg.Private.Public().(ed25519.PublicKey)
	return cfg, nil
}

// Mint signs a token binding the player to the game.
func Mint(cfg Config, playerID, gameCode string) (string, error) {
	if len(cfg.Private) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("token signer is not configured")
	}
	playerID = strings.TrimSpace(playerID)
	gameCode = strings.TrimSpace(gameCode)
	if playerID == "" || gameCode == "" {
		return "", fmt.Errorf("player id and game code are required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	jti, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	issuedAt := now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(cfg.TTL)),
			ID:        jti,
		},
		PlayerID: playerID,
		GameCode: gameCode,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(cfg.Private)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token's signature and claims and returns the identity it
// binds. Every failure maps to UNAUTHORIZED; callers never learn which
// check rejected the token.
func Verify(cfg Config, token string) (Ticket, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Ticket{}, apperrors.New(apperrors.CodeUnauthorized, "token is required")
	}
	if len(cfg.Public) != ed25519.PublicKeySize {
		return Ticket{}, fmt.Errorf("token verifier is not configured")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return cfg.Public, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now() }),
	)
	if err != nil {
		return Ticket{}, apperrors.Wrap(apperrors.CodeUnauthorized, "invalid token", err)
	}

	playerID := strings.TrimSpace(parsed.PlayerID)
	gameCode := strings.TrimSpace(parsed.GameCode)
	if playerID == "" || gameCode == "" {
		return Ticket{}, apperrors.New(apperrors.CodeUnauthorized, "token is missing its identity claims")
	}
	return Ticket{PlayerID: playerID, GameCode: gameCode}, nil
}

// decodeBase64 accepts std or raw-std encoding so keys survive tools that
// strip padding.
func decodeBase64(value string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(value)
}

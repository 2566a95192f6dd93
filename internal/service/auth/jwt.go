package auth

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh"
)

var signingMethod = jwt.SigningMethodHS256

// JWTManager issues and verifies HS256 token pairs. Both kinds share one
// claim set; refresh tokens carry no username or roles.
type JWTManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTManager(secretKey, issuer string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secretKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

type AccessTokenClaims struct {
	TokenType string   `json:"token_type"`
	UserID    string   `json:"user_id"`
	Username  string   `json:"username,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func (j *JWTManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != signingMethod {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return j.secret, nil
}

// claims builds the claim set for one token of kind typ.
func (j *JWTManager) claims(user models.User, typ string, issuedAt time.Time) AccessTokenClaims {
	ttl := j.refreshTTL
	c := AccessTokenClaims{TokenType: typ, UserID: user.ID}
	if typ == AccessTokenType {
		ttl = j.accessTTL
		c.Username = user.Username
		c.Roles = user.Roles
	}
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   user.ID,
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}
	return c
}

// sign returns the token re-parsed from its signed form, so Raw and Valid are
// populated for storage.
func (j *JWTManager) sign(c AccessTokenClaims) (*jwt.Token, error) {
	signed, err := jwt.NewWithClaims(signingMethod, c).SignedString(j.secret)
	if err != nil {
		return nil, fmt.Errorf("%s token signing failed: %w", c.TokenType, err)
	}
	return j.Parse(signed)
}

func (j *JWTManager) GenerateTokenPair(user models.User) (*models.TokenPair, error) {
	now := j.now()
	access, err := j.sign(j.claims(user, AccessTokenType, now))
	if err != nil {
		return nil, err
	}
	refresh, err := j.sign(j.claims(user, RefreshTokenType, now))
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (j *JWTManager) AccessClaims(tokenStr string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	if _, err := jwt.ParseWithClaims(tokenStr, claims, j.keyFunc); err != nil {
		return nil, parseError(err)
	}
	if claims.TokenType != AccessTokenType {
		return nil, fmt.Errorf("wrong token type: expected %q, got %q", AccessTokenType, claims.TokenType)
	}
	return claims, nil
}

func (j *JWTManager) Parse(token string) (*jwt.Token, error) {
	parsed, err := jwt.Parse(token, j.keyFunc)
	if err != nil {
		return nil, parseError(err)
	}
	return parsed, nil
}

func (j *JWTManager) TokenType(token *jwt.Token, t string) bool {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	typ, _ := claims["token_type"].(string)
	return typ == t
}

func parseError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return app_errors.ErrTokenExpired
	}
	return fmt.Errorf("failed to parse token: %w", err)
}

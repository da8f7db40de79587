package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gwi.com/covalence/internal/session"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is what a verified token says about its bearer.
type Claims struct {
	Subject   string
	SessionID string
	Email     string
	Role      session.Role
}

// TokenIssuer signs and verifies HS256 tokens for the HTTP API.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate issues a token for id, bound to the session sessionID.
func (t *TokenIssuer) Generate(id *session.Identity, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("cannot issue a token without a session")
	}
	now := t.now()
	claims := jwt.MapClaims{
		"sub":   id.ID,
		"sid":   sessionID,
		"email": id.Email,
		"role":  string(id.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, fmt.Errorf("%w: missing sid", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &Claims{Subject: sub, SessionID: sid, Email: email, Role: session.Role(role)}, nil
}

package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoCookie      = errors.New("session cookie missing")
	ErrInvalidCookie = errors.New("session cookie invalid")
)

type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieCodec signs the session id into an HS256 token so a forged or
// tampered cookie is rejected before Redis is consulted.
type CookieCodec struct {
	secret []byte
	name   string
	secure bool
	ttl    time.Duration
}

func NewCookieCodec(secret, name string, secure bool, ttl time.Duration) *CookieCodec {
	return &CookieCodec{
		secret: []byte(secret),
		name:   name,
		secure: secure,
		ttl:    ttl,
	}
}

func (c *CookieCodec) Name() string {
	return c.name
}

func (c *CookieCodec) Encode(sessionID string, userID int64) (string, error) {
	now := time.Now()
	claims := &cookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

func (c *CookieCodec) Decode(value string) (string, int64, error) {
	token, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", 0, ErrInvalidCookie
	}

	claims, ok := token.Claims.(*cookieClaims)
	if !ok || claims.SessionID == "" {
		return "", 0, ErrInvalidCookie
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return "", 0, ErrInvalidCookie
	}
	return claims.SessionID, userID, nil
}

// Read extracts and verifies the session cookie of a request.
func (c *CookieCodec) Read(r *http.Request) (string, int64, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", 0, ErrNoCookie
	}
	return c.Decode(cookie.Value)
}

func (c *CookieCodec) SetCookie(w http.ResponseWriter, sessionID string, userID int64) error {
	value, err := c.Encode(sessionID, userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *CookieCodec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

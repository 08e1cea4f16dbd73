package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind selects which secret signs a token. Access and refresh tokens
// form the login session pair; reset tokens are emailed for password resets.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
	ResetToken   TokenKind = "reset"
)

const issuer = "balmandal-backend"

func secretFor(kind TokenKind) (string, error) {
	var env string
	switch kind {
	case AccessToken:
		env = "ACCESS_TOKEN_SECRET"
	case RefreshToken:
		env = "REFRESH_TOKEN_SECRET"
	case ResetToken:
		env = "RESET_TOKEN_SECRET"
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
	secret := os.Getenv(env)
	if secret == "" {
		return "", errors.New(env + " not configured")
	}
	return secret, nil
}

func ttlFor(kind TokenKind) time.Duration {
	switch kind {
	case AccessToken:
		return minutesEnv("ACCESS_TOKEN_EXP_MIN", 15)
	case RefreshToken:
		return minutesEnv("REFRESH_TOKEN_EXP_MIN", 7*24*60)
	default:
		return minutesEnv("RESET_TOKEN_EXP_MIN", 30)
	}
}

func minutesEnv(env string, def int) time.Duration {
	if val := os.Getenv(env); val != "" {
		if mins, err := strconv.Atoi(val); err == nil {
			def = mins
		}
	}
	return time.Duration(def) * time.Minute
}

// GenerateToken signs a token of the given kind for the user ID and role.
func GenerateToken(kind TokenKind, userID, role string) (string, error) {
	secret, err := secretFor(kind)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"kind": string(kind),
		"iat":  now.Unix(),
		"iss":  issuer,
		"exp":  now.Add(ttlFor(kind)).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token of the given kind and returns the subject user
// ID and role. A token signed as one kind does not verify as another.
func ParseToken(kind TokenKind, tokenStr string) (userID, role string, err error) {
	secret, err := secretFor(kind)
	if err != nil {
		return "", "", err
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid token claims")
	}
	if k, _ := claims["kind"].(string); k != string(kind) {
		return "", "", fmt.Errorf("token is not a %s token", kind)
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("invalid token subject")
	}
	role, _ = claims["role"].(string)
	return sub, role, nil
}

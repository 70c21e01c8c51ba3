package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"labbook/pkg/model"
)

// IssueToken signs an HS256 session token carrying the user's identity and
// role. Only the resolved actor matters downstream; the booking core never
// re-checks credentials.
func IssueToken(secret string, userID string, role model.Role, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken validates a session token and returns the actor it names.
func ParseToken(secret, tokenStr string) (model.Actor, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return model.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.Actor{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	role := model.Role(roleStr)
	if sub == "" || !role.Valid() {
		return model.Actor{}, fmt.Errorf("token missing subject or role")
	}

	return model.Actor{ID: sub, Role: role}, nil
}

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by a bearer token.
type Claims struct {
	UserID int64
	Role   string
}

// TokenManager signs and verifies HS256 tokens. Admin tokens get their own
// lifetime.
type TokenManager struct {
	secret   []byte
	userTTL  time.Duration
	adminTTL time.Duration
}

func NewTokenManager(secret string, userTTL, adminTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), userTTL: userTTL, adminTTL: adminTTL}
}

// GenerateToken creates a token for the given identity. The lifetime
// depends on the role.
func (m *TokenManager) GenerateToken(userID int64, role string) (string, error) {
	ttl := m.userTTL
	if role == "admin" {
		ttl = m.adminTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and verifies a token string.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	// JSON numbers decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, errors.New("invalid subject claim")
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, errors.New("invalid role claim")
	}
	return &Claims{UserID: int64(sub), Role: role}, nil
}

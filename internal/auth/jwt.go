package auth

import (
	"errors"
	"time"

	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Claims struct {
	Role  hierarchy.Role `json:"role"`
	EmpID string         `json:"emp_id"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

func NewJWTManager(secret string, expirationHours int, issuer string) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		expiration: time.Duration(expirationHours) * time.Hour,
		issuer:     issuer,
		now:        timeutil.Now,
	}
}

// GenerateToken issues a token for an employee or, with hierarchy.AdminID,
// for the admin principal.
func (j *JWTManager) GenerateToken(role hierarchy.Role, empID string) (string, error) {
	now := j.now()

	claims := &Claims{
		Role:  role,
		EmpID: empID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   empID,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateToken verifies a token and returns its claims. Expired tokens
// return ErrExpiredToken; everything else that fails is ErrInvalidToken.
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return j.secret, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, ok := hierarchy.ParseRole(string(claims.Role)); !ok || claims.EmpID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

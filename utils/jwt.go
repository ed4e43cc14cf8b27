package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Psychotichub/report/models"
)

// Secret is overridden from JWT_SECRET in main.
var Secret = []byte("fallback_secret_only_for_development")

// Claims is the identity token payload. Site/Company are empty for managers
// (and for admins that administer no fixed site); everything downstream
// treats that as "tenant must come from hints or history".
type Claims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Site     string `json:"site,omitempty"`
	Company  string `json:"company,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(u *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		Site:     u.Site,
		Company:  u.Company,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(Secret)
}

func VerifyToken(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}

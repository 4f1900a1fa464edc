package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"diancan_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Fenêtre de validité du token commerçant
const TokenLifetime = 7 * 24 * time.Hour

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerateJWT émet un token lié à l'identité du commerçant
func GenerateJWT(merchant models.Merchant) (string, error) {
	claims := jwt.MapClaims{
		"merchant_id": merchant.ID.Hex(),
		"exp":         time.Now().Add(TokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseMerchantID vérifie signature et expiration puis extrait l'identifiant
func ParseMerchantID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("claims invalides")
	}

	merchantID, ok := claims["merchant_id"].(string)
	if !ok || merchantID == "" {
		return "", errors.New("merchant_id manquant")
	}
	return merchantID, nil
}

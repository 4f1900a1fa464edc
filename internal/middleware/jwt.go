package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"diancan_back_end/internal/repository"
	"diancan_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clés posées dans le contexte Gin par AuthRequired
const (
	CtxMerchantID = "merchant_id"
	CtxMerchant   = "merchant"
)

// AuthRequired — porte d'authentification commerçant. Décode le token Bearer,
// vérifie signature et expiration, puis confirme que le commerçant existe
// toujours. Tout échec produit le même 401, seul le message varie.
func AuthRequired(merchants repository.MerchantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token manquant"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Format Authorization invalide"})
			c.Abort()
			return
		}

		merchantHex, err := utils.ParseMerchantID(parts[1])
		if err != nil {
			log.Printf("❌ Erreur parsing JWT: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
			c.Abort()
			return
		}

		merchantID, err := primitive.ObjectIDFromHex(merchantHex)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Le token peut survivre au compte : on revérifie l'existence
		merchant, err := merchants.FindByID(ctx, merchantID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Commerçant introuvable"})
			c.Abort()
			return
		}

		c.Set(CtxMerchantID, merchant.ID)
		c.Set(CtxMerchant, *merchant)
		c.Next()
	}
}

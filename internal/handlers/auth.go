package handlers

import (
	"context"
	"net/http"
	"time"

	"diancan_back_end/internal/middleware"
	"diancan_back_end/internal/models"
	"diancan_back_end/internal/repository"
	"diancan_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	merchants repository.MerchantRepository
}

func NewAuthHandler(merchants repository.MerchantRepository) *AuthHandler {
	return &AuthHandler{merchants: merchants}
}

// Register — POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		ShopName    string `json:"shopName"`
		ContactInfo string `json:"contactInfo"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}

	if input.Username == "" || input.Password == "" || input.ShopName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom d'utilisateur, mot de passe et nom de boutique sont obligatoires"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	merchant := models.Merchant{
		Username:    input.Username,
		Password:    hashedPassword,
		ShopName:    input.ShopName,
		ContactInfo: input.ContactInfo,
	}

	// L'index unique sur username tranche les courses entre inscriptions simultanées
	if err := h.merchants.Create(ctx, &merchant); err != nil {
		if err == repository.ErrDuplicateUsername {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nom d'utilisateur déjà pris"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	token, err := utils.GenerateJWT(merchant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Inscription réussie",
		"token":   token,
		"merchant": gin.H{
			"id":       merchant.ID.Hex(),
			"username": merchant.Username,
			"shopName": merchant.ShopName,
		},
	})
}

// Login — POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}

	if input.Username == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom d'utilisateur et mot de passe sont obligatoires"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	merchant, err := h.merchants.FindByUsername(ctx, input.Username)
	if err == repository.ErrNotFound {
		// Même message que pour un mauvais mot de passe : on ne révèle pas
		// quel identifiant existe
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Nom d'utilisateur ou mot de passe incorrect"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if !utils.VerifyPassword(input.Password, merchant.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Nom d'utilisateur ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(*merchant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Connexion réussie",
		"token":   token,
		"merchant": gin.H{
			"id":       merchant.ID.Hex(),
			"username": merchant.Username,
			"shopName": merchant.ShopName,
		},
	})
}

// Me — GET /api/auth/me (authentifié)
func (h *AuthHandler) Me(c *gin.Context) {
	merchant := c.MustGet(middleware.CtxMerchant).(models.Merchant)

	c.JSON(http.StatusOK, gin.H{
		"merchant": gin.H{
			"id":          merchant.ID.Hex(),
			"username":    merchant.Username,
			"shopName":    merchant.ShopName,
			"contactInfo": merchant.ContactInfo,
		},
	})
}

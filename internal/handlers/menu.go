package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"diancan_back_end/internal/middleware"
	"diancan_back_end/internal/models"
	"diancan_back_end/internal/repository"
	"diancan_back_end/internal/services"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuHandler struct {
	menu      repository.MenuRepository
	merchants repository.MerchantRepository
	images    *services.ImageStore
}

func NewMenuHandler(menu repository.MenuRepository, merchants repository.MerchantRepository, images *services.ImageStore) *MenuHandler {
	return &MenuHandler{menu: menu, merchants: merchants, images: images}
}

// List — GET /api/menu?category= (public, côté client)
// Montre les plats disponibles ; les anciennes données sans flag restent visibles.
func (h *MenuHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.menu.FindPublic(ctx, c.Query("category"))
	if err != nil {
		log.Println("❌ Erreur listing plats:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	h.populateShopNames(ctx, items)
	c.JSON(http.StatusOK, items)
}

// ByIDs — GET /api/menu/by-ids?ids=a,b,c (public, panier)
// Liste vide, pas une erreur, quand aucun id n'est fourni.
func (h *MenuHandler) ByIDs(c *gin.Context) {
	idsParam := c.Query("ids")
	ids := []primitive.ObjectID{}
	for _, raw := range strings.Split(idsParam, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		c.JSON(http.StatusOK, []models.MenuItem{})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.menu.FindAvailableByIDs(ctx, ids)
	if err != nil {
		log.Println("❌ Erreur plats par ids:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetByID — GET /api/menu/:id (public)
func (h *MenuHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.menu.FindByID(ctx, id)
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if merchant, err := h.merchants.FindByID(ctx, item.MerchantID); err == nil {
		summary := merchant.Summary()
		item.Merchant = &summary
	}
	c.JSON(http.StatusOK, item)
}

// Create — POST /api/menu (authentifié, multipart avec image optionnelle)
func (h *MenuHandler) Create(c *gin.Context) {
	merchantID := c.MustGet(middleware.CtxMerchantID).(primitive.ObjectID)

	name := c.PostForm("name")
	priceStr := c.PostForm("price")
	category := c.PostForm("category")

	if name == "" || priceStr == "" || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, prix et catégorie sont obligatoires"})
		return
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
		return
	}
	if !models.IsValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil {
		imageURL, err = h.images.Upload(ctx, file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	available := true
	item := models.MenuItem{
		Name:        name,
		Description: c.PostForm("description"),
		Price:       price,
		Category:    category,
		ImageURL:    imageURL,
		MerchantID:  merchantID,
		IsAvailable: &available,
	}

	if err := h.menu.Create(ctx, &item); err != nil {
		log.Println("❌ Erreur création plat:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Update — PUT /api/menu/:id (authentifié, multipart, mise à jour partielle)
func (h *MenuHandler) Update(c *gin.Context) {
	merchantID := c.MustGet(middleware.CtxMerchantID).(primitive.ObjectID)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	item, err := h.menu.FindByID(ctx, id)
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	// Contrôle de propriété : 403, distinct du 404
	if item.MerchantID != merchantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vous ne pouvez pas modifier ce plat"})
		return
	}

	if name := c.PostForm("name"); name != "" {
		item.Name = name
	}
	if description, ok := c.GetPostForm("description"); ok {
		item.Description = description
	}
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
			return
		}
		item.Price = price
	}
	if category := c.PostForm("category"); category != "" {
		if !models.IsValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie invalide"})
			return
		}
		item.Category = category
	}
	if availableStr, ok := c.GetPostForm("isAvailable"); ok {
		available := availableStr == "true"
		item.IsAvailable = &available
	}

	// Nouvelle image : l'ancienne est supprimée, best effort
	if file, err := c.FormFile("image"); err == nil {
		newURL, err := h.images.Upload(ctx, file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.images.Remove(ctx, item.ImageURL)
		item.ImageURL = newURL
	}

	if err := h.menu.Update(ctx, item); err != nil {
		log.Println("❌ Erreur mise à jour plat:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete — DELETE /api/menu/:id (authentifié)
func (h *MenuHandler) Delete(c *gin.Context) {
	merchantID := c.MustGet(middleware.CtxMerchantID).(primitive.ObjectID)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	item, err := h.menu.FindByID(ctx, id)
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if item.MerchantID != merchantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vous ne pouvez pas supprimer ce plat"})
		return
	}

	if err := h.menu.Delete(ctx, id); err != nil {
		log.Println("❌ Erreur suppression plat:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	// La suppression du plat emporte son image stockée
	h.images.Remove(ctx, item.ImageURL)

	c.JSON(http.StatusOK, gin.H{"message": "Plat supprimé"})
}

// MyItems — GET /api/menu/merchant/my-items (authentifié)
func (h *MenuHandler) MyItems(c *gin.Context) {
	merchantID := c.MustGet(middleware.CtxMerchantID).(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.menu.FindByMerchant(ctx, merchantID)
	if err != nil {
		log.Println("❌ Erreur plats du commerçant:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// StorefrontQRCode — GET /api/menu/merchant/qrcode (authentifié)
// PNG à imprimer sur table, pointant vers la vitrine publique du commerçant.
func (h *MenuHandler) StorefrontQRCode(c *gin.Context) {
	merchantID := c.MustGet(middleware.CtxMerchantID).(primitive.ObjectID)

	base := os.Getenv("FRONTEND_URL")
	if base == "" {
		base = "http://localhost:3001"
	}
	url := base + "/?merchant=" + merchantID.Hex()

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// populateShopNames remplit la projection commerçant (nom de boutique seulement)
func (h *MenuHandler) populateShopNames(ctx context.Context, items []models.MenuItem) {
	if len(items) == 0 {
		return
	}
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, item := range items {
		if !seen[item.MerchantID] {
			seen[item.MerchantID] = true
			ids = append(ids, item.MerchantID)
		}
	}

	merchants, err := h.merchants.FindByIDs(ctx, ids)
	if err != nil {
		log.Println("⚠️ Projection commerçants incomplète:", err)
		return
	}
	for i := range items {
		if m, ok := merchants[items[i].MerchantID]; ok {
			summary := m.Summary()
			items[i].Merchant = &summary
		}
	}
}

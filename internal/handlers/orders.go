package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"diancan_back_end/internal/database"
	"diancan_back_end/internal/middleware"
	"diancan_back_end/internal/models"
	"diancan_back_end/internal/repository"
	"diancan_back_end/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderHandler struct {
	intake    *service.OrderService
	orders    repository.OrderRepository
	merchants repository.MerchantRepository

	// Notification best effort après création (e-mail commerçant)
	notify func(models.Order, models.Merchant)
}

func NewOrderHandler(intake *service.OrderService, orders repository.OrderRepository, merchants repository.MerchantRepository, notify func(models.Order, models.Merchant)) *OrderHandler {
	return &OrderHandler{intake: intake, orders: orders, merchants: merchants, notify: notify}
}

// Create — POST /api/orders (public, côté client)
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	order, err := h.intake.CreateOrder(ctx, req)
	if err != nil {
		var notFound *service.ItemNotFoundError
		var unavailable *service.ItemUnavailableError
		var crossMerchant *service.CrossMerchantError
		switch {
		case errors.Is(err, service.ErrEmptyOrder),
			errors.Is(err, service.ErrMissingMerchant),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.As(err, &notFound),
			errors.As(err, &unavailable),
			errors.As(err, &crossMerchant):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Println("❌ Erreur création commande:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		}
		return
	}

	// Projection commerçant + notifications, hors du chemin critique
	if merchant, err := h.merchants.FindByID(ctx, order.MerchantID); err == nil {
		summary := merchant.Summary()
		order.Merchant = &summary
		if h.notify != nil {
			go h.notify(*order, *merchant)
		}
	}
	publishOrder(*order)

	c.JSON(http.StatusCreated, order)
}

// MyOrders — GET /api/orders/merchant/my-orders?status= (authentifié)
func (h *OrderHandler) MyOrders(c *gin.Context) {
	merchantID := c.MustGet(middleware.CtxMerchantID).(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.orders.FindByMerchant(ctx, merchantID, c.Query("status"))
	if err != nil {
		log.Println("❌ Erreur listing commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetByID — GET /api/orders/:id (authentifié)
func (h *OrderHandler) GetByID(c *gin.Context) {
	merchantID := c.MustGet(middleware.CtxMerchantID).(primitive.ObjectID)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.orders.FindByID(ctx, id)
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if order.MerchantID != merchantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vous ne pouvez pas consulter cette commande"})
		return
	}

	if merchant, err := h.merchants.FindByID(ctx, order.MerchantID); err == nil {
		summary := merchant.Summary()
		order.Merchant = &summary
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus — PATCH /api/orders/:id/status (authentifié)
// Les items et le total sont figés à la création ; seul le statut bouge.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	merchantID := c.MustGet(middleware.CtxMerchantID).(primitive.ObjectID)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.IsValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut de commande invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.orders.FindByID(ctx, id)
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if order.MerchantID != merchantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vous ne pouvez pas modifier cette commande"})
		return
	}

	if err := h.orders.UpdateStatus(ctx, id, input.Status); err != nil {
		log.Println("❌ Erreur mise à jour statut:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	order.Status = input.Status
	c.JSON(http.StatusOK, order)
}

// publishOrder pousse la commande sur le canal du commerçant.
// Sans Redis configuré, le flux temps réel est simplement absent.
func publishOrder(order models.Order) {
	if database.Redis == nil {
		return
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := database.Redis.Publish(ctx, "orders:"+order.MerchantID.Hex(), payload).Err(); err != nil {
		log.Println("⚠️ Publication commande échouée:", err)
	}
}

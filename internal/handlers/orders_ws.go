package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"diancan_back_end/internal/database"
	"diancan_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// Stream — GET /api/orders/merchant/stream (authentifié)
// Pousse chaque nouvelle commande du commerçant connecté via WebSocket.
func (h *OrderHandler) Stream(c *gin.Context) {
	merchantID := c.MustGet(middleware.CtxMerchantID).(primitive.ObjectID)

	if database.Redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Flux temps réel non disponible"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	// S'abonner au canal Redis de ce commerçant
	pubsub := database.Redis.Subscribe(ctx, "orders:"+merchantID.Hex())
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Flux de commandes activé",
	})

	// Boucle d'écoute
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package main

import (
	"context"
	"log"
	"os"
	"time"

	"diancan_back_end/internal/config"
	"diancan_back_end/internal/database"
	"diancan_back_end/internal/handlers"
	"diancan_back_end/internal/repository"
	"diancan_back_end/internal/routes"
	"diancan_back_end/internal/service"
	"diancan_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal("❌ Erreur création des index:", err)
	}

	merchants := repository.NewMongoMerchantRepository(database.MongoDB)
	menu := repository.NewMongoMenuRepository(database.MongoDB)
	orders := repository.NewMongoOrderRepository(database.MongoDB)

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "uploads"
	}
	images := services.NewImageStore(database.MinIO, bucket)

	intake := service.NewOrderService(menu, orders)

	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(merchants),
		Menu:      handlers.NewMenuHandler(menu, merchants, images),
		Orders:    handlers.NewOrderHandler(intake, orders, merchants, services.NotifyNewOrder),
		Health:    handlers.NewHealthHandler(database.HealthCheck),
		Uploads:   handlers.NewUploadsHandler(images),
		Merchants: merchants,
	}

	r := gin.Default()
	routes.RegisterRoutes(r, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Println("🚀 Serveur lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Serveur arrêté:", err)
	}
}

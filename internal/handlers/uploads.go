package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"diancan_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

type UploadsHandler struct {
	images *services.ImageStore
}

func NewUploadsHandler(images *services.ImageStore) *UploadsHandler {
	return &UploadsHandler{images: images}
}

// Serve — GET /uploads/:filename
// Les images restent accessibles sous le même préfixe public que l'ancien back,
// le stockage objet derrière.
func (h *UploadsHandler) Serve(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image introuvable"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	obj, info, err := h.images.Open(ctx, filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image introuvable"})
		return
	}
	defer obj.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, obj, nil)
}

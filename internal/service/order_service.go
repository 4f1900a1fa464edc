package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"diancan_back_end/internal/models"
	"diancan_back_end/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyOrder      = errors.New("la commande ne peut pas être vide")
	ErrMissingMerchant = errors.New("l'identifiant du commerçant est obligatoire")
	ErrInvalidQuantity = errors.New("la quantité doit être au moins 1")
)

// ItemNotFoundError — un plat demandé n'existe pas dans le catalogue
type ItemNotFoundError struct {
	MenuItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("plat %s introuvable", e.MenuItemID)
}

// ItemUnavailableError — un plat demandé est retiré de la vente
type ItemUnavailableError struct {
	Name string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("plat %s indisponible", e.Name)
}

// CrossMerchantError — la commande mélange des plats d'un autre commerçant
type CrossMerchantError struct{}

func (e *CrossMerchantError) Error() string {
	return "la commande contient des plats n'appartenant pas à ce commerçant"
}

type OrderItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Items        []OrderItemRequest  `json:"items"`
	MerchantID   string              `json:"merchantId"`
	CustomerInfo models.CustomerInfo `json:"customerInfo"`
}

// OrderService — flux de création de commande : revalidation du panier contre
// l'état courant du catalogue, calcul du total côté serveur, instantané figé.
type OrderService struct {
	menu   repository.MenuRepository
	orders repository.OrderRepository
}

func NewOrderService(menu repository.MenuRepository, orders repository.OrderRepository) *OrderService {
	return &OrderService{menu: menu, orders: orders}
}

// CreateOrder valide chaque ligne contre le catalogue puis persiste la commande.
// Le total est toujours recalculé depuis les prix catalogue au moment de la
// validation — jamais depuis un prix fourni par le client, dont le panier peut
// être périmé. Tout échec rejette la commande entière, sans écriture partielle.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if req.MerchantID == "" {
		return nil, ErrMissingMerchant
	}
	merchantID, err := primitive.ObjectIDFromHex(req.MerchantID)
	if err != nil {
		return nil, ErrMissingMerchant
	}

	var totalPrice float64
	orderItems := make([]models.OrderItem, 0, len(req.Items))

	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		itemID, err := primitive.ObjectIDFromHex(line.MenuItemID)
		if err != nil {
			return nil, &ItemNotFoundError{MenuItemID: line.MenuItemID}
		}

		menuItem, err := s.menu.FindByID(ctx, itemID)
		if err == repository.ErrNotFound {
			return nil, &ItemNotFoundError{MenuItemID: line.MenuItemID}
		}
		if err != nil {
			return nil, err
		}

		if !menuItem.Available() {
			return nil, &ItemUnavailableError{Name: menuItem.Name}
		}
		if menuItem.MerchantID != merchantID {
			return nil, &CrossMerchantError{}
		}

		totalPrice += menuItem.Price * float64(line.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   line.Quantity,
		})
	}

	order := &models.Order{
		OrderNumber:  GenerateOrderNumber(),
		Items:        orderItems,
		TotalPrice:   totalPrice,
		Status:       models.StatusPending,
		MerchantID:   merchantID,
		CustomerInfo: req.CustomerInfo,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GenerateOrderNumber — horodatage milliseconde + suffixe aléatoire sur 4 chiffres.
// Pas de boucle de retry : l'index unique du registre rejette l'improbable doublon.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD%d%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

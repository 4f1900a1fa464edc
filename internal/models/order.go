package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts de commande (valeurs historiques de l'API, ne pas traduire)
const (
	StatusPending   = "待处理"
	StatusCompleted = "已完成"
	StatusCancelled = "已取消"

	// Sentinelle "tous statuts" côté listing commerçant
	StatusAll = "全部"
)

func IsValidStatus(status string) bool {
	return status == StatusPending || status == StatusCompleted || status == StatusCancelled
}

// OrderItem — instantané figé d'un plat au moment de l'achat.
// Le prix ne se recalcule jamais depuis le catalogue après création.
type OrderItem struct {
	MenuItemID primitive.ObjectID `bson:"menuItemId" json:"menuItemId"`
	Name       string             `bson:"name" json:"name"`
	Price      float64            `bson:"price" json:"price"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}

type CustomerInfo struct {
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	Note    string `bson:"note,omitempty" json:"note,omitempty"`
}

// Order — commande immuable (items et total) hormis le champ status
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber  string             `bson:"orderNumber" json:"orderNumber"`
	Items        []OrderItem        `bson:"items" json:"items"`
	TotalPrice   float64            `bson:"totalPrice" json:"totalPrice"`
	Status       string             `bson:"status" json:"status"`
	MerchantID   primitive.ObjectID `bson:"merchantId" json:"merchantId"`
	CustomerInfo CustomerInfo       `bson:"customerInfo" json:"customerInfo"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Rempli à la lecture, jamais persisté
	Merchant *MerchantSummary `bson:"-" json:"merchant,omitempty"`
}

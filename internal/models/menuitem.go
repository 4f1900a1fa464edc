package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catégories fixes des plats (valeurs historiques de l'API, ne pas traduire)
const (
	CategoryMain  = "主菜"
	CategorySoup  = "汤"
	CategorySnack = "小吃"
	CategoryDrink = "饮料"

	// Sentinelle "toutes catégories" côté listing public
	CategoryAll = "全部"
)

var Categories = []string{CategoryMain, CategorySoup, CategorySnack, CategoryDrink}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// MenuItem — un plat appartenant à exactement un commerçant.
// IsAvailable est un pointeur : nil correspond aux anciennes données sans le champ,
// traitées comme disponibles dans le listing public.
type MenuItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	MerchantID  primitive.ObjectID `bson:"merchantId" json:"merchantId"`
	IsAvailable *bool              `bson:"isAvailable,omitempty" json:"isAvailable,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Rempli à la lecture, jamais persisté
	Merchant *MerchantSummary `bson:"-" json:"merchant,omitempty"`
}

// Available — règle de compatibilité : flag absent = disponible
func (m MenuItem) Available() bool {
	return m.IsAvailable == nil || *m.IsAvailable
}

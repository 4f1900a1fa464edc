package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Merchant — compte commerçant, frontière de propriété des plats et des commandes
type Merchant struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username    string             `bson:"username" json:"username"`
	Password    string             `bson:"password" json:"-"`
	ShopName    string             `bson:"shopName" json:"shopName"`
	ContactInfo string             `bson:"contactInfo,omitempty" json:"contactInfo,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MerchantSummary — projection publique (nom de boutique uniquement)
type MerchantSummary struct {
	ID       primitive.ObjectID `json:"id"`
	ShopName string             `json:"shopName"`
}

func (m Merchant) Summary() MerchantSummary {
	return MerchantSummary{ID: m.ID, ShopName: m.ShopName}
}

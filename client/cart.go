package client

import (
	"context"
)

// Entry — ligne de panier. Les champs snapshot (nom, prix, image) sont
// optionnels : une entrée issue d'une migration ne porte que l'id et la
// quantité, et sera enrichie depuis le catalogue au rendu.
type Entry struct {
	MenuItemID string   `json:"menuItemId"`
	Quantity   int      `json:"quantity"`
	Name       *string  `json:"name,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	ImageURL   *string  `json:"imageUrl,omitempty"`
}

// NeedsEnrichment — l'entrée n'a pas de snapshot et doit être complétée
// depuis le catalogue
func (e Entry) NeedsEnrichment() bool {
	return e.Name == nil
}

// MenuFetcher — lookup catalogue en lot, satisfait par *API
type MenuFetcher interface {
	MenuByIDs(ctx context.Context, ids []string) ([]MenuItemView, error)
}

// Cart — panier local possédé, chargé à l'initialisation et sauvegardé à
// chaque mutation. Le panier entier est rattaché à un seul commerçant.
type Cart struct {
	store      Store
	merchantID string
	entries    []Entry
}

// NewCart charge l'état persisté
func NewCart(store Store) (*Cart, error) {
	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Cart{
		store:      store,
		merchantID: state.MerchantID,
		entries:    state.Entries,
	}, nil
}

func (c *Cart) MerchantID() string { return c.merchantID }

func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Cart) IsEmpty() bool { return len(c.entries) == 0 }

// Add ajoute un plat avec son snapshot nom/prix/image pris au moment de
// l'ajout. Un plat d'un autre commerçant vide d'abord le panier.
func (c *Cart) Add(item MenuItemView) error {
	if c.merchantID != "" && c.merchantID != item.MerchantID {
		c.entries = nil
	}
	c.merchantID = item.MerchantID

	for i := range c.entries {
		if c.entries[i].MenuItemID == item.ID {
			c.entries[i].Quantity++
			return c.save()
		}
	}

	name, price, image := item.Name, item.Price, item.ImageURL
	c.entries = append(c.entries, Entry{
		MenuItemID: item.ID,
		Quantity:   1,
		Name:       &name,
		Price:      &price,
		ImageURL:   &image,
	})
	return c.save()
}

func (c *Cart) Remove(menuItemID string) error {
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.MenuItemID != menuItemID {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	if len(c.entries) == 0 {
		c.merchantID = ""
	}
	return c.save()
}

// SetQuantity fixe la quantité d'une ligne ; zéro ou moins la retire
func (c *Cart) SetQuantity(menuItemID string, quantity int) error {
	if quantity <= 0 {
		return c.Remove(menuItemID)
	}
	for i := range c.entries {
		if c.entries[i].MenuItemID == menuItemID {
			c.entries[i].Quantity = quantity
			return c.save()
		}
	}
	return nil
}

func (c *Cart) Clear() error {
	c.entries = nil
	c.merchantID = ""
	return c.save()
}

func (c *Cart) TotalCount() int {
	total := 0
	for _, e := range c.entries {
		total += e.Quantity
	}
	return total
}

// NeedsEnrichment — au moins une entrée sans snapshot
func (c *Cart) NeedsEnrichment() bool {
	for _, e := range c.entries {
		if e.NeedsEnrichment() {
			return true
		}
	}
	return false
}

// Reconcile complète les entrées sans snapshot depuis le catalogue, en lot.
// Fusion first-write-wins : un champ déjà en cache n'est jamais écrasé par la
// valeur fraîche — un snapshot pris avant un changement de prix survit à la
// session. Annulable via ctx, l'état n'est sauvegardé qu'en cas de succès.
func (c *Cart) Reconcile(ctx context.Context, fetcher MenuFetcher) error {
	if !c.NeedsEnrichment() {
		return nil
	}

	ids := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		ids = append(ids, e.MenuItemID)
	}

	items, err := fetcher.MenuByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		// Réponse périmée : les entrées déclenchantes ont changé, on jette
		return err
	}

	byID := make(map[string]MenuItemView, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	for i := range c.entries {
		item, ok := byID[c.entries[i].MenuItemID]
		if !ok {
			continue
		}
		if c.entries[i].Name == nil {
			name := item.Name
			c.entries[i].Name = &name
		}
		if c.entries[i].Price == nil {
			price := item.Price
			c.entries[i].Price = &price
		}
		if c.entries[i].ImageURL == nil {
			image := item.ImageURL
			c.entries[i].ImageURL = &image
		}
	}
	return c.save()
}

// PriceFromCatalog calcule le total contre une liste catalogue faisant
// autorité. Les entrées absentes de la liste comptent pour zéro.
func (c *Cart) PriceFromCatalog(items []MenuItemView) float64 {
	byID := make(map[string]MenuItemView, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	total := 0.0
	for _, e := range c.entries {
		if item, ok := byID[e.MenuItemID]; ok {
			total += item.Price * float64(e.Quantity)
		}
	}
	return total
}

// PriceFromCachedSnapshot calcule le total depuis les prix en cache.
// Les entrées non encore enrichies comptent pour zéro.
func (c *Cart) PriceFromCachedSnapshot() float64 {
	total := 0.0
	for _, e := range c.entries {
		if e.Price != nil {
			total += *e.Price * float64(e.Quantity)
		}
	}
	return total
}

// OrderItems — lignes prêtes pour POST /api/orders
func (c *Cart) OrderItems() []OrderItemInput {
	items := make([]OrderItemInput, 0, len(c.entries))
	for _, e := range c.entries {
		items = append(items, OrderItemInput{MenuItemID: e.MenuItemID, Quantity: e.Quantity})
	}
	return items
}

func (c *Cart) save() error {
	return c.store.Save(State{MerchantID: c.merchantID, Entries: c.entries})
}

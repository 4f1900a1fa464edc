package handlers_test

import (
	"context"
	"sort"
	"time"

	"diancan_back_end/internal/handlers"
	"diancan_back_end/internal/models"
	"diancan_back_end/internal/repository"
	"diancan_back_end/internal/routes"
	"diancan_back_end/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dépôts en mémoire reproduisant le comportement des implémentations Mongo

type memMerchantRepo struct {
	merchants map[primitive.ObjectID]models.Merchant
}

func newMemMerchantRepo() *memMerchantRepo {
	return &memMerchantRepo{merchants: map[primitive.ObjectID]models.Merchant{}}
}

func (r *memMerchantRepo) Create(ctx context.Context, merchant *models.Merchant) error {
	for _, m := range r.merchants {
		if m.Username == merchant.Username {
			return repository.ErrDuplicateUsername
		}
	}
	now := time.Now()
	merchant.ID = primitive.NewObjectID()
	merchant.CreatedAt = now
	merchant.UpdatedAt = now
	r.merchants[merchant.ID] = *merchant
	return nil
}

func (r *memMerchantRepo) FindByUsername(ctx context.Context, username string) (*models.Merchant, error) {
	for _, m := range r.merchants {
		if m.Username == username {
			merchant := m
			return &merchant, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memMerchantRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error) {
	m, ok := r.merchants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *memMerchantRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Merchant, error) {
	out := map[primitive.ObjectID]models.Merchant{}
	for _, id := range ids {
		if m, ok := r.merchants[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

type memMenuRepo struct {
	items map[primitive.ObjectID]models.MenuItem
	seq   int
}

func newMemMenuRepo() *memMenuRepo {
	return &memMenuRepo{items: map[primitive.ObjectID]models.MenuItem{}}
}

func (r *memMenuRepo) Create(ctx context.Context, item *models.MenuItem) error {
	r.seq++
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = *item
	return nil
}

func (r *memMenuRepo) FindPublic(ctx context.Context, category string) ([]models.MenuItem, error) {
	out := []models.MenuItem{}
	for _, item := range r.items {
		if !item.Available() {
			continue
		}
		if category != "" && category != models.CategoryAll && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memMenuRepo) FindAvailableByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.MenuItem, error) {
	out := []models.MenuItem{}
	for _, id := range ids {
		if item, ok := r.items[id]; ok && item.Available() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memMenuRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (r *memMenuRepo) FindByMerchant(ctx context.Context, merchantID primitive.ObjectID) ([]models.MenuItem, error) {
	out := []models.MenuItem{}
	for _, item := range r.items {
		if item.MerchantID == merchantID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memMenuRepo) Update(ctx context.Context, item *models.MenuItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

func (r *memMenuRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memOrderRepo struct {
	orders map[primitive.ObjectID]models.Order
	seq    int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[primitive.ObjectID]models.Order{}}
}

func (r *memOrderRepo) Insert(ctx context.Context, order *models.Order) error {
	for _, o := range r.orders {
		if o.OrderNumber == order.OrderNumber {
			return repository.ErrDuplicateOrderNumber
		}
	}
	r.seq++
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	return nil
}

func (r *memOrderRepo) FindByMerchant(ctx context.Context, merchantID primitive.ObjectID, status string) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range r.orders {
		if o.MerchantID != merchantID {
			continue
		}
		if status != "" && status != models.StatusAll && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memOrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.orders[id] = o
	return nil
}

type testEnv struct {
	router    *gin.Engine
	merchants *memMerchantRepo
	menu      *memMenuRepo
	orders    *memOrderRepo
}

// newTestEnv assemble le routeur complet sur des dépôts en mémoire
// (ni Redis ni MinIO : rate limiting et images sont neutres en test)
func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	merchants := newMemMerchantRepo()
	menu := newMemMenuRepo()
	orders := newMemOrderRepo()

	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(merchants),
		Menu:      handlers.NewMenuHandler(menu, merchants, nil),
		Orders:    handlers.NewOrderHandler(service.NewOrderService(menu, orders), orders, merchants, nil),
		Health:    handlers.NewHealthHandler(func(ctx context.Context) error { return nil }),
		Uploads:   handlers.NewUploadsHandler(nil),
		Merchants: merchants,
	}

	r := gin.New()
	routes.RegisterRoutes(r, h)

	return &testEnv{router: r, merchants: merchants, menu: menu, orders: orders}
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"diancan_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderLifecycle(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	env := newTestEnv()

	// Le parcours complet : inscription, plat, commande, statut
	token, merchantID := registerMerchant(t, env, "alice", "pw123", "Alice's Diner")
	soup := createItem(t, env, token, map[string]string{
		"name": "Soup", "price": "8.5", "category": "汤",
	})

	rr := doJSON(t, env, http.MethodPost, "/api/orders", "", map[string]interface{}{
		"merchantId": merchantID,
		"items": []map[string]interface{}{
			{"menuItemId": soup.ID.Hex(), "quantity": 2},
		},
		"customerInfo": map[string]string{
			"name":  "Client",
			"phone": "0600000000",
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &order))
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD"))
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 17.0, order.TotalPrice)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Soup", order.Items[0].Name)
	assert.Equal(t, 8.5, order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
	require.NotNil(t, order.Merchant)
	assert.Equal(t, "Alice's Diner", order.Merchant.ShopName)

	// La commande apparaît côté commerçant
	rr = doJSON(t, env, http.MethodGet, "/api/orders/merchant/my-orders", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.OrderNumber, orders[0].OrderNumber)

	// Passage à 已完成
	rr = doJSON(t, env, http.MethodPatch, "/api/orders/"+order.ID.Hex()+"/status", token, map[string]string{
		"status": models.StatusCompleted,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, env, http.MethodGet, "/api/orders/"+order.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated models.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusCompleted, updated.Status)
	// Items et total intacts
	assert.Equal(t, 17.0, updated.TotalPrice)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 8.5, updated.Items[0].Price)
}

func TestOrderCreate_Rejections(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	env := newTestEnv()

	aliceToken, aliceID := registerMerchant(t, env, "alice", "pw123", "Alice's Diner")
	bobToken, _ := registerMerchant(t, env, "bob", "pw456", "Chez Bob")

	soup := createItem(t, env, aliceToken, map[string]string{"name": "Soup", "price": "8.5", "category": "汤"})
	burger := createItem(t, env, bobToken, map[string]string{"name": "Burger", "price": "15", "category": "主菜"})
	hidden := createItem(t, env, aliceToken, map[string]string{"name": "Caché", "price": "5", "category": "小吃"})
	rr := doForm(t, env, http.MethodPut, "/api/menu/"+hidden.ID.Hex(), aliceToken, map[string]string{"isAvailable": "false"})
	require.Equal(t, http.StatusOK, rr.Code)

	orderFor := func(items []map[string]interface{}) *httptest.ResponseRecorder {
		return doJSON(t, env, http.MethodPost, "/api/orders", "", map[string]interface{}{
			"merchantId": aliceID,
			"items":      items,
		})
	}

	// Commande vide
	assert.Equal(t, http.StatusBadRequest, orderFor([]map[string]interface{}{}).Code)

	// Quantité nulle
	assert.Equal(t, http.StatusBadRequest, orderFor([]map[string]interface{}{
		{"menuItemId": soup.ID.Hex(), "quantity": 0},
	}).Code)

	// Plat inconnu : la réponse nomme l'id fautif
	rec := orderFor([]map[string]interface{}{
		{"menuItemId": "000000000000000000000000", "quantity": 1},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "000000000000000000000000")

	// Plat masqué : la réponse le nomme
	rec = orderFor([]map[string]interface{}{
		{"menuItemId": hidden.ID.Hex(), "quantity": 1},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Plat d'un autre commerçant : commande entière refusée
	rec = orderFor([]map[string]interface{}{
		{"menuItemId": soup.ID.Hex(), "quantity": 1},
		{"menuItemId": burger.ID.Hex(), "quantity": 1},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Rien n'a été écrit au registre
	assert.Empty(t, env.orders.orders)
}

func TestOrderAccess_OwnershipAndStatus(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	env := newTestEnv()

	aliceToken, aliceID := registerMerchant(t, env, "alice", "pw123", "Alice's Diner")
	bobToken, _ := registerMerchant(t, env, "bob", "pw456", "Chez Bob")

	soup := createItem(t, env, aliceToken, map[string]string{"name": "Soup", "price": "8.5", "category": "汤"})

	rr := doJSON(t, env, http.MethodPost, "/api/orders", "", map[string]interface{}{
		"merchantId": aliceID,
		"items":      []map[string]interface{}{{"menuItemId": soup.ID.Hex(), "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &order))

	// Un autre commerçant ne voit ni ne modifie la commande
	rr = doJSON(t, env, http.MethodGet, "/api/orders/"+order.ID.Hex(), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, env, http.MethodPatch, "/api/orders/"+order.ID.Hex()+"/status", bobToken, map[string]string{
		"status": models.StatusCompleted,
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Statut hors référentiel
	rr = doJSON(t, env, http.MethodPatch, "/api/orders/"+order.ID.Hex()+"/status", aliceToken, map[string]string{
		"status": "expédiée",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Commande inexistante
	rr = doJSON(t, env, http.MethodGet, "/api/orders/000000000000000000000000", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMyOrders_StatusFilter(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	env := newTestEnv()

	token, merchantID := registerMerchant(t, env, "alice", "pw123", "Alice's Diner")
	soup := createItem(t, env, token, map[string]string{"name": "Soup", "price": "8.5", "category": "汤"})

	placeOrder := func() models.Order {
		rr := doJSON(t, env, http.MethodPost, "/api/orders", "", map[string]interface{}{
			"merchantId": merchantID,
			"items":      []map[string]interface{}{{"menuItemId": soup.ID.Hex(), "quantity": 1}},
		})
		require.Equal(t, http.StatusCreated, rr.Code)
		var order models.Order
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &order))
		return order
	}

	first := placeOrder()
	placeOrder()

	rr := doJSON(t, env, http.MethodPatch, "/api/orders/"+first.ID.Hex()+"/status", token, map[string]string{
		"status": models.StatusCancelled,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	countOrders := func(path string) int {
		rr := doJSON(t, env, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var orders []models.Order
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &orders))
		return len(orders)
	}

	assert.Equal(t, 2, countOrders("/api/orders/merchant/my-orders"))
	assert.Equal(t, 2, countOrders("/api/orders/merchant/my-orders?status=全部"))
	assert.Equal(t, 1, countOrders("/api/orders/merchant/my-orders?status="+models.StatusPending))
	assert.Equal(t, 1, countOrders("/api/orders/merchant/my-orders?status="+models.StatusCancelled))
	assert.Equal(t, 0, countOrders("/api/orders/merchant/my-orders?status="+models.StatusCompleted))
}

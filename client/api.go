package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API — client HTTP de l'API du restaurant, équivalent Go de la couche
// services du front. Le token n'est joint que sur les routes commerçant.
type API struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError — réponse non-2xx, avec le message renvoyé par le serveur
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// MenuItemView — plat tel que renvoyé par l'API publique
type MenuItemView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	MerchantID  string   `json:"merchantId"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
	Merchant    *struct {
		ID       string `json:"id"`
		ShopName string `json:"shopName"`
	} `json:"merchant,omitempty"`
}

type OrderItemInput struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type CustomerInfo struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Note    string `json:"note,omitempty"`
}

type CreateOrderRequest struct {
	Items        []OrderItemInput `json:"items"`
	MerchantID   string           `json:"merchantId"`
	CustomerInfo CustomerInfo     `json:"customerInfo"`
}

type OrderItemView struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type OrderView struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Items       []OrderItemView `json:"items"`
	TotalPrice  float64         `json:"totalPrice"`
	Status      string          `json:"status"`
	MerchantID  string          `json:"merchantId"`
}

type MerchantView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	ShopName string `json:"shopName"`
}

type AuthResponse struct {
	Message  string       `json:"message"`
	Token    string       `json:"token"`
	Merchant MerchantView `json:"merchant"`
}

func (a *API) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"username": username, "password": password}
	if err := a.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	a.Token = out.Token
	return &out, nil
}

func (a *API) Register(ctx context.Context, username, password, shopName, contactInfo string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{
		"username":    username,
		"password":    password,
		"shopName":    shopName,
		"contactInfo": contactInfo,
	}
	if err := a.do(ctx, http.MethodPost, "/api/auth/register", nil, body, &out); err != nil {
		return nil, err
	}
	a.Token = out.Token
	return &out, nil
}

func (a *API) Menu(ctx context.Context, category string) ([]MenuItemView, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	var items []MenuItemView
	if err := a.do(ctx, http.MethodGet, "/api/menu", query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MenuByIDs — lookup en lot pour la réconciliation du panier
func (a *API) MenuByIDs(ctx context.Context, ids []string) ([]MenuItemView, error) {
	if len(ids) == 0 {
		return []MenuItemView{}, nil
	}
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	var items []MenuItemView
	if err := a.do(ctx, http.MethodGet, "/api/menu/by-ids", query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (a *API) MenuItem(ctx context.Context, id string) (*MenuItemView, error) {
	var item MenuItemView
	if err := a.do(ctx, http.MethodGet, "/api/menu/"+id, nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (a *API) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderView, error) {
	var order OrderView
	if err := a.do(ctx, http.MethodPost, "/api/orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *API) MyOrders(ctx context.Context, status string) ([]OrderView, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var orders []OrderView
	if err := a.do(ctx, http.MethodGet, "/api/orders/merchant/my-orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *API) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := a.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"diancan_back_end/internal/handlers"
	"diancan_back_end/internal/models"
	"diancan_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, env *testEnv, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func registerMerchant(t *testing.T, env *testEnv, username, password, shopName string) (token, id string) {
	t.Helper()
	rr := doJSON(t, env, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": password,
		"shopName": shopName,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	merchant := body["merchant"].(map[string]interface{})
	return body["token"].(string), merchant["id"].(string)
}

func TestRegister_TokenBindsMerchantIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	env := newTestEnv()

	token, id := registerMerchant(t, env, "alice", "pw123", "Alice's Diner")

	// Le token émis se résout vers le même commerçant via la porte d'auth
	merchantID, err := utils.ParseMerchantID(token)
	require.NoError(t, err)
	assert.Equal(t, id, merchantID)

	rr := doJSON(t, env, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	merchant := body["merchant"].(map[string]interface{})
	assert.Equal(t, "alice", merchant["username"])
	assert.Equal(t, "Alice's Diner", merchant["shopName"])
	// Jamais de mot de passe dans la réponse
	assert.NotContains(t, merchant, "password")
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv()

	rr := doJSON(t, env, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	env := newTestEnv()

	registerMerchant(t, env, "alice", "pw123", "Alice's Diner")

	rr := doJSON(t, env, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"password": "autre",
		"shopName": "Copie",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	env := newTestEnv()

	registerMerchant(t, env, "alice", "pw123", "Alice's Diner")

	rr := doJSON(t, env, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "pw123",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.NotEmpty(t, body["token"])

	// Mauvais mot de passe et utilisateur inconnu : même 401
	rr = doJSON(t, env, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "mauvais",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, env, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "inconnu",
		"password": "pw123",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

type brokenMerchantRepo struct {
	*memMerchantRepo
}

func (r *brokenMerchantRepo) FindByUsername(ctx context.Context, username string) (*models.Merchant, error) {
	return nil, errors.New("stockage en panne")
}

func TestLogin_StorageErrorIsNotBadCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	gin.SetMode(gin.TestMode)

	h := handlers.NewAuthHandler(&brokenMerchantRepo{newMemMerchantRepo()})

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"pw123"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	// Une panne du stockage n'est pas un mauvais identifiant
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestAuthGate_Rejections(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	env := newTestEnv()

	// Pas de header
	rr := doJSON(t, env, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Token illisible
	rr = doJSON(t, env, http.MethodGet, "/api/auth/me", "nimporte.quoi", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Mauvais format de header
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGate_DeletedMerchant(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	env := newTestEnv()

	token, id := registerMerchant(t, env, "alice", "pw123", "Alice's Diner")

	// Le compte disparaît : le token encore valide ne passe plus
	for oid := range env.merchants.merchants {
		if oid.Hex() == id {
			delete(env.merchants.merchants, oid)
		}
	}

	rr := doJSON(t, env, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv()

	rr := doJSON(t, env, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calzado-next/internal/config"
	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/provider"
	"github.com/calzado-next/internal/service"
	"github.com/calzado-next/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	StatusCode int                    `json:"status_code"`
	Msg        string                 `json:"msg"`
	Error      string                 `json:"error"`
	Details    []string               `json:"details"`
	Data       map[string]interface{} `json:"data"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)
	cfg := &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "router-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8},
		},
		Order: config.OrderConfig{LowStockThreshold: 2},
	}
	c, err := provider.NewContainer(cfg, db)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return SetupRouter(c), c
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	dec := json.NewDecoder(bytes.NewReader(w.Body.Bytes()))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&resp), w.Body.String())
	return resp
}

func register(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": email, "password": "zapatos123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := decode(t, w).Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func promote(t *testing.T, c *provider.Container, email string) {
	t.Helper()
	require.NoError(t, c.DB.Model(&models.User{}).Where("email = ?", email).Update("is_admin", true).Error)
}

func seedProduct(t *testing.T, c *provider.Container, name, price, promo string, sizes map[string]int) *models.Product {
	t.Helper()
	ctx := context.Background()
	category, err := c.CategoryService.Create(ctx, service.CategoryInput{Name: "Running " + name, Slug: fmt.Sprintf("running-%d", len(name))})
	require.NoError(t, err)
	input := service.ProductInput{
		CategoryID: category.ID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
	}
	if promo != "" {
		p := decimal.RequireFromString(promo)
		input.PromoPrice = &p
	}
	for size, qty := range sizes {
		input.Sizes = append(input.Sizes, service.SizeStockInput{Size: size, Quantity: qty})
	}
	product, err := c.ProductService.Create(ctx, input)
	require.NoError(t, err)
	return product
}

func TestCheckoutFlow(t *testing.T) {
	r, c := newTestRouter(t)
	product := seedProduct(t, c, "Veloz", "100", "80", map[string]int{"42": 2})
	token := register(t, r, "cliente@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart", token, gin.H{"product_id": product.ID, "size": "42", "cantidad": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, decode(t, w).Data["id"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, json.Number("160.00"), decode(t, w).Data["total"])

	w = doJSON(t, r, http.MethodPost, "/api/v1/orders", token, gin.H{"direccion_envio": "Av. Siempre Viva 742"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	require.Equal(t, json.Number("160.00"), created.Data["total"])
	require.NotEmpty(t, created.Data["order_no"])

	qty, err := c.StockService.GetStock(context.Background(), product.ID, "42")
	require.NoError(t, err)
	require.Equal(t, 0, qty)

	w = doJSON(t, r, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, json.Number("0.00"), decode(t, w).Data["total"])

	orderID := created.Data["order_id"].(json.Number)
	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/"+orderID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pendiente", decode(t, w).Data["estado"])
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	r, c := newTestRouter(t)
	product := seedProduct(t, c, "Trail", "90", "", map[string]int{"40": 1})
	token := register(t, r, "cliente@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart", token, gin.H{"product_id": product.ID, "size": "40", "cantidad": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/v1/orders", token, gin.H{"direccion_envio": "Calle 1"})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	resp := decode(t, w)
	require.Equal(t, "cart_invalid", resp.Error)
	require.Len(t, resp.Details, 1)
	require.Contains(t, resp.Details[0], "Trail")

	qty, err := c.StockService.GetStock(context.Background(), product.ID, "40")
	require.NoError(t, err)
	require.Equal(t, 1, qty)
}

func TestCheckoutRequiresAddress(t *testing.T) {
	r, c := newTestRouter(t)
	product := seedProduct(t, c, "Urbano", "50", "", map[string]int{"38": 5})
	token := register(t, r, "cliente@example.com")
	doJSON(t, r, http.MethodPost, "/api/v1/cart", token, gin.H{"product_id": product.ID, "size": "38", "cantidad": 1})

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", token, gin.H{"direccion_envio": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	require.Equal(t, "shipping_address_required", decode(t, w).Error)
}

func TestCartItemNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	token := register(t, r, "cliente@example.com")

	w := doJSON(t, r, http.MethodPut, "/api/v1/cart/999", token, gin.H{"cantidad": 2})
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	w = doJSON(t, r, http.MethodDelete, "/api/v1/cart/999", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestOrderStatusRequiresAdmin(t *testing.T) {
	r, c := newTestRouter(t)
	product := seedProduct(t, c, "Clasico", "60", "", map[string]int{"41": 3})
	token := register(t, r, "cliente@example.com")
	adminToken := register(t, r, "admin@example.com")
	promote(t, c, "admin@example.com")

	doJSON(t, r, http.MethodPost, "/api/v1/cart", token, gin.H{"product_id": product.ID, "size": "41", "cantidad": 1})
	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", token, gin.H{"direccion_envio": "Calle 2"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	path := "/api/v1/orders/" + decode(t, w).Data["order_id"].(json.Number).String() + "/estado"

	w = doJSON(t, r, http.MethodPut, path, token, gin.H{"estado": "enviado"})
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, path, adminToken, gin.H{"estado": "perdido"})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, path, adminToken, gin.H{"estado": "entregado"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "entregado", decode(t, w).Data["estado"])

	w = doJSON(t, r, http.MethodPut, path, adminToken, gin.H{"estado": "procesando"})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	require.Equal(t, "order_status_terminal", decode(t, w).Error)
}

func TestCustomerCannotReachAdminRoutes(t *testing.T) {
	r, c := newTestRouter(t)
	token := register(t, r, "cliente@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/v1/admin/orders", token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "forbidden", decode(t, w).Error)

	adminToken := register(t, r, "admin@example.com")
	promote(t, c, "admin@example.com")
	w = doJSON(t, r, http.MethodGet, "/api/v1/admin/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAuthRequired(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/cart", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "token_invalid", decode(t, w).Error)
}

func TestAdminStockAndCatalog(t *testing.T) {
	r, c := newTestRouter(t)
	product := seedProduct(t, c, "Montaña", "120", "", map[string]int{"43": 5})
	adminToken := register(t, r, "admin@example.com")
	promote(t, c, "admin@example.com")

	path := fmt.Sprintf("/api/v1/admin/products/%d/stock", product.ID)
	w := doJSON(t, r, http.MethodPut, path, adminToken, gin.H{"size": "43", "cantidad": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, path, adminToken, gin.H{"size": "43", "cantidad": -1})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/admin/stock/low", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"total":1`)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/admin/products/%d/deactivate", product.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

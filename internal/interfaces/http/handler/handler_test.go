package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	advisoryapp "github.com/wms/backend/internal/application/advisory"
	fulfillmentapp "github.com/wms/backend/internal/application/fulfillment"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	infraadvisory "github.com/wms/backend/internal/infrastructure/advisory"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// setupServer builds a full engine over a seeded in-memory database
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := zap.NewNop()
	require.NoError(t, persistence.Seed(context.Background(), db, logger))

	itemRepo := persistence.NewGormItemRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	inventoryService := inventoryapp.NewInventoryService(itemRepo, movementRepo, logger)
	fulfillmentService := fulfillmentapp.NewFulfillmentService(scope, itemRepo, orderRepo, logger)
	advisoryService := advisoryapp.NewAdvisoryService(infraadvisory.NewStubGateway(), itemRepo, orderRepo, logger)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(NewInventoryHandler(inventoryService))
	r.Register(NewOrderHandler(fulfillmentService))
	r.Register(NewFulfillmentHandler(fulfillmentService))
	r.Register(NewAdvisoryHandler(advisoryService))
	r.Register(NewSystemHandler(inventoryService, fulfillmentService))
	r.Setup()

	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
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
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

func TestInventoryEndpoints(t *testing.T) {
	engine := setupServer(t)

	t.Run("list seeded items", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/inventory/items", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []inventoryapp.ItemResponse
		decodeData(t, rec, &items)
		assert.Len(t, items, 4)
	})

	t.Run("get item", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/inventory/items/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var item inventoryapp.ItemResponse
		decodeData(t, rec, &item)
		assert.Equal(t, "TECH-001", item.SKU)
	})

	t.Run("get missing item returns 404", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/inventory/items/nope", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ERR_NOT_FOUND", errorCode(t, rec))
	})

	t.Run("create item", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/inventory/items", gin.H{
			"sku":             "TECH-777",
			"name":            "USB Hub",
			"category":        "Electronics",
			"quantity":        30,
			"min_stock_level": 5,
			"location":        "A-13-01",
			"price":           24.99,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var item inventoryapp.ItemResponse
		decodeData(t, rec, &item)
		assert.Equal(t, "TECH-777", item.SKU)
		assert.NotEmpty(t, item.ID)
	})

	t.Run("create item without sku fails validation", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/inventory/items", gin.H{
			"name": "Nameless",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ERR_VALIDATION", errorCode(t, rec))
	})

	t.Run("update item", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPut, "/api/v1/inventory/items/3", gin.H{
			"location": "C-02-01",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var item inventoryapp.ItemResponse
		decodeData(t, rec, &item)
		assert.Equal(t, "C-02-01", item.Location)
		assert.Equal(t, "OFF-202", item.SKU)
	})

	t.Run("cycle count adjusts quantity", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/inventory/items/4/cycle-count", gin.H{
			"counted": 12,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var item inventoryapp.ItemResponse
		decodeData(t, rec, &item)
		assert.Equal(t, int64(12), item.Quantity)
		assert.True(t, item.LowStock)
	})

	t.Run("cycle count without body fails validation", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/inventory/items/4/cycle-count", gin.H{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("low stock", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/inventory/low-stock", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []inventoryapp.ItemResponse
		decodeData(t, rec, &items)
		for _, item := range items {
			assert.True(t, item.LowStock)
		}
	})

	t.Run("movements", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/inventory/movements", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var movements []inventoryapp.MovementResponse
		decodeData(t, rec, &movements)
		assert.NotEmpty(t, movements)
	})

	t.Run("movements rejects bad limit", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/inventory/movements?limit=abc", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete item", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodDelete, "/api/v1/inventory/items/2", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(t, engine, http.MethodGet, "/api/v1/inventory/items/2", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrderEndpoints(t *testing.T) {
	engine := setupServer(t)

	t.Run("list all", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/orders", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []fulfillmentapp.OrderResponse
		decodeData(t, rec, &list)
		assert.Len(t, list, 3)
	})

	t.Run("filter by type", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/orders?type=OUTBOUND", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []fulfillmentapp.OrderResponse
		decodeData(t, rec, &list)
		assert.Len(t, list, 2)
		for _, order := range list {
			assert.Equal(t, "OUTBOUND", order.Type)
		}
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/orders?type=SIDEWAYS", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get order with lines", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/orders/PO-2024-001", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var order fulfillmentapp.OrderResponse
		decodeData(t, rec, &order)
		assert.Equal(t, "INBOUND", order.Type)
		assert.Len(t, order.Items, 2)
	})

	t.Run("missing order returns 404", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/orders/PO-0000-000", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("pick list sorted by location", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/orders/SO-2024-101/pick-list", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var pickList fulfillmentapp.PickListResponse
		decodeData(t, rec, &pickList)
		require.Len(t, pickList.Lines, 2)
		assert.LessOrEqual(t, pickList.Lines[0].Location, pickList.Lines[1].Location)
	})
}

func TestFulfillmentEndpoints(t *testing.T) {
	engine := setupServer(t)

	t.Run("receive credits stock and returns snapshot", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/fulfillment/receive", gin.H{
			"order_id": "PO-2024-001",
			"item_id":  "1",
			"quantity": 10,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var snapshot fulfillmentapp.SnapshotResponse
		decodeData(t, rec, &snapshot)
		require.NotEmpty(t, snapshot.Inventory)

		var qty int64
		for _, item := range snapshot.Inventory {
			if item.ID == "1" {
				qty = item.Quantity
			}
		}
		assert.Equal(t, int64(55), qty)
	})

	t.Run("receive rejects non-positive quantity", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/fulfillment/receive", gin.H{
			"order_id": "PO-2024-001",
			"item_id":  "1",
			"quantity": 0,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pick debits stock", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/fulfillment/pick", gin.H{
			"order_id": "SO-2024-101",
			"item_id":  "3",
			"quantity": 10,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var snapshot fulfillmentapp.SnapshotResponse
		decodeData(t, rec, &snapshot)

		var qty int64
		for _, item := range snapshot.Inventory {
			if item.ID == "3" {
				qty = item.Quantity
			}
		}
		assert.Equal(t, int64(110), qty)
	})

	t.Run("pack then ship", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/fulfillment/pack", gin.H{
			"order_id": "SO-2024-102",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, engine, http.MethodPost, "/api/v1/fulfillment/ship", gin.H{
			"order_id": "SO-2024-102",
			"carrier":  "UPS",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var snapshot fulfillmentapp.SnapshotResponse
		decodeData(t, rec, &snapshot)

		var shipped *fulfillmentapp.OrderResponse
		for idx := range snapshot.Orders {
			if snapshot.Orders[idx].ID == "SO-2024-102" {
				shipped = &snapshot.Orders[idx]
			}
		}
		require.NotNil(t, shipped)
		assert.Equal(t, "SHIPPED", shipped.Status)
		assert.Equal(t, "UPS", shipped.Carrier)
		assert.Regexp(t, `^TRK-[A-Z0-9]{9}$`, shipped.TrackingNumber)
	})

	t.Run("ship without order id fails validation", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/fulfillment/ship", gin.H{
			"carrier": "UPS",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdvisoryEndpoints(t *testing.T) {
	engine := setupServer(t)

	t.Run("insights start empty", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/advisory/insights", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var insights []advisoryapp.Insight
		decodeData(t, rec, &insights)
		assert.Empty(t, insights)
	})

	t.Run("chat", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/advisory/chat", gin.H{
			"message": "How are we doing on stock?",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var reply struct {
			Reply string `json:"reply"`
		}
		decodeData(t, rec, &reply)
		assert.NotEmpty(t, reply.Reply)
	})

	t.Run("chat requires message", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/advisory/chat", gin.H{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("putaway suggestion", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/advisory/putaway", gin.H{
			"item_id": "1",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var suggestion struct {
			Location string `json:"location"`
		}
		decodeData(t, rec, &suggestion)
		assert.NotEmpty(t, suggestion.Location)
	})

	t.Run("packaging suggestion", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/advisory/packaging", gin.H{
			"order_id": "SO-2024-101",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var suggestion struct {
			Packaging string `json:"packaging"`
		}
		decodeData(t, rec, &suggestion)
		assert.NotEmpty(t, suggestion.Packaging)
	})

	t.Run("identify unavailable on stub returns 502", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/advisory/identify", gin.H{
			"image_data": "aGVsbG8=",
			"mime_type":  "image/png",
		})
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "ERR_UPSTREAM", errorCode(t, rec))
	})
}

func TestSystemEndpoints(t *testing.T) {
	engine := setupServer(t)

	t.Run("dashboard summary", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/dashboard/summary", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary inventoryapp.SummaryResponse
		decodeData(t, rec, &summary)
		assert.Equal(t, int64(4), summary.TotalItems)
	})

	t.Run("full state", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/state", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var snapshot fulfillmentapp.SnapshotResponse
		decodeData(t, rec, &snapshot)
		assert.Len(t, snapshot.Inventory, 4)
		assert.Len(t, snapshot.Orders, 3)
	})

	t.Run("health", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("request id echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("X-Request-ID", "req-echo-1")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, "req-echo-1", rec.Header().Get("X-Request-ID"))
	})
}

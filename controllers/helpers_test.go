package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB swaps the global DB for an in-memory sqlite database migrated
// with the same schema the app uses.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.School{},
		&models.Uniform{},
		&models.UniformImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.Sale{},
		&models.ImportBatch{},
	))
	for _, category := range models.UniformCategories {
		require.NoError(t, db.Table(category.Table).AutoMigrate(&models.InventoryItem{}))
	}

	// The column probe cache is keyed by table name only, so it must not
	// carry over between test databases.
	barcodeColumnMu.Lock()
	barcodeColumnCache = map[string]bool{}
	barcodeColumnMu.Unlock()

	initializers.DB = db
	return db
}

// authAs stands in for RequireAuth by injecting JWT claims directly.
func authAs(userID int, role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("user", jwt.MapClaims{
			"user_id":  float64(userID),
			"role":     role,
			"username": "tester",
		})
	}
}

func jsonRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// seedItem inserts a Uniform parent and a variant row for it.
func seedItem(t *testing.T, db *gorm.DB, category models.UniformCategory, item models.InventoryItem) models.InventoryItem {
	t.Helper()

	uniform := models.Uniform{Type: category.Name, Color: item.Color, SchoolID: item.SchoolID}
	require.NoError(t, db.Create(&uniform).Error)
	item.UniformID = uniform.ID
	require.NoError(t, db.Table(category.Table).Create(&item).Error)
	return item
}

func fetchItem(t *testing.T, db *gorm.DB, category models.UniformCategory, id uint) models.InventoryItem {
	t.Helper()
	var item models.InventoryItem
	require.NoError(t, db.Table(category.Table).First(&item, id).Error)
	return item
}

func mustCategory(t *testing.T, name string) models.UniformCategory {
	t.Helper()
	category, ok := models.CategoryByName(name)
	require.True(t, ok)
	return category
}

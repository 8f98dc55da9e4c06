package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/Cheruto/shulewear-api/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

var (
	barcodeColumnMu    sync.Mutex
	barcodeColumnCache = map[string]bool{}
)

// tableHasBarcode probes whether a variant table carries a barcode column.
// Legacy databases predate the column on some tables, so the capability is
// discovered at runtime instead of being hardcoded per category.
func tableHasBarcode(db *gorm.DB, table string) bool {
	barcodeColumnMu.Lock()
	defer barcodeColumnMu.Unlock()
	if has, ok := barcodeColumnCache[table]; ok {
		return has
	}
	has := db.Table(table).Migrator().HasColumn(&models.InventoryItem{}, "barcode")
	barcodeColumnCache[table] = has
	return has
}

type inventoryInput struct {
	Type     string  `json:"type" binding:"required"`
	Size     string  `json:"size" binding:"required"`
	Color    string  `json:"color" binding:"required"`
	Quality  string  `json:"quality"`
	Quantity int     `json:"quantity" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	SchoolID *uint   `json:"schoolId"`
	Barcode  string  `json:"barcode"`
}

func validateInventoryInput(input inventoryInput) error {
	if input.Quantity <= 0 {
		return errors.New("quantity must be greater than zero")
	}
	if input.Price <= 0 {
		return errors.New("price must be greater than zero")
	}
	return nil
}

// insertInventoryRow creates the Uniform parent and the variant row inside
// the given transaction. Shared by the add-item and CSV import paths so both
// produce identical records.
func insertInventoryRow(tx *gorm.DB, category models.UniformCategory, input inventoryInput) (models.InventoryItem, error) {
	uniform := models.Uniform{
		Type:     category.Name,
		Color:    input.Color,
		SchoolID: input.SchoolID,
	}
	if err := tx.Create(&uniform).Error; err != nil {
		return models.InventoryItem{}, err
	}

	hasBarcode := tableHasBarcode(tx, category.Table)
	barcode := input.Barcode
	if barcode == "" && hasBarcode {
		generated, err := utils.GenerateBarcode(category.BarcodePrefix)
		if err != nil {
			return models.InventoryItem{}, err
		}
		barcode = generated
	}

	item := models.InventoryItem{
		UniformID: uniform.ID,
		Size:      input.Size,
		Quality:   input.Quality,
		Color:     input.Color,
		Quantity:  input.Quantity,
		Price:     input.Price,
		SchoolID:  input.SchoolID,
		Barcode:   barcode,
	}

	query := tx.Table(category.Table)
	if !hasBarcode {
		query = query.Omit("Barcode")
	}
	if err := query.Create(&item).Error; err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// CreateInventoryItem adds one variant to stock.
func CreateInventoryItem(ctx *gin.Context) {
	var input inventoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category, ok := models.CategoryByName(input.Type)
	if !ok {
		respondWithError(ctx, http.StatusBadRequest, "Unknown uniform type", nil)
		return
	}

	if err := validateInventoryInput(input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if input.SchoolID != nil {
		var school models.School
		if err := initializers.DB.First(&school, *input.SchoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondWithError(ctx, http.StatusNotFound, "School not found", nil)
			} else {
				log.Println("Database error validating school:", err)
				respondWithError(ctx, http.StatusInternalServerError, "Failed to validate school", nil)
			}
			return
		}
	}

	tx := initializers.DB.Begin()
	item, err := insertInventoryRow(tx, category, input)
	if err != nil {
		tx.Rollback()
		log.Println("Error creating inventory item:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create inventory item", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		log.Println("Error committing inventory item:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create inventory item", nil)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": category.Name + " added to inventory",
		"type":    category.Name,
		"item":    item,
	})
}

// GetInventory lists stock for one category, or for every category when no
// type filter is given.
func GetInventory(ctx *gin.Context) {
	categories := models.UniformCategories
	if typeFilter := ctx.Query("type"); typeFilter != "" {
		category, ok := models.CategoryByName(typeFilter)
		if !ok {
			respondWithError(ctx, http.StatusBadRequest, "Unknown uniform type", nil)
			return
		}
		categories = []models.UniformCategory{category}
	}

	items := []models.TaggedInventoryItem{}
	for _, category := range categories {
		query := initializers.DB.Table(category.Table).Order("color")
		if schoolFilter := ctx.Query("schoolId"); schoolFilter != "" {
			query = query.Where("school_id = ?", schoolFilter)
		}

		var rows []models.InventoryItem
		if err := query.Find(&rows).Error; err != nil {
			log.Println("Database error listing", category.Table, ":", err)
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch inventory", nil)
			return
		}
		for _, row := range rows {
			items = append(items, models.TaggedInventoryItem{InventoryItem: row, Type: category.Name})
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// UpdateInventoryItem updates a variant row and keeps its Uniform parent in
// sync, in one transaction.
func UpdateInventoryItem(ctx *gin.Context) {
	category, ok := models.CategoryByName(ctx.Param("type"))
	if !ok {
		respondWithError(ctx, http.StatusBadRequest, "Unknown uniform type", nil)
		return
	}

	itemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid item ID", err)
		return
	}

	var input inventoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validateInventoryInput(input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var item models.InventoryItem
	if err := initializers.DB.Table(category.Table).First(&item, itemId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Inventory item not found", nil)
		} else {
			log.Println("Database error fetching item:", err)
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch inventory item", nil)
		}
		return
	}

	updates := map[string]any{
		"size":       input.Size,
		"quality":    input.Quality,
		"color":      input.Color,
		"quantity":   input.Quantity,
		"price":      input.Price,
		"school_id":  input.SchoolID,
		"updated_at": time.Now(),
	}
	if tableHasBarcode(initializers.DB, category.Table) && input.Barcode != "" {
		updates["barcode"] = input.Barcode
	}

	tx := initializers.DB.Begin()
	if err := tx.Table(category.Table).Where("id = ?", itemId).Updates(updates).Error; err != nil {
		tx.Rollback()
		log.Println("Error updating inventory item:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update inventory item", nil)
		return
	}
	if err := tx.Model(&models.Uniform{}).Where("id = ?", item.UniformID).Updates(map[string]any{
		"color":     input.Color,
		"school_id": input.SchoolID,
	}).Error; err != nil {
		tx.Rollback()
		log.Println("Error updating uniform parent:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update inventory item", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		log.Println("Error committing inventory update:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update inventory item", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Inventory item updated successfully."})
}

// DeleteInventoryItem removes a variant row and its Uniform parent when no
// other variant still references it.
func DeleteInventoryItem(ctx *gin.Context) {
	category, ok := models.CategoryByName(ctx.Param("type"))
	if !ok {
		respondWithError(ctx, http.StatusBadRequest, "Unknown uniform type", nil)
		return
	}

	itemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid item ID", err)
		return
	}

	var item models.InventoryItem
	if err := initializers.DB.Table(category.Table).First(&item, itemId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Inventory item not found", nil)
		} else {
			log.Println("Database error fetching item:", err)
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch inventory item", nil)
		}
		return
	}

	tx := initializers.DB.Begin()
	if err := tx.Table(category.Table).Where("id = ?", itemId).Delete(&models.InventoryItem{}).Error; err != nil {
		tx.Rollback()
		log.Println("Error deleting inventory item:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete inventory item", nil)
		return
	}

	var siblings int64
	for _, other := range models.UniformCategories {
		var count int64
		if err := tx.Table(other.Table).Where("uniform_id = ? AND deleted_at IS NULL", item.UniformID).Count(&count).Error; err != nil {
			tx.Rollback()
			log.Println("Error counting uniform variants:", err)
			respondWithError(ctx, http.StatusInternalServerError, "Failed to delete inventory item", nil)
			return
		}
		siblings += count
	}
	if siblings == 0 {
		if err := tx.Delete(&models.Uniform{}, item.UniformID).Error; err != nil {
			tx.Rollback()
			log.Println("Error deleting uniform parent:", err)
			respondWithError(ctx, http.StatusInternalServerError, "Failed to delete inventory item", nil)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("Error committing inventory delete:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete inventory item", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully."})
}

// GetLowStock lists variants at or below the given threshold across all
// categories.
func GetLowStock(ctx *gin.Context) {
	threshold, err := strconv.Atoi(ctx.DefaultQuery("threshold", "5"))
	if err != nil || threshold < 0 {
		respondWithError(ctx, http.StatusBadRequest, "Invalid threshold", nil)
		return
	}

	items := []models.TaggedInventoryItem{}
	for _, category := range models.UniformCategories {
		var rows []models.InventoryItem
		if err := initializers.DB.Table(category.Table).
			Where("quantity <= ?", threshold).
			Order("quantity").
			Find(&rows).Error; err != nil {
			log.Println("Database error listing low stock for", category.Table, ":", err)
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch low stock", nil)
			return
		}
		for _, row := range rows {
			items = append(items, models.TaggedInventoryItem{InventoryItem: row, Type: category.Name})
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items, "threshold": threshold})
}

// getAWSUploader returns a configured AWS S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

// UploadUniformImages uploads product photos for a uniform to S3 and records
// the resulting URLs.
func UploadUniformImages(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	uniformIdStr := ctx.PostForm("uniformId")
	if uniformIdStr == "" {
		respondWithError(ctx, http.StatusBadRequest, "Missing uniformId", nil)
		return
	}

	uniformId, err := strconv.Atoi(uniformIdStr)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid uniformId", err)
		return
	}

	var uniform models.Uniform
	if err := initializers.DB.First(&uniform, uniformId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Uniform not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate uniform", err)
		}
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	bucket := os.Getenv("UNIFORM_IMAGES_BUCKET")
	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			log.Printf("Error opening file %s: %v", file.Filename, openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		// Unique key to prevent overwrites
		uniqueFilename := fmt.Sprintf("%d-%s-%s", uniformId, time.Now().Format("20060102150405"), file.Filename)

		result, uploadErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(uniqueFilename),
			Body:        f,
			ACL:         "public-read",
			ContentType: aws.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		uploadedUrls = append(uploadedUrls, result.Location)

		uniformImage := models.UniformImage{
			Url:       result.Location,
			UniformID: uniformId,
		}
		if err := initializers.DB.Create(&uniformImage).Error; err != nil {
			log.Printf("Error saving image to database: %v", err)
			// File is already in S3 at this point, so just log it
		}
	}

	response := gin.H{
		"message": "Files processed",
		"urls":    uploadedUrls,
	}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	ctx.JSON(http.StatusOK, response)
}

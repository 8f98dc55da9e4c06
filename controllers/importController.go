package controllers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var requiredImportHeaders = []string{"type", "size", "color", "quantity", "price"}

type skippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// parseImportHeader maps header names to column positions, rejecting files
// that miss a required column.
func parseImportHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredImportHeaders {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return columns, nil
}

func field(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ImportInventoryCSV bulk-loads inventory rows from an uploaded CSV. Invalid
// rows are skipped with a reason; the whole import commits only when at
// least one row made it in.
func ImportInventoryCSV(ctx *gin.Context) {
	adminId, _ := userIDFromContext(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "CSV file is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unable to read uploaded file", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "CSV file is empty", nil)
		return
	}
	columns, err := parseImportHeader(header)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	tx := initializers.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	imported := 0
	var skipped []skippedRow
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped = append(skipped, skippedRow{Line: line, Reason: "malformed row"})
			continue
		}

		category, ok := models.CategoryByName(field(record, columns, "type"))
		if !ok {
			skipped = append(skipped, skippedRow{Line: line, Reason: "unknown uniform type"})
			continue
		}

		quantity, err := strconv.Atoi(field(record, columns, "quantity"))
		if err != nil || quantity <= 0 {
			skipped = append(skipped, skippedRow{Line: line, Reason: "quantity must be a number greater than zero"})
			continue
		}
		price, err := strconv.ParseFloat(field(record, columns, "price"), 64)
		if err != nil || price <= 0 {
			skipped = append(skipped, skippedRow{Line: line, Reason: "price must be a number greater than zero"})
			continue
		}

		size := field(record, columns, "size")
		color := field(record, columns, "color")
		if size == "" || color == "" {
			skipped = append(skipped, skippedRow{Line: line, Reason: "size and color are required"})
			continue
		}

		var schoolID *uint
		if raw := field(record, columns, "school_id"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				skipped = append(skipped, skippedRow{Line: line, Reason: "invalid school_id"})
				continue
			}
			var school models.School
			if err := tx.First(&school, parsed).Error; err != nil {
				skipped = append(skipped, skippedRow{Line: line, Reason: "unknown school_id"})
				continue
			}
			id := uint(parsed)
			schoolID = &id
		}

		input := inventoryInput{
			Type:     category.Name,
			Size:     size,
			Color:    color,
			Quality:  field(record, columns, "quality"),
			Quantity: quantity,
			Price:    price,
			SchoolID: schoolID,
			Barcode:  field(record, columns, "barcode"),
		}
		if _, err := insertInventoryRow(tx, category, input); err != nil {
			tx.Rollback()
			log.Println("Error importing row:", err)
			respondWithError(ctx, http.StatusInternalServerError, "Import failed", nil)
			return
		}
		imported++
	}

	if imported == 0 {
		tx.Rollback()
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": "No valid rows in file, nothing was imported",
			"skipped": skipped,
		})
		return
	}

	skipReport, err := json.Marshal(skipped)
	if err != nil {
		skipReport = []byte("[]")
	}
	batch := models.ImportBatch{
		Reference:    uuid.NewString(),
		UploadedBy:   adminId,
		Filename:     fileHeader.Filename,
		ImportedRows: imported,
		SkippedRows:  len(skipped),
		SkipReport:   datatypes.JSON(skipReport),
	}
	if err := tx.Create(&batch).Error; err != nil {
		tx.Rollback()
		log.Println("Error recording import batch:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Import failed", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("Error committing import:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Import failed", nil)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":   fmt.Sprintf("Imported %d rows, skipped %d", imported, len(skipped)),
		"reference": batch.Reference,
		"imported":  imported,
		"skipped":   skipped,
	})
}

// GetImportBatches lists past bulk imports, newest first.
func GetImportBatches(ctx *gin.Context) {
	var batches []models.ImportBatch
	if err := initializers.DB.Order("created_at desc").Find(&batches).Error; err != nil {
		log.Println("Database error fetching import batches:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch import batches", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"batches": batches})
}

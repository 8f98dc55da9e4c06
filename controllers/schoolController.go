package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CreateSchool(ctx *gin.Context) {
	var school models.School
	if err := ctx.ShouldBindJSON(&school); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := initializers.DB.Create(&school).Error; err != nil {
		log.Println("Error creating school:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create school", nil)
		return
	}

	ctx.JSON(http.StatusCreated, school)
}

func GetSchools(ctx *gin.Context) {
	query := initializers.DB.Order("name")
	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var schools []models.School
	if err := query.Find(&schools).Error; err != nil {
		log.Println("Database error fetching schools:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch schools", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"schools": schools})
}

func GetSchool(ctx *gin.Context) {
	schoolId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid school ID", err)
		return
	}

	var school models.School
	if err := initializers.DB.First(&school, schoolId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "School not found", nil)
		} else {
			log.Println("Database error fetching school:", err)
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve school", nil)
		}
		return
	}

	ctx.JSON(http.StatusOK, school)
}

func UpdateSchool(ctx *gin.Context) {
	schoolId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid school ID", err)
		return
	}

	var input models.School
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := initializers.DB.Model(&models.School{}).Where("id = ?", schoolId).Updates(map[string]any{
		"name":          input.Name,
		"address":       input.Address,
		"contact_email": input.ContactEmail,
		"contact_phone": input.ContactPhone,
	})
	if result.Error != nil {
		log.Println("Error updating school:", result.Error)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update school", nil)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "School not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "School updated successfully."})
}

// DeleteSchool refuses to remove a school while uniforms still reference it.
func DeleteSchool(ctx *gin.Context) {
	schoolId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid school ID", err)
		return
	}

	var references int64
	if err := initializers.DB.Model(&models.Uniform{}).Where("school_id = ?", schoolId).Count(&references).Error; err != nil {
		log.Println("Error counting school references:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete school", nil)
		return
	}
	if references > 0 {
		respondWithError(ctx, http.StatusConflict, "School has uniforms in stock and cannot be deleted", nil)
		return
	}

	result := initializers.DB.Delete(&models.School{}, schoolId)
	if result.Error != nil {
		log.Println("Error deleting school:", result.Error)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete school", nil)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "School not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "School deleted successfully."})
}

package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const reportDateLayout = "2006-01-02"

func salesWindow(from, to time.Time) *gorm.DB {
	return initializers.DB.Model(&models.Sale{}).
		Where("sale_date >= ? AND sale_date < ?", from, to)
}

// GetSalesReport summarises the sale ledger over a date range: overall
// totals, a per-category breakdown and a per-day series. Defaults to the
// last 30 days.
func GetSalesReport(ctx *gin.Context) {
	to := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)

	if raw := ctx.Query("from"); raw != "" {
		parsed, err := time.Parse(reportDateLayout, raw)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "from must be formatted YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := ctx.Query("to"); raw != "" {
		parsed, err := time.Parse(reportDateLayout, raw)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "to must be formatted YYYY-MM-DD")
			return
		}
		// Inclusive end date
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		sendErrorResponse(ctx, http.StatusBadRequest, "from must be before to")
		return
	}

	var totals struct {
		Revenue float64 `json:"revenue"`
		Units   int64   `json:"units"`
		Sales   int64   `json:"sales"`
	}
	if err := salesWindow(from, to).
		Select("COALESCE(SUM(total_price), 0) AS revenue, COALESCE(SUM(quantity), 0) AS units, COUNT(*) AS sales").
		Scan(&totals).Error; err != nil {
		log.Println("Database error computing sales totals:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to compute sales report")
		return
	}

	var byType []struct {
		UniformType string  `json:"uniformType"`
		Revenue     float64 `json:"revenue"`
		Units       int64   `json:"units"`
	}
	if err := salesWindow(from, to).
		Select("uniform_type, COALESCE(SUM(total_price), 0) AS revenue, COALESCE(SUM(quantity), 0) AS units").
		Group("uniform_type").
		Order("revenue desc").
		Scan(&byType).Error; err != nil {
		log.Println("Database error computing per-type sales:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to compute sales report")
		return
	}

	var byDay []struct {
		Day     string  `json:"day"`
		Revenue float64 `json:"revenue"`
		Units   int64   `json:"units"`
	}
	if err := salesWindow(from, to).
		Select("DATE(sale_date) AS day, COALESCE(SUM(total_price), 0) AS revenue, COALESCE(SUM(quantity), 0) AS units").
		Group("DATE(sale_date)").
		Order("day").
		Scan(&byDay).Error; err != nil {
		log.Println("Database error computing daily sales:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to compute sales report")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"from":   from.Format(reportDateLayout),
		"to":     to.AddDate(0, 0, -1).Format(reportDateLayout),
		"totals": totals,
		"byType": byType,
		"byDay":  byDay,
	})
}

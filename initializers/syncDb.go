package initializers

import (
	"log"

	"github.com/Cheruto/shulewear-api/models"
)

func SyncDatabase() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.School{},
		&models.Uniform{},
		&models.UniformImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.Sale{},
		&models.ImportBatch{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// Each uniform category keeps its own variant table.
	for _, category := range models.UniformCategories {
		if err := DB.Table(category.Table).AutoMigrate(&models.InventoryItem{}); err != nil {
			log.Fatal("Failed to migrate table ", category.Table, ": ", err)
		}
	}
	log.Println("Database synced successfully.")
}

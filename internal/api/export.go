package api

import (
	"mobil_market/internal/domain" // Importing domain models
	"net/http"                     // HTTP status codes
	"strings"                      // Joining image URLs

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"github.com/tealeg/xlsx"     // Excel writer
	"gorm.io/gorm"               // GORM ORM library
)

// ExportProductsHandler downloads the catalog as an xlsx workbook
func ExportProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []domain.Product
		if err := db.Order("id asc").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range []string{"ID", "Name", "Price", "Category", "Images", "VideoURL", "FileURL", "Description"} {
			headerRow.AddCell().SetString(h)
		}
		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetInt(int(p.ID))
			row.AddCell().SetString(p.Name)
			row.AddCell().SetFloatWithFormat(p.Price.InexactFloat64(), "0.00") // Display only
			row.AddCell().SetString(p.Category)
			row.AddCell().SetString(strings.Join(p.Image.URLs(), "\n"))
			row.AddCell().SetString(p.VideoURL)
			row.AddCell().SetString(p.FileURL)
			row.AddCell().SetString(p.Description)
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			logrus.WithError(err).Error("Failed to write Excel file")
		}
	}
}

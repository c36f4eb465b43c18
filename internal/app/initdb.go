package app

import (
	"encoding/json"
	"strings"
	"time"

	_ "embed"

	"github.com/openmart/catalog/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed config_schemas.json
var configSchemasData []byte

type ConfigSchema struct {
	Key         string `json:"key"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

type ConfigSchemasJSON struct {
	Schemas []ConfigSchema `json:"schemas"`
}

var settingsSchemas []ConfigSchema

func init() {
	var schemasData ConfigSchemasJSON
	if err := json.Unmarshal(configSchemasData, &schemasData); err != nil {
		panic(err)
	}
	settingsSchemas = schemasData.Schemas
}

func (a *Application) checkSettings() {
	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range settingsSchemas {
		// Parse key: "category.name" -> category, name
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

func dateOf(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// checkSampleProducts seeds demo catalog rows, insert-or-update keyed by title
func (a *Application) checkSampleProducts() {
	sampleProducts := []domain.Product{
		{
			Title:       "Fjallraven Foldsack Backpack",
			Price:       decimal.NewFromFloat(109.95),
			Description: "Fits 15 inch laptops, everyday daypack",
			Category:    "Accessories",
			Image:       "https://img.openmart.example/p/backpack.jpg",
			Sold:        true,
			DateOfSale:  dateOf(2024, time.January, 12),
		},
		{
			Title:       "Mens Casual Slim Fit T-Shirt",
			Price:       decimal.NewFromFloat(22.30),
			Description: "Slim fit, lightweight fabric",
			Category:    "Clothing",
			Image:       "https://img.openmart.example/p/tshirt.jpg",
			IsSale:      true,
		},
		{
			Title:       "Solid Gold Petite Micropave Ring",
			Price:       decimal.NewFromFloat(168.00),
			Description: "Satisfaction guaranteed, return or exchange within 30 days",
			Category:    "Jewelery",
			Image:       "https://img.openmart.example/p/ring.jpg",
			Sold:        true,
			DateOfSale:  dateOf(2024, time.February, 3),
		},
		{
			Title:       "WD 2TB Portable External Hard Drive",
			Price:       decimal.NewFromFloat(64.00),
			Description: "USB 3.0 and USB 2.0 compatible",
			Category:    "Electronics",
			Image:       "https://img.openmart.example/p/harddrive.jpg",
		},
		{
			Title:       "Acer 21.5 inch Full HD Monitor",
			Price:       decimal.NewFromFloat(599.00),
			Description: "IPS panel, ultra-thin frame",
			Category:    "Electronics",
			Image:       "https://img.openmart.example/p/monitor.jpg",
			IsSale:      true,
		},
		{
			Title:       "Rain Jacket Windbreaker Striped",
			Price:       decimal.NewFromFloat(39.99),
			Description: "Lightweight, hooded, adjustable drawstring",
			Category:    "Clothing",
			Image:       "https://img.openmart.example/p/jacket.jpg",
			Sold:        true,
			DateOfSale:  dateOf(2024, time.February, 18),
		},
	}

	for _, p := range sampleProducts {
		var existing domain.Product
		err := a.gormDB.Where("title = ?", p.Title).First(&existing).Error
		if err == nil {
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Save(&p).Error; err != nil {
				zap.L().Error("failed to update sample product", zap.String("title", p.Title), zap.Error(err))
			}
			continue
		}
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create sample product", zap.String("title", p.Title), zap.Error(err))
		} else {
			zap.L().Info("initialized sample product", zap.String("title", p.Title))
		}
	}
}

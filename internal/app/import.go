package app

import (
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/openmart/catalog/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type productCSVRecord struct {
	Title       string `csv:"title"`
	Price       string `csv:"price"`
	Description string `csv:"description"`
	Category    string `csv:"category"`
	Image       string `csv:"image"`
	Sold        bool   `csv:"sold"`
	IsSale      bool   `csv:"is_sale"`
	DateOfSale  string `csv:"date_of_sale"`
}

// ImportProductsCSV bulk-loads catalog rows from a CSV file,
// insert-or-update keyed by title. Rows with a missing required column
// are skipped with a warning rather than aborting the whole import.
func (a *Application) ImportProductsCSV(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open csv file")
	}
	defer file.Close()

	var records []productCSVRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return errors.Wrapf(err, "parse csv file %s", path)
	}

	imported := 0
	for i, rec := range records {
		rec.Title = strings.TrimSpace(rec.Title)
		if rec.Title == "" || rec.Category == "" || rec.Image == "" {
			zap.L().Warn("skipping csv row with missing required column", zap.Int("row", i+1))
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(rec.Price))
		if err != nil {
			zap.L().Warn("skipping csv row with invalid price",
				zap.Int("row", i+1), zap.String("price", rec.Price))
			continue
		}

		var dateOfSale *time.Time
		if strings.TrimSpace(rec.DateOfSale) != "" {
			d, err := dateparse.ParseAny(strings.TrimSpace(rec.DateOfSale))
			if err != nil {
				zap.L().Warn("skipping csv row with invalid date_of_sale",
					zap.Int("row", i+1), zap.String("date_of_sale", rec.DateOfSale))
				continue
			}
			d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			dateOfSale = &d
		}

		p := domain.Product{
			Title:       rec.Title,
			Price:       price,
			Description: rec.Description,
			Category:    strings.TrimSpace(rec.Category),
			Image:       strings.TrimSpace(rec.Image),
			Sold:        rec.Sold,
			IsSale:      rec.IsSale,
			DateOfSale:  dateOfSale,
		}

		var existing domain.Product
		if err := a.gormDB.Where("title = ?", p.Title).First(&existing).Error; err == nil {
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Save(&p).Error; err != nil {
				return errors.Wrapf(err, "update product %q", p.Title)
			}
		} else {
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				return errors.Wrapf(err, "create product %q", p.Title)
			}
		}
		imported++
	}

	zap.L().Info("product csv import finished",
		zap.String("file", path),
		zap.Int("rows", len(records)),
		zap.Int("imported", imported))
	return nil
}

package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/sitedb"
)

// UsageItem is one submitted usage event before pricing.
type UsageItem struct {
	Date         time.Time
	MaterialName string
	Quantity     float64
	Unit         string
	Location     string
	Notes        string
}

func lookupPrices(h *sitedb.Handles, items []UsageItem) (map[string]*models.SiteMaterial, error) {
	catalog := make(map[string]*models.SiteMaterial)
	for _, it := range items {
		if _, ok := catalog[it.MaterialName]; ok {
			continue
		}
		mat, err := h.Materials.FindOne("material_name = ?", it.MaterialName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, materialNotFound(it.MaterialName)
			}
			return nil, err
		}
		catalog[it.MaterialName] = mat
	}
	return catalog, nil
}

// PriceDailyReports snapshots catalog prices onto submitted usage rows. Any
// unknown material fails the whole batch before a single row is built.
// Timestamps follow the reported date so backdated entries sort correctly.
func PriceDailyReports(h *sitedb.Handles, username string, items []UsageItem) ([]models.SiteDailyReport, error) {
	catalog, err := lookupPrices(h, items)
	if err != nil {
		return nil, err
	}
	rows := make([]models.SiteDailyReport, 0, len(items))
	for _, it := range items {
		mat := catalog[it.MaterialName]
		row := models.SiteDailyReport{
			Username:      username,
			Date:          it.Date,
			MaterialName:  it.MaterialName,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			MaterialPrice: mat.MaterialPrice,
			LabourPrice:   mat.LaborPrice,
			Location:      it.Location,
			Notes:         it.Notes,
		}
		if !it.Date.IsZero() {
			row.CreatedAt = it.Date
			row.UpdatedAt = it.Date
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// PriceTotalRecords builds pre-priced ledger rows: catalog prices are
// snapshotted and the derived costs computed once, here, so the stored
// record is self-contained.
func PriceTotalRecords(h *sitedb.Handles, username string, items []UsageItem) ([]models.SiteTotalPrice, error) {
	catalog, err := lookupPrices(h, items)
	if err != nil {
		return nil, err
	}
	rows := make([]models.SiteTotalPrice, 0, len(items))
	for _, it := range items {
		mat := catalog[it.MaterialName]
		materialCost := it.Quantity * mat.MaterialPrice
		laborCost := it.Quantity * mat.LaborPrice
		rows = append(rows, models.SiteTotalPrice{
			Username:      username,
			Date:          it.Date,
			MaterialName:  it.MaterialName,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			MaterialPrice: mat.MaterialPrice,
			LaborPrice:    mat.LaborPrice,
			MaterialCost:  materialCost,
			LaborCost:     laborCost,
			TotalPrice:    materialCost + laborCost,
			Location:      it.Location,
			Notes:         it.Notes,
		})
	}
	return rows, nil
}

package service

import (
	"sort"
	"time"

	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/sitedb"
)

type MaterialTotal struct {
	MaterialName string  `json:"materialName"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	MaterialCost float64 `json:"materialCost"`
	LaborCost    float64 `json:"laborCost"`
	TotalPrice   float64 `json:"totalPrice"`
	Location     string  `json:"location"`
}

type TotalsSummary struct {
	TotalMaterials    int     `json:"totalMaterials"`
	GrandTotal        float64 `json:"grandTotal"`
	TotalMaterialCost float64 `json:"totalMaterialCost"`
	TotalLaborCost    float64 `json:"totalLaborCost"`
}

type TotalsReport struct {
	Rows    []MaterialTotal `json:"calculatedTotalPrices"`
	Summary TotalsSummary   `json:"summary"`
}

// CalculateTotals aggregates priced usage per material over [start, end].
// Daily reports are the source of truth: costs are recomputed from the
// snapshotted unit prices, never read from a stored total. Only when the
// range holds no daily reports at all does it fall back to the pre-priced
// TotalPrice ledger, whose rows each already carry their own event costs and
// are summed as-is. allowed == nil means no username filter (admin view).
func CalculateTotals(h *sitedb.Handles, allowed []string, start, end time.Time) (*TotalsReport, error) {
	var reports []models.SiteDailyReport
	q := h.DailyReports.Query().Where("date BETWEEN ? AND ?", start, end)
	if allowed != nil {
		q = q.Where("username IN ?", allowed)
	}
	if err := q.Find(&reports).Error; err != nil {
		return nil, err
	}

	var rows []MaterialTotal
	if len(reports) > 0 {
		rows = aggregateDailyReports(reports)
	} else {
		var totals []models.SiteTotalPrice
		tq := h.TotalPrices.Query().Where("date BETWEEN ? AND ?", start, end)
		if allowed != nil {
			tq = tq.Where("username IN ?", allowed)
		}
		if err := tq.Find(&totals).Error; err != nil {
			return nil, err
		}
		rows = aggregateTotalPrices(totals)
	}

	report := &TotalsReport{Rows: rows}
	report.Summary.TotalMaterials = len(rows)
	for _, r := range rows {
		report.Summary.GrandTotal += r.TotalPrice
		report.Summary.TotalMaterialCost += r.MaterialCost
		report.Summary.TotalLaborCost += r.LaborCost
	}
	return report, nil
}

func aggregateDailyReports(reports []models.SiteDailyReport) []MaterialTotal {
	groups := make(map[string]*MaterialTotal)
	for _, r := range reports {
		g := groups[r.MaterialName]
		if g == nil {
			g = &MaterialTotal{MaterialName: r.MaterialName, Unit: r.Unit, Location: orNA(r.Location)}
			groups[r.MaterialName] = g
		}
		g.Quantity += r.Quantity
		g.MaterialCost += r.MaterialPrice * r.Quantity
		g.LaborCost += r.LabourPrice * r.Quantity
		g.TotalPrice += (r.MaterialPrice + r.LabourPrice) * r.Quantity
	}
	return sortedTotals(groups)
}

func aggregateTotalPrices(totals []models.SiteTotalPrice) []MaterialTotal {
	groups := make(map[string]*MaterialTotal)
	for _, t := range totals {
		g := groups[t.MaterialName]
		if g == nil {
			g = &MaterialTotal{MaterialName: t.MaterialName, Unit: t.Unit, Location: orNA(t.Location)}
			groups[t.MaterialName] = g
		}
		// Pre-priced rows are one event each; sum their stored costs,
		// do not re-multiply by unit price.
		g.Quantity += t.Quantity
		g.MaterialCost += t.MaterialCost
		g.LaborCost += t.LaborCost
		g.TotalPrice += t.TotalPrice
	}
	return sortedTotals(groups)
}

func sortedTotals(groups map[string]*MaterialTotal) []MaterialTotal {
	rows := make([]MaterialTotal, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, *g)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MaterialName < rows[j].MaterialName })
	return rows
}

func orNA(location string) string {
	if location == "" {
		return "N/A"
	}
	return location
}

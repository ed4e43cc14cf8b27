package service

import "github.com/Psychotichub/report/sitedb"

type SiteStatistics struct {
	DailyReports   int64 `json:"dailyReports"`
	Materials      int64 `json:"materials"`
	ReceivedItems  int64 `json:"receivedItems"`
	TotalPrices    int64 `json:"totalPrices"`
	MonthlyReports int64 `json:"monthlyReports"`
}

// CollectStatistics counts records per kind for a tenant. A non-nil allowed
// slice restricts the ledgers to a manager's visibility set (materials by
// creator, event rows by submitting username); monthly reports carry no
// author and are always counted whole.
func CollectStatistics(h *sitedb.Handles, allowed []string) SiteStatistics {
	var stats SiteStatistics
	if allowed != nil {
		stats.DailyReports, _ = h.DailyReports.Count("username IN ?", allowed)
		stats.Materials, _ = h.Materials.Count("created_by IN ?", allowed)
		stats.ReceivedItems, _ = h.Received.Count("username IN ?", allowed)
		stats.TotalPrices, _ = h.TotalPrices.Count("username IN ?", allowed)
	} else {
		stats.DailyReports, _ = h.DailyReports.Count()
		stats.Materials, _ = h.Materials.Count()
		stats.ReceivedItems, _ = h.Received.Count()
		stats.TotalPrices, _ = h.TotalPrices.Count()
	}
	stats.MonthlyReports, _ = h.MonthlyReports.Count()
	return stats
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Record kinds below live in a tenant's own logical database (one per
// site+company pair), so none of them carry site/company columns.

// SiteMaterial is the tenant's price catalog. Usage rows reference it by
// materialName, not by id; renaming a material does not relabel history.
type SiteMaterial struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MaterialName  string    `gorm:"size:180;uniqueIndex" json:"materialName"`
	Unit          string    `gorm:"size:40" json:"unit"`
	MaterialPrice float64   `json:"materialPrice"`
	LaborPrice    float64   `json:"laborPrice"`
	CreatedBy     string    `gorm:"size:120" json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SiteDailyReport is a raw usage event. MaterialPrice/LabourPrice are copied
// from the catalog at insert time; later price changes never touch them.
type SiteDailyReport struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"size:120;index" json:"username"`
	Date          time.Time `gorm:"index" json:"date"`
	MaterialName  string    `gorm:"size:180" json:"materialName"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `gorm:"size:40" json:"unit"`
	MaterialPrice float64   `json:"materialPrice"`
	LabourPrice   float64   `json:"labourPrice"`
	Location      string    `gorm:"size:180" json:"location"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SiteReceived is the incoming-stock ledger. Not priced.
type SiteReceived struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:120;index" json:"username"`
	Date         time.Time `gorm:"index" json:"date"`
	MaterialName string    `gorm:"size:180" json:"materialName"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `gorm:"size:40" json:"unit"`
	Supplier     string    `gorm:"size:180" json:"supplier"`
	Location     string    `gorm:"size:180" json:"location"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SiteTotalPrice is a pre-priced usage event with the derived cost fields
// persisted directly.
type SiteTotalPrice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"size:120;index" json:"username"`
	Date          time.Time `gorm:"index" json:"date"`
	MaterialName  string    `gorm:"size:180" json:"materialName"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `gorm:"size:40" json:"unit"`
	MaterialPrice float64   `json:"materialPrice"`
	LaborPrice    float64   `json:"laborPrice"`
	MaterialCost  float64   `json:"materialCost"`
	LaborCost     float64   `json:"laborCost"`
	TotalPrice    float64   `json:"totalPrice"`
	Location      string    `gorm:"size:180" json:"location"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type SiteMonthlyReport struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Date              time.Time `gorm:"index" json:"date"`
	MaterialName      string    `gorm:"size:180" json:"materialName"`
	TotalQuantity     float64   `json:"totalQuantity"`
	TotalMaterialCost float64   `json:"totalMaterialCost"`
	TotalLaborCost    float64   `json:"totalLaborCost"`
	TotalCost         float64   `json:"totalCost"`
	Unit              string    `gorm:"size:40" json:"unit"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// SiteActivityLog is append-only; nothing in this codebase updates or
// deletes rows here.
type SiteActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Username   string            `gorm:"size:120;index" json:"username"`
	Role       string            `gorm:"size:20" json:"role"`
	Action     string            `gorm:"size:20" json:"action"`
	Resource   string            `gorm:"size:60" json:"resource"`
	ResourceID uint              `json:"resourceId"`
	Details    datatypes.JSONMap `json:"details"`
	Timestamp  time.Time         `gorm:"autoCreateTime;index" json:"timestamp"`
	IPAddress  string            `gorm:"size:60" json:"ipAddress"`
	UserAgent  string            `gorm:"size:255" json:"userAgent"`
}

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

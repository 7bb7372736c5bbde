package dto

import (
	"time"

	"github.com/Huerte/AcademiQly/internal/analytics"
)

// AnalyticsReportQuery scopes the cohort report. From is inclusive, To exclusive.
type AnalyticsReportQuery struct {
	RoomID *uint
	From   *time.Time
	To     *time.Time
}

// AnalyticsReportResponse is the cohort report plus cache metadata.
type AnalyticsReportResponse struct {
	analytics.Report
	CacheHit bool `json:"cache_hit"`
}

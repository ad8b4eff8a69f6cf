package usage

import (
	"errors"
	"time"

	"github.com/atriumhq/atrium/pkg/orgs"
)

// Point is one day of usage.
type Point struct {
	Date        time.Time `json:"date"`
	APICalls    int       `json:"api_calls"`
	ActiveUsers int       `json:"active_users"`
	StorageMB   int       `json:"storage_mb"`
}

// Totals aggregates a series: API calls sum over the period, peak concurrent
// users, and the latest storage figure.
type Totals struct {
	APICalls        int `json:"api_calls"`
	PeakActiveUsers int `json:"peak_active_users"`
	StorageMB       int `json:"storage_mb"`
}

// Quota is the monthly allowance of a subscription plan.
type Quota struct {
	APICalls    int `json:"api_calls"`
	ActiveUsers int `json:"active_users"`
	StorageMB   int `json:"storage_mb"`
}

// Report is a resolved usage report for one organization.
type Report struct {
	OrgID       string    `json:"org_id"`
	Days        int       `json:"days"`
	Points      []Point   `json:"points"`
	Totals      Totals    `json:"totals"`
	Quota       Quota     `json:"quota"`
	GeneratedAt time.Time `json:"generated_at"`
}

// QuotaForPlan returns the monthly allowance of a plan.
func QuotaForPlan(plan orgs.Plan) Quota {
	switch plan {
	case orgs.PlanEnterprise:
		return Quota{APICalls: 100000, ActiveUsers: 500, StorageMB: 20000}
	case orgs.PlanPro:
		return Quota{APICalls: 50000, ActiveUsers: 200, StorageMB: 5000}
	default:
		return Quota{APICalls: 10000, ActiveUsers: 50, StorageMB: 1000}
	}
}

// Format selects an export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ErrUnsupportedFormat is returned for export formats that are not
// implemented.
var ErrUnsupportedFormat = errors.New("export format not supported")

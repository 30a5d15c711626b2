package usecase

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
	"github.com/atvirokodosprendimai/travelapi/internal/core/ports"
)

const diagnosticCollections = 10

type DiagnosticsConfig struct {
	DatabaseURLSet bool
	DatabaseName   string
}

type DiagnosticReport struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// Diagnostics describes backend and store health. It never returns an error:
// every failure is rendered into the report.
type Diagnostics struct {
	health ports.StoreHealth
	gw     ports.DocumentGateway
	cfg    DiagnosticsConfig
}

func NewDiagnostics(health ports.StoreHealth, gw ports.DocumentGateway, cfg DiagnosticsConfig) *Diagnostics {
	return &Diagnostics{health: health, gw: gw, cfg: cfg}
}

func (d *Diagnostics) Report(ctx context.Context) (report DiagnosticReport) {
	report = DiagnosticReport{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}
	defer func() {
		if r := recover(); r != nil {
			report.Database = "❌ Error: " + domain.Truncate(fmt.Sprint(r), domain.MaxErrorDetail)
		}
	}()

	state, stateErr := d.health.State()
	switch state {
	case domain.StoreUninitialized:
		report.Database = "⚠️ Available but not initialized"
		return report
	case domain.StoreFailed:
		msg := "unknown"
		if stateErr != nil {
			msg = stateErr.Error()
		}
		report.Database = "❌ Error: " + domain.Truncate(msg, domain.MaxErrorDetail)
		return report
	}

	report.Database = "✅ Available"
	report.DatabaseURL = strPtr("❌ Not Set")
	if d.cfg.DatabaseURLSet {
		report.DatabaseURL = strPtr("✅ Set")
	}
	report.DatabaseName = strPtr("❌ Not Set")
	if d.cfg.DatabaseName != "" {
		report.DatabaseName = strPtr(d.cfg.DatabaseName)
	}

	collections, err := d.gw.ListCollections(ctx, diagnosticCollections)
	if err != nil {
		report.Database = "⚠️ Connected but Error: " + domain.Truncate(err.Error(), domain.MaxErrorDetail)
		return report
	}
	if collections != nil {
		report.Collections = collections
	}
	report.Database = "✅ Connected & Working"
	report.ConnectionStatus = "Connected"
	return report
}

func strPtr(s string) *string {
	return &s
}

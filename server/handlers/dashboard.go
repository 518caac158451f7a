package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ebogdum/notes-app/config"
)

type exploreQuery struct {
	RefID     string `json:"refId"`
	Expr      string `json:"expr"`
	QueryType string `json:"queryType"`
}

type exploreRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type exploreState struct {
	Datasource string         `json:"datasource"`
	Queries    []exploreQuery `json:"queries"`
	Range      exploreRange   `json:"range"`
}

// DashboardURL builds the Grafana Explore link pre-scoped to the service's logs
func DashboardURL(cfg config.DashboardConfig, service string) (string, error) {
	state := exploreState{
		Datasource: cfg.Datasource,
		Queries: []exploreQuery{{
			RefID:     "A",
			Expr:      fmt.Sprintf(`{service=%q}`, service),
			QueryType: "range",
		}},
		Range: exploreRange{From: cfg.RangeFrom, To: cfg.RangeTo},
	}

	left, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to encode explore state: %w", err)
	}

	base := strings.TrimSuffix(cfg.GrafanaURL, "/")
	return fmt.Sprintf("%s/explore?orgId=%d&left=%s", base, cfg.OrgID, url.QueryEscape(string(left))), nil
}

// LogsRedirect handles GET /logs requests
// @Summary Open the log dashboard
// @Description Redirects to Grafana Explore with a query for this service over the last hour
// @Tags system
// @Success 302 "Found"
// @Router /logs [get]
func LogsRedirect(cfg config.DashboardConfig, service string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := DashboardURL(cfg, service)
		if err != nil {
			SendErrorResponse(w, r, logger, err)
			return
		}

		logger.Info("Redirecting to Grafana logs",
			zap.String("grafana_url", target),
			zap.String("request_ip", r.RemoteAddr))

		http.Redirect(w, r, target, http.StatusFound)
	}
}

package http

import "sylwalk/internal/core/version"

// check statuses reported by /meta/ready
const (
	checkOK      = "ok"
	checkFail    = "fail"
	checkSkipped = "skipped"
	checkUnknown = "unknown"
)

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"sylwalk-api"`
	Started string `json:"started" example:"2026-01-12T09:00:00Z"`
	Now     string `json:"now"     example:"2026-01-12T09:04:10Z"`
}

// ReadyCheck is the outcome of probing one dependency
type ReadyCheck struct {
	Name   string `json:"name"            example:"engine"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"corpus not loaded"`
}

// ReadyResponse folds the checks into ok, degraded or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-01-12T09:04:10Z"`
}

// ServiceResponse carries the process name and uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"sylwalk-api"`
	Started string `json:"started" example:"2026-01-12T09:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"250"`
}

// EngineResponse describes the loaded corpus, the walk profiles and the build
type EngineResponse struct {
	Loaded              bool              `json:"loaded"                example:"true"`
	Syllables           int               `json:"syllables"             example:"4096"`
	MaxNeighborDistance int               `json:"max_neighbor_distance" example:"3"`
	FeatureNames        []string          `json:"feature_names"`
	Profiles            []string          `json:"profiles"`
	Build               version.BuildInfo `json:"build"`
}

// overall folds check statuses, any failure wins over an unknown
func overall(checks []ReadyCheck) string {
	status := checkOK
	for _, c := range checks {
		switch c.Status {
		case checkFail:
			return checkFail
		case checkUnknown:
			status = "degraded"
		}
	}
	return status
}

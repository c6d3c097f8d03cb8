package model

// APIResponse is the uniform envelope for simple JSON endpoints.
type APIResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"` // "success" or "error"
	Timestamp string `json:"timestamp"`
}

// HealthResponse reports service and dependency health.
type HealthResponse struct {
	Status   string              `json:"status"`
	Service  string              `json:"service"`
	Version  string              `json:"version"`
	Database *DatabaseHealthInfo `json:"database,omitempty"`
	Cache    *CacheHealthInfo    `json:"cache,omitempty"`
}

// DatabaseHealthInfo describes database connectivity and pool usage.
type DatabaseHealthInfo struct {
	Connected       bool   `json:"connected"`
	DatabaseName    string `json:"database_name"`
	OpenConnections int    `json:"open_connections"`
	IdleConnections int    `json:"idle_connections"`
}

// CacheHealthInfo describes cache connectivity. The cache is optional, so
// "not connected" degrades performance rather than availability.
type CacheHealthInfo struct {
	Connected bool `json:"connected"`
}

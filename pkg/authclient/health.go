package authclient

// HealthChecks reports the status of the server's critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is the body returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

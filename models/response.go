package models

// ExtractResponse is the response for POST /api/v1/extract.
type ExtractResponse struct {
	// Success indicates whether the request completed. An empty Records
	// list is still a success.
	Success bool `json:"success"`

	// Records holds the weak-defense observations in extraction order.
	Records []DefenseRecord `json:"records"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// ReconcileResponse is the response for POST /api/v1/reconcile.
type ReconcileResponse struct {
	Success bool           `json:"success"`
	Records []MergedRecord `json:"records"`
	Summary Summary        `json:"summary"`
	Timing  TimingInfo     `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	Error *ErrorDetail `json:"error,omitempty"`
}

// Summary counts the outcome of one reconcile run.
type Summary struct {
	Props          int               `json:"props"`
	DefenseRecords int               `json:"defense_records"`
	DroppedDefense int               `json:"dropped_defense"`
	Matched        int               `json:"matched"`
	Unmatched      int               `json:"unmatched"`
	ByTier         map[MatchTier]int `json:"by_tier"`

	// Unrecognized counts distinct team and stat identifiers that missed
	// the alias tables and were passed through.
	Unrecognized int `json:"unrecognized,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// NavigationMs is the time spent opening and rendering the page.
	NavigationMs int64 `json:"navigation_ms,omitempty"`

	// ExtractionMs is the time spent in the extraction engine.
	ExtractionMs int64 `json:"extraction_ms,omitempty"`

	// JoinMs is the time spent canonicalizing and joining.
	JoinMs int64 `json:"join_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Browser   bool      `json:"browser"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}

// ErrorResponse is the body of requests rejected before any work was done.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

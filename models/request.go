package models

// ExtractRequest is the payload for POST /api/v1/extract.
//
// Exactly one of HTML or URL must be set. HTML runs the extraction engine
// against a saved snapshot (no filter controls can be activated, so the
// engine falls through to its unfiltered pass). URL drives a live browser
// page and requires the server to run with a browser.
type ExtractRequest struct {
	// HTML is a rendered snapshot of the defensive-matchup section.
	HTML string `json:"html,omitempty"`

	// URL is the page to open in the browser.
	URL string `json:"url,omitempty" binding:"omitempty,url"`

	// Section is an optional CSS selector the page is scoped to before
	// extraction starts. Only used together with URL.
	Section string `json:"section,omitempty"`

	// Team is the defending team whose section is scraped. Required.
	Team string `json:"team" binding:"required"`

	// Opponent is the team facing Team. Required.
	Opponent string `json:"opponent" binding:"required"`

	// Timeout is the maximum duration in seconds for a URL extraction.
	// Default: 60. Max: 180.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=180"`

	// Stealth enables anti-bot-detection evasions on the browser page.
	Stealth bool `json:"stealth,omitempty"`

	// Snapshot fetches static HTML for URL instead of driving a live page.
	// Position filters cannot be clicked on a snapshot.
	Snapshot bool `json:"snapshot,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *ExtractRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 60
	}
}

// ReconcileRequest is the payload for POST /api/v1/reconcile.
type ReconcileRequest struct {
	// Defense is the extracted weak-defense records, raw or canonical.
	Defense []DefenseRecord `json:"defense"`

	// Props is the scraped prop lines from every source. Required.
	Props []PropRecord `json:"props" binding:"required"`

	// MaxAge enables the result cache: a cached result younger than MaxAge
	// milliseconds is returned instead of recomputing. 0 disables caching.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`

	// Export forwards the merged rows to the configured exporters.
	Export bool `json:"export,omitempty"`
}

package domain

// Poste represents a top-level emissions-source grouping (stationary
// combustion, electricity, freight...). The catalog is provisioned by
// migrations and read-only to the core.
type Poste struct {
	PosteID string `json:"posteID" db:"poste_id"`
	Ordinal int    `json:"ordinal" db:"ordinal"`
	Code    string `json:"code" db:"code"`
	Label   string `json:"label" db:"label"`
	Enabled bool   `json:"enabled" db:"enabled"`
}

// Source represents a data-collection method within a poste, e.g.
// fuel-volume based vs. distance based. SourceKey is unique across the
// whole catalog ("2A" = poste 2, source A) and is the key every submission
// and visibility row hangs off.
type Source struct {
	SourceKey string `json:"sourceKey" db:"source_key"`
	PosteID   string `json:"posteID" db:"poste_id"`
	Label     string `json:"label" db:"label"`
	Enabled   bool   `json:"enabled" db:"enabled"`
}

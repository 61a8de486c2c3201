package domain

// SourceSchema describes the row shape a source collects: which fields a row
// must carry and which of them are numeric. Each source has a different row
// shape but the validation/sanitization policy over the schema is uniform.
type SourceSchema struct {
	SourceKey      string
	RequiredFields []string
	NumericFields  []string
}

// IsNumeric reports whether the given field is declared numeric by the schema.
func (s SourceSchema) IsNumeric(field string) bool {
	for _, f := range s.NumericFields {
		if f == field {
			return true
		}
	}
	return false
}

// sourceSchemas is the code-level registry of row shapes, keyed by source key.
// It mirrors the catalog seeded by migrations; a source with no entry here
// cannot accept submissions.
var sourceSchemas = map[string]SourceSchema{
	// Poste 1: stationary combustion
	"1A": {SourceKey: "1A", RequiredFields: []string{"site", "fuel_type", "quantity"}, NumericFields: []string{"quantity"}},
	"1B": {SourceKey: "1B", RequiredFields: []string{"site", "amount_eur"}, NumericFields: []string{"amount_eur"}},
	// Poste 2: electricity
	"2A": {SourceKey: "2A", RequiredFields: []string{"site", "consumption"}, NumericFields: []string{"consumption"}},
	"2B": {SourceKey: "2B", RequiredFields: []string{"site", "surface_m2"}, NumericFields: []string{"surface_m2"}},
	// Poste 3: business travel
	"3A": {SourceKey: "3A", RequiredFields: []string{"mode", "distance_km"}, NumericFields: []string{"distance_km", "passengers"}},
	"3B": {SourceKey: "3B", RequiredFields: []string{"mode", "amount_eur"}, NumericFields: []string{"amount_eur"}},
	// Poste 4: freight
	"4A": {SourceKey: "4A", RequiredFields: []string{"mode", "tonnage", "distance_km"}, NumericFields: []string{"tonnage", "distance_km"}},
	// Poste 5: purchased goods and services
	"5A": {SourceKey: "5A", RequiredFields: []string{"category", "amount_eur"}, NumericFields: []string{"amount_eur"}},
	"5B": {SourceKey: "5B", RequiredFields: []string{"category", "quantity", "unit"}, NumericFields: []string{"quantity"}},
	// Poste 6: waste
	"6A": {SourceKey: "6A", RequiredFields: []string{"waste_type", "tonnage"}, NumericFields: []string{"tonnage"}},
}

// SchemaForSource returns the row schema registered for a source key.
func SchemaForSource(sourceKey string) (SourceSchema, bool) {
	schema, ok := sourceSchemas[sourceKey]
	return schema, ok
}

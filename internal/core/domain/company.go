package domain

// Company represents a tenant organization. Companies own users; the poste
// catalog itself is shared, per-user visibility is what varies.
type Company struct {
	CompanyID string `json:"companyID" db:"company_id"`
	Name      string `json:"name" db:"name"`
	IsActive  bool   `json:"isActive" db:"is_active"`
	AuditFields
}

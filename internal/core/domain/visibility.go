package domain

// PosteVisibility is a persisted (user, poste) → hidden flag. Absence of a
// row means visible; rows are toggled, never deleted.
type PosteVisibility struct {
	UserID  string `json:"userID" db:"user_id"`
	PosteID string `json:"posteID" db:"poste_id"`
	Hidden  bool   `json:"hidden" db:"hidden"`
}

// SourceVisibility is a persisted (user, poste, source) → hidden flag with
// the same default-open policy.
type SourceVisibility struct {
	UserID    string `json:"userID" db:"user_id"`
	PosteID   string `json:"posteID" db:"poste_id"`
	SourceKey string `json:"sourceKey" db:"source_key"`
	Hidden    bool   `json:"hidden" db:"hidden"`
}

// VisibilityFlags holds every stored visibility flag for one user, as nested
// maps keyed by typed identifiers. Missing entries mean not hidden.
type VisibilityFlags struct {
	Postes  map[string]bool            // posteID → hidden
	Sources map[string]map[string]bool // posteID → sourceKey → hidden
}

// EffectivePosteVisible resolves the effective visibility of a poste for the
// user the flags were loaded for. Pure and total: absent rows are valid
// input, not an error.
func EffectivePosteVisible(flags VisibilityFlags, posteID string) bool {
	return !flags.Postes[posteID]
}

// EffectiveSourceVisible resolves the effective visibility of a source.
// A hidden poste forces every one of its sources hidden regardless of the
// source's own flag.
func EffectiveSourceVisible(flags VisibilityFlags, posteID, sourceKey string) bool {
	if flags.Postes[posteID] {
		return false
	}
	return !flags.Sources[posteID][sourceKey]
}

// CanEditVisibility decides whether the actor may change visibility flags
// for the target user. SUPER_ADMIN may edit anyone; ADMIN may edit plain
// users of their own company only, and never themselves; USER may edit
// nobody. Handlers re-check this on every mutation, not only to drive UI
// affordances.
func CanEditVisibility(actor, target User) bool {
	switch actor.Role {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		return actor.CompanyID == target.CompanyID &&
			target.Role == RoleUser &&
			actor.UserID != target.UserID
	default:
		return false
	}
}

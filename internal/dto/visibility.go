package dto

// SetVisibilityRequest defines one visibility toggle from the admin console.
// A nil SourceKey targets the poste-level flag.
type SetVisibilityRequest struct {
	TargetUserID string  `json:"targetUserID" binding:"required"`
	PosteID      string  `json:"posteID" binding:"required"`
	SourceKey    *string `json:"sourceKey"`
	Hidden       *bool   `json:"hidden" binding:"required"`
}

// SourceVisibilityView is the resolved visibility of one source for one user.
type SourceVisibilityView struct {
	SourceKey string `json:"sourceKey"`
	Label     string `json:"label"`
	Hidden    bool   `json:"hidden"`  // the stored source-level flag
	Visible   bool   `json:"visible"` // effective, after cascading
}

// PosteVisibilityView is the resolved visibility of one poste for one user.
type PosteVisibilityView struct {
	PosteID string                 `json:"posteID"`
	Code    string                 `json:"code"`
	Label   string                 `json:"label"`
	Ordinal int                    `json:"ordinal"`
	Hidden  bool                   `json:"hidden"`
	Visible bool                   `json:"visible"`
	Sources []SourceVisibilityView `json:"sources"`
}

// UserVisibilityMatrix is what the admin console renders for one target user:
// every enabled poste/source with its stored flag and effective visibility.
type UserVisibilityMatrix struct {
	UserID string                `json:"userID"`
	Postes []PosteVisibilityView `json:"postes"`
}

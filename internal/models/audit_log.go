package models

// AuditLog records mutating user operations. Writes are best-effort: an
// audit failure never fails the mutation it describes.
type AuditLog struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	Changes      string `json:"changes,omitempty"`
}

package models

import "time"

// InventoryItem represents one medicine row in a user's cabinet. Rows with
// the same name are allowed; listings deduplicate by name for display only.
type InventoryItem struct {
	ID         int64      `json:"id" db:"id"`
	OwnerID    int64      `json:"owner_id" db:"user_id"`
	CabinetID  int64      `json:"cabinet_id" db:"cabinet_id"`
	Name       string     `json:"name" db:"medicine_name"`
	Quantity   int        `json:"quantity" db:"quantity"`
	Dosage     string     `json:"dosage" db:"dosage"`
	ExpiryDate *time.Time `json:"expiry_date" db:"expiry_date"`
	Category   string     `json:"category" db:"category"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// IsExpired returns true if the item has an expiry date in the past.
func (i *InventoryItem) IsExpired() bool {
	if i.ExpiryDate == nil {
		return false
	}
	return time.Now().After(*i.ExpiryDate)
}

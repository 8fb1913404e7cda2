package customers

import "time"

// Customer is a ledger account holder. The invoice keeps its own snapshot of
// these fields; editing a customer never rewrites past invoices.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	GSTIN     *string   `json:"gstin,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is the customer block frozen onto an invoice at creation time.
type Snapshot struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
}

// Snapshot freezes the fields invoices carry.
func (c *Customer) Snapshot() Snapshot {
	s := Snapshot{Name: c.Name}
	if c.Phone != nil {
		s.Phone = *c.Phone
	}
	if c.Address != nil {
		s.Address = *c.Address
	}
	if c.GSTIN != nil {
		s.GSTIN = *c.GSTIN
	}
	return s
}

package domain

import "time"

// Client types supported by the bank.
const (
	ClientTypePersonal     = "PERSONAL"
	ClientTypePersonalVIP  = "PERSONAL_VIP"
	ClientTypeBusiness     = "BUSINESS"
	ClientTypeBusinessPyme = "BUSINESS_PYME"
)

// Client represents a bank client. The type is immutable for the lifetime of
// the client.
type Client struct {
	ID           string    `json:"id" db:"id"`
	Identity     string    `json:"identity" db:"identity"`
	FullName     string    `json:"full_name" db:"full_name"`
	TaxID        string    `json:"tax_id" db:"tax_id"`
	BusinessName string    `json:"business_name" db:"business_name"`
	Address      string    `json:"address" db:"address"`
	Phone        string    `json:"phone" db:"phone"`
	Email        string    `json:"email" db:"email"`
	Type         string    `json:"type" db:"type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsPersonal reports whether the client is a plain personal client, subject
// to the one-account-per-type and one-credit limits.
func (c *Client) IsPersonal() bool {
	return c.Type == ClientTypePersonal
}

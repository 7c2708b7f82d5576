// Package models defines the domain models for the audit practice service
package models

import "time"

// Client is an audit client of the firm. Workflows take a snapshot of its
// classification when they are generated.
type Client struct {
	ID           string    `json:"id" bson:"_id" db:"id"`
	Name         string    `json:"name" bson:"name" db:"name"`
	ClientType   string    `json:"client_type" bson:"client_type" db:"client_type"`       // GST | ITR | CompanyAudit | Others
	BusinessSize string    `json:"business_size" bson:"business_size" db:"business_size"` // micro | small | medium | enterprise
	Industry     *string   `json:"industry,omitempty" bson:"industry,omitempty" db:"industry"`
	ContactEmail *string   `json:"contact_email,omitempty" bson:"contact_email,omitempty" db:"contact_email"`
	ContactPhone *string   `json:"contact_phone,omitempty" bson:"contact_phone,omitempty" db:"contact_phone"`
	FiscalYear   *string   `json:"fiscal_year,omitempty" bson:"fiscal_year,omitempty" db:"fiscal_year"` // e.g. FY 2024-25
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// ListFilter narrows list queries. Zero value matches everything.
type ListFilter struct {
	ClientID string
}

// FilterByClient builds a filter for one client. Ids that parse are
// canonicalised the same way writes store them; anything else is kept as given
// and matches nothing.
func FilterByClient(clientID string) ListFilter {
	if id, err := ParseID(clientID); err == nil {
		return ListFilter{ClientID: id}
	}
	return ListFilter{ClientID: clientID}
}

// Matches reports whether a record owned by clientID passes the filter.
func (f ListFilter) Matches(clientID string) bool {
	return f.ClientID == "" || f.ClientID == clientID
}

package models

import "time"

// Document is a supporting document synced into the vault.
type Document struct {
	ID        string    `json:"id" bson:"_id" db:"id"`
	ClientID  string    `json:"client_id" bson:"client_id" db:"client_id"`
	Source    string    `json:"source" bson:"source" db:"source"`       // tally | zoho | quickbooks | mca | gstn | bank | upload
	Name      string    `json:"name" bson:"name" db:"name"`
	Category  string    `json:"category" bson:"category" db:"category"` // invoice | gstr | ledgers | bank | roc | report | other
	Period    *string   `json:"period,omitempty" bson:"period,omitempty" db:"period"`
	URL       *string   `json:"url,omitempty" bson:"url,omitempty" db:"url"`
	Tags      []string  `json:"tags" bson:"tags" db:"tags"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// Signature records a sign-off on a client engagement or document.
type Signature struct {
	ID         string    `json:"id" bson:"_id" db:"id"`
	ClientID   string    `json:"client_id" bson:"client_id" db:"client_id"`
	DocumentID *string   `json:"document_id,omitempty" bson:"document_id,omitempty" db:"document_id"`
	SignedBy   string    `json:"signed_by" bson:"signed_by" db:"signed_by"`
	Role       string    `json:"role" bson:"role" db:"role"`       // partner | manager | client
	Method     string    `json:"method" bson:"method" db:"method"` // aadhaar_esign | dsc | otp | manual
	Note       *string   `json:"note,omitempty" bson:"note,omitempty" db:"note"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

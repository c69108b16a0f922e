package models

import (
	"time"

	id "digitalidentity/pkg/domain"
)

// Customer is owned by the customer service; this service only reads it.
type Customer struct {
	CustomerID        id.CustomerID `json:"id"`
	GivenName         string        `json:"GivenName,omitempty"`
	FamilyName        string        `json:"FamilyName,omitempty"`
	DateOfTermination *time.Time    `json:"DateOfTermination,omitempty"`
}

// IsTerminated reports whether the customer became read-only at or before now.
func (c *Customer) IsTerminated(now time.Time) bool {
	return c.DateOfTermination != nil && !c.DateOfTermination.After(now)
}

// Contact holds a customer's contact details; this service only reads it.
type Contact struct {
	ContactID    id.ContactID  `json:"id"`
	CustomerID   id.CustomerID `json:"CustomerId"`
	EmailAddress string        `json:"EmailAddress,omitempty"`
}

// CustomerProfile joins a customer with its contact for the create flow.
// Contact is nil when the customer has no contact details.
type CustomerProfile struct {
	Customer *Customer
	Contact  *Contact
}

// Email returns the contact email, or "" when unknown.
func (p *CustomerProfile) Email() string {
	if p == nil || p.Contact == nil {
		return ""
	}
	return p.Contact.EmailAddress
}

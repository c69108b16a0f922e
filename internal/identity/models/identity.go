package models

import (
	"time"

	id "digitalidentity/pkg/domain"
	dErrors "digitalidentity/pkg/domain-errors"
)

// TouchpointIDLength is the fixed length of a touchpoint identifier.
const TouchpointIDLength = 10

// DigitalIdentity links a customer to an external identity-provider token.
//
// Invariants:
//   - CustomerID is set and a customer has at most one identity
//   - LastModifiedTouchpointID is exactly TouchpointIDLength characters
//   - once DateOfClosure is at or before now the identity is terminated and
//     rejects patches
//   - TTL is only set when the identity is closed
//
// The fields tagged json:"-" are derived from the customer and contact during
// a create or delete and only travel as far as the notification.
type DigitalIdentity struct {
	IdentityID               id.IdentityID       `json:"id"`
	CustomerID               id.CustomerID       `json:"CustomerId"`
	IdentityStoreID          *id.IdentityStoreID `json:"IdentityStoreId,omitempty"`
	LegacyIdentity           string              `json:"LegacyIdentity,omitempty"`
	IDToken                  string              `json:"id_token,omitempty"`
	LastLoggedInDateTime     *time.Time          `json:"LastLoggedInDateTime,omitempty"`
	LastModifiedDate         *time.Time          `json:"LastModifiedDate,omitempty"`
	LastModifiedTouchpointID string              `json:"LastModifiedTouchpointId,omitempty"`
	DateOfClosure            *time.Time          `json:"DateOfClosure,omitempty"`
	CreatedBy                string              `json:"CreatedBy,omitempty"`
	TTL                      *int                `json:"ttl,omitempty"`

	EmailAddress          string `json:"-"`
	FirstName             string `json:"-"`
	LastName              string `json:"-"`
	CreateDigitalIdentity bool   `json:"-"`
	IsDigitalAccount      bool   `json:"-"`
	DeleteDigitalIdentity bool   `json:"-"`
}

// Patch carries the fields a caller may change on an existing identity.
// Nil pointers and empty strings mean "leave as is".
type Patch struct {
	IdentityStoreID      *id.IdentityStoreID
	LastLoggedInDateTime *time.Time
	LegacyIdentity       string
	IDToken              string
}

// TouchesLastLoggedIn reports whether the patch sets the restricted field.
func (p Patch) TouchesLastLoggedIn() bool {
	return p.LastLoggedInDateTime != nil
}

// SetDefaultValues fills fields a new identity must carry.
func (d *DigitalIdentity) SetDefaultValues(now time.Time) {
	if d.LastModifiedDate == nil {
		t := now
		d.LastModifiedDate = &t
	}
}

// IsTerminated reports whether the identity was closed at or before now.
func (d *DigitalIdentity) IsTerminated(now time.Time) bool {
	return d.DateOfClosure != nil && !d.DateOfClosure.After(now)
}

// CanPatch checks that the identity still accepts changes.
func (d *DigitalIdentity) CanPatch(now time.Time) error {
	if d.IsTerminated(now) {
		return dErrors.New(dErrors.CodeInvariantViolation, "digital identity has been terminated and cannot be updated")
	}
	return nil
}

// ApplyPatch merges p field by field. Only fields present in p overwrite; the
// modification stamp is always refreshed.
// Call CanPatch and the touchpoint allow-list check first.
func (d *DigitalIdentity) ApplyPatch(p Patch, touchpointID string, now time.Time) {
	if p.IdentityStoreID != nil {
		storeID := *p.IdentityStoreID
		d.IdentityStoreID = &storeID
	}
	if p.LastLoggedInDateTime != nil {
		t := p.LastLoggedInDateTime.UTC()
		d.LastLoggedInDateTime = &t
	}
	if p.LegacyIdentity != "" {
		d.LegacyIdentity = p.LegacyIdentity
	}
	if p.IDToken != "" {
		d.IDToken = p.IDToken
	}
	d.touch(touchpointID, now)
}

// ApplyClosure terminates the identity. ttl of zero leaves the ttl field unset.
func (d *DigitalIdentity) ApplyClosure(touchpointID string, now time.Time, ttl time.Duration) {
	closedAt := now
	d.DateOfClosure = &closedAt
	if ttl > 0 {
		seconds := int(ttl / time.Second)
		d.TTL = &seconds
	}
	d.touch(touchpointID, now)
}

// ExpiresAt returns when the store may purge a closed identity.
func (d *DigitalIdentity) ExpiresAt() (time.Time, bool) {
	if d.TTL == nil || d.DateOfClosure == nil {
		return time.Time{}, false
	}
	return d.DateOfClosure.Add(time.Duration(*d.TTL) * time.Second), true
}

// SetCreateDigitalIdentity records the customer details used by downstream
// account provisioning. The identity only counts as a digital account when
// email and both names are known.
func (d *DigitalIdentity) SetCreateDigitalIdentity(email, firstName, lastName string) {
	d.EmailAddress = email
	d.FirstName = firstName
	d.LastName = lastName
	if email != "" && firstName != "" && lastName != "" {
		d.IsDigitalAccount = true
		d.CreateDigitalIdentity = true
	}
}

// SetDeleted flags the identity for downstream account removal.
func (d *DigitalIdentity) SetDeleted() {
	d.DeleteDigitalIdentity = true
	d.IsDigitalAccount = true
	d.CreateDigitalIdentity = false
}

func (d *DigitalIdentity) touch(touchpointID string, now time.Time) {
	modified := now
	d.LastModifiedDate = &modified
	d.LastModifiedTouchpointID = touchpointID
}

// Clone returns a deep copy so stores never share pointers with callers.
func (d *DigitalIdentity) Clone() *DigitalIdentity {
	if d == nil {
		return nil
	}
	c := *d
	c.IdentityStoreID = clonePtr(d.IdentityStoreID)
	c.LastLoggedInDateTime = clonePtr(d.LastLoggedInDateTime)
	c.LastModifiedDate = clonePtr(d.LastModifiedDate)
	c.DateOfClosure = clonePtr(d.DateOfClosure)
	c.TTL = clonePtr(d.TTL)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "digitalidentity/pkg/domain-errors"
)

// Typed identifiers. Distinct types keep a customer id from being passed where
// an identity id is expected.
type (
	CustomerID      uuid.UUID
	IdentityID      uuid.UUID
	IdentityStoreID uuid.UUID
	ContactID       uuid.UUID
)

const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "unable to parse "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be the nil identifier")
	}
	return u, nil
}

// ParseCustomerID parses a customer identifier from an untrusted string.
func ParseCustomerID(s string) (CustomerID, error) {
	u, err := parseUUID("customerId", s)
	return CustomerID(u), err
}

// ParseIdentityID parses an identity identifier from an untrusted string.
func ParseIdentityID(s string) (IdentityID, error) {
	u, err := parseUUID("identityId", s)
	return IdentityID(u), err
}

// ParseIdentityStoreID parses an external identity store reference.
func ParseIdentityStoreID(s string) (IdentityStoreID, error) {
	u, err := parseUUID("identityStoreId", s)
	return IdentityStoreID(u), err
}

// NewIdentityID returns a random identity identifier.
func NewIdentityID() IdentityID { return IdentityID(uuid.New()) }

func (id CustomerID) String() string { return uuid.UUID(id).String() }
func (id CustomerID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id CustomerID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *CustomerID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id IdentityID) String() string { return uuid.UUID(id).String() }
func (id IdentityID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id IdentityID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *IdentityID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id IdentityStoreID) String() string { return uuid.UUID(id).String() }
func (id IdentityStoreID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id IdentityStoreID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *IdentityStoreID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id ContactID) String() string { return uuid.UUID(id).String() }
func (id ContactID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ContactID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ContactID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

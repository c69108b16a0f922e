package handler

import (
	"time"

	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
	dErrors "digitalidentity/pkg/domain-errors"
)

// PostRequest is the body of POST /identity.
type PostRequest struct {
	CustomerID           *id.CustomerID      `json:"CustomerId"`
	IdentityStoreID      *id.IdentityStoreID `json:"IdentityStoreId"`
	LegacyIdentity       string              `json:"LegacyIdentity"`
	IDToken              string              `json:"id_token"`
	LastLoggedInDateTime *time.Time          `json:"LastLoggedInDateTime"`
	DateOfClosure        *time.Time          `json:"DateOfClosure"`
}

func (r *PostRequest) Validate() error {
	if r.CustomerID == nil || r.CustomerID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "CustomerId is mandatory")
	}
	if r.DateOfClosure != nil {
		return dErrors.New(dErrors.CodeValidation, "DateOfClosure cannot be set when creating a digital identity")
	}
	return nil
}

func (r *PostRequest) toIdentity(touchpointID string) *models.DigitalIdentity {
	identity := &models.DigitalIdentity{
		CustomerID:               *r.CustomerID,
		LegacyIdentity:           r.LegacyIdentity,
		IDToken:                  r.IDToken,
		LastModifiedTouchpointID: touchpointID,
		CreatedBy:                touchpointID,
	}
	if r.IdentityStoreID != nil {
		storeID := *r.IdentityStoreID
		identity.IdentityStoreID = &storeID
	}
	if r.LastLoggedInDateTime != nil {
		t := r.LastLoggedInDateTime.UTC()
		identity.LastLoggedInDateTime = &t
	}
	return identity
}

// PatchRequest is the body of both PATCH routes. CustomerId is only consulted
// when the identity is addressed by its own id.
type PatchRequest struct {
	CustomerID           *id.CustomerID      `json:"CustomerId"`
	IdentityStoreID      *id.IdentityStoreID `json:"IdentityStoreId"`
	LegacyIdentity       string              `json:"LegacyIdentity"`
	IDToken              string              `json:"id_token"`
	LastLoggedInDateTime *time.Time          `json:"LastLoggedInDateTime"`
}

func (r *PatchRequest) Validate() error {
	if r.IdentityStoreID != nil && r.IdentityStoreID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "IdentityStoreId must be a non-empty identifier")
	}
	return nil
}

func (r *PatchRequest) toPatch() models.Patch {
	return models.Patch{
		IdentityStoreID:      r.IdentityStoreID,
		LastLoggedInDateTime: r.LastLoggedInDateTime,
		LegacyIdentity:       r.LegacyIdentity,
		IDToken:              r.IDToken,
	}
}

func (r *PatchRequest) customerID() id.CustomerID {
	if r.CustomerID == nil {
		return id.CustomerID{}
	}
	return *r.CustomerID
}

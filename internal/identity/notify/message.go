package notify

import (
	"fmt"
	"strings"
	"time"

	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
)

// Kind names the lifecycle change a message reports.
type Kind string

const (
	KindCreated Kind = "created"
	KindPatched Kind = "patched"
	KindDeleted Kind = "deleted"
)

// Message is the change notification consumed by downstream services. Field
// names are part of the queue contract.
type Message struct {
	TitleMessage          string              `json:"TitleMessage"`
	CustomerGuid          id.CustomerID       `json:"CustomerGuid"`
	LastModifiedDate      *time.Time          `json:"LastModifiedDate"`
	URL                   string              `json:"URL"`
	IsNewCustomer         bool                `json:"IsNewCustomer"`
	TouchpointID          string              `json:"TouchpointId"`
	FirstName             string              `json:"FirstName,omitempty"`
	LastName              string              `json:"LastName,omitempty"`
	EmailAddress          string              `json:"EmailAddress,omitempty"`
	CustomerID            id.CustomerID       `json:"CustomerId"`
	CreateDigitalIdentity bool                `json:"CreateDigitalIdentity"`
	IsDigitalAccount      bool                `json:"IsDigitalAccount"`
	DeleteDigitalIdentity bool                `json:"DeleteDigitalIdentity"`
	IdentityStoreID       *id.IdentityStoreID `json:"IdentityStoreId"`
}

// NewMessage builds the notification for identity. callbackURL is the caller's
// APIM base; the resource link is appended to it.
func NewMessage(kind Kind, identity *models.DigitalIdentity, callbackURL string, at time.Time) Message {
	return Message{
		TitleMessage:          title(kind, identity.IdentityID, at),
		CustomerGuid:          identity.CustomerID,
		LastModifiedDate:      identity.LastModifiedDate,
		URL:                   ResourceURL(callbackURL, identity.IdentityID),
		IsNewCustomer:         false,
		TouchpointID:          identity.LastModifiedTouchpointID,
		FirstName:             identity.FirstName,
		LastName:              identity.LastName,
		EmailAddress:          identity.EmailAddress,
		CustomerID:            identity.CustomerID,
		CreateDigitalIdentity: identity.CreateDigitalIdentity,
		IsDigitalAccount:      identity.IsDigitalAccount,
		DeleteDigitalIdentity: identity.DeleteDigitalIdentity,
		IdentityStoreID:       identity.IdentityStoreID,
	}
}

// ResourceURL joins the callback base and the identity path with exactly one
// slash between them.
func ResourceURL(callbackURL string, identityID id.IdentityID) string {
	return strings.TrimSuffix(callbackURL, "/") + "/identity/" + identityID.String()
}

func title(kind Kind, identityID id.IdentityID, at time.Time) string {
	stamp := at.UTC().Format(time.RFC3339)
	switch kind {
	case KindCreated:
		return fmt.Sprintf("New Digital Identity record %s added at %s", identityID, stamp)
	case KindDeleted:
		return fmt.Sprintf("Digital Identity deleted for %s at %s", identityID, stamp)
	default:
		return fmt.Sprintf("Digital Identity record %s updated at %s", identityID, stamp)
	}
}

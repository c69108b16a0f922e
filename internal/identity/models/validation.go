package models

import (
	"time"

	id "digitalidentity/pkg/domain"
)

// Candidate is the validator's view of an incoming create or patch.
type Candidate struct {
	CustomerID               id.CustomerID
	LastModifiedTouchpointID string
	EmailAddress             string
	LastLoggedInDateTime     *time.Time
	LastModifiedDate         *time.Time
	DateOfClosure            *time.Time
}

// ValidationIssue is one failed rule. The JSON shape is shared with existing
// consumers of the 422 response.
type ValidationIssue struct {
	MemberNames  []string `json:"MemberNames"`
	ErrorMessage string   `json:"ErrorMessage"`
}

// NewIssue builds an issue attributed to the named fields.
func NewIssue(message string, members ...string) ValidationIssue {
	if members == nil {
		members = []string{}
	}
	return ValidationIssue{MemberNames: members, ErrorMessage: message}
}

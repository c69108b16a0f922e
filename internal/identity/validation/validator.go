package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"strconv"
	"time"

	"github.com/asaskevich/govalidator"

	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
	"digitalidentity/pkg/platform/sentinel"
	"digitalidentity/pkg/requestcontext"
)

var touchpointLength = strconv.Itoa(models.TouchpointIDLength)

// Gateway is the read-only slice of the store the validator needs.
type Gateway interface {
	GetCustomer(ctx context.Context, customerID id.CustomerID) (*models.Customer, error)
	GetIdentityForCustomer(ctx context.Context, customerID id.CustomerID) (*models.DigitalIdentity, error)
	DoesContactDetailsWithEmailExist(ctx context.Context, email string, exclude id.CustomerID) (bool, error)
}

// Validator runs field constraints and cross-entity rules against a candidate.
type Validator struct {
	gateway Gateway
}

func New(gateway Gateway) *Validator {
	return &Validator{gateway: gateway}
}

// ValidateResource returns every failed rule for candidate. An empty result
// means the candidate is acceptable. The error is only set when the gateway
// fails, in which case the issue list is nil.
//
// Customer rules are skipped when the candidate carries no customer, which
// happens for a patch addressed by identity id without a CustomerId.
func (v *Validator) ValidateResource(ctx context.Context, c models.Candidate, forCreate bool) ([]models.ValidationIssue, error) {
	now := requestcontext.Now(ctx)
	issues := validateFields(c, forCreate, now)

	if c.CustomerID.IsNil() {
		return issues, nil
	}

	customerIssues, err := v.validateCustomer(ctx, c, forCreate, now)
	if err != nil {
		return nil, err
	}
	return append(issues, customerIssues...), nil
}

func validateFields(c models.Candidate, forCreate bool, now time.Time) []models.ValidationIssue {
	issues := []models.ValidationIssue{}

	if forCreate && c.CustomerID.IsNil() {
		issues = append(issues, models.NewIssue("The CustomerId field is required.", "CustomerId"))
	}
	if !govalidator.StringLength(c.LastModifiedTouchpointID, touchpointLength, touchpointLength) {
		issues = append(issues, models.NewIssue(
			fmt.Sprintf("The field LastModifiedTouchpointId must be a string with a length of %d.", models.TouchpointIDLength),
			"LastModifiedTouchpointId"))
	}
	if c.LastModifiedDate != nil && c.LastModifiedDate.IsZero() {
		issues = append(issues, models.NewIssue("The field LastModifiedDate must be a valid date.", "LastModifiedDate"))
	}
	if c.DateOfClosure != nil && c.DateOfClosure.IsZero() {
		issues = append(issues, models.NewIssue("The field DateOfClosure must be a valid date.", "DateOfClosure"))
	}
	if t := c.LastLoggedInDateTime; t != nil {
		switch {
		case t.IsZero():
			issues = append(issues, models.NewIssue("The field LastLoggedInDateTime must be a valid date.", "LastLoggedInDateTime"))
		case t.After(now):
			issues = append(issues, models.NewIssue("The field LastLoggedInDateTime must be less than or equal to today.", "LastLoggedInDateTime"))
		}
	}
	return issues
}

func (v *Validator) validateCustomer(ctx context.Context, c models.Candidate, forCreate bool, now time.Time) ([]models.ValidationIssue, error) {
	var issues []models.ValidationIssue

	customer, err := v.gateway.GetCustomer(ctx, c.CustomerID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		issues = append(issues, models.NewIssue(
			fmt.Sprintf("Customer with CustomerId %s does not exists.", c.CustomerID), "CustomerId"))
	case err != nil:
		return nil, fmt.Errorf("get customer: %w", err)
	case customer.IsTerminated(now):
		issues = append(issues, models.NewIssue(
			fmt.Sprintf("Unable to modify DigitalIdentity for CustomerId %s, customer is readonly.", c.CustomerID), "CustomerId"))
	}

	if !forCreate {
		return issues, nil
	}

	_, err = v.gateway.GetIdentityForCustomer(ctx, c.CustomerID)
	switch {
	case err == nil:
		issues = append(issues, models.NewIssue(
			fmt.Sprintf("Digital Identity for CustomerId %s already exists.", c.CustomerID), "CustomerId"))
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, fmt.Errorf("get identity for customer: %w", err)
	}

	email := strings.TrimSpace(c.EmailAddress)
	if email == "" {
		issues = append(issues, models.NewIssue("Email address is required to create a digital identity.", "EmailAddress"))
		return issues, nil
	}
	taken, err := v.gateway.DoesContactDetailsWithEmailExist(ctx, email, c.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check contact email: %w", err)
	}
	if taken {
		issues = append(issues, models.NewIssue(
			fmt.Sprintf("Contact with Email Address %s already exists.", email), "EmailAddress"))
	}
	return issues, nil
}

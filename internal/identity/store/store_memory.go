package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
	"digitalidentity/pkg/platform/sentinel"
)

// InMemoryStore keeps the identity, customer and contact collections in maps.
// Used by tests and the default local configuration.
type InMemoryStore struct {
	mu         sync.RWMutex
	identities map[id.IdentityID]*models.DigitalIdentity
	byCustomer map[id.CustomerID]id.IdentityID
	customers  map[id.CustomerID]*models.Customer
	contacts   map[id.CustomerID]*models.Contact
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		identities: make(map[id.IdentityID]*models.DigitalIdentity),
		byCustomer: make(map[id.CustomerID]id.IdentityID),
		customers:  make(map[id.CustomerID]*models.Customer),
		contacts:   make(map[id.CustomerID]*models.Contact),
	}
}

func (s *InMemoryStore) GetIdentityForCustomer(_ context.Context, customerID id.CustomerID) (*models.DigitalIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identityID, ok := s.byCustomer[customerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.identities[identityID].Clone(), nil
}

func (s *InMemoryStore) GetIdentityByID(_ context.Context, identityID id.IdentityID) (*models.DigitalIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[identityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return identity.Clone(), nil
}

// CreateIdentity inserts the identity unless the customer already has one.
func (s *InMemoryStore) CreateIdentity(_ context.Context, identity *models.DigitalIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byCustomer[identity.CustomerID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.identities[identity.IdentityID]; exists {
		return sentinel.ErrConflict
	}
	s.identities[identity.IdentityID] = identity.Clone()
	s.byCustomer[identity.CustomerID] = identity.IdentityID
	return nil
}

func (s *InMemoryStore) UpdateIdentity(_ context.Context, identity *models.DigitalIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.identities[identity.IdentityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.CustomerID != identity.CustomerID {
		delete(s.byCustomer, current.CustomerID)
		s.byCustomer[identity.CustomerID] = identity.IdentityID
	}
	s.identities[identity.IdentityID] = identity.Clone()
	return nil
}

func (s *InMemoryStore) DeleteIdentity(_ context.Context, identityID id.IdentityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.deleteLocked(identityID) {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *InMemoryStore) deleteLocked(identityID id.IdentityID) bool {
	identity, ok := s.identities[identityID]
	if !ok {
		return false
	}
	delete(s.identities, identityID)
	if s.byCustomer[identity.CustomerID] == identityID {
		delete(s.byCustomer, identity.CustomerID)
	}
	return true
}

// PurgeExpired removes closed identities whose ttl has elapsed.
func (s *InMemoryStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for identityID, identity := range s.identities {
		if expiresAt, ok := identity.ExpiresAt(); ok && !expiresAt.After(now) {
			s.deleteLocked(identityID)
			purged++
		}
	}
	return purged, nil
}

func (s *InMemoryStore) DoesCustomerResourceExist(_ context.Context, customerID id.CustomerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.customers[customerID]
	return ok, nil
}

func (s *InMemoryStore) GetCustomer(_ context.Context, customerID id.CustomerID) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	customer, ok := s.customers[customerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *customer
	return &c, nil
}

func (s *InMemoryStore) GetCustomerContact(_ context.Context, customerID id.CustomerID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, ok := s.contacts[customerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *contact
	return &c, nil
}

// DoesContactDetailsWithEmailExist reports whether a contact of any customer
// other than exclude uses email. Matching ignores case.
func (s *InMemoryStore) DoesContactDetailsWithEmailExist(_ context.Context, email string, exclude id.CustomerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for customerID, contact := range s.contacts {
		if customerID == exclude {
			continue
		}
		if strings.EqualFold(contact.EmailAddress, email) {
			return true, nil
		}
	}
	return false, nil
}

// SaveCustomer upserts a customer. Customers are owned elsewhere; this exists
// for seeding and tests.
func (s *InMemoryStore) SaveCustomer(_ context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *customer
	s.customers[customer.CustomerID] = &c
	return nil
}

// SaveContact upserts a customer's contact details.
func (s *InMemoryStore) SaveContact(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *contact
	s.contacts[contact.CustomerID] = &c
	return nil
}

// Ping always succeeds.
func (s *InMemoryStore) Ping(context.Context) error { return nil }

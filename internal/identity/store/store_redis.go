package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
	"digitalidentity/pkg/platform/sentinel"
)

const (
	identityKeyPrefix         = "identity:"
	customerIdentityKeyPrefix = "customer-identity:"
	customerKeyPrefix         = "customer:"
	contactKeyPrefix          = "contact:customer:"
	contactEmailKeyPrefix     = "contact:email:"
)

// RedisStore keeps identity documents as JSON strings. Closed identities get a
// key expiry so Redis purges them without the purger.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func identityKey(identityID id.IdentityID) string {
	return identityKeyPrefix + identityID.String()
}

func customerIdentityKey(customerID id.CustomerID) string {
	return customerIdentityKeyPrefix + customerID.String()
}

func contactEmailKey(email string) string {
	return contactEmailKeyPrefix + strings.ToLower(email)
}

func (s *RedisStore) GetIdentityForCustomer(ctx context.Context, customerID id.CustomerID) (*models.DigitalIdentity, error) {
	raw, err := s.client.Get(ctx, customerIdentityKey(customerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find identity by customer: %w", err)
	}
	identityID, err := id.ParseIdentityID(raw)
	if err != nil {
		return nil, fmt.Errorf("find identity by customer: %w", err)
	}
	return s.GetIdentityByID(ctx, identityID)
}

func (s *RedisStore) GetIdentityByID(ctx context.Context, identityID id.IdentityID) (*models.DigitalIdentity, error) {
	doc, err := s.client.Get(ctx, identityKey(identityID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find identity by id: %w", err)
	}
	return decodeIdentity(doc)
}

// CreateIdentity claims the customer index with SETNX before writing the
// document, so a second create for the customer returns sentinel.ErrConflict.
func (s *RedisStore) CreateIdentity(ctx context.Context, identity *models.DigitalIdentity) error {
	doc, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	claimed, err := s.client.SetNX(ctx, customerIdentityKey(identity.CustomerID), identity.IdentityID.String(), 0).Result()
	if err != nil {
		return fmt.Errorf("claim customer identity: %w", err)
	}
	if !claimed {
		return sentinel.ErrConflict
	}
	created, err := s.client.SetNX(ctx, identityKey(identity.IdentityID), doc, 0).Result()
	if err != nil || !created {
		cause := sentinel.ErrConflict
		if err != nil {
			cause = fmt.Errorf("insert identity: %w", err)
		}
		if delErr := s.client.Del(ctx, customerIdentityKey(identity.CustomerID)).Err(); delErr != nil {
			return errors.Join(cause, fmt.Errorf("release customer identity claim %s: %w", identity.CustomerID, delErr))
		}
		return cause
	}
	return s.applyExpiry(ctx, identity)
}

func (s *RedisStore) UpdateIdentity(ctx context.Context, identity *models.DigitalIdentity) error {
	current, err := s.GetIdentityByID(ctx, identity.IdentityID)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, identityKey(identity.IdentityID), doc, redis.KeepTTL)
		if current.CustomerID != identity.CustomerID {
			pipe.Del(ctx, customerIdentityKey(current.CustomerID))
			pipe.Set(ctx, customerIdentityKey(identity.CustomerID), identity.IdentityID.String(), 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	return s.applyExpiry(ctx, identity)
}

func (s *RedisStore) DeleteIdentity(ctx context.Context, identityID id.IdentityID) error {
	current, err := s.GetIdentityByID(ctx, identityID)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, identityKey(identityID), customerIdentityKey(current.CustomerID)).Err(); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op; closed identities carry a key expiry.
func (s *RedisStore) PurgeExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) applyExpiry(ctx context.Context, identity *models.DigitalIdentity) error {
	expiresAt, ok := identity.ExpiresAt()
	if !ok {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ExpireAt(ctx, identityKey(identity.IdentityID), expiresAt)
		pipe.ExpireAt(ctx, customerIdentityKey(identity.CustomerID), expiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set identity expiry: %w", err)
	}
	return nil
}

func (s *RedisStore) DoesCustomerResourceExist(ctx context.Context, customerID id.CustomerID) (bool, error) {
	n, err := s.client.Exists(ctx, customerKeyPrefix+customerID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check customer exists: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) GetCustomer(ctx context.Context, customerID id.CustomerID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.getJSON(ctx, customerKeyPrefix+customerID.String(), &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *RedisStore) GetCustomerContact(ctx context.Context, customerID id.CustomerID) (*models.Contact, error) {
	var contact models.Contact
	if err := s.getJSON(ctx, contactKeyPrefix+customerID.String(), &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *RedisStore) DoesContactDetailsWithEmailExist(ctx context.Context, email string, exclude id.CustomerID) (bool, error) {
	owners, err := s.client.SMembers(ctx, contactEmailKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("check contact email: %w", err)
	}
	for _, owner := range owners {
		if owner != exclude.String() {
			return true, nil
		}
	}
	return false, nil
}

func (s *RedisStore) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	doc, err := json.Marshal(customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	if err := s.client.Set(ctx, customerKeyPrefix+customer.CustomerID.String(), doc, 0).Err(); err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

// SaveContact writes the contact and moves the customer between email index
// sets when the address changes.
func (s *RedisStore) SaveContact(ctx context.Context, contact *models.Contact) error {
	doc, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	previous, err := s.GetCustomerContact(ctx, contact.CustomerID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}
	owner := contact.CustomerID.String()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous != nil && previous.EmailAddress != "" {
			pipe.SRem(ctx, contactEmailKey(previous.EmailAddress), owner)
		}
		pipe.Set(ctx, contactKeyPrefix+owner, doc, 0)
		if contact.EmailAddress != "" {
			pipe.SAdd(ctx, contactEmailKey(contact.EmailAddress), owner)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) getJSON(ctx context.Context, key string, dst any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

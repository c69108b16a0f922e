//go:build integration

package store_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"digitalidentity/internal/identity/models"
	"digitalidentity/internal/identity/store"
	id "digitalidentity/pkg/domain"
	"digitalidentity/pkg/platform/sentinel"
	"digitalidentity/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestCreateIsConditional() {
	ctx := context.Background()
	customerID := id.CustomerID(uuid.New())

	first := newTestIdentity(customerID)
	s.Require().NoError(s.store.CreateIdentity(ctx, first))
	s.Require().ErrorIs(s.store.CreateIdentity(ctx, newTestIdentity(customerID)), sentinel.ErrConflict)

	found, err := s.store.GetIdentityForCustomer(ctx, customerID)
	s.Require().NoError(err)
	s.Equal(first.IdentityID, found.IdentityID)
}

func (s *RedisStoreSuite) TestClosureSetsKeyExpiry() {
	ctx := context.Background()
	identity := newTestIdentity(id.CustomerID(uuid.New()))
	s.Require().NoError(s.store.CreateIdentity(ctx, identity))

	identity.ApplyClosure("0000000101", time.Now().UTC(), time.Hour)
	s.Require().NoError(s.store.UpdateIdentity(ctx, identity))

	ttl, err := s.redis.Client.TTL(ctx, "identity:"+identity.IdentityID.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 50*time.Minute)
	s.LessOrEqual(ttl, time.Hour)
}

func (s *RedisStoreSuite) TestDeleteAndEmailIndex() {
	ctx := context.Background()
	customerID := id.CustomerID(uuid.New())
	identity := newTestIdentity(customerID)
	s.Require().NoError(s.store.CreateIdentity(ctx, identity))
	s.Require().NoError(s.store.DeleteIdentity(ctx, identity.IdentityID))

	_, err := s.store.GetIdentityForCustomer(ctx, customerID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.SaveCustomer(ctx, &models.Customer{CustomerID: customerID}))
	s.Require().NoError(s.store.SaveContact(ctx, &models.Contact{ContactID: id.ContactID(uuid.New()), CustomerID: customerID, EmailAddress: "old@example.com"}))
	s.Require().NoError(s.store.SaveContact(ctx, &models.Contact{ContactID: id.ContactID(uuid.New()), CustomerID: customerID, EmailAddress: "New@Example.com"}))

	other := id.CustomerID(uuid.New())
	taken, err := s.store.DoesContactDetailsWithEmailExist(ctx, "old@example.com", other)
	s.Require().NoError(err)
	s.False(taken)

	taken, err = s.store.DoesContactDetailsWithEmailExist(ctx, "new@example.com", other)
	s.Require().NoError(err)
	s.True(taken)
}

// failingHook fails every command whose name is listed.
type failingHook struct {
	commands map[string]error
}

func (h failingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h failingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if err, ok := h.commands[cmd.Name()]; ok {
			if cmd.Name() != "setnx" || strings.HasPrefix(cmd.Args()[1].(string), "identity:") {
				cmd.SetErr(err)
				return err
			}
		}
		return next(ctx, cmd)
	}
}

func (h failingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (s *RedisStoreSuite) TestCreateRollbackFailureIsReported() {
	ctx := context.Background()
	opts, err := redis.ParseURL(s.redis.URL)
	s.Require().NoError(err)
	client := redis.NewClient(opts)
	defer client.Close()

	insertErr := errors.New("insert refused")
	releaseErr := errors.New("release refused")
	client.AddHook(failingHook{commands: map[string]error{"setnx": insertErr, "del": releaseErr}})

	customerID := id.CustomerID(uuid.New())
	err = store.NewRedis(client).CreateIdentity(ctx, newTestIdentity(customerID))
	s.Require().Error(err)
	s.ErrorIs(err, insertErr)
	s.ErrorIs(err, releaseErr)
	s.Contains(err.Error(), customerID.String())
}

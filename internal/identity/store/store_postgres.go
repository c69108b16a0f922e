package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"digitalidentity/internal/identity/models"
	id "digitalidentity/pkg/domain"
	"digitalidentity/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

// PostgresStore persists identity documents as JSONB next to the customer and
// contact tables they reference.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgres constructs a PostgreSQL-backed identity store.
func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type identityRow struct {
	Document []byte `db:"document"`
}

type customerRow struct {
	ID                uuid.UUID    `db:"id"`
	GivenName         string       `db:"given_name"`
	FamilyName        string       `db:"family_name"`
	DateOfTermination sql.NullTime `db:"date_of_termination"`
}

type contactRow struct {
	ID           uuid.UUID `db:"id"`
	CustomerID   uuid.UUID `db:"customer_id"`
	EmailAddress string    `db:"email_address"`
}

func (s *PostgresStore) GetIdentityForCustomer(ctx context.Context, customerID id.CustomerID) (*models.DigitalIdentity, error) {
	var row identityRow
	err := s.db.GetContext(ctx, &row, `SELECT document FROM digital_identities WHERE customer_id = $1`, customerID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find identity by customer: %w", err)
	}
	return decodeIdentity(row.Document)
}

func (s *PostgresStore) GetIdentityByID(ctx context.Context, identityID id.IdentityID) (*models.DigitalIdentity, error) {
	var row identityRow
	err := s.db.GetContext(ctx, &row, `SELECT document FROM digital_identities WHERE id = $1`, identityID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find identity by id: %w", err)
	}
	return decodeIdentity(row.Document)
}

// CreateIdentity inserts the document. The unique customer index turns a
// second identity for the same customer into sentinel.ErrConflict.
func (s *PostgresStore) CreateIdentity(ctx context.Context, identity *models.DigitalIdentity) error {
	doc, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO digital_identities (id, customer_id, document, expires_at)
		VALUES ($1, $2, $3, $4)`,
		identity.IdentityID.String(), identity.CustomerID.String(), doc, expiresAt(identity))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateIdentity(ctx context.Context, identity *models.DigitalIdentity) error {
	doc, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE digital_identities
		SET customer_id = $2, document = $3, expires_at = $4
		WHERE id = $1`,
		identity.IdentityID.String(), identity.CustomerID.String(), doc, expiresAt(identity))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update identity: %w", err)
	}
	return requireAffected(res, "update identity")
}

func (s *PostgresStore) DeleteIdentity(ctx context.Context, identityID id.IdentityID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM digital_identities WHERE id = $1`, identityID.String())
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return requireAffected(res, "delete identity")
}

// PurgeExpired deletes closed identities whose ttl elapsed at or before now.
func (s *PostgresStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM digital_identities WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired identities: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired identities: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) DoesCustomerResourceExist(ctx context.Context, customerID id.CustomerID) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customerID.String())
	if err != nil {
		return false, fmt.Errorf("check customer exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) GetCustomer(ctx context.Context, customerID id.CustomerID) (*models.Customer, error) {
	var row customerRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, given_name, family_name, date_of_termination
		FROM customers WHERE id = $1`, customerID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	customer := &models.Customer{
		CustomerID: id.CustomerID(row.ID),
		GivenName:  row.GivenName,
		FamilyName: row.FamilyName,
	}
	if row.DateOfTermination.Valid {
		t := row.DateOfTermination.Time.UTC()
		customer.DateOfTermination = &t
	}
	return customer, nil
}

func (s *PostgresStore) GetCustomerContact(ctx context.Context, customerID id.CustomerID) (*models.Contact, error) {
	var row contactRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, customer_id, email_address
		FROM contacts WHERE customer_id = $1`, customerID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return &models.Contact{
		ContactID:    id.ContactID(row.ID),
		CustomerID:   id.CustomerID(row.CustomerID),
		EmailAddress: row.EmailAddress,
	}, nil
}

func (s *PostgresStore) DoesContactDetailsWithEmailExist(ctx context.Context, email string, exclude id.CustomerID) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM contacts
			WHERE LOWER(email_address) = LOWER($1) AND customer_id <> $2
		)`, email, exclude.String())
	if err != nil {
		return false, fmt.Errorf("check contact email: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	var terminated sql.NullTime
	if customer.DateOfTermination != nil {
		terminated = sql.NullTime{Time: *customer.DateOfTermination, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, given_name, family_name, date_of_termination)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			given_name = EXCLUDED.given_name,
			family_name = EXCLUDED.family_name,
			date_of_termination = EXCLUDED.date_of_termination`,
		customer.CustomerID.String(), customer.GivenName, customer.FamilyName, terminated)
	if err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveContact(ctx context.Context, contact *models.Contact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, customer_id, email_address)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id) DO UPDATE SET
			id = EXCLUDED.id,
			email_address = EXCLUDED.email_address`,
		contact.ContactID.String(), contact.CustomerID.String(), contact.EmailAddress)
	if err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func decodeIdentity(doc []byte) (*models.DigitalIdentity, error) {
	var identity models.DigitalIdentity
	if err := json.Unmarshal(doc, &identity); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	return &identity, nil
}

func expiresAt(identity *models.DigitalIdentity) sql.NullTime {
	t, ok := identity.ExpiresAt()
	if !ok {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

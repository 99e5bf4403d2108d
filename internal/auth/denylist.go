package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/isdelr/folio-be/internal/database"
)

// Denylist records credentials revoked before their expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SQLDenylist stores revoked token ids in the revoked_tokens table.
// Expiry is kept as unix seconds so pruning compares integers on every dialect.
type SQLDenylist struct {
	db *database.DB
}

// NewSQLDenylist creates a denylist backed by db.
func NewSQLDenylist(db *database.DB) *SQLDenylist {
	return &SQLDenylist{db: db}
}

// Revoke inserts tokenID; revoking twice is a no-op.
func (d *SQLDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := d.db.ExecContext(ctx,
		d.db.Rebind("INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?) ON CONFLICT (jti) DO NOTHING"),
		tokenID, expiresAt.Unix())
	return err
}

// IsRevoked reports whether tokenID has been revoked.
func (d *SQLDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		d.db.Rebind("SELECT COUNT(1) FROM revoked_tokens WHERE jti = ?"), tokenID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Prune deletes entries whose token has expired by now.
func (d *SQLDenylist) Prune(ctx context.Context, now time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		d.db.Rebind("DELETE FROM revoked_tokens WHERE expires_at <= ?"), now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RedisDenylist keeps one key per revoked token, expiring with the token.
type RedisDenylist struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisDenylist creates a denylist storing keys under prefix.
func NewRedisDenylist(client *redis.Client, prefix string) *RedisDenylist {
	if prefix == "" {
		prefix = "folio:revoked:"
	}
	return &RedisDenylist{client: client, prefix: prefix, now: time.Now}
}

// Revoke sets a key that lives until expiresAt. Already-expired tokens need no entry.
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return d.client.Set(ctx, d.prefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether a key exists for tokenID.
func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

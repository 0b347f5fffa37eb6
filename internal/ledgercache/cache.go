// Package ledgercache keeps raw party ledger rows in Redis between writes.
//
// Only source rows are cached. Totals and history are always recomputed from
// them, so a cached entry can never disagree with its own aggregation.
//
// Every base key has a version counter. Entries are stored under the version
// read before their rows were loaded, and a write bumps the counter after it
// commits, so rows loaded before a write can never be served after it.
package ledgercache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "ledger"
	directoryKey = "ledger:directory"
)

// Cache wraps Redis JSON caching for party detail and the directory.
// A nil Cache, or one without a client, calls straight through to loaders.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New instantiates the cache helper. logger may be nil.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// PartyKey is the base key of the detail rows of one party.
func PartyKey(partyID string) string {
	return strings.Join([]string{keyPrefix, "party", partyID}, ":")
}

// DirectoryKey is the base key of the party list with totals.
func DirectoryKey() string {
	return directoryKey
}

// VersionKey holds the counter that InvalidateParty bumps for base.
func VersionKey(base string) string {
	return base + ":version"
}

// EntryKey is where the rows of base are stored at version.
func EntryKey(base string, version int64) string {
	return base + ":v" + strconv.FormatInt(version, 10)
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Version returns the current counter of base. A missing counter is version 0.
func (c *Cache) Version(ctx context.Context, base string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, VersionKey(base)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// FetchJSON loads base into dest, populating it from loader on a miss.
// Redis failures fall back to the loader; a failed write is only logged.
func (c *Cache) FetchJSON(ctx context.Context, base string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("ledgercache: loader required")
	}
	if !c.Enabled() {
		return load(ctx, dest, loader)
	}
	ver, err := c.Version(ctx, base)
	if err != nil {
		c.logger.Warn("ledger cache version read", slog.String("key", base), slog.Any("error", err))
		return load(ctx, dest, loader)
	}
	key := EntryKey(base, ver)
	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(payload, dest); jsonErr == nil {
			return nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("ledger cache read", slog.String("key", key), slog.Any("error", err))
		return load(ctx, dest, loader)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("ledger cache write", slog.String("key", key), slog.Any("error", err))
	}
	return json.Unmarshal(raw, dest)
}

// InvalidateParty bumps the versions of the given parties and the directory.
// Call it after the write has committed.
func (c *Cache) InvalidateParty(ctx context.Context, partyIDs ...string) error {
	if !c.Enabled() {
		return nil
	}
	bases := make([]string, 0, len(partyIDs)+1)
	bases = append(bases, directoryKey)
	for _, id := range partyIDs {
		if id == "" {
			continue
		}
		bases = append(bases, PartyKey(id))
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, base := range bases {
			pipe.Incr(ctx, VersionKey(base))
		}
		return nil
	})
	return err
}

func load(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

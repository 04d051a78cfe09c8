package filter

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// Options configures a Redis-backed Tool.
type Options struct {
	RedisURL      string
	RecordType    string
	BatchSize     int
	EnableTLS     bool
	SkipTLSVerify bool
}

// store is the subset of Redis commands the tool issues. The
// indirection keeps the action logic testable without a live server.
type store interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Dump(ctx context.Context, key string) (string, error)
	Restore(ctx context.Context, key string, value string) error
	Close() error
}

type redisStore struct {
	client *redis.Client
}

func (s *redisStore) Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error) {
	return s.client.Scan(ctx, cursor, match, count).Result()
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *redisStore) Dump(ctx context.Context, key string) (string, error) {
	return s.client.Dump(ctx, key).Result()
}

func (s *redisStore) Restore(ctx context.Context, key string, value string) error {
	return s.client.Restore(ctx, key, 0, value).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

// RedisFilter runs the five actions against a Redis instance.
type RedisFilter struct {
	store      store
	ctx        context.Context
	recordType string
	batchSize  int
	confirm    Confirmer
	out        io.Writer
}

// NewRedisFilter connects to Redis and returns the action surface.
// The connection is verified with a PING before any action runs.
func NewRedisFilter(opts Options) (Tool, error) {
	opt, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 5
	opt.MaxRetries = 3
	opt.DialTimeout = time.Second * 5
	opt.ReadTimeout = time.Second * 30
	opt.WriteTimeout = time.Second * 30

	if opts.EnableTLS {
		opt.TLSConfig = &tls.Config{
			InsecureSkipVerify: opts.SkipTLSVerify,
		}
		fmt.Printf("TLS enabled (InsecureSkipVerify: %v)\n", opts.SkipTLSVerify)
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	return &RedisFilter{
		store:      &redisStore{client: client},
		ctx:        ctx,
		recordType: opts.RecordType,
		batchSize:  batchSize,
		confirm:    NewTerminalConfirmer(os.Stdin, os.Stdout),
		out:        os.Stdout,
	}, nil
}

func (rf *RedisFilter) Close() error {
	return rf.store.Close()
}

// matchSet scans the whole keyspace once and returns, in scan order,
// every record of the configured type that satisfies the selector.
// The scan is narrowed server-side with a "<type>:*" pattern and the
// tag is re-checked exactly, since the pattern is a glob.
func (rf *RedisFilter) matchSet(sel Selector) ([]Match, error) {
	var cursor uint64
	var matches []Match

	pattern := rf.recordType + ":*"
	for {
		keys, next, err := rf.store.Scan(rf.ctx, cursor, pattern, int64(rf.batchSize))
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		for _, key := range keys {
			if typeTag(key) != rf.recordType {
				continue
			}
			value, err := rf.store.Get(rf.ctx, key)
			if err != nil {
				return nil, fmt.Errorf("failed to get value for key %s: %w", key, err)
			}
			if sel.Matches(ParseFields(value)) {
				matches = append(matches, Match{Key: key, Value: value})
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return matches, nil
}

// Keys prints each matching key, one per line, in scan order.
func (rf *RedisFilter) Keys(sel Selector) error {
	matches, err := rf.matchSet(sel)
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Fprintln(rf.out, m.Key)
	}
	return nil
}

// Values prints each matching record's raw value followed by a blank
// line. Keys are not printed.
func (rf *RedisFilter) Values(sel Selector) error {
	matches, err := rf.matchSet(sel)
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Fprintf(rf.out, "%s\n\n", m.Value)
	}
	return nil
}

// Delete collects the matching keys and, after confirmation, removes
// them with a single bulk DEL. Declining leaves the store untouched.
func (rf *RedisFilter) Delete(sel Selector) error {
	matches, err := rf.matchSet(sel)
	if err != nil {
		return err
	}

	fmt.Fprintf(rf.out, "%d keys found\n", len(matches))
	if !rf.confirm.Confirm("Delete all matching keys?") {
		fmt.Fprintln(rf.out, "Aborted")
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = m.Key
	}
	if err := rf.store.Del(rf.ctx, keys...); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	fmt.Fprintf(rf.out, "Deleted %d keys\n", len(keys))
	return nil
}

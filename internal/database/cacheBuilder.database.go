package database

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	DEFAULT_CACHE_TTL     = time.Hour
	DEFAULT_CACHE_TIMEOUT = 5 * time.Second
)

var (
	ErrCacheKeyRequired   = errors.New("cache key is required")
	ErrCacheValueRequired = errors.New("cache value is required")
)

type KeyType interface {
	string | []string | int | uuid.UUID
}

// CacheBuilder describes one cache operation. Options are chained and the
// first error met while building is returned by the terminal call.
//
// Keys are made of parts joined with ":"; WithHash prepends a namespace.
// An entry written with TrackIn is also recorded in an index set so that
// DeleteTracked can drop every entry of a family at once.
type CacheBuilder struct {
	cache   valkey.Client
	ctx     context.Context
	timeout time.Duration

	parts []string
	many  []string
	value string
	ttl   time.Duration
	index string

	err error
}

func NewCacheBuilder[K KeyType](cache valkey.Client, key K) *CacheBuilder {
	cb := &CacheBuilder{
		cache:   cache,
		ctx:     context.Background(),
		timeout: DEFAULT_CACHE_TIMEOUT,
		ttl:     DEFAULT_CACHE_TTL,
	}

	switch k := any(key).(type) {
	case string:
		cb.parts = []string{k}
	case int:
		cb.parts = []string{strconv.Itoa(k)}
	case uuid.UUID:
		cb.parts = []string{k.String()}
	case []string:
		cb.many = k
	}

	if cache == nil {
		cb.err = ErrCacheUnavailable
	}
	return cb
}

func (cb *CacheBuilder) WithHash(namespace string) *CacheBuilder {
	if namespace != "" && len(cb.parts) > 0 {
		cb.parts = append([]string{namespace}, cb.parts...)
	}
	return cb
}

func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	if cb.err != nil {
		return cb
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		cb.err = errors.Join(errors.New("cache value is not json encodable"), err)
		return cb
	}
	cb.value = string(encoded)
	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

// TrackIn records the key in the given index set when it is written.
func (cb *CacheBuilder) TrackIn(index string) *CacheBuilder {
	cb.index = index
	return cb
}

func (cb *CacheBuilder) Key() string {
	return strings.Join(cb.parts, ":")
}

func (cb *CacheBuilder) Set() error {
	if cb.err != nil {
		return cb.err
	}
	key := cb.Key()
	switch {
	case key == "":
		return ErrCacheKeyRequired
	case cb.value == "":
		return ErrCacheValueRequired
	}

	ctx, cancel := cb.opContext()
	defer cancel()

	cmds := []valkey.Completed{cb.cache.B().Set().Key(key).Value(cb.value).Ex(cb.ttl).Build()}
	if cb.index != "" {
		cmds = append(cmds, cb.cache.B().Sadd().Key(cb.index).Member(key).Build())
	}

	for _, resp := range cb.cache.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return err
		}
	}
	return nil
}

// Get decodes the cached value into result. A missing key reports false with
// no error.
func (cb *CacheBuilder) Get(result any) (bool, error) {
	if cb.err != nil {
		return false, cb.err
	}
	key := cb.Key()
	if key == "" {
		return false, ErrCacheKeyRequired
	}

	ctx, cancel := cb.opContext()
	defer cancel()

	raw, err := cb.cache.Do(ctx, cb.cache.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) || (err == nil && len(raw) == 0) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the key, or every key when the builder was made from a slice.
func (cb *CacheBuilder) Delete() error {
	if cb.err != nil {
		return cb.err
	}

	keys := append([]string(nil), cb.many...)
	if key := cb.Key(); key != "" {
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := cb.opContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Del().Key(keys...).Build()).Error()
}

// DeleteTracked treats the key as an index set and removes every entry
// recorded in it together with the set itself. It reports how many entries
// were dropped.
func (cb *CacheBuilder) DeleteTracked() (int, error) {
	if cb.err != nil {
		return 0, cb.err
	}
	index := cb.Key()
	if index == "" {
		return 0, ErrCacheKeyRequired
	}

	ctx, cancel := cb.opContext()
	defer cancel()

	members, err := cb.cache.Do(ctx, cb.cache.B().Smembers().Key(index).Build()).AsStrSlice()
	if err != nil {
		return 0, err
	}

	keys := append(members, index)
	if err := cb.cache.Do(ctx, cb.cache.B().Del().Key(keys...).Build()).Error(); err != nil {
		return 0, err
	}
	return len(members), nil
}

// opContext bounds a single call without extending a caller's shorter deadline.
func (cb *CacheBuilder) opContext() (context.Context, context.CancelFunc) {
	if deadline, ok := cb.ctx.Deadline(); ok && time.Until(deadline) < cb.timeout {
		return context.WithCancel(cb.ctx)
	}
	return context.WithTimeout(cb.ctx, cb.timeout)
}

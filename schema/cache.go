// Package schema caches the org's sobject and field names so the
// interactive completer does not hit the describe endpoints on every
// keystroke. The cache lives in a JSON file between sessions and in an
// atomically swapped snapshot within one.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/soqlgen/soqlgen/types"
)

// DefaultExpiry is how long a cache file stays usable.
const DefaultExpiry = 7 * 24 * time.Hour

// Cache is one snapshot of the org schema.
type Cache struct {
	Objects      []string            `json:"objects"`
	ObjectFields map[string][]string `json:"objectFields"`
	LastCached   time.Time           `json:"lastCached"`
}

// Describer is the part of the Salesforce connection the cache needs.
type Describer interface {
	DescribeGlobal(ctx context.Context) (*types.DescribeGlobalResponse, error)
	DescribeObject(ctx context.Context, name string) (*types.DescribeObjectResponse, error)
}

// Load reads a cache file. It returns (nil, nil) when the file does not
// exist or has expired, so callers fall through to a refresh.
func Load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading schema cache: %w", err)
	}

	var cache Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("decoding schema cache: %w", err)
	}
	if cache.Expired(time.Now()) {
		return nil, nil
	}
	return &cache, nil
}

// Save writes the snapshot to path.
func (c *Cache) Save(path string) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Expired reports whether the snapshot is older than DefaultExpiry.
func (c *Cache) Expired(now time.Time) bool {
	return now.Sub(c.LastCached) > DefaultExpiry
}

// Fetch builds a fresh snapshot from the describeGlobal listing. Only
// queryable objects are kept; field lists are filled in lazily as the
// completer needs them.
func Fetch(ctx context.Context, d Describer) (*Cache, error) {
	describe, err := d.DescribeGlobal(ctx)
	if err != nil {
		return nil, err
	}

	objects := make([]string, 0, len(describe.SObjects))
	for _, sobject := range describe.SObjects {
		if sobject.Queryable {
			objects = append(objects, sobject.Name)
		}
	}
	return &Cache{
		Objects:      objects,
		ObjectFields: make(map[string][]string),
		LastCached:   time.Now(),
	}, nil
}

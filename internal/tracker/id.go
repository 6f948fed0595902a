package tracker

import (
	"fmt"
	"log/slog"
	"path"
	"time"

	"gitissue/internal/idgen"
)

// ID is a full issue identifier: a fixed-length lowercase hex token,
// unique within the repository and never reused.
type ID string

// Dir returns the issue's directory relative to the issues root. The
// first two characters fan the tree out into prefix buckets so no
// single directory grows unbounded.
func (id ID) Dir() string {
	return path.Join("issues", string(id[:2]), string(id[2:]))
}

// File returns the path of a property file inside the issue directory.
func (id ID) File(name string) string {
	return path.Join(id.Dir(), name)
}

// Short returns the identifier abbreviated to n characters.
func (id ID) Short(n int) string {
	if n <= 0 || n > len(id) {
		n = len(id)
	}
	return string(id[:n])
}

// idFromDir reconstructs an identifier from its bucket and directory
// names, as laid out by Dir.
func idFromDir(bucket, rest string) ID {
	return ID(bucket + rest)
}

// allocate mints a fresh identifier from the issue content and the
// creation timestamp. On the (negligible) chance of a collision with an
// existing issue, the entropy is adjusted and generation retried a
// bounded number of times.
func (t *Tracker) allocate(description string, created time.Time) (ID, error) {
	for nonce := 0; nonce < idgen.MaxRetries; nonce++ {
		id := ID(idgen.HashID(description, created, nonce))
		if !t.store.Exists(id.Dir()) {
			return id, nil
		}
		slog.Warn("identifier collision, retrying", "id", id.Short(t.short), "nonce", nonce)
	}
	return "", ErrAllocationExhausted
}

// Resolve maps a partial identifier to the unique full identifier it
// unambiguously denotes. Zero matches is ErrNotFound; two or more is an
// AmbiguousError listing every match.
func (t *Tracker) Resolve(partial string) (ID, error) {
	ids, err := t.IDs()
	if err != nil {
		return "", err
	}
	var matches []ID
	for _, id := range ids {
		if partial != "" && len(partial) <= len(id) && string(id[:len(partial)]) == partial {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no issue matches prefix %q", ErrNotFound, partial)
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Prefix: partial, Matches: matches}
	}
}

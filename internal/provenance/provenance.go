// Package provenance records where content came from, keyed by content hash.
// The decision engine never reads it; loaders and the CLI use it to enrich
// artifact metadata before decisions are made.
package provenance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const DefaultSensitivity = "low"

type Record struct {
	Hash        string    `json:"hash"`
	Source      string    `json:"source"`
	Sensitivity string    `json:"sensitivity"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version,omitempty"`
}

// Store is a key-value provenance lookup.
type Store interface {
	// Put inserts or replaces the record for rec.Hash.
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, hash string) (Record, bool, error)
	Close() error
}

// HashText returns the hex sha256 of text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func normalize(rec Record, now func() time.Time) Record {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now()
	}
	if rec.Sensitivity == "" {
		rec.Sensitivity = DefaultSensitivity
	}
	return rec
}

// Enrich copies source, sensitivity and timestamp into meta. Keys the caller
// already set win.
func Enrich(meta map[string]any, rec Record) map[string]any {
	if meta == nil {
		meta = map[string]any{}
	}
	set := func(k string, v any) {
		if _, ok := meta[k]; !ok {
			meta[k] = v
		}
	}
	if rec.Source != "" {
		set("source", rec.Source)
	}
	if rec.Sensitivity != "" {
		set("sensitivity", rec.Sensitivity)
	}
	if !rec.Timestamp.IsZero() {
		set("timestamp", float64(rec.Timestamp.UnixNano())/1e9)
	}
	if rec.Version != "" {
		set("version", rec.Version)
	}
	return meta
}

package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edinet_xbrl/pkg/core/xbrl"
)

// SnapshotCache stores extracted document snapshots keyed by the SHA-256 of the instance bytes.
// Supports Hybrid Vault: DB (Primary) + File System (Fallback/Local)
type SnapshotCache struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewSnapshotCache creates a new snapshot cache instance.
// If pool is nil, it falls back to a file-based cache in dir (default .cache/xbrl/snapshots).
func NewSnapshotCache(pool *pgxpool.Pool, dir string) *SnapshotCache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "xbrl", "snapshots")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check SnapshotCache dir: %v\n", err)
		}
	}
	return &SnapshotCache{pool: pool, fileDir: dir}
}

// CacheEntry is one cached snapshot.
type CacheEntry struct {
	ID          string         `json:"id"`
	Digest      string         `json:"digest"`
	Source      string         `json:"source"`
	FactCount   int            `json:"fact_count"`
	Data        *xbrl.Snapshot `json:"data"`
	ExtractedAt time.Time      `json:"extracted_at"`
}

// Digest returns the cache key for instance document bytes. Extra parts (source label,
// catalog fingerprint) are folded in so snapshots that differ only by them get distinct keys.
func Digest(data []byte, parts ...string) string {
	h := sha256.New()
	h.Write(data)
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached snapshot by digest. A miss returns nil, nil.
func (c *SnapshotCache) Get(ctx context.Context, digest string) (*CacheEntry, error) {
	// 1. Try DB
	if c.pool != nil {
		query := `
			SELECT id, source, fact_count, data, extracted_at
			FROM xbrl_snapshots
			WHERE digest = $1
		`
		entry := CacheEntry{Digest: digest}
		var dataJSON []byte
		err := c.pool.QueryRow(ctx, query, digest).Scan(&entry.ID, &entry.Source, &entry.FactCount, &dataJSON, &entry.ExtractedAt)
		switch {
		case err == nil:
			if err := json.Unmarshal(dataJSON, &entry.Data); err != nil {
				return nil, fmt.Errorf("failed to unmarshal db cached data: %w", err)
			}
			return &entry, nil
		case errors.Is(err, pgx.ErrNoRows):
			// fall through to the file cache
		default:
			fmt.Printf("[CACHE] DB lookup failed, trying files: %v\n", err)
		}
	}

	// 2. Try File System
	if c.fileDir != "" {
		return c.loadEntry(c.digestPath(digest))
	}

	return nil, nil
}

// Save stores a snapshot and returns the written entry.
func (c *SnapshotCache) Save(ctx context.Context, digest string, snap *xbrl.Snapshot) (*CacheEntry, error) {
	entry := &CacheEntry{
		ID:          uuid.NewString(),
		Digest:      digest,
		Source:      snap.Source,
		FactCount:   len(snap.Facts),
		Data:        snap,
		ExtractedAt: time.Now().UTC(),
	}

	// 1. Save to DB
	if c.pool != nil {
		dataJSON, err := json.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		query := `
			INSERT INTO xbrl_snapshots (digest, id, source, fact_count, data, extracted_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (digest)
			DO UPDATE SET
				id = EXCLUDED.id,
				source = EXCLUDED.source,
				fact_count = EXCLUDED.fact_count,
				data = EXCLUDED.data,
				extracted_at = EXCLUDED.extracted_at
		`
		_, err = c.pool.Exec(ctx, query, entry.Digest, entry.ID, entry.Source, entry.FactCount, dataJSON, entry.ExtractedAt)
		if err != nil {
			if c.fileDir == "" {
				return nil, fmt.Errorf("failed to save to db cache: %w", err)
			}
			fmt.Printf("[CACHE] DB save failed, writing file only: %v\n", err)
		}
	}

	// 2. Save to File
	if c.fileDir != "" {
		fileBytes, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cache entry: %w", err)
		}
		if err := os.WriteFile(c.digestPath(digest), fileBytes, 0644); err != nil {
			return nil, fmt.Errorf("failed to save to file cache: %w", err)
		}
	}

	return entry, nil
}

// Exists checks if a snapshot is already cached
func (c *SnapshotCache) Exists(ctx context.Context, digest string) bool {
	if c.pool != nil {
		query := `SELECT 1 FROM xbrl_snapshots WHERE digest = $1 LIMIT 1`
		var exists int
		if err := c.pool.QueryRow(ctx, query, digest).Scan(&exists); err == nil {
			return true
		}
	}

	if c.fileDir != "" {
		if _, err := os.Stat(c.digestPath(digest)); err == nil {
			return true
		}
	}

	return false
}

// Internal File Helpers

func (c *SnapshotCache) digestPath(digest string) string {
	return filepath.Join(c.fileDir, digest+".json")
}

func (c *SnapshotCache) loadEntry(path string) (*CacheEntry, error) {
	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file cache: %w", err)
	}
	var entry CacheEntry
	if err := json.Unmarshal(bytes, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal file cached data: %w", err)
	}
	return &entry, nil
}

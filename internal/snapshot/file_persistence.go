package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// FilePersistence stores one JSON blob per timeframe under a cache
// directory. The default durable tier when no Redis address is configured.
type FilePersistence struct {
	dir string
}

// NewFilePersistence creates a file-backed durable tier rooted at dir.
func NewFilePersistence(dir string) (*FilePersistence, error) {
	if dir == "" {
		dir = "marketCache"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot cache dir: %w", err)
	}
	return &FilePersistence{dir: dir}, nil
}

func (f *FilePersistence) path(tf types.Timeframe) string {
	return filepath.Join(f.dir, fmt.Sprintf("marketCache_%s.json", tf))
}

// Load reads the timeframe's blob. The second return is false when no blob
// has ever been saved for the timeframe.
func (f *FilePersistence) Load(_ context.Context, tf types.Timeframe) (map[string]*types.MarketSnapshot, bool, error) {
	data, err := os.ReadFile(f.path(tf))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot file: %w", err)
	}

	snapshots := make(map[string]*types.MarketSnapshot)
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, false, fmt.Errorf("decode snapshot file: %w", err)
	}
	return snapshots, true, nil
}

// Save overwrites the timeframe's blob. Written to a temp file then renamed
// so a crash mid-write never leaves a torn blob.
func (f *FilePersistence) Save(_ context.Context, tf types.Timeframe, snapshots map[string]*types.MarketSnapshot) error {
	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}

	target := f.path(tf)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit snapshot file: %w", err)
	}
	return nil
}

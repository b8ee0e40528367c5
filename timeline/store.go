package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"faceless-pipeline/types"
)

// Save writes a timeline to content/<slug>/timeline.json under baseDir.
func Save(t *types.Timeline, baseDir string) (string, error) {
	dir := filepath.Join(baseDir, t.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create timeline dir: %w", err)
	}

	path := filepath.Join(dir, "timeline.json")
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal timeline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write timeline: %w", err)
	}
	return path, nil
}

// Load reads a previously saved timeline.
func Load(path string) (*types.Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}
	var t types.Timeline
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse timeline %s: %w", path, err)
	}
	return &t, nil
}

package assets

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"faceless-pipeline/config"
	"faceless-pipeline/types"
)

// Manifest lists the downloaded media available for one content item.
type Manifest struct {
	Slug   string              `json:"slug"`
	Assets []types.VisualAsset `json:"assets"`
}

// LoadManifest reads a manifest file and drops assets that fail the
// license allowlist or minimum resolution. Music tracks skip the
// resolution check.
func LoadManifest(path string, cfg *config.Config) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	allowed := map[string]bool{}
	for _, lic := range cfg.Assets.AllowedLicenses {
		allowed[normalizeLicense(lic)] = true
	}

	var kept []types.VisualAsset
	skipped := 0
	for _, a := range m.Assets {
		if a.License != "" && !allowed[normalizeLicense(a.License)] {
			skipped++
			continue
		}
		if a.AssetType != types.AssetMusic && a.Width > 0 && a.Height > 0 {
			if a.Width < cfg.Assets.MinWidth || a.Height < cfg.Assets.MinHeight {
				skipped++
				continue
			}
		}
		kept = append(kept, a)
	}

	if skipped > 0 {
		log.Printf("[assets] ⚠️ filtered out %d assets (license or resolution)", skipped)
	}
	m.Assets = kept
	return &m, nil
}

// Visuals returns only image and video assets.
func (m *Manifest) Visuals() []types.VisualAsset {
	var out []types.VisualAsset
	for _, a := range m.Assets {
		if a.AssetType == types.AssetImage || a.AssetType == types.AssetVideo {
			out = append(out, a)
		}
	}
	return out
}

// Music returns only music assets.
func (m *Manifest) Music() []types.VisualAsset {
	var out []types.VisualAsset
	for _, a := range m.Assets {
		if a.AssetType == types.AssetMusic {
			out = append(out, a)
		}
	}
	return out
}

func normalizeLicense(lic string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lic), " ", ""))
}

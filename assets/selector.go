package assets

import (
	"math/rand"
	"sort"
	"strings"

	"faceless-pipeline/types"
)

// Selector scores manifest assets against a scene's search terms and
// returns exactly the number of assets requested, padding with generated
// fallback cards when the pool runs dry.
type Selector struct {
	Fallback *FallbackGenerator
}

func NewSelector(fallback *FallbackGenerator) *Selector {
	return &Selector{Fallback: fallback}
}

// SelectForScene picks numNeeded assets for the given scene. The result
// always has exactly numNeeded entries.
func (s *Selector) SelectForScene(scene *types.SceneSegment, available []types.VisualAsset, numNeeded int) []types.VisualAsset {
	if numNeeded <= 0 {
		return nil
	}
	if len(available) == 0 {
		return s.Fallback.EnsureMinimum(nil, numNeeded, scene.SectionMarker)
	}

	terms := searchTerms(scene)

	type scored struct {
		score int
		asset types.VisualAsset
	}
	scoredAssets := make([]scored, 0, len(available))
	for _, asset := range available {
		score := 0
		assetText := strings.ToLower(asset.Title)
		for _, w := range asset.Tags {
			assetText += " " + strings.ToLower(w)
		}

		for _, term := range terms {
			if strings.Contains(assetText, term) {
				score += 10
			} else {
				assetWords := strings.Fields(assetText)
				for _, tw := range strings.Fields(term) {
					for _, aw := range assetWords {
						if strings.Contains(aw, tw) {
							score += 3
							break
						}
					}
				}
			}
		}

		switch {
		case asset.Width >= 1920:
			score += 5
		case asset.Width >= 1280:
			score += 2
		}

		switch normalizeLicense(asset.License) {
		case "cc0", "pd", "publicdomain":
			score += 3
		}

		scoredAssets = append(scoredAssets, scored{score, asset})
	}

	matched := false
	for _, sa := range scoredAssets {
		if sa.score > 0 {
			matched = true
			break
		}
	}
	if !matched {
		// Nothing matched the scene's terms; fall back to a random pick
		// seeded by the scene index so repeated builds agree.
		rng := rand.New(rand.NewSource(int64(scene.Index)))
		rng.Shuffle(len(scoredAssets), func(i, j int) {
			scoredAssets[i], scoredAssets[j] = scoredAssets[j], scoredAssets[i]
		})
	}

	sort.SliceStable(scoredAssets, func(i, j int) bool {
		return scoredAssets[i].score > scoredAssets[j].score
	})

	// Pick highest scores while spreading across creators
	var selected []types.VisualAsset
	usedCreators := map[string]bool{}
	usedPaths := map[string]bool{}
	for _, sa := range scoredAssets {
		if len(selected) >= numNeeded {
			break
		}
		creator := sa.asset.Creator
		if creator == "" {
			creator = "unknown"
		}
		if !usedCreators[creator] || len(selected) < numNeeded/2 {
			selected = append(selected, sa.asset)
			usedCreators[creator] = true
			usedPaths[sa.asset.Path] = true
		}
	}

	// Fill remaining slots from whatever is left
	for _, sa := range scoredAssets {
		if len(selected) >= numNeeded {
			break
		}
		if !usedPaths[sa.asset.Path] {
			selected = append(selected, sa.asset)
			usedPaths[sa.asset.Path] = true
		}
	}

	if len(selected) < numNeeded {
		selected = s.Fallback.EnsureMinimum(selected, numNeeded, scene.SectionMarker)
	}
	return selected
}

func searchTerms(scene *types.SceneSegment) []string {
	seen := map[string]bool{}
	var terms []string
	add := func(s string) {
		s = strings.ToLower(s)
		if s != "" && !seen[s] {
			terms = append(terms, s)
			seen[s] = true
		}
	}
	for _, k := range scene.Keywords {
		add(k)
	}
	for _, q := range scene.SearchQueries {
		add(q)
	}
	for _, c := range scene.VisualCues {
		add(c)
	}
	add(scene.SectionMarker)
	return terms
}

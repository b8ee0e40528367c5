package assets

import (
	"log"
	"math/rand"
	"strings"

	"faceless-pipeline/types"
)

// moodTags maps a requested mood onto the tag vocabulary music manifests
// tend to use.
var moodTags = map[string][]string{
	"upbeat":   {"upbeat", "energetic", "happy", "bright"},
	"calm":     {"calm", "ambient", "chill", "peaceful"},
	"dramatic": {"dramatic", "epic", "cinematic", "intense"},
	"mystery":  {"mystery", "dark", "suspense", "tension"},
}

// PickMusic chooses a background track matching the requested mood.
// Falls back to a random track when nothing matches, and to empty when
// the manifest holds no music at all.
func PickMusic(tracks []types.VisualAsset, mood string, rng *rand.Rand) *types.VisualAsset {
	if len(tracks) == 0 {
		return nil
	}

	wanted := moodTags[strings.ToLower(mood)]
	if len(wanted) == 0 && mood != "" {
		wanted = []string{strings.ToLower(mood)}
	}

	var matches []types.VisualAsset
	for _, t := range tracks {
		if matchesMood(t.Tags, wanted) {
			matches = append(matches, t)
		}
	}

	pool := matches
	if len(pool) == 0 {
		log.Printf("[assets] no music matched mood %q, picking random track", mood)
		pool = tracks
	}

	pick := pool[rng.Intn(len(pool))]
	return &pick
}

func matchesMood(tags, wanted []string) bool {
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		for _, w := range wanted {
			if strings.Contains(tag, w) {
				return true
			}
		}
	}
	return false
}

package upload

import (
	"fmt"
	"sort"
	"strings"

	"faceless-pipeline/config"
	"faceless-pipeline/types"
)

// BuildMetadata derives upload metadata from the analyzed scenes. The
// result is deterministic for a given timeline so regenerated runs keep
// stable titles and tags.
func BuildMetadata(cfg *config.Config, title string, segments []types.SceneSegment) *types.VideoMetadata {
	tags := collectTags(segments, 15)

	var desc strings.Builder
	if len(segments) > 0 && segments[0].KeyPhrase != "" {
		desc.WriteString(segments[0].KeyPhrase)
		desc.WriteString("\n\n")
	}
	desc.WriteString("Chapters:\n")
	for _, seg := range segments {
		if seg.SectionMarker == "" {
			continue
		}
		desc.WriteString(fmt.Sprintf("%s %s\n", formatChapterTime(seg.StartTime), chapterName(seg.SectionMarker)))
	}
	if len(tags) > 0 {
		desc.WriteString("\n#" + strings.Join(tags[:min(3, len(tags))], " #"))
	}

	return &types.VideoMetadata{
		Title:       truncate(title, 100),
		Description: truncate(desc.String(), 5000),
		Tags:        tags,
		CategoryID:  cfg.Upload.CategoryID,
		Visibility:  cfg.Upload.Visibility,
	}
}

// collectTags ranks scene keywords by how many scenes mention them.
func collectTags(segments []types.SceneSegment, maxTags int) []string {
	counts := map[string]int{}
	var order []string
	for _, seg := range segments {
		for _, kw := range seg.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || strings.ContainsAny(kw, "0123456789") {
				continue
			}
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	// scenes are ordered, so first-seen order breaks ties
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxTags {
		order = order[:maxTags]
	}
	return order
}

func chapterName(marker string) string {
	marker = strings.ReplaceAll(marker, "_", " ")
	words := strings.Fields(strings.ToLower(marker))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatChapterTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

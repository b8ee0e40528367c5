package scenes

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"faceless-pipeline/config"
	"faceless-pipeline/types"
)

// stopwords filtered out during keyword extraction
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "been": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "he": true, "in": true, "is": true, "it": true,
	"its": true, "of": true, "on": true, "that": true, "the": true,
	"to": true, "was": true, "will": true, "with": true, "you": true,
	"your": true, "this": true, "these": true, "those": true, "they": true,
	"them": true, "we": true, "our": true, "i": true, "me": true, "my": true,
	"can": true, "could": true, "would": true, "should": true, "just": true,
	"like": true, "get": true, "got": true, "make": true, "made": true,
	"let": true, "lets": true, "but": true, "or": true, "if": true,
	"then": true, "so": true, "because": true, "when": true, "where": true,
	"what": true, "why": true, "how": true, "which": true, "who": true,
	"very": true, "really": true, "actually": true, "basically": true,
	"literally": true, "simply": true, "merely": true, "quite": true,
	"rather": true, "somewhat": true, "fairly": true,
}

// Scene duration buckets in seconds
var sceneDurations = map[string][2]float64{
	"short":  {4, 8},
	"medium": {8, 15},
	"long":   {15, 25},
}

// Section markers mapped to their typical duration bucket
var sectionMarkers = map[string]string{
	"HOOK":          "short",
	"TEASER":        "short",
	"INTRO":         "medium",
	"KEY INSIGHT":   "medium",
	"POINT":         "medium",
	"EXAMPLE":       "medium",
	"PROOF":         "long",
	"DEMONSTRATION": "long",
	"DEEP DIVE":     "long",
	"CTA":           "short",
	"OUTRO":         "short",
	"END":           "short",
}

var (
	// Markers must be uppercase so bracketed asides like [laughs] pass through as text.
	markerPattern   = regexp.MustCompile(`\[([A-Z][A-Z\s]*)(?:\s*-\s*(\d+:\d+))?\]`)
	brollPattern    = regexp.MustCompile(`(?i)\[B-?ROLL:\s*([^\]]+)\]`)
	visualPattern   = regexp.MustCompile(`(?i)\((?:show|display|visualize|image of|video of)\s+([^)]+)\)`)
	nonWordPattern  = regexp.MustCompile(`[^\w\s]`)
	numberPattern   = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?(?:\s*(?:%|percent|million|billion|thousand))?\b`)
	quotePattern    = regexp.MustCompile(`"([^"]+)"`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]`)
)

var keyPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:is|are|means?|shows?|proves?|reveals?)\s+([^.!?]{10,60})`),
	regexp.MustCompile(`(?i)(?:remember|note|important):\s*([^.!?]{10,60})`),
	regexp.MustCompile(`(?i)(?:first|second|third|finally),?\s*([^.!?]{10,60})`),
}

// section is an intermediate structural unit before scene splitting.
type section struct {
	Marker           string
	StartTime        float64
	EndTime          float64
	HasEndTime       bool
	Text             string
	VisualCues       []string
	BRollSuggestions []string
}

// Analyzer segments narration scripts into scenes and extracts the
// keywords, search queries and overlay phrases each scene needs.
type Analyzer struct {
	MinSceneDuration float64
	MaxSceneDuration float64
	WordsPerMinute   float64
	MaxKeywords      int
}

func New(cfg *config.Config) *Analyzer {
	return &Analyzer{
		MinSceneDuration: cfg.Scenes.MinSceneDuration,
		MaxSceneDuration: cfg.Scenes.MaxSceneDuration,
		WordsPerMinute:   cfg.Scenes.WordsPerMinute,
		MaxKeywords:      cfg.Scenes.MaxKeywords,
	}
}

// Analyze splits a script into scene segments. Metadata sections, when
// present, override extracted timings. audioDuration of 0 means unknown.
func (a *Analyzer) Analyze(scriptText string, meta *types.ScriptMetadata, audioDuration float64) []types.SceneSegment {
	sections := a.extractSections(scriptText)
	if len(sections) == 0 {
		sections = a.synthesizeFromParagraphs(scriptText)
	}

	if meta != nil && len(meta.Sections) > 0 {
		sections = mergeWithMetadata(sections, meta.Sections)
	}

	scenes := a.segmentIntoScenes(sections, audioDuration)

	var tags []string
	if meta != nil {
		tags = meta.Tags
	}
	for i := range scenes {
		scenes[i].Keywords = a.extractKeywords(scenes[i].Text)
		scenes[i].SearchQueries = generateSearchQueries(scenes[i].Keywords, scenes[i].VisualCues, tags)
		scenes[i].KeyPhrase = extractKeyPhrase(scenes[i].Text)
	}

	log.Printf("[scenes] ✅ segmented script into %d scenes", len(scenes))
	return scenes
}

// extractSections parses [MARKER - mm:ss] structure out of the script.
func (a *Analyzer) extractSections(scriptText string) []section {
	var sections []section

	lastPos := 0
	for _, loc := range markerPattern.FindAllStringSubmatchIndex(scriptText, -1) {
		if loc[0] > lastPos {
			prev := strings.TrimSpace(scriptText[lastPos:loc[0]])
			if prev != "" && len(sections) > 0 {
				sections[len(sections)-1].Text += " " + prev
			}
		}

		marker := strings.ToUpper(strings.TrimSpace(scriptText[loc[2]:loc[3]]))
		startTime := 0.0
		if loc[4] >= 0 {
			startTime = parseTimestamp(scriptText[loc[4]:loc[5]])
		}

		lookahead := scriptText[loc[1]:min(loc[1]+500, len(scriptText))]
		sections = append(sections, section{
			Marker:     marker,
			StartTime:  startTime,
			VisualCues: extractVisualCues(lookahead),
		})
		lastPos = loc[1]
	}

	if lastPos < len(scriptText) {
		remaining := strings.TrimSpace(scriptText[lastPos:])
		if remaining != "" {
			if len(sections) > 0 {
				sections[len(sections)-1].Text += " " + remaining
			} else {
				sections = append(sections, section{
					Text:       scriptText,
					VisualCues: extractVisualCues(scriptText),
				})
			}
		}
	}

	return sections
}

// synthesizeFromParagraphs builds coarse sections when the script carries
// no markers at all.
func (a *Analyzer) synthesizeFromParagraphs(scriptText string) []section {
	var sections []section
	cursor := 0.0
	for _, para := range strings.Split(scriptText, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		words := len(strings.Fields(para))
		dur := (float64(words) / a.WordsPerMinute) * 60
		dur = math.Max(6.0, math.Min(20.0, dur))
		sections = append(sections, section{
			StartTime:  cursor,
			EndTime:    cursor + dur,
			HasEndTime: true,
			Text:       para,
		})
		cursor += dur
	}
	return sections
}

func parseTimestamp(s string) float64 {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		m, _ := strconv.Atoi(parts[0])
		sec, _ := strconv.Atoi(parts[1])
		return float64(m*60 + sec)
	case 1:
		sec, _ := strconv.Atoi(parts[0])
		return float64(sec)
	}
	return 0
}

func extractVisualCues(text string) []string {
	var cues []string
	for _, m := range brollPattern.FindAllStringSubmatch(text, -1) {
		cues = append(cues, strings.TrimSpace(m[1]))
	}
	for _, m := range visualPattern.FindAllStringSubmatch(text, -1) {
		cues = append(cues, strings.TrimSpace(m[1]))
	}
	return cues
}

// mergeWithMetadata overlays externally supplied section timings onto the
// extracted structure. Metadata end times win.
func mergeWithMetadata(extracted []section, metaSections []types.ScriptSection) []section {
	var merged []section

	for _, ms := range metaSections {
		var matched *section
		for i := range extracted {
			if math.Abs(extracted[i].StartTime-ms.StartTime) < 2 ||
				extracted[i].Marker == strings.ToUpper(ms.Type) {
				matched = &extracted[i]
				break
			}
		}

		if matched != nil {
			m := *matched
			m.VisualCues = dedupeStrings(append(append([]string{}, m.VisualCues...), ms.VisualCues...))
			m.BRollSuggestions = dedupeStrings(append(append([]string{}, m.BRollSuggestions...), ms.BRollSuggestions...))
			if ms.EndTime > 0 {
				m.EndTime = ms.EndTime
				m.HasEndTime = true
			}
			merged = append(merged, m)
		} else {
			merged = append(merged, section{
				Marker:           strings.ToUpper(ms.Type),
				StartTime:        ms.StartTime,
				EndTime:          ms.EndTime,
				HasEndTime:       ms.EndTime > 0,
				Text:             ms.Text,
				VisualCues:       ms.VisualCues,
				BRollSuggestions: ms.BRollSuggestions,
			})
		}
	}

	for _, ext := range extracted {
		found := false
		for _, m := range merged {
			if sectionsMatch(ext, m) {
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, ext)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime < merged[j].StartTime
	})
	return merged
}

func sectionsMatch(s1, s2 section) bool {
	return math.Abs(s1.StartTime-s2.StartTime) < 2 || (s1.Marker != "" && s1.Marker == s2.Marker)
}

// segmentIntoScenes turns sections into scenes, splitting long sections
// into evenly sized sub-scenes. The cursor keeps scene starts monotonic.
func (a *Analyzer) segmentIntoScenes(sections []section, totalDuration float64) []types.SceneSegment {
	var scenes []types.SceneSegment
	sceneIndex := 0
	cursor := 0.0

	for i, sec := range sections {
		startTime := sec.StartTime
		if startTime < cursor {
			startTime = cursor
		}

		var duration float64
		switch {
		case sec.HasEndTime:
			duration = sec.EndTime - startTime
		case i+1 < len(sections):
			duration = sections[i+1].StartTime - startTime
		case totalDuration > 0:
			duration = totalDuration - startTime
		default:
			words := len(strings.Fields(sec.Text))
			duration = (float64(words) / a.WordsPerMinute) * 60
		}

		minDur, maxDur := a.MinSceneDuration, a.MaxSceneDuration
		if bucket, ok := sectionMarkers[sec.Marker]; ok {
			bounds := sceneDurations[bucket]
			minDur, maxDur = bounds[0], bounds[1]
		}

		if duration > maxDur {
			numScenes := int(duration / ((minDur + maxDur) / 2))
			if numScenes < 1 {
				numScenes = 1
			}
			sceneDuration := duration / float64(numScenes)

			words := strings.Fields(sec.Text)
			wordsPerScene := len(words) / numScenes

			for j := 0; j < numScenes; j++ {
				startIdx := j * wordsPerScene
				endIdx := (j + 1) * wordsPerScene
				if j == numScenes-1 {
					endIdx = len(words)
				}
				var cues, broll []string
				if j == 0 {
					cues, broll = sec.VisualCues, sec.BRollSuggestions
				}
				scenes = append(scenes, newSegment(
					sceneIndex,
					startTime+float64(j)*sceneDuration,
					startTime+float64(j+1)*sceneDuration,
					strings.Join(words[startIdx:endIdx], " "),
					sec.Marker, cues, broll,
				))
				sceneIndex++
			}
			cursor = scenes[len(scenes)-1].EndTime
		} else {
			endTime := startTime + duration
			if duration < minDur {
				endTime = startTime + minDur
			}
			scenes = append(scenes, newSegment(sceneIndex, startTime, endTime, sec.Text, sec.Marker, sec.VisualCues, sec.BRollSuggestions))
			sceneIndex++
			cursor = endTime
		}
	}

	return scenes
}

func newSegment(index int, start, end float64, text, marker string, cues, broll []string) types.SceneSegment {
	return types.SceneSegment{
		Index:            index,
		StartTime:        start,
		EndTime:          end,
		Duration:         end - start,
		Text:             text,
		SectionMarker:    marker,
		SceneType:        InferSceneType(marker),
		VisualCues:       cues,
		BRollSuggestions: broll,
	}
}

// InferSceneType maps a section marker onto the transition vocabulary.
func InferSceneType(marker string) string {
	if marker == "" {
		return ""
	}
	m := strings.ToUpper(marker)
	switch {
	case strings.Contains(m, "INTRO"), strings.Contains(m, "HOOK"):
		return "HOOK"
	case strings.Contains(m, "PROOF"), strings.Contains(m, "FACT"):
		return "PROOF"
	case strings.Contains(m, "DEMO"), strings.Contains(m, "EXAMPLE"):
		return "DEMONSTRATION"
	case strings.Contains(m, "CTA"), strings.Contains(m, "OUTRO"):
		return "OUTRO"
	default:
		return "MAIN"
	}
}

// extractKeywords pulls nouns and statistics out of scene text.
func (a *Analyzer) extractKeywords(text string) []string {
	maxKeywords := a.MaxKeywords
	if maxKeywords == 0 {
		maxKeywords = 5
	}

	clean := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")
	var words []string
	for _, w := range strings.Fields(clean) {
		if !stopwords[w] && len(w) > 3 {
			words = append(words, w)
		}
	}

	counts := map[string]int{}
	for _, w := range words {
		counts[w]++
	}

	nounSuffixes := []string{"tion", "ment", "ness", "ity", "ing", "er", "or", "ist"}
	var nouns []string
	for _, w := range words {
		isNoun := false
		for _, suf := range nounSuffixes {
			if strings.HasSuffix(w, suf) {
				isNoun = true
				break
			}
		}
		if !isNoun && strings.Contains(text, capitalize(w)) {
			isNoun = true
		}
		if !isNoun && counts[w] > 1 {
			isNoun = true
		}
		if isNoun {
			nouns = append(nouns, w)
		}
	}

	pool := nouns
	if len(pool) == 0 {
		pool = words
	}

	keywords := topByFrequency(pool, maxKeywords)

	numbers := numberPattern.FindAllString(text, -1)
	for i, num := range numbers {
		if i >= 2 {
			break
		}
		keywords = append(keywords, strings.TrimSpace(num))
	}

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// topByFrequency ranks words by count, first occurrence breaking ties.
func topByFrequency(words []string, n int) []string {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	var order []string
	for i, w := range words {
		if counts[w] == 0 {
			firstSeen[w] = i
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// generateSearchQueries builds stock-footage queries: visual cues first,
// then keyword combinations, then tag+keyword pairs. Capped at 5.
func generateSearchQueries(keywords, visualCues, tags []string) []string {
	var queries []string

	for i, cue := range visualCues {
		if i >= 3 {
			break
		}
		queries = append(queries, cue)
	}

	if len(keywords) >= 2 {
		queries = append(queries, strings.Join(keywords[:2], " "))
	}

	for i, kw := range keywords {
		if i >= 3 {
			break
		}
		if len(kw) > 4 {
			queries = append(queries, kw)
		}
	}

	for i, tag := range tags {
		if i >= 2 {
			break
		}
		if len(keywords) > 0 {
			queries = append(queries, fmt.Sprintf("%s %s", tag, keywords[0]))
		} else {
			queries = append(queries, tag)
		}
	}

	seen := map[string]bool{}
	var unique []string
	for _, q := range queries {
		lq := strings.ToLower(q)
		if q != "" && !seen[lq] {
			unique = append(unique, q)
			seen[lq] = true
		}
	}
	if len(unique) > 5 {
		unique = unique[:5]
	}
	return unique
}

// extractKeyPhrase picks a short statement suitable for an on-screen overlay.
func extractKeyPhrase(text string) string {
	const maxLength = 60
	if text == "" {
		return ""
	}

	for _, m := range quotePattern.FindAllStringSubmatch(text, -1) {
		if len(m[1]) > 10 && len(m[1]) < maxLength {
			return m[1]
		}
	}

	for _, pat := range keyPhrasePatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			phrase := strings.TrimSpace(m[1])
			if len(phrase) < maxLength {
				return capitalize(phrase)
			}
		}
	}

	sentences := sentenceSplitRe.Split(text, -1)
	if len(sentences) > 0 && len(sentences[0]) < maxLength {
		return capitalize(strings.TrimSpace(sentences[0]))
	}

	words := strings.Fields(text)
	if len(words) > 5 {
		if len(words) > 8 {
			words = words[:8]
		}
		phrase := strings.Join(words, " ") + "..."
		if len(phrase) < maxLength {
			return phrase
		}
	}

	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			out = append(out, s)
			seen[s] = true
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package filtergraph

import (
	"fmt"
	"regexp"
	"strings"

	"faceless-pipeline/timeline"
	"faceless-pipeline/types"
)

// inputLabelRe matches raw demuxer stream labels like [0:v] or [3:a].
var inputLabelRe = regexp.MustCompile(`^\[\d+:[va]\]$`)

// drawtext position vocabulary
var positionMap = map[string]string{
	"top":         "x=(w-text_w)/2:y=50",
	"bottom":      "x=(w-text_w)/2:y=h-100",
	"center":      "x=(w-text_w)/2:y=(h-text_h)/2",
	"topleft":     "x=50:y=50",
	"topright":    "x=w-text_w-50:y=50",
	"bottomleft":  "x=50:y=h-100",
	"bottomright": "x=w-text_w-50:y=h-100",
}

// Builder accumulates filter expressions for one graph. Labels are
// numbered per instance and tracked so a filter can never reference a
// label that was not produced earlier. One builder builds one graph.
type Builder struct {
	inputs   []string
	inputIdx map[string]int
	filters  []string
	labelSeq int
	produced map[string]bool
	err      error
}

func NewBuilder() *Builder {
	return &Builder{
		inputIdx: make(map[string]int),
		produced: make(map[string]bool),
	}
}

// AddInput registers an input file, deduplicating by path, and returns
// its video and audio stream labels.
func (b *Builder) AddInput(path string) (string, string) {
	idx, ok := b.inputIdx[path]
	if !ok {
		idx = len(b.inputs)
		b.inputIdx[path] = idx
		b.inputs = append(b.inputs, path)
	}
	return fmt.Sprintf("[%d:v]", idx), fmt.Sprintf("[%d:a]", idx)
}

func (b *Builder) newLabel(prefix string) string {
	label := fmt.Sprintf("[%s_%d]", prefix, b.labelSeq)
	b.labelSeq++
	b.produced[label] = true
	return label
}

// consume verifies each referenced label is either a demuxer stream or
// was produced by an earlier step. A violation is a builder bug, so it
// poisons the whole build.
func (b *Builder) consume(labels ...string) {
	for _, l := range labels {
		if inputLabelRe.MatchString(l) || b.produced[l] {
			continue
		}
		if b.err == nil {
			b.err = fmt.Errorf("filtergraph: label %s referenced before production", l)
		}
	}
}

func (b *Builder) appendFilter(expr string) {
	b.filters = append(b.filters, expr)
}

// Err reports the first invariant violation hit during construction.
func (b *Builder) Err() error { return b.err }

// Trim cuts a source window out of a clip and rebases its timestamps.
func (b *Builder) Trim(in string, start, end float64) string {
	b.consume(in)
	out := b.newLabel("trim")
	b.appendFilter(fmt.Sprintf("%strim=start=%s:end=%s,setpts=PTS-STARTPTS%s", in, formatFloat(start), formatFloat(end), out))
	return out
}

// ScaleAndPad letterboxes the stream to the target frame and forces fps.
func (b *Builder) ScaleAndPad(in string, width, height, fps int) string {
	b.consume(in)
	out := b.newLabel("scaled")
	b.appendFilter(fmt.Sprintf(
		"%sscale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black,fps=%d%s",
		in, width, height, width, height, fps, out))
	return out
}

// ZoomPan applies a Ken Burns move. The zoom and pan expressions
// interpolate linearly over the effect's frame count.
func (b *Builder) ZoomPan(in string, fx *types.ZoomPanEffect, width, height int) string {
	b.consume(in)
	out := b.newLabel("zoompan")

	n := fx.DurationFrames
	if n < 1 {
		n = 1
	}
	zExpr := fmt.Sprintf("'%s+(%s)*on/%d'", formatFloat(fx.ZoomStart), formatFloat(fx.ZoomEnd-fx.ZoomStart), n)
	xExpr := fmt.Sprintf("'(iw-iw/zoom)*(%s+(%s)*on/%d)'", formatFloat(fx.PanXStart), formatFloat(fx.PanXEnd-fx.PanXStart), n)
	yExpr := fmt.Sprintf("'(ih-ih/zoom)*(%s+(%s)*on/%d)'", formatFloat(fx.PanYStart), formatFloat(fx.PanYEnd-fx.PanYStart), n)

	b.appendFilter(fmt.Sprintf("%szoompan=z=%s:x=%s:y=%s:d=%d:s=%dx%d%s",
		in, zExpr, xExpr, yExpr, n, width, height, out))
	return out
}

// TextOverlay draws a phrase with a drop shadow at a named position.
func (b *Builder) TextOverlay(in, text, position string) string {
	b.consume(in)
	out := b.newLabel("text")

	pos, ok := positionMap[position]
	if !ok {
		pos = positionMap["bottom"]
	}

	b.appendFilter(fmt.Sprintf(
		"%sdrawtext=text='%s':fontsize=48:fontcolor=white:%s:shadowcolor=black:shadowx=2:shadowy=2%s",
		in, EscapeText(text), pos, out))
	return out
}

// Transition crossfades two streams at the given absolute offset.
func (b *Builder) Transition(in1, in2, name string, duration, offset float64) string {
	b.consume(in1, in2)
	out := b.newLabel("trans")

	xfade, ok := timeline.KnownTransition(name)
	if !ok {
		xfade = "fade"
	}

	b.appendFilter(fmt.Sprintf("%s%sxfade=transition=%s:duration=%s:offset=%s%s",
		in1, in2, xfade, formatFloat(duration), formatFloat(offset), out))
	return out
}

// Concat joins two video streams back to back.
func (b *Builder) Concat(in1, in2 string) string {
	b.consume(in1, in2)
	out := b.newLabel("concat")
	b.appendFilter(fmt.Sprintf("%s%sconcat=n=2:v=1:a=0%s", in1, in2, out))
	return out
}

// Subtitles burns a subtitle file into the stream with fixed styling.
func (b *Builder) Subtitles(in, subtitlePath string) string {
	b.consume(in)
	out := b.newLabel("subs")
	b.appendFilter(fmt.Sprintf(
		"%ssubtitles='%s':force_style='FontName=Arial,FontSize=22,PrimaryColour=&HFFFFFF,OutlineColour=&H000000,BorderStyle=1,Outline=2'%s",
		in, EscapeSubtitlePath(subtitlePath), out))
	return out
}

// MixAudio ducks the music under narration with sidechain compression,
// then mixes the two. Without music the narration passes through.
func (b *Builder) MixAudio(narration, music string, musicVolume float64) string {
	if music == "" {
		b.consume(narration)
		return narration
	}
	b.consume(narration, music)

	vol := b.newLabel("music_vol")
	b.appendFilter(fmt.Sprintf("%svolume=%s%s", music, formatFloat(musicVolume), vol))

	ducked := b.newLabel("ducked")
	b.appendFilter(fmt.Sprintf("%s%ssidechaincompress=threshold=0.02:ratio=5:attack=0.1:release=0.2%s",
		vol, narration, ducked))

	mixed := b.newLabel("mixed")
	b.appendFilter(fmt.Sprintf("%s%samix=inputs=2:duration=longest%s", ducked, narration, mixed))
	return mixed
}

// NormalizeLoudness pins the mix to the target LUFS.
func (b *Builder) NormalizeLoudness(in string, targetLUFS int) string {
	b.consume(in)
	out := b.newLabel("normalized")
	b.appendFilter(fmt.Sprintf("%sloudnorm=I=%d:TP=-1.5:LRA=11%s", in, targetLUFS, out))
	return out
}

// InputArgs returns the -i argument list for every registered input.
func (b *Builder) InputArgs() []string {
	var args []string
	for _, f := range b.inputs {
		args = append(args, "-i", f)
	}
	return args
}

// FilterComplex joins the accumulated filter steps.
func (b *Builder) FilterComplex() string {
	return strings.Join(b.filters, ";")
}

// EscapeText escapes a drawtext payload for single-quoted use.
func EscapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, "'", `\'`)
	text = strings.ReplaceAll(text, ":", `\:`)
	return text
}

// EscapeSubtitlePath makes a path safe inside the subtitles filter.
func EscapeSubtitlePath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.ReplaceAll(path, ":", `\:`)
	return path
}

// formatFloat trims trailing zeros so graphs stay readable and stable.
func formatFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

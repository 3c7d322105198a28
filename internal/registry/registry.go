package registry

import (
	"fmt"
	"sort"
	"strings"

	"mediaconv/internal/config"
	"mediaconv/internal/converters"
	"mediaconv/internal/services/ffmpeg"
	"mediaconv/internal/services/rsvg"
)

// Pair identifies a supported conversion as a lower-cased (input extension,
// output extension) tuple, both with the leading dot.
type Pair struct {
	Input  string
	Output string
}

func (p Pair) String() string {
	return p.Input + " -> " + p.Output
}

// Entry binds a format pair to its converter capability.
type Entry struct {
	Pair        Pair
	Family      string
	Description string
	Converter   converters.Converter
}

// Registry is the fixed, read-only table of supported conversions. It is
// built once at startup and never mutated afterwards, so it may be shared
// freely without synchronization.
type Registry struct {
	entries  []Entry
	byPair   map[Pair]int
	defaults map[string]string
}

// New builds the registry from configuration: an ffmpeg client backing the
// raster image and audio capabilities, and an rsvg-convert client backing the
// SVG capability.
func New(cfg *config.Config) (*Registry, error) {
	ffmpegClient, err := ffmpeg.New(cfg.FFmpegBinary(), cfg.Tools.TimeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg client: %w", err)
	}
	rsvgClient, err := rsvg.New(cfg.RsvgBinary(), cfg.Tools.TimeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("rsvg client: %w", err)
	}

	imageDecode := converters.NewImageDecoder(ffmpegClient)
	audioExtract := converters.NewAudioExtractor(ffmpegClient, converters.Options{
		SampleRate: cfg.Audio.SampleRate,
		Channels:   cfg.Audio.Channels,
	})
	svgRender := converters.NewSVGRasterizer(rsvgClient, converters.Options{
		Width:  cfg.Image.Width,
		Height: cfg.Image.Height,
		Scale:  cfg.Image.Scale,
	})

	return NewFromEntries(builtinEntries(imageDecode, audioExtract, svgRender)), nil
}

func builtinEntries(imageDecode, audioExtract, svgRender converters.Converter) []Entry {
	return []Entry{
		{Pair: Pair{".webp", ".png"}, Family: "image", Description: "WebP image", Converter: imageDecode},
		{Pair: Pair{".avif", ".png"}, Family: "image", Description: "AVIF image", Converter: imageDecode},
		{Pair: Pair{".svg", ".png"}, Family: "image", Description: "SVG vector graphic", Converter: svgRender},
		{Pair: Pair{".svgz", ".png"}, Family: "image", Description: "compressed SVG vector graphic", Converter: svgRender},
		{Pair: Pair{".mp3", ".wav"}, Family: "audio", Description: "MP3 audio", Converter: audioExtract},
		{Pair: Pair{".mp4", ".wav"}, Family: "audio", Description: "MP4 audio track", Converter: audioExtract},
		{Pair: Pair{".m4v", ".wav"}, Family: "audio", Description: "M4V audio track", Converter: audioExtract},
		{Pair: Pair{".m4a", ".wav"}, Family: "audio", Description: "M4A audio", Converter: audioExtract},
	}
}

// DefaultEntries returns the built-in conversion table without converter
// bindings. It backs informational listings that need no configuration.
func DefaultEntries() []Entry {
	return builtinEntries(nil, nil, nil)
}

// NewFromEntries builds a registry from an explicit entry list. Later entries
// for a duplicate pair are ignored; the first default output extension per
// input extension wins.
func NewFromEntries(entries []Entry) *Registry {
	r := &Registry{
		byPair:   make(map[Pair]int, len(entries)),
		defaults: make(map[string]string, len(entries)),
	}
	for _, entry := range entries {
		entry.Pair.Input = NormalizeExt(entry.Pair.Input)
		entry.Pair.Output = NormalizeExt(entry.Pair.Output)
		if _, dup := r.byPair[entry.Pair]; dup {
			continue
		}
		r.entries = append(r.entries, entry)
		r.byPair[entry.Pair] = len(r.entries) - 1
		if _, ok := r.defaults[entry.Pair.Input]; !ok {
			r.defaults[entry.Pair.Input] = entry.Pair.Output
		}
	}
	return r
}

// NormalizeExt lower-cases an extension and ensures the leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ext
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// DefaultOutput reports the default output extension for an input extension.
// The second return value is false when the extension is not registered;
// callers must branch on it, this is an expected outcome for arbitrary files.
func (r *Registry) DefaultOutput(inputExt string) (string, bool) {
	out, ok := r.defaults[NormalizeExt(inputExt)]
	return out, ok
}

// Lookup resolves a format pair to its converter capability.
func (r *Registry) Lookup(inputExt, outputExt string) (converters.Converter, bool) {
	idx, ok := r.byPair[Pair{NormalizeExt(inputExt), NormalizeExt(outputExt)}]
	if !ok {
		return nil, false
	}
	return r.entries[idx].Converter, true
}

// Supports reports whether files with the given extension can be converted.
func (r *Registry) Supports(inputExt string) bool {
	_, ok := r.defaults[NormalizeExt(inputExt)]
	return ok
}

// InputExtensions returns the registered input extensions in sorted order.
func (r *Registry) InputExtensions() []string {
	exts := make([]string, 0, len(r.defaults))
	for ext := range r.defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Entries returns the registry rows in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

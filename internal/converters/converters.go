package converters

import (
	"context"

	"mediaconv/internal/services/ffmpeg"
	"mediaconv/internal/services/rsvg"
)

// Options carries caller-supplied parameters. The dispatch layer forwards
// them to the capability unmodified; each capability applies the fields it
// understands and ignores the rest.
type Options struct {
	// Width and Height set raster dimensions for image outputs. Zero keeps
	// the intrinsic size; setting only one preserves the aspect ratio.
	Width  int
	Height int
	// Scale multiplies the intrinsic size of vector inputs.
	Scale float64
	// SampleRate and Channels override audio output parameters. Zero keeps
	// the source's values.
	SampleRate int
	Channels   int
}

// Converter performs the decode+encode work for one or more format pairs.
// Implementations receive validated paths: the input exists and the pair was
// resolved through the registry before Convert is called.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string, opts Options) error
	Name() string
}

type imageDecoder struct {
	client *ffmpeg.Client
}

// NewImageDecoder returns the capability for raster image inputs (WebP,
// AVIF) decoded to PNG via ffmpeg.
func NewImageDecoder(client *ffmpeg.Client) Converter {
	return &imageDecoder{client: client}
}

func (d *imageDecoder) Name() string { return "ffmpeg image decode" }

func (d *imageDecoder) Convert(ctx context.Context, inputPath, outputPath string, _ Options) error {
	return d.client.DecodeImage(ctx, inputPath, outputPath)
}

type audioExtractor struct {
	client   *ffmpeg.Client
	defaults Options
}

// NewAudioExtractor returns the capability for compressed audio (and video
// containers with an audio track) converted to PCM WAV via ffmpeg. defaults
// supplies config-level sample rate and channel settings used when the caller
// does not override them.
func NewAudioExtractor(client *ffmpeg.Client, defaults Options) Converter {
	return &audioExtractor{client: client, defaults: defaults}
}

func (e *audioExtractor) Name() string { return "ffmpeg audio extract" }

func (e *audioExtractor) Convert(ctx context.Context, inputPath, outputPath string, opts Options) error {
	sampleRate := opts.SampleRate
	if sampleRate == 0 {
		sampleRate = e.defaults.SampleRate
	}
	channels := opts.Channels
	if channels == 0 {
		channels = e.defaults.Channels
	}
	return e.client.ExtractAudio(ctx, inputPath, outputPath, sampleRate, channels)
}

type svgRasterizer struct {
	client   *rsvg.Client
	defaults Options
}

// NewSVGRasterizer returns the capability for SVG/SVGZ inputs rendered to PNG
// via rsvg-convert. defaults supplies config-level dimensions used when the
// caller does not override them.
func NewSVGRasterizer(client *rsvg.Client, defaults Options) Converter {
	return &svgRasterizer{client: client, defaults: defaults}
}

func (r *svgRasterizer) Name() string { return "rsvg-convert render" }

func (r *svgRasterizer) Convert(ctx context.Context, inputPath, outputPath string, opts Options) error {
	width, height, scale := opts.Width, opts.Height, opts.Scale
	if width == 0 && height == 0 && scale == 0 {
		width, height, scale = r.defaults.Width, r.defaults.Height, r.defaults.Scale
	}
	return r.client.Render(ctx, inputPath, outputPath, width, height, scale)
}

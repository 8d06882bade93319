package render

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/iclabels/pkg/cache"
	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/observability"
	"github.com/matzehuels/iclabels/pkg/page"
)

// Format is an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
)

// Formats lists the supported formats.
var Formats = []Format{FormatSVG, FormatHTML, FormatJSON, FormatPDF, FormatPNG}

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg, html, json, pdf or png)", s)
}

// Ext returns the file extension of f, with the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// converted reports whether f goes through rsvg-convert.
func (f Format) converted() bool { return f == FormatPDF || f == FormatPNG }

// Options are the export settings shared by all formats.
type Options struct {
	Guides bool    // margin guides in SVG and HTML output
	Scale  float64 // PNG scale factor
	Zoom   float64 // HTML preview zoom
	Title  string  // HTML title
}

// Exporter encodes passes. The zero value exports without caching.
type Exporter struct {
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
}

// Export encodes p in format. PDF and PNG results are cached when the
// exporter has a cache; cache failures fall back to converting.
func (e *Exporter) Export(ctx context.Context, p *page.Pass, format Format, opts Options) ([]byte, error) {
	start := time.Now()
	data, err := e.export(ctx, p, format, opts)
	observability.Render().OnExport(ctx, string(format), len(data), time.Since(start), err)
	return data, err
}

func (e *Exporter) export(ctx context.Context, p *page.Pass, format Format, opts Options) ([]byte, error) {
	var svgOpts []SVGOption
	if opts.Guides {
		svgOpts = append(svgOpts, WithGuides())
	}

	switch format {
	case FormatSVG:
		return RenderSVG(p, svgOpts...), nil
	case FormatJSON:
		return RenderJSON(p)
	case FormatHTML:
		hopts := []HTMLOption{WithHTMLSVGOptions(svgOpts...)}
		if opts.Zoom > 0 {
			hopts = append(hopts, WithZoom(opts.Zoom))
		}
		if opts.Title != "" {
			hopts = append(hopts, WithTitle(opts.Title))
		}
		return RenderHTML(p, hopts...)
	case FormatPDF, FormatPNG:
		return e.convert(ctx, p, format, opts, svgOpts)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}

func (e *Exporter) convert(ctx context.Context, p *page.Pass, format Format, opts Options, svgOpts []SVGOption) ([]byte, error) {
	scale := opts.Scale
	if format == FormatPNG && scale <= 0 {
		scale = DefaultScale
	}
	if format == FormatPDF {
		scale = 0
	}

	var key string
	if e.Cache != nil && format.converted() {
		key = e.artifactKey(p, format, scale, opts.Guides)
	}
	if key != "" {
		if data, hit, err := e.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	svg := RenderSVG(p, svgOpts...)
	var (
		data []byte
		err  error
	)
	if format == FormatPDF {
		data, err = ToPDF(ctx, svg)
	} else {
		data, err = ToPNG(ctx, svg, scale)
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		ttl := e.TTL
		if ttl == 0 {
			ttl = cache.DefaultTTL
		}
		if err := e.Cache.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, nil
}

// artifactKey returns the cache key for a converted pass, or "" when the
// pass has no fingerprint and must not be cached.
func (e *Exporter) artifactKey(p *page.Pass, format Format, scale float64, guides bool) string {
	fp, err := Fingerprint(p)
	if err != nil {
		return ""
	}
	keyer := e.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return keyer.ArtifactKey(fp, cache.ArtifactKeyOpts{
		Format: string(format),
		Scale:  scale,
		Guides: guides,
	})
}

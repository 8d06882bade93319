package page

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/iclabels/pkg/label"
	"github.com/matzehuels/iclabels/pkg/observability"
	"github.com/matzehuels/iclabels/pkg/registry"
)

// Skip records a chip instance that could not be drawn.
type Skip struct {
	Index int    `json:"index"` // position among the sheet's instances
	Name  string `json:"name"`
	Err   error  `json:"-"`
	// Message is Err as text, kept for serialized passes.
	Message string `json:"message"`
}

// Pass is the result of rendering one sheet.
type Pass struct {
	ID       string        `json:"id"`
	Paper    Paper         `json:"paper"`
	Margins  Margins       `json:"margins"`
	Config   label.Config  `json:"config"`
	Surface  label.Surface `json:"surface"`
	Skipped  []Skip        `json:"skipped,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Placed returns the number of chips drawn.
func (p *Pass) Placed() int { return p.Surface.Len() }

// OK reports whether every instance was drawn.
func (p *Pass) OK() bool { return len(p.Skipped) == 0 }

// Options tunes a render pass.
type Options struct {
	// Measurer replaces the default label measurer.
	Measurer label.Measurer
	// Notifier is called for every skipped chip, in addition to the pass
	// recording it.
	Notifier label.Notifier
}

// Render lays out every instance of sheet on a fresh surface sized to the
// sheet's content area. Unknown chips are recorded in Pass.Skipped and do
// not stop the pass.
func Render(ctx context.Context, sheet *Sheet, reg *registry.Registry, opts Options) *Pass {
	cfg := sheet.RenderConfig()
	p := &Pass{
		ID:      uuid.NewString(),
		Paper:   sheet.Paper,
		Margins: sheet.Margins,
		Config:  cfg,
		Surface: label.Surface{Width: cfg.PageWidth, Height: cfg.PageHeight},
		Started: time.Now(),
	}
	hooks := observability.Render()
	instances := sheet.Instances()
	hooks.OnPassStart(ctx, p.ID, len(instances))

	index := 0
	notify := func(req label.Request, err error) {
		p.Skipped = append(p.Skipped, Skip{Index: index, Name: req.Name, Err: err, Message: err.Error()})
		hooks.OnChipSkipped(ctx, p.ID, req.Name, err)
		if opts.Notifier != nil {
			opts.Notifier(req, err)
		}
	}
	ropts := []label.Option{label.WithNotifier(notify)}
	if opts.Measurer != nil {
		ropts = append(ropts, label.WithMeasurer(opts.Measurer))
	}
	r := label.New(reg, cfg, ropts...)

	var cur label.Cursor
	for i, req := range instances {
		index = i
		_, _ = r.RenderChip(&p.Surface, &cur, req)
	}

	p.Duration = time.Since(p.Started)
	hooks.OnPassComplete(ctx, p.ID, p.Placed(), len(p.Skipped), p.Duration)
	return p
}

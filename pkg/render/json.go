package render

import (
	"encoding/json"

	"github.com/matzehuels/iclabels/pkg/cache"
	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/label"
	"github.com/matzehuels/iclabels/pkg/page"
)

type jsonOutput struct {
	ID      string        `json:"id"`
	Paper   page.Paper    `json:"paper"`
	Margins page.Margins  `json:"margins"`
	Config  label.Config  `json:"config"`
	Surface label.Surface `json:"surface"`
	Skipped []page.Skip   `json:"skipped,omitempty"`
}

// RenderJSON encodes the pass as indented JSON.
func RenderJSON(p *page.Pass) ([]byte, error) {
	out := jsonOutput{
		ID:      p.ID,
		Paper:   p.Paper,
		Margins: p.Margins,
		Config:  p.Config,
		Surface: p.Surface,
		Skipped: p.Skipped,
	}
	return json.MarshalIndent(out, "", "  ")
}

// Fingerprint hashes everything that affects the drawn output of a pass.
// Two passes with equal fingerprints encode to identical documents. A pass
// that cannot be encoded, such as one with non-finite coordinates, has no
// fingerprint.
func Fingerprint(p *page.Pass) (string, error) {
	data, err := json.Marshal(struct {
		Paper   page.Paper    `json:"paper"`
		Margins page.Margins  `json:"margins"`
		Surface label.Surface `json:"surface"`
	}{p.Paper, p.Margins, p.Surface})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "fingerprint pass %s", p.ID)
	}
	return cache.Hash(data), nil
}

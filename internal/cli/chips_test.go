package cli

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/registry"
)

func TestChipsList(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "chips", "list", "--search", "nand")
	if err != nil {
		t.Fatalf("chips list: %v", err)
	}
	if !strings.Contains(out, "74LS00") {
		t.Errorf("search for nand should list 74LS00:\n%s", out)
	}
	if strings.Contains(out, "W65C02") {
		t.Errorf("search for nand should not list W65C02:\n%s", out)
	}

	out, err = env.run(t, "chips", "list", "--search", "no-such-chip")
	if err != nil {
		t.Fatalf("chips list: %v", err)
	}
	if !strings.Contains(out, "No chips match") {
		t.Errorf("empty search result should say so:\n%s", out)
	}
}

func TestChipsListJSON(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "chips", "list", "--json")
	if err != nil {
		t.Fatalf("chips list: %v", err)
	}
	var chips []registry.Chip
	if err := json.Unmarshal([]byte(out), &chips); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(chips) != registry.Default().Len() {
		t.Errorf("listed %d chips, want %d", len(chips), registry.Default().Len())
	}
}

func TestChipsShow(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "chips", "show", "74LS00")
	if err != nil {
		t.Fatalf("chips show: %v", err)
	}
	for _, want := range []string{"74LS00", "NAND", "DIP14", "A1", "Y4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}

	_, err = env.run(t, "chips", "show", "FAKE9999")
	if !errors.Is(err, errors.ErrCodeChipNotFound) {
		t.Errorf("unknown chip error = %v, want %s", err, errors.ErrCodeChipNotFound)
	}
}

func TestChipsPackages(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "chips", "packages")
	if err != nil {
		t.Fatalf("chips packages: %v", err)
	}
	for _, want := range []string{"DIP14", "DIP40"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
}

func TestChipsValidate(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "chips", "validate")
	if err != nil {
		t.Fatalf("built-in tables should validate: %v\n%s", err, out)
	}

	bad := env.write(t, "bad.toml", "[\"BROKEN1\"]\ndescription = \"odd\"\n[\"BROKEN1\".pins]\n1 = [\"A\", \"input\"]\n2 = [\"B\", \"input\"]\n3 = [\"C\", \"output\"]\n")
	out, err = env.run(t, "--chips-file", bad, "chips", "validate")
	if !errors.Is(err, errors.ErrCodeInvalidRegistry) {
		t.Fatalf("validate error = %v, want %s", err, errors.ErrCodeInvalidRegistry)
	}
	if !strings.Contains(out, "BROKEN1") {
		t.Errorf("problem should name the chip:\n%s", out)
	}
}

func TestCompleteChipNames(t *testing.T) {
	c := New(io.Discard, LogInfo)
	got, _ := c.completeChipNames(nil, nil, "74ls0")
	if len(got) == 0 {
		t.Fatal("expected completions for 74ls0")
	}
	for _, name := range got {
		if !strings.HasPrefix(strings.ToUpper(name), "74LS0") {
			t.Errorf("completion %q does not match prefix", name)
		}
	}
}

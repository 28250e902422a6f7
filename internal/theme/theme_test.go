package theme

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Theme
		wantErr error
	}{
		{name: "modern", input: "modern", want: Modern},
		{name: "vintage", input: "vintage", want: Vintage},
		{name: "minimal", input: "minimal", want: Minimal},
		{name: "nature", input: "nature", want: Nature},
		{name: "case insensitive", input: "NaTuRe", want: Nature},
		{name: "surrounding space", input: "  vintage ", want: Vintage},
		{name: "empty uses default", input: "", want: Default},
		{name: "unknown", input: "neon", wantErr: ErrUnknownTheme},
		{name: "path-like", input: "../modern", wantErr: ErrUnknownTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve_EveryThemeComplete(t *testing.T) {
	t.Parallel()

	for _, th := range All() {
		t.Run(string(th), func(t *testing.T) {
			t.Parallel()

			if err := Resolve(th).Validate(); err != nil {
				t.Errorf("Resolve(%q).Validate() = %v", th, err)
			}
		})
	}
}

func TestResolve_HeadingScaleDecreases(t *testing.T) {
	t.Parallel()

	for _, th := range All() {
		s := Resolve(th)
		if !(s.H1.Spacing > s.H2.Spacing && s.H2.Spacing > s.H3.Spacing) {
			t.Errorf("%s: spacing not decreasing by level: %d, %d, %d", th, s.H1.Spacing, s.H2.Spacing, s.H3.Spacing)
		}
		if !(s.H1.Size > s.H2.Size && s.H2.Size > s.H3.Size) {
			t.Errorf("%s: size not decreasing by level: %d, %d, %d", th, s.H1.Size, s.H2.Size, s.H3.Size)
		}
	}
}

func TestResolve_ThemesDiffer(t *testing.T) {
	t.Parallel()

	seen := make(map[string]Theme)
	for _, th := range All() {
		c := Resolve(th).H1.Color
		if prev, ok := seen[c]; ok {
			t.Errorf("%s and %s share h1 color %s", prev, th, c)
		}
		seen[c] = th
	}
}

func TestResolve_UnknownPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("Resolve with unknown theme should panic")
		}
	}()
	_ = Resolve(Theme("neon"))
}

func TestStyleValidate(t *testing.T) {
	t.Parallel()

	t.Run("missing color", func(t *testing.T) {
		t.Parallel()

		s := Resolve(Modern)
		s.Table.HeaderFill = ""
		if err := s.Validate(); !errors.Is(err, ErrIncompleteStyle) {
			t.Errorf("Validate() = %v, want ErrIncompleteStyle", err)
		}
	})

	t.Run("hash-prefixed color", func(t *testing.T) {
		t.Parallel()

		s := Resolve(Modern)
		s.H2.Color = "#9333E"
		if err := s.Validate(); !errors.Is(err, ErrIncompleteStyle) {
			t.Errorf("Validate() = %v, want ErrIncompleteStyle", err)
		}
	})

	t.Run("zero spacing", func(t *testing.T) {
		t.Parallel()

		s := Resolve(Nature)
		s.H3.Spacing = 0
		if err := s.Validate(); !errors.Is(err, ErrIncompleteStyle) {
			t.Errorf("Validate() = %v, want ErrIncompleteStyle", err)
		}
	})
}

func TestLabel(t *testing.T) {
	t.Parallel()

	if got := Vintage.Label(); got != "Vintage Theme" {
		t.Errorf("Vintage.Label() = %q", got)
	}
	if got := Theme("x").Label(); got != "x" {
		t.Errorf("unknown Label() = %q, want raw identifier", got)
	}
}

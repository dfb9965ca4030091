package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "ly" {
		t.Errorf("Expected Name to be %q, got %q", "ly", Name)
	}
}

func TestVersion(t *testing.T) {
	v := Version()
	if v == "" {
		t.Fatal("Version is empty")
	}

	if strings.TrimSpace(v) != v {
		t.Errorf("Version %q has surrounding whitespace", v)
	}
}

func TestErrorIs(t *testing.T) {
	err := ErrResolution.With(slog.String("name", "x"))

	if !errors.Is(err, ErrResolution) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(err, ErrType) {
		t.Error("derived error matches an unrelated sentinel")
	}

	wrapped := fmt.Errorf("outer: %w", ErrType.Wrap(err))

	if !errors.Is(wrapped, ErrType) || !errors.Is(wrapped, ErrResolution) {
		t.Error("chain lost a sentinel")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel", ErrArity, "arity error"},
		{"attrs", ErrResolution.With(slog.String("name", "a")), "resolution error (name=a)"},
		{"position", ErrParse.At(3, 7), "parse error (line=3 column=7)"},
		{
			"cause",
			ErrImport.With(slog.String("path", "m.ly")).Wrap(errors.New("missing")),
			"import error (path=m.ly): missing",
		},
		{"plain", WrapError(errors.New("boom")), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorAttr(t *testing.T) {
	err := ErrType.With(slog.String("operator", "+"))

	v, ok := err.Attr("operator")
	if !ok || v.String() != "+" {
		t.Errorf("Attr(operator) = %v, %v", v, ok)
	}

	if _, ok := err.Attr("missing"); ok {
		t.Error("Attr(missing) reported present")
	}
}

func TestWithin(t *testing.T) {
	if Within(nil, "call f") != nil {
		t.Fatal("Within(nil) is not nil")
	}

	base := ErrArity.With(slog.Int("want", 2), slog.Int("got", 1))
	err := Within(Within(base, "call f", slog.String("name", "f")), "line 4")

	if !errors.Is(err, ErrArity) {
		t.Errorf("%v does not match ErrArity", err)
	}

	want := "line 4: call f (name=f): arity error (want=2 got=1)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := Within(errors.New("disk"), "load")
	if errors.Is(plain, ErrArity) || plain.Error() != "load: disk" {
		t.Errorf("Within(plain) = %v", plain)
	}

	if fmt.Sprint(slog.AnyValue(err).Resolve()) == "" {
		t.Error("LogValue is empty")
	}
}

func TestAuthorString(t *testing.T) {
	if got := (AuthorInfo{"a", "a@b.c"}).String(); got != "a <a@b.c>" {
		t.Errorf("String() = %q", got)
	}

	if got := (AuthorInfo{Name: "a"}).String(); got != "a" {
		t.Errorf("String() without email = %q", got)
	}
}

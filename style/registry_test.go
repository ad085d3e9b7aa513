package style_test

import (
	"math"
	"strings"
	"testing"

	"github.com/kovanlabs/pogen/style"
)

func TestDefaultRegistryHasDocumentStyles(t *testing.T) {
	r := style.Default()
	for _, name := range []string{
		style.CompanyName, style.Tagline, style.DocumentTitle, style.SectionHeader,
		style.Address, style.RightAligned, style.ItemDescription,
	} {
		if _, ok := r.Get(name); !ok {
			t.Errorf("missing style %q", name)
		}
	}
}

func TestInheritance(t *testing.T) {
	r := style.Default()

	title := r.MustGet(style.DocumentTitle)
	if title.Parent != style.Heading1 {
		t.Errorf("DocumentTitle parent = %q", title.Parent)
	}
	if title.FontStyle != "B" {
		t.Errorf("DocumentTitle should inherit bold, got %q", title.FontStyle)
	}
	if title.FontFamily != "Helvetica" {
		t.Errorf("DocumentTitle family = %q", title.FontFamily)
	}
	if title.Align != style.AlignRight || title.FontSize != 20 || title.Leading != 20 {
		t.Errorf("DocumentTitle = %+v", title)
	}

	desc := r.MustGet(style.ItemDescription)
	if desc.Wrap != style.WrapCJK {
		t.Errorf("ItemDescription wrap = %v", desc.Wrap)
	}
	if desc.FontSize != 10 {
		t.Errorf("ItemDescription size = %v", desc.FontSize)
	}

	tag := r.MustGet(style.Tagline)
	if tag.TextColor != style.Grey {
		t.Errorf("Tagline color = %+v", tag.TextColor)
	}
}

func TestLeadingFollowsFontSize(t *testing.T) {
	r := style.Default()
	cn := r.MustGet(style.CompanyName)
	if cn.Leading < cn.FontSize {
		t.Errorf("CompanyName leading %.1f below font size %.1f", cn.Leading, cn.FontSize)
	}
}

func TestBaseIsNotMutatedByChildren(t *testing.T) {
	r := style.Default()
	normal := r.MustGet(style.Normal)
	if normal.FontSize != 10 || normal.Align != style.AlignLeft || normal.FontStyle != "" {
		t.Errorf("Normal changed: %+v", normal)
	}
}

func TestMustGetUnknownPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(r.(string), "Nope") {
			t.Errorf("panic message %q", r)
		}
	}()
	style.Default().MustGet("Nope")
}

func TestNewRegistryErrors(t *testing.T) {
	tests := []struct {
		name string
		defs []style.Definition
		want string
	}{
		{
			name: "undefined parent",
			defs: []style.Definition{{Name: "Child", Parent: "Missing"}},
			want: "undefined parent",
		},
		{
			name: "duplicate",
			defs: append(style.Definitions(), style.Definition{Name: style.Normal}),
			want: "duplicate",
		},
		{
			name: "no font",
			defs: []style.Definition{{Name: "Bare"}},
			want: "no font",
		},
		{
			name: "no name",
			defs: []style.Definition{{}},
			want: "without a name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := style.NewRegistry(tt.defs...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCustomDefinitions(t *testing.T) {
	defs := append(style.Definitions(), style.Definition{
		Name:   "Footnote",
		Parent: style.Normal,
		Override: style.Override{
			FontSize:  style.Ptr(7.0),
			TextColor: style.Ptr(style.Grey),
		},
	})
	r, err := style.NewRegistry(defs...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	fn := r.MustGet("Footnote")
	if fn.FontSize != 7 || math.Abs(fn.Leading-8.4) > 1e-9 {
		t.Errorf("Footnote = %+v", fn)
	}
	names := r.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestWithFamily(t *testing.T) {
	base := style.Default()
	r := base.WithFamily("Embedded")
	for _, n := range base.Names() {
		got, want := r.MustGet(n), base.MustGet(n)
		if got.FontFamily != "Embedded" {
			t.Errorf("%s family = %q", n, got.FontFamily)
		}
		got.FontFamily = want.FontFamily
		if got != want {
			t.Errorf("%s changed beyond the family: %+v", n, got)
		}
	}
	if base.MustGet(style.Normal).FontFamily != "Helvetica" {
		t.Error("WithFamily modified the source registry")
	}
}

func TestTitleDoesNotWrap(t *testing.T) {
	if w := style.Default().MustGet(style.DocumentTitle).Wrap; w != style.WrapNone {
		t.Errorf("DocumentTitle wrap = %d", w)
	}
}

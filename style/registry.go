package style

import (
	"fmt"
	"sort"
	"sync"
)

// Base presets.
const (
	Normal   = "Normal"
	Heading1 = "Heading1"
	Heading2 = "Heading2"
)

// Document styles.
const (
	CompanyName     = "CompanyName"
	Tagline         = "Tagline"
	DocumentTitle   = "DocumentTitle"
	SectionHeader   = "SectionHeader"
	Address         = "Address"
	RightAligned    = "RightAligned"
	ItemDescription = "ItemDescription"
	TableHeader     = "TableHeader"
	TableCell       = "TableCell"
	TotalsCell      = "TotalsCell"
)

// Registry maps style names to resolved styles. It is immutable once built.
type Registry struct {
	styles map[string]Style
}

// NewRegistry resolves defs in order. A parent must be defined before any
// style that derives from it. When a definition changes the font size but
// not the leading, the leading is reset to 1.2 times the new size so lines
// never overlap.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{styles: make(map[string]Style, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("style: definition without a name")
		}
		if _, dup := r.styles[d.Name]; dup {
			return nil, fmt.Errorf("style: duplicate definition %q", d.Name)
		}

		var s Style
		if d.Parent != "" {
			parent, ok := r.styles[d.Parent]
			if !ok {
				return nil, fmt.Errorf("style: %q derives from undefined parent %q", d.Name, d.Parent)
			}
			s = parent
		}
		d.Override.apply(&s)
		if d.Override.FontSize != nil && d.Override.Leading == nil {
			s.Leading = s.FontSize * 1.2
		}
		s.Name = d.Name
		s.Parent = d.Parent

		if s.FontFamily == "" || s.FontSize <= 0 {
			return nil, fmt.Errorf("style: %q has no font", d.Name)
		}
		if s.Align == "" {
			s.Align = AlignLeft
		}
		r.styles[d.Name] = s
	}
	return r, nil
}

// Get returns the style registered under name.
func (r *Registry) Get(name string) (Style, bool) {
	s, ok := r.styles[name]
	return s, ok
}

// MustGet returns the style registered under name. An unknown name is a
// programming error and panics.
func (r *Registry) MustGet(name string) Style {
	s, ok := r.styles[name]
	if !ok {
		panic(fmt.Sprintf("style: unknown style %q", name))
	}
	return s
}

// WithFamily returns a copy of r in which every style uses the font family.
func (r *Registry) WithFamily(family string) *Registry {
	out := &Registry{styles: make(map[string]Style, len(r.styles))}
	for n, s := range r.styles {
		s.FontFamily = family
		out.styles[n] = s
	}
	return out
}

// Names returns the registered style names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.styles))
	for n := range r.styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the definitions of the purchase order style sheet.
// Callers may append their own definitions before building a registry.
func Definitions() []Definition {
	return []Definition{
		{Name: Normal, Override: Override{
			FontFamily: Ptr("Helvetica"),
			FontStyle:  Ptr(""),
			FontSize:   Ptr(10.0),
			Leading:    Ptr(12.0),
			TextColor:  Ptr(Black),
			Align:      Ptr(AlignLeft),
		}},
		{Name: Heading1, Parent: Normal, Override: Override{
			FontStyle:  Ptr("B"),
			FontSize:   Ptr(18.0),
			Leading:    Ptr(22.0),
			SpaceAfter: Ptr(6.0),
		}},
		{Name: Heading2, Parent: Normal, Override: Override{
			FontStyle:   Ptr("B"),
			FontSize:    Ptr(14.0),
			Leading:     Ptr(18.0),
			SpaceBefore: Ptr(12.0),
			SpaceAfter:  Ptr(6.0),
		}},

		{Name: CompanyName, Parent: Heading1, Override: Override{
			FontSize:   Ptr(24.0),
			SpaceAfter: Ptr(0.0),
			Align:      Ptr(AlignLeft),
		}},
		{Name: Tagline, Parent: Normal, Override: Override{
			FontSize:   Ptr(12.0),
			TextColor:  Ptr(Grey),
			SpaceAfter: Ptr(20.0),
		}},
		// Leading equals the font size so the first line's top lines up with
		// the logo's top edge. The title is wider than its column and extends
		// left into the empty middle column.
		{Name: DocumentTitle, Parent: Heading1, Override: Override{
			FontSize:    Ptr(20.0),
			Leading:     Ptr(20.0),
			SpaceBefore: Ptr(0.0),
			SpaceAfter:  Ptr(15.0),
			Align:       Ptr(AlignRight),
			Wrap:        Ptr(WrapNone),
		}},
		{Name: SectionHeader, Parent: Heading2, Override: Override{
			FontSize:    Ptr(12.0),
			SpaceBefore: Ptr(0.0),
			SpaceAfter:  Ptr(8.0),
		}},
		{Name: Address, Parent: Normal, Override: Override{
			SpaceAfter: Ptr(4.0),
		}},
		{Name: RightAligned, Parent: Normal, Override: Override{
			FontSize:   Ptr(11.0),
			Leading:    Ptr(14.0),
			SpaceAfter: Ptr(3.0),
			Align:      Ptr(AlignRight),
		}},
		{Name: ItemDescription, Parent: Normal, Override: Override{
			Wrap: Ptr(WrapCJK),
		}},
		{Name: TableHeader, Parent: Normal, Override: Override{
			FontStyle: Ptr("B"),
			FontSize:  Ptr(11.0),
		}},
		{Name: TableCell, Parent: Normal},
		{Name: TotalsCell, Parent: TableHeader, Override: Override{
			Align: Ptr(AlignRight),
		}},
	}
}

// Default returns the process-wide purchase order registry. It is built on
// first use.
var Default = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(Definitions()...)
	if err != nil {
		panic(err)
	}
	return r
})

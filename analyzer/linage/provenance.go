package linage

// Purity is the coarse purity lattice: Pure < Unknown < Impure
type Purity uint8

const (
	Pure Purity = iota
	Unknown
	Impure
)

func (p Purity) String() string {
	switch p {
	case Pure:
		return "pure"
	case Impure:
		return "impure"
	default:
		return "unknown"
	}
}

// Join combines two purities; Impure absorbs everything, Unknown absorbs Pure
func (p Purity) Join(o Purity) Purity {
	if o > p {
		return o
	}
	return p
}

// Provenance is the set of reactive sources and the purity an expression's value depends on
type Provenance struct {
	Sources  []*Binding // Props and state values, first-seen order
	Purity   Purity
	External bool // An untracked value (external reference, unbound parameter) was read
}

// FunctionSummary is the memoized purity of a local function
type FunctionSummary struct {
	Purity Purity
}

// Source creates a pure provenance with a single tracked source
func Source(b *Binding) Provenance {
	return Provenance{Sources: []*Binding{b}}
}

// Untracked creates a pure provenance reading an untracked value
func Untracked() Provenance {
	return Provenance{External: true}
}

// Tainted creates a provenance with the given purity and no sources
func Tainted(purity Purity) Provenance {
	return Provenance{Purity: purity}
}

// Union merges two provenances
func (p Provenance) Union(o Provenance) Provenance {
	result := Provenance{
		Purity:   p.Purity.Join(o.Purity),
		External: p.External || o.External,
	}
	if len(o.Sources) == 0 {
		result.Sources = p.Sources
		return result
	}
	if len(p.Sources) == 0 {
		result.Sources = o.Sources
		return result
	}
	result.Sources = make([]*Binding, 0, len(p.Sources)+len(o.Sources))
	result.Sources = append(result.Sources, p.Sources...)
	for _, b := range o.Sources {
		if !p.Has(b) {
			result.Sources = append(result.Sources, b)
		}
	}
	return result
}

// WithPurity returns a copy joined with the given purity
func (p Provenance) WithPurity(purity Purity) Provenance {
	p.Purity = p.Purity.Join(purity)
	return p
}

// Has returns true if b is one of the sources
func (p Provenance) Has(b *Binding) bool {
	for _, candidate := range p.Sources {
		if candidate == b {
			return true
		}
	}
	return false
}

// HasKind returns true if any source has the given kind
func (p Provenance) HasKind(kind ReactiveKind) bool {
	for _, b := range p.Sources {
		if b.Kind == kind {
			return true
		}
	}
	return false
}

// Derivable returns true if the value could have been computed during render:
// pure, at least one source, every source tracked, no untracked read
func (p Provenance) Derivable() bool {
	if p.Purity != Pure || p.External || len(p.Sources) == 0 {
		return false
	}
	for _, b := range p.Sources {
		if !b.Kind.IsReactive() {
			return false
		}
	}
	return true
}

// OnlyProps returns true if the value resolves to prop sources only, ignoring purity
func (p Provenance) OnlyProps() bool {
	if p.External || len(p.Sources) == 0 {
		return false
	}
	for _, b := range p.Sources {
		if b.Kind != Prop {
			return false
		}
	}
	return true
}

package token

// IdentKind tags the flavor of an Identifier, which drives lookup rules
// downstream (variable identifiers resolve environment bindings; plain
// identifiers in SQL-scope contexts become field-path references).
type IdentKind int

const (
	Symbol IdentKind = iota
	Plain
	Variable
	ForcedVariable
)

func (k IdentKind) String() string {
	switch k {
	case Symbol:
		return "Symbol"
	case Plain:
		return "Plain"
	case Variable:
		return "Variable"
	case ForcedVariable:
		return "ForcedVariable"
	default:
		return "Unknown"
	}
}

// Identifier is a name plus the kind tag that governs how it is resolved.
type Identifier struct {
	Name string
	Kind IdentKind
}

func NewIdentifier(name string, kind IdentKind) Identifier {
	return Identifier{Name: name, Kind: kind}
}

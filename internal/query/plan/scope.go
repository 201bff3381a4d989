package plan

import "github.com/lykia-rs/lykiadb-sub001/internal/lang/token"

// scope tracks the names available in the current SQL context: collection
// aliases gathered while lowering FROM, and computed projection aliases
// gathered while lowering the projection list. Spec §4.5: duplicates in
// either set raise DuplicateObjectInScope.
type scope struct {
	bound map[string]token.Span
}

func newScope() *scope {
	return &scope{bound: make(map[string]token.Span)}
}

func (s *scope) bind(name string, span token.Span) error {
	if name == "" {
		return nil
	}
	if prev, ok := s.bound[name]; ok {
		return &Error{Kind: ErrDuplicateObjectInScope, Span: span,
			Msg: name + " (previously bound at " + prev.String() + ")"}
	}
	s.bound[name] = span
	return nil
}

package vm

// Variable is a named value held by a Store.
type Variable struct {
	Name  string
	Value Value
}

// Store is the flat variable store of a running program.
// Variables keep their insertion order, names are case-sensitive and unique;
// assigning to an existing name overwrites its value and may change its kind.
type Store struct {
	vars  []Variable
	index map[string]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// Get retrieves a variable value by name.
//
// Returns:
//   - Value: The variable value
//   - bool: true if the variable was found, false otherwise
func (s *Store) Get(name string) (Value, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.vars[i].Value, true
}

// Set inserts the variable if absent, otherwise overwrites it in place.
func (s *Store) Set(name string, value Value) {
	if i, ok := s.index[name]; ok {
		s.vars[i].Value = value
		return
	}
	s.index[name] = len(s.vars)
	s.vars = append(s.vars, Variable{Name: name, Value: value})
}

// Has checks if a variable exists.
func (s *Store) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Resolve returns the numeric value of a token.
// Numeric literals are parsed directly; anything else is looked up as a
// variable name and coerced with Number. The second result is false when
// the token is neither a literal nor a defined variable, in which case the
// value is 0.
func (s *Store) Resolve(token string) (float64, bool) {
	if isNumericLiteral(token) {
		return parseFloatPrefix(token), true
	}
	v, ok := s.Get(token)
	if !ok {
		return 0, false
	}
	return Number(v), true
}

// NumericValue is Resolve without the found flag: unknown names read as 0.
func (s *Store) NumericValue(token string) float64 {
	f, _ := s.Resolve(token)
	return f
}

// Variables returns a copy of all variables in insertion order.
func (s *Store) Variables() []Variable {
	out := make([]Variable, len(s.vars))
	copy(out, s.vars)
	return out
}

// Names returns all variable names in insertion order.
func (s *Store) Names() []string {
	names := make([]string, len(s.vars))
	for i, v := range s.vars {
		names[i] = v.Name
	}
	return names
}

// Len returns the number of variables.
func (s *Store) Len() int {
	return len(s.vars)
}

package matching

// Symbol contains basic info about a trading symbol (instrument) and its price ladder.
type Symbol struct {
	id     uint32
	name   string
	limits Limits
}

// NewSymbol creates new symbol with specified ID, name and price ladder limits.
func NewSymbol(id uint32, name string, limits Limits) Symbol {
	return Symbol{
		id:     id,
		name:   name,
		limits: limits,
	}
}

// ID returns the symbol ID.
func (s Symbol) ID() uint32 {
	return s.id
}

// Name returns the symbol name.
func (s Symbol) Name() string {
	return s.name
}

// Limits returns the price ladder limits.
func (s Symbol) Limits() Limits {
	return s.limits
}

// Valid returns true if the symbol price ladder is valid.
func (s Symbol) Valid() bool {
	return s.limits.Valid()
}

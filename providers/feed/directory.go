package feed

import (
	"github.com/tidwall/hashmap"
)

// Directory maps tickers to symbol ids and back.
// Ids are assigned in the order tickers are added starting from zero.
// NOTE: Not thread-safe for writing, it is safe to read from many goroutines once filled.
type Directory struct {
	ids   *hashmap.Map[string, uint32]
	names []string
}

// NewDirectory creates and returns new Directory instance filled with given tickers.
func NewDirectory(names ...string) *Directory {
	d := &Directory{
		ids:   hashmap.New[string, uint32](len(names)),
		names: make([]string, 0, len(names)),
	}
	for _, name := range names {
		d.Add(name)
	}
	return d
}

// Add registers the ticker and returns its id. Existing ticker keeps its id.
func (d *Directory) Add(name string) uint32 {
	if id, ok := d.ids.Get(name); ok {
		return id
	}
	id := uint32(len(d.names))
	d.ids.Set(name, id)
	d.names = append(d.names, name)
	return id
}

// ID returns id of the ticker.
func (d *Directory) ID(name string) (uint32, bool) {
	return d.ids.Get(name)
}

// Name returns ticker of the symbol id or empty string.
func (d *Directory) Name(id uint32) string {
	if int(id) >= len(d.names) {
		return ""
	}
	return d.names[id]
}

// Names returns all tickers ordered by id.
func (d *Directory) Names() []string {
	return d.names
}

// Len returns amount of tickers.
func (d *Directory) Len() int {
	return len(d.names)
}

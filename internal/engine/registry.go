package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/piwi3910/blockpaint/internal/model"
)

// Handle addresses a block slot in a Registry.
type Handle int

// Registry holds the live blocks of one interpretation run. Blocks live in
// an append-only arena addressed by Handle; byName maps lineage names to
// live handles.
type Registry struct {
	arena  []model.Block
	live   []bool
	byName map[string]Handle

	// largest numeric top-level id ever inserted. Top-level ids only leave
	// the registry through a merge, which inserts a larger one, so this is
	// also the largest top-level id currently present.
	topID int
}

// NewRegistry creates a registry holding blocks. Names must be unique.
func NewRegistry(blocks ...model.Block) (*Registry, error) {
	r := &Registry{
		arena:  make([]model.Block, 0, len(blocks)*4),
		live:   make([]bool, 0, len(blocks)*4),
		byName: make(map[string]Handle, len(blocks)),
		topID:  -1,
	}
	for _, b := range blocks {
		if _, dup := r.byName[b.Name]; dup {
			return nil, fmt.Errorf("duplicate block id %q", b.Name)
		}
		r.insert(b)
	}
	return r, nil
}

// Len returns the number of live blocks.
func (r *Registry) Len() int {
	return len(r.byName)
}

// Lookup returns the handle of a live block.
func (r *Registry) Lookup(name string) (Handle, bool) {
	h, ok := r.byName[name]
	return h, ok
}

// Get returns a copy of a live block.
func (r *Registry) Get(name string) (model.Block, bool) {
	h, ok := r.byName[name]
	if !ok {
		return model.Block{}, false
	}
	return r.arena[h], true
}

// resolve looks up name or fails with model.ErrUnknownBlock.
func (r *Registry) resolve(name string) (Handle, error) {
	h, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", model.ErrUnknownBlock, name)
	}
	return h, nil
}

// at returns the arena slot of h for in-place updates.
func (r *Registry) at(h Handle) *model.Block {
	return &r.arena[h]
}

func (r *Registry) insert(b model.Block) Handle {
	h := Handle(len(r.arena))
	r.arena = append(r.arena, b)
	r.live = append(r.live, true)
	r.byName[b.Name] = h
	if id, ok := b.TopLevelID(); ok && id > r.topID {
		r.topID = id
	}
	return h
}

func (r *Registry) remove(h Handle) {
	r.live[h] = false
	delete(r.byName, r.arena[h].Name)
}

// nextMergeName returns the id a merge creates: the largest top-level id
// plus one.
func (r *Registry) nextMergeName() string {
	return strconv.Itoa(r.topID + 1)
}

// Blocks returns a snapshot of the live blocks ordered by lineage name.
func (r *Registry) Blocks() []model.Block {
	out := make([]model.Block, 0, len(r.byName))
	for h, ok := range r.live {
		if ok {
			out = append(out, r.arena[h])
		}
	}
	SortBlocks(out)
	return out
}

// Map returns a snapshot of the live blocks keyed by name.
func (r *Registry) Map() map[string]model.Block {
	out := make(map[string]model.Block, len(r.byName))
	for name, h := range r.byName {
		out[name] = r.arena[h]
	}
	return out
}

// Area returns the summed area of the live blocks.
func (r *Registry) Area() int {
	total := 0
	for h, ok := range r.live {
		if ok {
			total += r.arena[h].Area()
		}
	}
	return total
}

// CheckPartition verifies that the live blocks tile the canvas: all inside
// it, pairwise disjoint, total area equal to the canvas area.
func (r *Registry) CheckPartition(c model.Canvas) error {
	blocks := r.Blocks()
	bounds := c.Rect()
	for i, a := range blocks {
		if !a.Valid() || !a.Within(bounds) {
			return fmt.Errorf("block %s is outside the canvas", a)
		}
		for _, b := range blocks[i+1:] {
			if a.Overlaps(b.Rect) {
				return fmt.Errorf("blocks %s and %s overlap", a, b)
			}
		}
	}
	if area := r.Area(); area != c.Area() {
		return fmt.Errorf("blocks cover %d of %d pixels", area, c.Area())
	}
	return nil
}

// SortBlocks orders blocks by lineage name, comparing numeric components
// numerically so that "2" sorts before "10" and "0.9" before "0.10".
func SortBlocks(blocks []model.Block) {
	sort.Slice(blocks, func(i, j int) bool {
		return LessName(blocks[i].Name, blocks[j].Name)
	})
}

// LessName compares two lineage names component by component.
func LessName(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		ai, aerr := strconv.Atoi(as[i])
		bi, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			return ai < bi
		}
		return as[i] < bs[i]
	}
	return len(as) < len(bs)
}

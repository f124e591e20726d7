package search

import (
	"slices"

	"github.com/baseplate/storeops/internal/core/form"
)

// Patch is the grid-save payload of one row. Fields lists the root fields
// UpdateValues carries.
type Patch struct {
	ID           any            `json:"id"`
	UpdateValues map[string]any `json:"updateValues"`
	Fields       []string       `json:"fields"`
}

// Patches collects the changes of selected, valid rows: dirty root fields
// of displayed, grid-updatable columns. "x.code" collapses to "x", and a
// nulled child nulls the whole root.
func (s *Session[T]) Patches() []Patch {
	s.mu.Lock()
	defer s.mu.Unlock()

	indexes := make([]int, 0, len(s.selected))
	for i := range s.selected {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)

	var out []Patch
	for _, i := range indexes {
		if i >= len(s.rows) {
			continue
		}
		g := s.rows[i]
		if !g.Valid() {
			continue
		}
		p := Patch{UpdateValues: map[string]any{}}
		for _, c := range s.cfg.Columns {
			if !c.GridUpdatable || !slices.Contains(s.displayed, c.Name) {
				continue
			}
			root := c.Root()
			if slices.Contains(p.Fields, root) {
				continue
			}
			ctrl := g.Get(c.Name)
			child := ctrl != nil && root != c.Name
			if ctrl == nil {
				ctrl = g.Get(root)
			}
			if ctrl == nil || !ctrl.Dirty() {
				continue
			}
			p.Fields = append(p.Fields, root)
			if child && form.IsEmpty(ctrl.RawValue()) {
				p.UpdateValues[root] = nil
				continue
			}
			v := g.Get(root).RawValue()
			if form.IsEmpty(v) {
				v = nil
			}
			p.UpdateValues[root] = v
		}
		if len(p.Fields) == 0 {
			continue
		}
		p.ID = s.rowID(i, g)
		out = append(out, p)
	}
	return out
}

func (s *Session[T]) rowID(i int, g *form.Group) any {
	if s.cfg.RowID != nil && i < len(s.content) {
		return s.cfg.RowID(s.content[i])
	}
	if c := g.Get("id"); c != nil {
		return c.RawValue()
	}
	return nil
}

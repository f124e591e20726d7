package form

import (
	"fmt"
	"strings"
)

// AccessMode is the UI context a form is built for.
type AccessMode string

const (
	AccessView AccessMode = "VIEW"
	AccessEdit AccessMode = "EDIT"
	AccessAdd  AccessMode = "ADD"
)

// ParseAccessMode accepts any casing; empty means VIEW.
func ParseAccessMode(s string) (AccessMode, error) {
	switch m := AccessMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return AccessView, nil
	case AccessView, AccessEdit, AccessAdd:
		return m, nil
	}
	return "", fmt.Errorf("unknown access mode %q", s)
}

// Scope narrows how a form is used beyond its access mode.
type Scope string

const (
	ScopeNormal Scope = "NORMAL"
	// ScopeMassUpdate edits many records at once: defaults are not injected
	// so an untouched field stays distinguishable from an explicit value.
	ScopeMassUpdate Scope = "MASS_UPDATE"
)

func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToUpper(strings.TrimSpace(s))); sc {
	case "":
		return ScopeNormal, nil
	case ScopeNormal, ScopeMassUpdate:
		return sc, nil
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// Options are threaded through every creator.
type Options struct {
	Mode  AccessMode
	Scope Scope
}

// Defaults reports whether creators should inject default values.
func (o Options) Defaults() bool { return o.Scope != ScopeMassUpdate }

// ImmutableAfterCreate marks fields that can only be set when adding: in ADD
// mode they are enabled and required, otherwise disabled.
func ImmutableAfterCreate(g *Group, mode AccessMode, names ...string) {
	for _, n := range names {
		f := g.Field(n)
		if mode == AccessAdd {
			f.Enable()
			f.SetRequired(true)
		} else {
			f.SetRequired(false)
			f.Disable()
		}
	}
}

// ApplyAccessMode disables the whole control in VIEW mode. Creators call it
// last so rules evaluated during the build cannot re-enable fields.
func ApplyAccessMode(c Control, mode AccessMode) {
	if mode == AccessView {
		c.Disable()
	}
}

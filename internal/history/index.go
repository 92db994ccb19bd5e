package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
)

// Role is the reST role a reference is rendered with
type Role string

const (
	RoleFunc  Role = "func"
	RoleClass Role = "class"
	RoleExc   Role = "exc"
)

// Ref is a qualified symbol reference, rendered as :role:`name`
type Ref struct {
	Role Role
	Name string
}

func (r Ref) String() string {
	return fmt.Sprintf(":%s:`%s`", r.Role, r.Name)
}

// Entry holds the symbols added in one version
type Entry struct {
	Version   *version.Version
	Classes   []Ref
	Functions []Ref
}

// Label returns the version heading for the entry
func (e *Entry) Label() string {
	return Label(e.Version)
}

// History indexes symbols by the version that introduced them.
// Versions below the floor are dropped.
type History struct {
	floor   *version.Version
	entries map[string]*Entry
	count   int
}

// NewHistory creates an empty history. A nil floor keeps every version.
func NewHistory(floor *version.Version) *History {
	return &History{floor: floor, entries: make(map[string]*Entry)}
}

// Collect indexes every module of pkg
func Collect(pkg *Package, floor *version.Version) *History {
	h := NewHistory(floor)
	for _, m := range pkg.Modules {
		h.AddModule(m)
	}
	return h
}

// AddModule indexes the public symbols of one module. Functions go to the
// functions bucket, classes and exceptions to the classes bucket and the
// members of a class to the functions bucket qualified by the class name.
func (h *History) AddModule(m Module) {
	for _, s := range m.Symbols {
		switch s.Kind {
		case KindClass, KindException:
			role := RoleClass
			if s.Kind == KindException {
				role = RoleExc
			}
			h.add(s, Ref{Role: role, Name: m.Name + "." + s.Name}, true)
			if isPrivate(s.Name) {
				continue
			}
			for _, member := range s.Members {
				h.add(member, Ref{Role: RoleFunc, Name: m.Name + "." + s.Name + "." + member.Name}, false)
			}
		default:
			h.add(s, Ref{Role: RoleFunc, Name: m.Name + "." + s.Name}, false)
		}
	}
}

func (h *History) add(s Symbol, ref Ref, class bool) {
	if isPrivate(s.Name) || s.Doc == "" {
		return
	}
	v, ok := VersionAdded(s.Doc)
	if !ok {
		return
	}
	if h.floor != nil && v.LessThan(h.floor) {
		return
	}

	key := Label(v)
	e, ok := h.entries[key]
	if !ok {
		e = &Entry{Version: v}
		h.entries[key] = e
	}
	if class {
		e.Classes = insertSorted(e.Classes, ref)
	} else {
		e.Functions = insertSorted(e.Functions, ref)
	}
	h.count++
}

// insertSorted keeps refs ordered by their rendered form
func insertSorted(refs []Ref, ref Ref) []Ref {
	s := ref.String()
	i := sort.Search(len(refs), func(i int) bool { return refs[i].String() >= s })
	refs = append(refs, Ref{})
	copy(refs[i+1:], refs[i:])
	refs[i] = ref
	return refs
}

// Versions returns the entries newest first
func (h *History) Versions() []*Entry {
	out := make([]*Entry, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version.GreaterThan(out[j].Version)
	})
	return out
}

// Len returns the number of indexed symbols
func (h *History) Len() int { return h.count }

func isPrivate(name string) bool {
	return name == "" || strings.HasPrefix(name, "_")
}

// PackageHistory pairs a package with its collected history for rendering
type PackageHistory struct {
	Package *Package
	History *History
}

// Title returns the package heading
func (p PackageHistory) Title() string { return p.Package.DisplayTitle() }

// Versions returns the package history newest first
func (p PackageHistory) Versions() []*Entry { return p.History.Versions() }

package history

// Kind classifies a documented symbol
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindClass     Kind = "class"
	KindException Kind = "exception"
)

// Symbol is one public API member and its documentation text.
// Members are only read for classes and exceptions.
type Symbol struct {
	Name    string   `yaml:"name" validate:"required"`
	Kind    Kind     `yaml:"kind" validate:"required,oneof=function method class exception"`
	Doc     string   `yaml:"doc"`
	Members []Symbol `yaml:"members,omitempty" validate:"dive"`
}

// Module is a named collection of symbols, e.g. "geosoft.gxpy.grid"
type Module struct {
	Name    string   `yaml:"name" validate:"required"`
	Symbols []Symbol `yaml:"symbols" validate:"dive"`
}

// Package groups modules that share one version history on the page
type Package struct {
	Name    string   `yaml:"name" validate:"required"`
	Title   string   `yaml:"title,omitempty"`
	Modules []Module `yaml:"modules" validate:"required,dive"`
}

// DisplayTitle returns Title, falling back to Name
func (p *Package) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// MergePackages combines packages sharing a name. Modules are appended in
// argument order and the first non-empty title wins.
func MergePackages(pkgs []*Package) []*Package {
	var merged []*Package
	byName := make(map[string]*Package)

	for _, p := range pkgs {
		if p == nil {
			continue
		}
		existing, ok := byName[p.Name]
		if !ok {
			cp := &Package{Name: p.Name, Title: p.Title}
			cp.Modules = append(cp.Modules, p.Modules...)
			byName[p.Name] = cp
			merged = append(merged, cp)
			continue
		}
		if existing.Title == "" {
			existing.Title = p.Title
		}
		existing.Modules = append(existing.Modules, p.Modules...)
	}

	return merged
}

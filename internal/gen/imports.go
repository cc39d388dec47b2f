package gen

import (
	"slices"
	"strings"

	"mirror-generator/internal/emit"
)

// importGroup orders the sections of an import block.
type importGroup int

const (
	groupStdlib importGroup = iota
	groupThirdParty
	groupCanonical
	groupModels
	groupCount
)

// importSet collects the imports of one generated file. "from x import a"
// and "from x import b" merge into "from x import a, b".
type importSet struct {
	pkg    string
	models string

	plain map[string]bool     // import x
	from  map[string][]string // from x import names
}

func newImportSet(pkg, models string) *importSet {
	return &importSet{
		pkg:    pkg,
		models: models,
		plain:  map[string]bool{},
		from:   map[string][]string{},
	}
}

func (s *importSet) add(imp emit.Import) {
	if imp.Module == "" {
		return
	}

	if imp.Name == "" {
		s.plain[imp.Module] = true
		return
	}

	if !slices.Contains(s.from[imp.Module], imp.Name) {
		s.from[imp.Module] = append(s.from[imp.Module], imp.Name)
	}
}

func (s *importSet) group(module string) importGroup {
	switch {
	case s.models != "" && strings.HasPrefix(module, s.models+"."):
		return groupModels
	case s.pkg != "" && (module == s.pkg || strings.HasPrefix(module, s.pkg+".")):
		return groupCanonical
	case module == "pydantic" || strings.HasPrefix(module, "pydantic."):
		return groupThirdParty
	default:
		return groupStdlib
	}
}

// groups renders the import lines section by section. Within a section
// plain imports come first, then from-imports, each sorted by module.
func (s *importSet) groups() [][]string {
	sections := make([][]string, groupCount)

	for _, mod := range sortedKeys(s.plain) {
		g := s.group(mod)
		sections[g] = append(sections[g], "import "+mod)
	}

	for _, mod := range sortedKeys(s.from) {
		names := slices.Clone(s.from[mod])
		slices.Sort(names)

		g := s.group(mod)
		sections[g] = append(sections[g], "from "+mod+" import "+strings.Join(names, ", "))
	}

	out := sections[:0]

	for _, sec := range sections {
		if len(sec) > 0 {
			out = append(out, sec)
		}
	}

	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

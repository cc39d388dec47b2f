package emit

import (
	"slices"
	"strings"

	"mirror-generator/internal/common"
	"mirror-generator/internal/match"
	"mirror-generator/internal/schema"
)

// Import is one Python import. An empty Name means "import Module".
type Import struct {
	Module string
	Name   string
}

// Python modules the generated code imports from.
const (
	modPydantic = "pydantic"
	modTyping   = "typing"
)

// Module returns the Python module holding the mirror of the named type.
func Module(models, name string) string {
	return common.JoinModule(models, FileStem(name))
}

// FileStem returns the snake_case file name, without extension, of the
// mirror of the named type.
func FileStem(name string) string {
	return match.SnakeCase(name)
}

// nonNegative is the pydantic validation argument for non-negative values.
const nonNegative = "ge=0"

type annotator struct {
	models  string
	imports []Import
}

func (a *annotator) use(module, name string) {
	imp := Import{Module: module, Name: name}
	if !slices.Contains(a.imports, imp) {
		a.imports = append(a.imports, imp)
	}
}

// annotate renders ref. constrained marks a scalar position that carries a
// non-negative constraint; unsigned elements nested in containers are always
// constrained.
func (a *annotator) annotate(ref *schema.TypeRef, constrained bool) string {
	switch ref.Kind {
	case schema.RefPrimitive:
		text := a.primitive(ref.Primitive)
		if constrained {
			a.use(modTyping, "Annotated")
			a.use(modPydantic, "Field")

			return "Annotated[" + text + ", Field(" + nonNegative + ")]"
		}

		return text

	case schema.RefNamed:
		a.use(Module(a.models, ref.Name), ref.Name)
		return ref.Name

	case schema.RefOption:
		a.use(modTyping, "Optional")
		return "Optional[" + a.annotate(ref.Elem, constrained) + "]"

	case schema.RefList:
		return "list[" + a.annotate(ref.Elem, elemConstrained(ref.Elem)) + "]"

	case schema.RefSet:
		return "set[" + a.annotate(ref.Elem, elemConstrained(ref.Elem)) + "]"

	case schema.RefMap:
		return "dict[" + a.annotate(ref.Key, elemConstrained(ref.Key)) + ", " +
			a.annotate(ref.Elem, elemConstrained(ref.Elem)) + "]"
	}

	a.use(modTyping, "Any")

	return "Any"
}

func elemConstrained(ref *schema.TypeRef) bool {
	s := schema.ScalarOf(ref)
	return s != nil && s.Kind == schema.RefPrimitive && s.Primitive.IsUnsigned()
}

func (a *annotator) primitive(k schema.Kind) string {
	switch {
	case k.IsInteger():
		return "int"
	case k.IsFloat():
		return "float"
	}

	switch k {
	case schema.KindBool:
		return "bool"
	case schema.KindString:
		return "str"
	case schema.KindUUID:
		a.use("uuid", "UUID")
		return "UUID"
	case schema.KindDuration:
		a.use("datetime", "")
		return "datetime.timedelta"
	case schema.KindDateTime:
		a.use("datetime", "")
		return "datetime.datetime"
	case schema.KindDate:
		a.use("datetime", "")
		return "datetime.date"
	case schema.KindTime:
		a.use("datetime", "")
		return "datetime.time"
	case schema.KindPath:
		a.use("pathlib", "")
		return "pathlib.Path"
	}

	a.use(modTyping, "Any")

	return "Any"
}

// SortImports orders imports by module, then name, with "import x" before
// "from x import y".
func SortImports(imports []Import) {
	slices.SortFunc(imports, func(a, b Import) int {
		if c := strings.Compare(a.Module, b.Module); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})
}

package convert

import (
	"fmt"
	"strconv"

	"mirror-generator/internal/common"
	"mirror-generator/internal/schema"
)

// Strategy describes how a value is converted to its canonical form.
type Strategy int

const (
	// StrategyPassthrough copies the value unchanged.
	StrategyPassthrough Strategy = iota
	// StrategyNested calls the nested mirror's converter.
	StrategyNested
	// StrategyOptional converts the value unless it is None.
	StrategyOptional
	// StrategyList rebuilds a list from converted elements.
	StrategyList
	// StrategySet rebuilds a set from converted elements.
	StrategySet
	// StrategyMap rebuilds a dict from converted keys and values.
	StrategyMap
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyPassthrough:
		return "passthrough"
	case StrategyNested:
		return "nested"
	case StrategyOptional:
		return "optional"
	case StrategyList:
		return "list"
	case StrategySet:
		return "set"
	case StrategyMap:
		return "map"
	default:
		return common.UnknownStr
	}
}

// Conversion is the strategy tree converting one value.
type Conversion struct {
	Strategy Strategy
	Type     *schema.TypeRef
	Elem     *Conversion // optional, list and set elements; map values
	Key      *Conversion // map keys
}

// Derive returns the conversion of a value of type ref.
func Derive(ref *schema.TypeRef) *Conversion {
	c := &Conversion{Type: ref}

	switch ref.Kind {
	case schema.RefNamed:
		c.Strategy = StrategyNested
	case schema.RefOption:
		c.Strategy = StrategyOptional
		c.Elem = Derive(ref.Elem)
	case schema.RefList:
		c.Strategy = StrategyList
		c.Elem = Derive(ref.Elem)
	case schema.RefSet:
		c.Strategy = StrategySet
		c.Elem = Derive(ref.Elem)
	case schema.RefMap:
		c.Strategy = StrategyMap
		c.Key = Derive(ref.Key)
		c.Elem = Derive(ref.Elem)
	default:
		c.Strategy = StrategyPassthrough
	}

	if c.Identity() {
		return &Conversion{Strategy: StrategyPassthrough, Type: ref}
	}

	return c
}

// Identity reports whether the conversion leaves the value unchanged.
func (c *Conversion) Identity() bool {
	switch c.Strategy {
	case StrategyPassthrough:
		return true
	case StrategyNested:
		return false
	case StrategyMap:
		return c.Key.Identity() && c.Elem.Identity()
	default:
		return c.Elem.Identity()
	}
}

// Expr renders the Python expression converting src. method is the
// converter method name of nested mirrors.
func (c *Conversion) Expr(src, method string) string {
	return c.expr(src, method, 0)
}

// expr renders at comprehension depth d; loop variables are v<d> and k<d>.
func (c *Conversion) expr(src, method string, d int) string {
	v := "v" + strconv.Itoa(d)

	switch c.Strategy {
	case StrategyNested:
		return fmt.Sprintf("%s.%s()", src, method)
	case StrategyOptional:
		return fmt.Sprintf("(%s if %s is not None else None)", c.Elem.expr(src, method, d), src)
	case StrategyList:
		return fmt.Sprintf("[%s for %s in %s]", c.Elem.expr(v, method, d+1), v, src)
	case StrategySet:
		return fmt.Sprintf("{%s for %s in %s}", c.Elem.expr(v, method, d+1), v, src)
	case StrategyMap:
		k := "k" + strconv.Itoa(d)

		return fmt.Sprintf("{%s: %s for %s, %s in %s.items()}",
			c.Key.expr(k, method, d+1), c.Elem.expr(v, method, d+1), k, v, src)
	default:
		return src
	}
}

// Nested returns the named types whose converters the conversion calls, in
// order of appearance.
func (c *Conversion) Nested() []string {
	if c == nil {
		return nil
	}

	if c.Strategy == StrategyNested {
		return []string{c.Type.Name}
	}

	return append(c.Key.Nested(), c.Elem.Nested()...)
}

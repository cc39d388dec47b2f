package schema

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind is a canonical primitive type. Named types and containers are
// expressed by TypeRef, not by Kind.
type Kind int

const (
	KindInvalid  Kind = iota // invalid
	KindI8                   // i8
	KindI16                  // i16
	KindI32                  // i32
	KindI64                  // i64
	KindI128                 // i128
	KindIsize                // isize
	KindU8                   // u8
	KindU16                  // u16
	KindU32                  // u32
	KindU64                  // u64
	KindU128                 // u128
	KindUsize                // usize
	KindF32                  // f32
	KindF64                  // f64
	KindBool                 // bool
	KindString               // String
	KindUUID                 // Uuid
	KindDuration             // Duration
	KindDateTime             // DateTime
	KindDate                 // NaiveDate
	KindTime                 // NaiveTime
	KindPath                 // PathBuf

	// KindTotal is the number of kinds, including KindInvalid.
	KindTotal = int(iota)
)

// primitiveNames maps every accepted spelling to its Kind.
var primitiveNames = map[string]Kind{
	"i8":            KindI8,
	"i16":           KindI16,
	"i32":           KindI32,
	"i64":           KindI64,
	"i128":          KindI128,
	"isize":         KindIsize,
	"u8":            KindU8,
	"u16":           KindU16,
	"u32":           KindU32,
	"u64":           KindU64,
	"u128":          KindU128,
	"usize":         KindUsize,
	"f32":           KindF32,
	"f64":           KindF64,
	"bool":          KindBool,
	"String":        KindString,
	"str":           KindString,
	"char":          KindString,
	"Uuid":          KindUUID,
	"Duration":      KindDuration,
	"SystemTime":    KindDateTime,
	"DateTime":      KindDateTime,
	"NaiveDateTime": KindDateTime,
	"NaiveDate":     KindDate,
	"NaiveTime":     KindTime,
	"PathBuf":       KindPath,
	"Path":          KindPath,
}

// LookupKind returns the primitive kind spelled name.
func LookupKind(name string) (Kind, bool) {
	k, ok := primitiveNames[name]
	return k, ok
}

// PrimitiveNames returns every accepted primitive spelling.
func PrimitiveNames() []string {
	names := make([]string, 0, len(primitiveNames))
	for n := range primitiveNames {
		names = append(names, n)
	}

	return names
}

func (k Kind) IsInteger() bool {
	return k >= KindI8 && k <= KindUsize
}

func (k Kind) IsSigned() bool {
	return k >= KindI8 && k <= KindIsize
}

func (k Kind) IsUnsigned() bool {
	return k >= KindU8 && k <= KindUsize
}

func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

// Bits returns the bit width of a numeric kind, 0 otherwise.
// isize and usize count as 64-bit.
func (k Kind) Bits() int {
	switch k {
	case KindI8, KindU8:
		return 8
	case KindI16, KindU16:
		return 16
	case KindI32, KindU32, KindF32:
		return 32
	case KindI64, KindU64, KindIsize, KindUsize, KindF64:
		return 64
	case KindI128, KindU128:
		return 128
	default:
		return 0
	}
}

// Numeric describes the machine representation of a numeric value.
type Numeric struct {
	Bits   int
	Signed bool
	Float  bool
}

// Numeric returns the representation of k; ok is false for non-numeric kinds.
func (k Kind) Numeric() (Numeric, bool) {
	if !k.IsNumeric() {
		return Numeric{}, false
	}

	return Numeric{Bits: k.Bits(), Signed: k.IsSigned() || k.IsFloat(), Float: k.IsFloat()}, true
}

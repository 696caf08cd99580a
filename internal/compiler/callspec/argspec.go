package callspec

import "fmt"

// OutputType controls how a raw argument is rendered into the call
type OutputType byte

const (
	// Verbatim passes the argument through unchanged
	Verbatim OutputType = '-'
	// Quoted renders the argument as a single-quoted string literal
	Quoted OutputType = '"'
	// Numeric renders the argument as a plain decimal number
	Numeric OutputType = '#'
	// Boolean renders the argument as True or False
	Boolean OutputType = '^'
	// Flag renders True for truthy arguments and omits falsy ones
	Flag OutputType = '!'
)

// String returns a readable name for the output type
func (t OutputType) String() string {
	switch t {
	case Verbatim:
		return "verbatim"
	case Quoted:
		return "string"
	case Numeric:
		return "numeric"
	case Boolean:
		return "boolean"
	case Flag:
		return "flag"
	default:
		return fmt.Sprintf("OutputType(%q)", byte(t))
	}
}

// Modifier controls how many raw arguments a parameter consumes and where the
// result is placed
type Modifier byte

const (
	// None consumes exactly one argument
	None Modifier = '-'
	// Optional consumes one argument and omits it when empty
	Optional Modifier = '?'
	// Variadic consumes all remaining arguments
	Variadic Modifier = '*'
	// Hoisted consumes one argument and places it before the series
	Hoisted Modifier = '<'
)

// String returns a readable name for the modifier
func (m Modifier) String() string {
	switch m {
	case None:
		return "none"
	case Optional:
		return "optional"
	case Variadic:
		return "variadic"
	case Hoisted:
		return "hoisted"
	default:
		return fmt.Sprintf("Modifier(%q)", byte(m))
	}
}

// ArgSpec describes one formal parameter of a function
type ArgSpec struct {
	Type     OutputType
	Modifier Modifier
}

// Tag returns the compact two-character form of the argument
func (a ArgSpec) Tag() string {
	return string([]byte{byte(a.Type), byte(a.Modifier)})
}

// String implements fmt.Stringer
func (a ArgSpec) String() string {
	if a.Modifier == None {
		return a.Type.String()
	}
	return a.Type.String() + " " + a.Modifier.String()
}

// ParseArgSpec parses a compact tag such as "#", "#?" or "-*".
// A missing modifier means None.
func ParseArgSpec(tag string) (ArgSpec, error) {
	if len(tag) == 0 || len(tag) > 2 {
		return ArgSpec{}, fmt.Errorf("invalid argument spec %q: want 1 or 2 characters", tag)
	}

	spec := ArgSpec{Type: OutputType(tag[0]), Modifier: None}
	switch spec.Type {
	case Verbatim, Quoted, Numeric, Boolean, Flag:
	default:
		return ArgSpec{}, fmt.Errorf("invalid argument spec %q: unknown output type %q", tag, tag[0])
	}

	if len(tag) == 2 {
		spec.Modifier = Modifier(tag[1])
		switch spec.Modifier {
		case None, Optional, Variadic, Hoisted:
		default:
			return ArgSpec{}, fmt.Errorf("invalid argument spec %q: unknown modifier %q", tag, tag[1])
		}
	}
	return spec, nil
}

// MustParseArgSpec is ParseArgSpec for static catalogs; it panics on error
func MustParseArgSpec(tag string) ArgSpec {
	spec, err := ParseArgSpec(tag)
	if err != nil {
		panic(err)
	}
	return spec
}

// Signature parses a list of tags. No tags yields a nil signature, meaning the
// function takes no arguments beyond the series.
func Signature(tags ...string) ([]ArgSpec, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	sig := make([]ArgSpec, len(tags))
	for i, tag := range tags {
		spec, err := ParseArgSpec(tag)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		sig[i] = spec
	}
	return sig, nil
}

// MustSignature is Signature for static catalogs; it panics on error
func MustSignature(tags ...string) []ArgSpec {
	sig, err := Signature(tags...)
	if err != nil {
		panic(err)
	}
	return sig
}

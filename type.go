package bencode

// Control bytes of the bencode grammar. Together with the ASCII digits they
// are the whole control vocabulary; byte string bodies are never scanned.
const (
	NumberMarker     byte = 'i'
	ListMarker       byte = 'l'
	DictionaryMarker byte = 'd'
	Terminator       byte = 'e'
	Separator        byte = ':'
)

// Type identifies one of the four bencode productions.
type Type uint8

const (
	// TypeUnknown is reported for a byte that starts no production.
	TypeUnknown Type = iota
	TypeString
	TypeNumber
	TypeList
	TypeDictionary
)

// classifyOrder is the fixed order Classify tries the validators in.
var classifyOrder = [...]Type{TypeString, TypeNumber, TypeList, TypeDictionary}

// String returns the type's name, "Unknown" for anything unrecognized.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeNumber:
		return "Number"
	case TypeList:
		return "List"
	case TypeDictionary:
		return "Dictionary"
	default:
		return "Unknown"
	}
}

// Validate reports whether b can be the first byte of a token of type t.
func (t Type) Validate(b byte) bool {
	switch t {
	case TypeString:
		return isDigit(b)
	case TypeNumber:
		return b == NumberMarker
	case TypeList:
		return b == ListMarker
	case TypeDictionary:
		return b == DictionaryMarker
	default:
		return false
	}
}

// Classify returns the type whose token starts with b, or TypeUnknown.
func Classify(b byte) Type {
	for _, t := range classifyOrder {
		if t.Validate(b) {
			return t
		}
	}
	return TypeUnknown
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

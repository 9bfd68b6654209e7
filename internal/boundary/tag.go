package boundary

import "fmt"

// SectionTag classifies a line relative to the detected reference span.
type SectionTag int

const (
	Outside SectionTag = iota
	SectionStart
	InSection
)

// String returns the BIO-style label of t.
func (t SectionTag) String() string {
	switch t {
	case Outside:
		return "O"
	case SectionStart:
		return "B-REF"
	case InSection:
		return "I-REF"
	default:
		return fmt.Sprintf("SectionTag(%d)", int(t))
	}
}

// MarshalText encodes t as its BIO label.
func (t SectionTag) MarshalText() ([]byte, error) {
	switch t {
	case Outside, SectionStart, InSection:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("unknown section tag %d", int(t))
	}
}

// UnmarshalText decodes a BIO label.
func (t *SectionTag) UnmarshalText(b []byte) error {
	switch string(b) {
	case "O":
		*t = Outside
	case "B-REF":
		*t = SectionStart
	case "I-REF":
		*t = InSection
	default:
		return fmt.Errorf("unknown section tag %q", string(b))
	}
	return nil
}

package pathconv

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Coding selects how virtual source identifiers are decoded into text.
type Coding int

const (
	// CodingANSI decodes identifiers with the platform narrow code page.
	CodingANSI Coding = iota
	// CodingUTF8 treats identifiers as UTF-8 already.
	CodingUTF8
)

// DefaultANSIEncoding is the code page used when none is configured.
const DefaultANSIEncoding = "windows-1252"

// String returns the configuration name of the coding.
func (c Coding) String() string {
	switch c {
	case CodingANSI:
		return "ansi"
	case CodingUTF8:
		return "utf8"
	default:
		return fmt.Sprintf("coding(%d)", int(c))
	}
}

// ParseCoding parses "ansi" or "utf8" (also "utf-8"), case-insensitively.
func ParseCoding(s string) (Coding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ansi":
		return CodingANSI, nil
	case "utf8", "utf-8":
		return CodingUTF8, nil
	default:
		return CodingANSI, fmt.Errorf("unknown source coding %q", s)
	}
}

// Decoder converts raw identifier bytes into text. Malformed input is
// passed through best-effort; there is no failure path.
type Decoder interface {
	Decode(raw []byte, coding Coding) string
}

// TextDecoder decodes ANSI input with a golang.org/x/text encoding.
type TextDecoder struct {
	ANSI encoding.Encoding
}

// NewTextDecoder looks up the ANSI code page by IANA name. An empty name
// selects DefaultANSIEncoding.
func NewTextDecoder(ansiName string) (*TextDecoder, error) {
	if ansiName == "" {
		ansiName = DefaultANSIEncoding
	}
	enc, err := ianaindex.IANA.Encoding(ansiName)
	if err != nil {
		return nil, fmt.Errorf("unknown ansi encoding %q: %w", ansiName, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("ansi encoding %q is not supported", ansiName)
	}
	return &TextDecoder{ANSI: enc}, nil
}

// Decode implements Decoder.
func (d *TextDecoder) Decode(raw []byte, coding Coding) string {
	if coding == CodingUTF8 {
		return string(raw)
	}
	enc := d.ANSI
	if enc == nil {
		enc = charmap.Windows1252
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

package pathconv

// Sentinel marks a source identifier as a virtual script path.
const Sentinel = '@'

// SourceKind tells virtual script paths apart from other identifiers.
type SourceKind int

const (
	// Opaque identifiers belong to some other namespace and do not resolve.
	Opaque SourceKind = iota
	// Virtual identifiers carry a path after the sentinel.
	Virtual
)

// SourceID is a raw source identifier classified once at the entry point.
type SourceID struct {
	Kind SourceKind
	// Text is the identifier without the sentinel for Virtual ids, and the
	// whole identifier otherwise.
	Text string
}

// ParseSourceID classifies raw by its leading sentinel.
func ParseSourceID(raw string) SourceID {
	if len(raw) > 0 && raw[0] == Sentinel {
		return SourceID{Kind: Virtual, Text: raw[1:]}
	}
	return SourceID{Kind: Opaque, Text: raw}
}

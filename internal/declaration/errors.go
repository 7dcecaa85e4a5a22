package declaration

import "fmt"

// EmptyPayloadError is returned when a normalize call receives zero entries.
// The message is intended for direct display.
type EmptyPayloadError struct{}

func (e *EmptyPayloadError) Error() string {
	return "no data available to preview"
}

// MissingSectionError reports an expected sub-object absent after
// normalization.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("missing %s section in extracted data", e.Section)
}

// IndexOutOfRangeError rejects an edit that references an item index no
// longer present. The remaining state is left untouched.
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("invalid item index %d (have %d items), please refresh", e.Index, e.Length)
}

// Package codec is the wire-format capability every protocol message encodes
// and decodes against. Message logic never sees the concrete encoding, so the
// wire format can change without touching a single message type.
package codec

// Codec navigates and mutates one node of a serialized document tree.
type Codec interface {
	// AddObject inserts an empty object member and returns a codec over it.
	AddObject(name string) Codec
	// Object descends into a member; ok is false when the member is absent.
	// The member does not have to be an object: scalar members are wrapped
	// so their value can be read with SelfStr.
	Object(name string) (Codec, bool)

	// SetInt writes an integer member.
	SetInt(v int64, name string)
	// SetString writes a string member.
	SetString(v string, name string)

	// Int reads an integer member, returning def when absent or non-numeric.
	Int(name string, def int64) int64
	// Str reads a string member, returning def when absent or not a string.
	Str(name string, def string) string
	// SelfStr reads the current node itself as a string.
	SelfStr(def string) string

	// EachMember visits every member of the current object.
	EachMember(visit func(name string, member Codec))
	// EachItem visits every element of an array member.
	EachItem(name string, visit func(item Codec))

	// Text serializes the tree rooted at this node.
	Text() ([]byte, error)
	// FromText replaces this node with the parsed document.
	FromText(data []byte) error
}

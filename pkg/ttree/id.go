package ttree

import "fmt"

// NodeID packs a layer (high nibble) and an index within that layer (low
// nibble) into a single byte. Only id 0 (layer 0, index 0) is reserved, as
// the universal "null" id: Insert and Append never allocate it, while
// index 0 of layers 1..15 and the other slots of layer 0 are ordinary
// slots.
type NodeID uint8

// LayerCap and IndexCap bound the arena: 16 layers of 16 slots each, for
// 256 total node slots.
const (
	LayerCap = 16
	IndexCap = 16
	// NodeIDMax is the highest valid node id (inclusive).
	NodeIDMax = LayerCap*IndexCap - 1
)

// Layer returns the high nibble of id.
func (id NodeID) Layer() uint8 { return uint8(id) / IndexCap }

// Index returns the low nibble of id.
func (id NodeID) Index() uint8 { return uint8(id) % IndexCap }

// MakeNodeID packs a layer and index into a NodeID.
func MakeNodeID(layer, index uint8) NodeID {
	return NodeID(layer*IndexCap + index)
}

// FirstOfLayer returns the id of index 0 within layer.
func FirstOfLayer(layer uint8) NodeID { return MakeNodeID(layer, 0) }

// LastOfLayer returns one past the last id within layer (exclusive bound).
// It is returned as an int, not a NodeID, because for layer 15 the bound
// (256) does not fit in a byte.
func LastOfLayer(layer uint8) int { return int(layer)*IndexCap + IndexCap }

func (id NodeID) String() string {
	return fmt.Sprintf("%02x", uint8(id))
}

package multialloc

import "strconv"

// Tag names one registered backend. Tag values are assigned in
// registration order starting at 0 and are only meaningful relative to
// the Table that issued them.
type Tag uint8

// MaxBackends is the largest number of backends a Table can hold. The
// count itself must fit in a Tag because it doubles as the end sentinel.
const MaxBackends = 255

// Raw returns the byte stored in a block header for t.
func (t Tag) Raw() uint8 {
	return uint8(t)
}

func (t Tag) String() string {
	return "tag(" + strconv.Itoa(int(t)) + ")"
}

package canvas

import (
	"fmt"

	"github.com/neurlang/gocanvas/grid"
)

var (
	// ErrConfiguration reports an invalid Canvas setting.
	ErrConfiguration = grid.ErrConfiguration
	// ErrFormat reports an input that cannot be decoded or an output that
	// cannot be encoded.
	ErrFormat = grid.ErrFormat
	// ErrChannelMismatch reports audio with other than one or two channels.
	ErrChannelMismatch = grid.ErrChannelMismatch
)

// ErrUnknownFormat reports a file extension naming no known format. It
// matches ErrFormat under errors.Is.
var ErrUnknownFormat = fmt.Errorf("%w: unknown file extension", grid.ErrFormat)

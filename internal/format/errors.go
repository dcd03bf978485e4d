package format

import "errors"

// ErrTruncated indicates the buffer lacked the bytes required for a header or node.
var ErrTruncated = errors.New("format: truncated buffer")

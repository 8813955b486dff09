package xmltok

import (
	"errors"
	"io"
)

// maxConsecutiveEmptyReads bounds how often a source may return (0, nil)
// before the cursor gives up with io.ErrNoProgress.
const maxConsecutiveEmptyReads = 100

var errNegativeRead = errors.New("xmltok: reader returned invalid count from Read")

// cursor owns a fixed-capacity window over the source.
// Invariant: 0 <= pos <= n <= len(buf).
type cursor struct {
	r    io.Reader
	err  error
	buf  []byte
	base int64
	pos  int
	n    int
	eof  bool
}

func (c *cursor) reset(r io.Reader, size int) {
	if cap(c.buf) != size {
		c.buf = make([]byte, size)
	} else {
		c.buf = c.buf[:size]
	}
	c.r = r
	c.err = nil
	c.base = 0
	c.pos = 0
	c.n = 0
	c.eof = false
}

// ensureData reports whether at least one unread byte is available,
// refilling the window once it is exhausted. It returns false with a nil
// error when the source has no more data.
func (c *cursor) ensureData() (bool, error) {
	if c.pos < c.n {
		return true, nil
	}
	if c.err != nil {
		return false, c.err
	}
	if c.eof {
		return false, nil
	}
	c.base += int64(c.n)
	c.pos = 0
	c.n = 0
	for range maxConsecutiveEmptyReads {
		n, err := c.r.Read(c.buf)
		if n < 0 || n > len(c.buf) {
			c.err = errNegativeRead
			return false, c.err
		}
		c.n = n
		switch {
		case err == io.EOF:
			c.eof = true
		case err != nil:
			// bytes delivered with the error are consumed first; the error
			// surfaces on the next refill.
			c.err = err
		}
		if n > 0 {
			return true, nil
		}
		if c.err != nil {
			return false, c.err
		}
		if c.eof {
			return false, nil
		}
	}
	c.err = io.ErrNoProgress
	return false, c.err
}

func (c *cursor) peek() byte {
	return c.buf[c.pos]
}

func (c *cursor) advance(k int) {
	c.pos += k
}

// window returns the unread part of the current load.
func (c *cursor) window() []byte {
	return c.buf[c.pos:c.n]
}

func (c *cursor) offset() int64 {
	return c.base + int64(c.pos)
}

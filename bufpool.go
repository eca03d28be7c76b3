package bencode

import (
	"bytes"
	"sync"
)

// maxPooledBuffer keeps one oversized value from pinning its buffer in the
// pool forever.
const maxPooledBuffer = 64 * 1024

// bufPool reuses scratch buffers for encoded output and string bodies.
var bufPool = sync.Pool{
	New: func() any {
		// Most bencoded values (peer messages, tracker replies) fit in 4KB.
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	bufPool.Put(buf)
}

package speech

import "sync"

var chunkPool sync.Pool

func acquireChunk(size int) []byte {
	if v := chunkPool.Get(); v != nil {
		buf := v.([]byte)
		if cap(buf) >= size {
			return buf[:size]
		}
	}
	return make([]byte, size)
}

func releaseChunk(buf []byte) {
	if buf == nil {
		return
	}
	chunkPool.Put(buf[:0])
}

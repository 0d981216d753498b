package symbols

import (
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// OwnedBuffer is a caller-owned copy of a symbol file's contents with a
// trailing NUL byte, shaped for stack walkers that consume C-string
// symbol data. The registry keeps the buffer reachable until it is
// released; a handle that is dropped without Release keeps its data
// alive for the life of the supplier.
type OwnedBuffer struct {
	data     []byte
	codeFile string
	registry *bufferRegistry

	// guarded by registry.mtx
	released bool
}

// Data returns the symbol data including the trailing NUL byte.
func (b *OwnedBuffer) Data() []byte { return b.data }

// Size is the byte length of Data, i.e. the symbol file size plus one.
func (b *OwnedBuffer) Size() int { return len(b.data) }

// Release detaches the buffer from the registry. Releasing twice, or
// releasing a buffer that was already replaced by a newer registration
// for the same module, is a no-op.
func (b *OwnedBuffer) Release() { b.registry.releaseBuffer(b) }

// bufferRegistry tracks the live symbol data buffer per module code
// file. A buffer is in the map if and only if it has not been
// released.
type bufferRegistry struct {
	logger  log.Logger
	metrics *metrics

	mtx     sync.Mutex
	buffers map[string]*OwnedBuffer
}

func newBufferRegistry(logger log.Logger, m *metrics) *bufferRegistry {
	return &bufferRegistry{
		logger:  logger,
		metrics: m,
		buffers: make(map[string]*OwnedBuffer),
	}
}

// register copies data into a new NUL-terminated buffer and records it
// as the live buffer for codeFile. A prior registration for the same
// module is released; its handle stays valid but inert.
func (r *bufferRegistry) register(codeFile string, data []byte) *OwnedBuffer {
	terminated := make([]byte, len(data)+1)
	copy(terminated, data)

	buf := &OwnedBuffer{
		data:     terminated,
		codeFile: codeFile,
		registry: r,
	}

	r.mtx.Lock()
	prior := r.buffers[codeFile]
	if prior != nil {
		prior.released = true
	}
	r.buffers[codeFile] = buf
	r.mtx.Unlock()

	r.metrics.liveBuffers.Inc()
	if prior != nil {
		r.metrics.liveBuffers.Dec()
		r.metrics.replacedBuffers.Inc()
		level.Warn(r.logger).Log("msg", "symbol data registered twice for module, releasing the previous buffer", "code_file", codeFile)
	}
	return buf
}

func (r *bufferRegistry) releaseBuffer(buf *OwnedBuffer) {
	r.mtx.Lock()
	if buf.released {
		r.mtx.Unlock()
		return
	}
	buf.released = true
	delete(r.buffers, buf.codeFile)
	r.mtx.Unlock()

	r.metrics.liveBuffers.Dec()
}

// releaseModule releases whatever buffer is registered for codeFile.
// Reports whether there was one.
func (r *bufferRegistry) releaseModule(codeFile string) bool {
	r.mtx.Lock()
	buf, ok := r.buffers[codeFile]
	if ok {
		buf.released = true
		delete(r.buffers, codeFile)
	}
	r.mtx.Unlock()

	if !ok {
		return false
	}
	r.metrics.liveBuffers.Dec()
	return true
}

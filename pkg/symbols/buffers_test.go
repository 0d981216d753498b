package symbols

import (
	"testing"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestBufferRegistryRegisterAndRelease(t *testing.T) {
	m := newMetrics(nil)
	r := newBufferRegistry(log.NewNopLogger(), m)

	data := []byte("MODULE test\nFUNC 1000 10 0 main\n")
	buf := r.register("app.exe", data)

	require.Equal(t, len(data)+1, buf.Size())
	require.Equal(t, append(append([]byte{}, data...), 0), buf.Data())
	require.Equal(t, float64(1), testutil.ToFloat64(m.liveBuffers))

	buf.Release()
	require.Equal(t, float64(0), testutil.ToFloat64(m.liveBuffers))

	// releasing twice is a no-op
	buf.Release()
	require.Equal(t, float64(0), testutil.ToFloat64(m.liveBuffers))
}

func TestBufferRegistryRegisterCopies(t *testing.T) {
	r := newBufferRegistry(log.NewNopLogger(), newMetrics(nil))

	data := []byte("original")
	buf := r.register("app.exe", data)
	data[0] = 'X'

	require.Equal(t, byte('o'), buf.Data()[0])
}

func TestBufferRegistryReplacesPriorRegistration(t *testing.T) {
	m := newMetrics(nil)
	r := newBufferRegistry(log.NewNopLogger(), m)

	first := r.register("app.exe", []byte("first"))
	second := r.register("app.exe", []byte("second"))

	require.Equal(t, float64(1), testutil.ToFloat64(m.liveBuffers))
	require.Equal(t, float64(1), testutil.ToFloat64(m.replacedBuffers))

	// the replaced handle is inert: releasing it must not affect the
	// live registration
	first.Release()
	require.Equal(t, float64(1), testutil.ToFloat64(m.liveBuffers))
	require.True(t, r.releaseModule("app.exe"))
	require.Equal(t, float64(0), testutil.ToFloat64(m.liveBuffers))

	require.Equal(t, append([]byte("second"), 0), second.Data())
}

func TestBufferRegistryReleaseModuleUnknown(t *testing.T) {
	r := newBufferRegistry(log.NewNopLogger(), newMetrics(nil))
	require.False(t, r.releaseModule("never-registered.exe"))
}

func TestBufferRegistryIndependentModules(t *testing.T) {
	m := newMetrics(nil)
	r := newBufferRegistry(log.NewNopLogger(), m)

	a := r.register("a.exe", []byte("aaa"))
	b := r.register("b.exe", []byte("bbb"))
	require.Equal(t, float64(2), testutil.ToFloat64(m.liveBuffers))

	a.Release()
	require.Equal(t, float64(1), testutil.ToFloat64(m.liveBuffers))
	require.Equal(t, append([]byte("bbb"), 0), b.Data())

	require.True(t, r.releaseModule("b.exe"))
	require.Equal(t, float64(0), testutil.ToFloat64(m.liveBuffers))
}

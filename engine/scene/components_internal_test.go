package scene

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingPool records Stop calls on a real pool.
type countingPool struct {
	worker.DynamicWorkerPool
	stops int
}

func (p *countingPool) Stop() {
	p.stops++
	p.DynamicWorkerPool.Stop()
}

func cubeFaceFS(t *testing.T, faces []string) fstest.MapFS {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	files := fstest.MapFS{}
	for _, face := range faces {
		files["textures/paris_cubemap/"+face+".png"] = &fstest.MapFile{Data: buf.Bytes()}
	}
	return files
}

func newCountingFactory(t *testing.T, files fstest.MapFS) (*factory, *[]*countingPool) {
	t.Helper()
	b := renderertest.New()
	r, err := renderer.NewRenderer(renderer.BackendTypeOpenGL, renderer.WithBackend(b))
	require.NoError(t, err)
	require.NoError(t, r.Init(800, 600))

	compiler := shader.NewCompiler(b, shader.WithShaderFS(os.DirFS("../../assets/shaders")))
	f := NewFactory(r, compiler, loader.NewLoader(loader.WithFS(files)), WithFactoryFS(files)).(*factory)

	var pools []*countingPool
	f.newPool = func(workers int) worker.DynamicWorkerPool {
		p := &countingPool{DynamicWorkerPool: newDecodePool(workers)}
		pools = append(pools, p)
		return p
	}
	return f, &pools
}

func TestSkyBoxStopsDecodePool(t *testing.T) {
	f, pools := newCountingFactory(t, cubeFaceFS(t, renderer.CubeFaceNames[:]))

	for range 2 {
		sky, err := f.SkyBox()
		require.NoError(t, err)
		f.r.Release(sky)
	}

	require.Len(t, *pools, 2)
	for _, p := range *pools {
		assert.Equal(t, 1, p.stops)
	}
}

func TestSkyBoxStopsDecodePoolOnError(t *testing.T) {
	f, pools := newCountingFactory(t, cubeFaceFS(t, renderer.CubeFaceNames[:5]))

	_, err := f.SkyBox()
	require.Error(t, err)
	require.Len(t, *pools, 1)
	assert.Equal(t, 1, (*pools)[0].stops)
}

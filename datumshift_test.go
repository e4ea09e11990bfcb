package isolib

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testGR3DHeader = `GR3D  900824 NTF RGF93
GR3D1 -5.5 -5.0 41.0 41.5 0.5 0.5
GR3D2 INTERPOLATION BILINEAR
GR3D3 PREC CODE 1 2 3 4
`

const testGR3DRows = `-5.5 41.0 -165.027 -67.100 315.813 99 0001
-5.0 41.0 -165.100 -67.200 315.900 2 0002
-5.5 41.5 -165.200 -67.300 316.000 3 0003
-5.0 41.5 -165.300 -67.400 316.100 4 0004
`

var gridSeq int

func writeGridFile(t *testing.T, content string) string {
	t.Helper()
	gridSeq++
	path := filepath.Join(t.TempDir(), fmt.Sprintf("grid_%d.gr3d", gridSeq))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDatumShiftGrid(t *testing.T) {
	g, err := LoadDatumShiftGrid(writeGridFile(t, testGR3DHeader+testGR3DRows))
	require.NoError(t, err)
	require.Equal(t, -5.5, g.X0)
	require.Equal(t, 41.0, g.Y0)
	require.Equal(t, 0.5, g.DX)
	require.Equal(t, 0.5, g.DY)
	require.Equal(t, 2, g.NX)
	require.Equal(t, 2, g.NY)
	// 精度码99不在表内，按最差精度计
	require.Equal(t, GR3D_WORST_ACCURACY, g.Accuracy)

	// 节点处返回取反后的存量
	dx, dy, dz, err := g.Interpolate(-5.5, 41.0)
	require.NoError(t, err)
	require.Equal(t, 165.027, dx)
	require.Equal(t, 67.100, dy)
	require.Equal(t, -315.813, dz)

	// 两节点中点为均值
	dx, dy, dz, err = g.Interpolate(-5.25, 41.0)
	require.NoError(t, err)
	require.InDelta(t, (165.027+165.100)/2, dx, 1e-9)
	require.InDelta(t, (67.100+67.200)/2, dy, 1e-9)
	require.InDelta(t, -(315.813+315.900)/2, dz, 1e-9)
}

func TestLoadDatumShiftGridAccuracy(t *testing.T) {
	rows := `-5.5 41.0 -165.027 -67.100 315.813 1
-5.0 41.0 -165.100 -67.200 315.900 2
-5.5 41.5 -165.200 -67.300 316.000 3
-5.0 41.5 -165.300 -67.400 316.100 4
`
	g, err := LoadDatumShiftGrid(writeGridFile(t, testGR3DHeader+rows))
	require.NoError(t, err)
	require.Equal(t, 0.50, g.Accuracy)
}

func TestLoadDatumShiftGridCached(t *testing.T) {
	path := writeGridFile(t, testGR3DHeader+testGR3DRows)
	g1, err := LoadDatumShiftGrid(path)
	require.NoError(t, err)
	before := gridLoads.Load()
	g2, err := LoadDatumShiftGrid(path)
	require.NoError(t, err)
	require.Same(t, g1, g2)
	require.Equal(t, before, gridLoads.Load())
}

// 并发加载同一文件只解析一次
func TestLoadDatumShiftGridSingleFlight(t *testing.T) {
	path := writeGridFile(t, testGR3DHeader+testGR3DRows)
	before := gridLoads.Load()
	const n = 16
	grids := make([]*DatumShiftGrid, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			grids[i], errs[i] = LoadDatumShiftGrid(path)
		}(i)
	}
	wg.Wait()
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}
	require.Equal(t, before+1, gridLoads.Load())
	for i := 1; i < n; i++ {
		require.Same(t, grids[0], grids[i])
	}
}

func TestLoadDatumShiftGridFailureNotCached(t *testing.T) {
	path := writeGridFile(t, testGR3DHeader) // 缺失全部数据行
	before := gridLoads.Load()
	_, err := LoadDatumShiftGrid(path)
	require.ErrorIs(t, err, ErrBadGridFile)
	_, err = LoadDatumShiftGrid(path)
	require.ErrorIs(t, err, ErrBadGridFile)
	require.Equal(t, before+2, gridLoads.Load())
}

func TestLoadDatumShiftGridMalformed(t *testing.T) {
	// 头部行次序错误
	_, err := LoadDatumShiftGrid(writeGridFile(t,
		"GR3D1 -5.5 -5.0 41.0 41.5 0.5 0.5\nGR3D x\nGR3D2 INTERPOLATION BILINEAR\nGR3D3 x\n"))
	require.ErrorIs(t, err, ErrBadGridFile)

	// 节点重复
	_, err = LoadDatumShiftGrid(writeGridFile(t,
		testGR3DHeader+testGR3DRows+"-5.5 41.0 -165.027 -67.100 315.813 99\n"))
	require.ErrorIs(t, err, ErrDuplicateGridCell)

	// 节点超出范围
	_, err = LoadDatumShiftGrid(writeGridFile(t,
		testGR3DHeader+testGR3DRows+"-4.0 41.0 -165.027 -67.100 315.813 99\n"))
	require.ErrorIs(t, err, ErrBadGridFile)

	// 步长非法
	_, err = LoadDatumShiftGrid(writeGridFile(t,
		"GR3D  900824\nGR3D1 -5.5 -5.0 41.0 41.5 0 0.5\nGR3D2 INTERPOLATION BILINEAR\nGR3D3 x\n"))
	require.ErrorIs(t, err, ErrBadGridFile)

	// 方法行残缺（非双线性方法仅告警，残缺行按头部错误处理）
	_, err = LoadDatumShiftGrid(writeGridFile(t,
		"GR3D  900824\nGR3D1 -5.5 -5.0 41.0 41.5 0.5 0.5\nGR3D2 INTERPOLATION\nGR3D3 x\n"+testGR3DRows))
	require.ErrorIs(t, err, ErrBadGridFile)
	_, err = LoadDatumShiftGrid(writeGridFile(t,
		"GR3D  900824\nGR3D1 -5.5 -5.0 41.0 41.5 0.5 0.5\nGR3D2 METHOD BILINEAR\nGR3D3 x\n"+testGR3DRows))
	require.ErrorIs(t, err, ErrBadGridFile)
}

// 非双线性方法仅告警，仍按双线性加载
func TestLoadDatumShiftGridOtherMethod(t *testing.T) {
	content := `GR3D  900824 NTF RGF93
GR3D1 -5.5 -5.0 41.0 41.5 0.5 0.5
GR3D2 INTERPOLATION SPLINE
GR3D3 PREC CODE 1 2 3 4
` + testGR3DRows
	g, err := LoadDatumShiftGrid(writeGridFile(t, content))
	require.NoError(t, err)
	require.Equal(t, 2, g.NX)
}

func TestInterpolateOutsideGrid(t *testing.T) {
	g, err := LoadDatumShiftGrid(writeGridFile(t, testGR3DHeader+testGR3DRows))
	require.NoError(t, err)
	_, _, _, err = g.Interpolate(10, 50)
	require.ErrorIs(t, err, ErrOutsideGrid)
	require.Contains(t, err.Error(), "(10, 50)")
}

func TestGridShiftTransformRoundTrip(t *testing.T) {
	g, err := LoadDatumShiftGrid(writeGridFile(t, testGR3DHeader+testGR3DRows))
	require.NoError(t, err)
	tr, err := NewGridShiftTransform(g, Clarke1880IGN, GRS80)
	require.NoError(t, err)

	lon, lat := -5.25, 41.25
	fx, fy, err := tr.Forward(lon, lat)
	require.NoError(t, err)
	// 数百米的地心平移只会移动坐标千分之几度
	require.InDelta(t, lon, fx, 0.01)
	require.InDelta(t, lat, fy, 0.01)
	require.NotEqual(t, lon, fx)

	ix, iy, err := tr.Inverse(fx, fy)
	require.NoError(t, err)
	require.InDelta(t, lon, ix, 1e-9)
	require.InDelta(t, lat, iy, 1e-9)
}

func TestGridShiftTransformOutside(t *testing.T) {
	g, err := LoadDatumShiftGrid(writeGridFile(t, testGR3DHeader+testGR3DRows))
	require.NoError(t, err)
	tr, err := NewGridShiftTransform(g, Clarke1880IGN, GRS80)
	require.NoError(t, err)
	_, _, err = tr.Forward(0, 0)
	require.ErrorIs(t, err, ErrOutsideGrid)
}

func TestNewGridShiftTransformNilGrid(t *testing.T) {
	_, err := NewGridShiftTransform(nil, Clarke1880IGN, GRS80)
	require.ErrorIs(t, err, ErrMissingParameter)
}

package isolib

import (
	"os"
	"strings"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/require"
)

func traceTestIsolines(t *testing.T) []Isoline {
	t.Helper()
	r := newTestRaster(t, 4, 4,
		[]float64{0, 0, 0, 0},
		[]float64{0, 4, 4, 0},
		[]float64{0, 4, 4, 0},
		[]float64{0, 0, 0, 0},
	)
	ret, err := NewIsolineTracer(nil, 0).Generate(r, [][]float64{{2, 8}})
	require.NoError(t, err)
	return ret[0]
}

func TestIsolinesToFeatureCollection(t *testing.T) {
	isolines := traceTestIsolines(t)
	fc := IsolinesToFeatureCollection(isolines)
	// 阈值8超出样值范围，结果为空，不产生Feature
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	require.Equal(t, geojson.GeometryMultiLineString, f.Geometry.Type)
	require.Len(t, f.Geometry.MultiLineString, 1)
	require.Len(t, f.Geometry.MultiLineString[0], 9)
	require.EqualValues(t, 0, f.Properties["band"])
	require.EqualValues(t, 2.0, f.Properties["level"])
}

func TestIsolineToWkt(t *testing.T) {
	isolines := traceTestIsolines(t)
	wktStr, err := IsolineToWkt(isolines[0])
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(wktStr, "MULTILINESTRING"))
	require.Contains(t, wktStr, "2.5")
}

func TestWriteIsolinesJSON(t *testing.T) {
	isolines := traceTestIsolines(t)
	dir := t.TempDir()
	path, err := WriteIsolinesJSON(dir, isolines)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, FILE_EXT_JSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
}

func TestWriteIsolinesJSONEmpty(t *testing.T) {
	_, err := WriteIsolinesJSON(t.TempDir(), nil)
	require.ErrorIs(t, err, ErrEmptyIsolines)
}

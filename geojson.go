package isolib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wgdzlh/isolib/log"
	"github.com/wgdzlh/isolib/utils"

	geojson "github.com/paulmach/go.geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
	"go.uber.org/zap"
)

// 追踪结果转GeoJSON FeatureCollection，每个(波段,阈值)一个Feature，
// band与level写入属性。空结果跳过
func IsolinesToFeatureCollection(isolines []Isoline) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, iso := range isolines {
		if iso.Lines == nil || iso.Lines.NumLineStrings() == 0 {
			continue
		}
		lines := make([][][]float64, iso.Lines.NumLineStrings())
		for i := range lines {
			coords := iso.Lines.LineString(i).Coords()
			line := make([][]float64, len(coords))
			for j, c := range coords {
				line[j] = []float64{c[0], c[1]}
			}
			lines[i] = line
		}
		f := geojson.NewMultiLineStringFeature(lines...)
		f.SetProperty("band", iso.Band)
		f.SetProperty("level", iso.Level)
		fc.AddFeature(f)
	}
	return fc
}

// 单条追踪结果转WKT
func IsolineToWkt(iso Isoline) (ret string, err error) {
	return wkt.Marshal(iso.Lines)
}

// 将追踪结果以GeoJSON落盘到dir下的唯一命名文件，返回文件路径
func WriteIsolinesJSON(dir string, isolines []Isoline) (path string, err error) {
	fc := IsolinesToFeatureCollection(isolines)
	if len(fc.Features) == 0 {
		err = ErrEmptyIsolines
		return
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return
	}
	path = filepath.Join(dir, fmt.Sprintf(TMP_ISOLINE_JSON, utils.GetUniqTag()))
	if err = os.WriteFile(path, data, os.ModePerm); err != nil {
		log.Error("IsolineSink: write geojson failed", zap.String("path", path), zap.Error(err))
		return
	}
	log.Info("IsolineSink: geojson written", zap.String("path", path), zap.Int("features", len(fc.Features)))
	return
}

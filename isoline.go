package isolib

import (
	"github.com/wgdzlh/isolib/log"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// 按波段存放的浮点样值格网，尺寸构造后固定
type Raster struct {
	Width  int
	Height int
	Bands  int
	data   []float64
}

func NewRaster(width, height, bands int) (*Raster, error) {
	if width < 1 || height < 1 || bands < 1 {
		return nil, ErrEmptyRaster
	}
	return &Raster{
		Width:  width,
		Height: height,
		Bands:  bands,
		data:   make([]float64, width*height*bands),
	}, nil
}

func (r *Raster) Sample(band, x, y int) float64 {
	return r.data[(band*r.Height+y)*r.Width+x]
}

func (r *Raster) SetSample(band, x, y int, v float64) {
	r.data[(band*r.Height+y)*r.Width+x] = v
}

// 整波段写入，values按行主序排列
func (r *Raster) SetBand(band int, values []float64) error {
	if len(values) != r.Width*r.Height {
		return errors.Wrapf(ErrEmptyRaster, "band %d expects %d samples, got %d",
			band, r.Width*r.Height, len(values))
	}
	copy(r.data[band*r.Width*r.Height:], values)
	return nil
}

// 等值线追踪器。单次Generate为同步的单线程遍历；
// 多个追踪器实例各持有独立状态，可在不同goroutine并行处理不同影像
type IsolineTracer struct {
	gridToCRS MathTransform
	tolerance float64
	logTag    string
}

// gridToCRS为像素坐标到参考空间的变换，nil表示恒等。
// tolerance为点合并容差（格网单元，0~0.5），越界值按0处理
func NewIsolineTracer(gridToCRS MathTransform, tolerance float64) *IsolineTracer {
	if tolerance < 0 || tolerance > MAX_POINT_TOLERANCE {
		tolerance = 0
	}
	return &IsolineTracer{
		gridToCRS: gridToCRS,
		tolerance: tolerance,
		logTag:    "IsolineTracer:",
	}
}

// 对每个波段按levels[band]给出的升序阈值追踪等值线，一次自上而下扫描完成。
// 返回值按波段、阈值次序排列；某一波段失败不影响其余波段，错误合并返回
func (t *IsolineTracer) Generate(r *Raster, levels [][]float64) ([][]Isoline, error) {
	if r == nil || r.Width < 2 || r.Height < 2 {
		return nil, ErrEmptyRaster
	}
	if len(levels) != r.Bands {
		return nil, errors.Wrapf(ErrWrongBandCount, "raster has %d bands, levels given for %d",
			r.Bands, len(levels))
	}
	ret := make([][]Isoline, r.Bands)
	var errs error
	for band := 0; band < r.Bands; band++ {
		values := levels[band]
		sorted := true
		for i := 1; i < len(values); i++ {
			if values[i-1] > values[i] {
				sorted = false
				break
			}
		}
		if !sorted {
			errs = multierr.Append(errs, errors.Wrapf(ErrLevelsNotSorted, "band %d", band))
			continue
		}
		isolines, err := t.traceBand(r, band, values)
		if err != nil {
			log.Error(t.logTag+"band trace failed", zap.Int("band", band), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		ret[band] = isolines
	}
	return ret, errs
}

func (t *IsolineTracer) traceBand(r *Raster, band int, values []float64) ([]Isoline, error) {
	lvs := make([]*level, len(values))
	for i, v := range values {
		lvs[i] = newLevel(v, r.Width, newPathBuilder(t.gridToCRS, t.tolerance))
	}
	for y := 0; y < r.Height-1; y++ {
		zUL, zLL := r.Sample(band, 0, y), r.Sample(band, 0, y+1)
		for _, lv := range lvs {
			// 第0列的左缘两位先放在右侧，循环内的位移会将其归位
			m := 0
			if zUL >= lv.value {
				m = upperRight
			}
			if zLL >= lv.value {
				m |= lowerRight
			}
			lv.isDataAbove = m
		}
		for x := 0; x < r.Width-1; x++ {
			zUR, zLR := r.Sample(band, x+1, y), r.Sample(band, x+1, y+1)
			for _, lv := range lvs {
				lv.nextColumn()
				if zUR >= lv.value {
					lv.isDataAbove |= upperRight
				}
				if zLR >= lv.value {
					lv.isDataAbove |= lowerRight
				}
				if err := lv.interpolate(x, y, zUL, zUR, zLL, zLR); err != nil {
					return nil, err
				}
			}
			zUL, zLL = zUR, zLR
		}
		for _, lv := range lvs {
			if err := lv.finishedRow(); err != nil {
				return nil, err
			}
		}
	}
	ret := make([]Isoline, len(lvs))
	for i, lv := range lvs {
		if err := lv.finish(); err != nil {
			return nil, err
		}
		ret[i] = Isoline{
			Band:  band,
			Level: lv.value,
			Lines: lv.path.result(),
		}
	}
	log.Info(t.logTag+"band traced", zap.Int("band", band), zap.Int("levels", len(values)))
	return ret, nil
}

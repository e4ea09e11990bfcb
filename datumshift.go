package isolib

import (
	"bufio"
	"math"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/wgdzlh/isolib/log"
	"github.com/wgdzlh/isolib/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// 不可变的基准面平移格网：每个节点存放一组已在加载时取反的地心平移量(ΔX,ΔY,ΔZ)。
// 文件记载的方向与内部使用方向相反，取反后Forward可直接叠加，切勿再次翻转符号
type DatumShiftGrid struct {
	X0, Y0   float64 // 格网原点（最小经度、纬度，度）
	DX, DY   float64 // 节点间距，度
	NX, NY   int
	Accuracy float64 // 全格网最差精度，米
	path     string
	offsets  []float64 // 3值一组，按行存放
}

var (
	gridCache  = map[string]*DatumShiftGrid{}
	gridLock   sync.Mutex
	gridFlight singleflight.Group
	gridLoads  atomic.Int32 // 实际解析次数，供测试检验single-flight
)

// 加载GR3D格网文件。按解析后的绝对路径缓存，同一文件只解析一次；
// 并发请求合并等待同一次加载，失败则一同失败（失败结果不缓存）
func LoadDatumShiftGrid(path string) (grid *DatumShiftGrid, err error) {
	key, err := utils.ResolvePath(path)
	if err != nil {
		err = errors.Wrap(err, path)
		return
	}
	gridLock.Lock()
	cached, ok := gridCache[key]
	gridLock.Unlock()
	if ok {
		grid = cached
		return
	}
	v, err, _ := gridFlight.Do(key, func() (any, error) {
		gridLock.Lock()
		g, ok := gridCache[key]
		gridLock.Unlock()
		if ok {
			return g, nil
		}
		g, e := parseGR3D(key)
		if e != nil {
			return nil, e
		}
		gridLock.Lock()
		gridCache[key] = g
		gridLock.Unlock()
		return g, nil
	})
	if err != nil {
		return
	}
	grid = v.(*DatumShiftGrid)
	return
}

func parseGR3D(path string) (grid *DatumShiftGrid, err error) {
	gridLoads.Add(1)
	f, err := os.Open(path)
	if err != nil {
		err = errors.Wrap(err, "open datum shift grid")
		return
	}
	defer f.Close()
	// IGN发布的文件为ISO 8859-1编码
	sc := bufio.NewScanner(utils.Latin1ToUtf8(f))
	header := [4]string{GR3D_KEY_HEADER, GR3D_KEY_EXTENT, GR3D_KEY_METHOD, GR3D_KEY_LEGEND}
	lineNo := 0
	var fields [4][]string
	for i, key := range header {
		if !sc.Scan() {
			err = errors.Wrapf(ErrBadGridFile, "%s: missing %s line", path, key)
			return
		}
		lineNo++
		fields[i] = strings.Fields(sc.Text())
		if len(fields[i]) == 0 || fields[i][0] != key {
			err = errors.Wrapf(ErrBadGridFile, "%s:%d: expected %s line", path, lineNo, key)
			return
		}
	}
	ext := fields[1]
	if len(ext) < 7 {
		err = errors.Wrapf(ErrBadGridFile, "%s: %s needs 6 extent values", path, GR3D_KEY_EXTENT)
		return
	}
	bounds, ok := utils.StrToFloats(ext[1:7])
	if !ok {
		err = errors.Wrapf(ErrBadGridFile, "%s: unparsable %s extent", path, GR3D_KEY_EXTENT)
		return
	}
	xmin, xmax, ymin, ymax, dx, dy := bounds[0], bounds[1], bounds[2], bounds[3], bounds[4], bounds[5]
	if dx <= 0 || dy <= 0 || xmax < xmin || ymax < ymin {
		err = errors.Wrapf(ErrBadGridFile, "%s: invalid extent %v", path, bounds)
		return
	}
	method := fields[2]
	if len(method) < 3 || method[1] != GR3D_INTERPOLATION {
		err = errors.Wrapf(ErrBadGridFile, "%s: malformed %s line", path, GR3D_KEY_METHOD)
		return
	}
	if !strings.EqualFold(method[2], GR3D_BILINEAR) {
		// 声明的非双线性方法按双线性处理，仅告警
		log.Warn("DatumShiftGrid: unsupported interpolation method, using bilinear",
			zap.String("file", path), zap.String("method", method[2]))
	}
	grid = &DatumShiftGrid{
		X0:   xmin,
		Y0:   ymin,
		DX:   dx,
		DY:   dy,
		NX:   int(math.Round((xmax-xmin)/dx)) + 1,
		NY:   int(math.Round((ymax-ymin)/dy)) + 1,
		path: path,
	}
	grid.offsets = make([]float64, 3*grid.NX*grid.NY)
	for i := range grid.offsets {
		grid.offsets[i] = math.NaN()
	}
	for sc.Scan() {
		lineNo++
		fs := strings.Fields(sc.Text())
		if len(fs) == 0 {
			continue
		}
		if len(fs) < 6 {
			err = errors.Wrapf(ErrBadGridFile, "%s:%d: short data row", path, lineNo)
			return
		}
		vals, ok := utils.StrToFloats(fs[:5])
		if !ok {
			err = errors.Wrapf(ErrBadGridFile, "%s:%d: unparsable data row", path, lineNo)
			return
		}
		ix := int(math.Round((vals[0] - grid.X0) / grid.DX))
		iy := int(math.Round((vals[1] - grid.Y0) / grid.DY))
		if ix < 0 || ix >= grid.NX || iy < 0 || iy >= grid.NY {
			err = errors.Wrapf(ErrBadGridFile, "%s:%d: cell (%g, %g) outside extent", path, lineNo, vals[0], vals[1])
			return
		}
		k := 3 * (iy*grid.NX + ix)
		if !math.IsNaN(grid.offsets[k]) {
			err = errors.Wrapf(ErrDuplicateGridCell, "%s:%d: cell (%g, %g)", path, lineNo, vals[0], vals[1])
			return
		}
		// 文件方向与使用方向相反，按约定取反存储
		grid.offsets[k] = -vals[2]
		grid.offsets[k+1] = -vals[3]
		grid.offsets[k+2] = -vals[4]
		acc, ok := gr3dAccuracy[utils.StrToInt(fs[5])]
		if !ok {
			acc = GR3D_WORST_ACCURACY
		}
		if acc > grid.Accuracy {
			grid.Accuracy = acc
		}
	}
	if err = sc.Err(); err != nil {
		err = errors.Wrap(err, path)
		return
	}
	for i := 0; i < len(grid.offsets); i += 3 {
		if math.IsNaN(grid.offsets[i]) {
			err = errors.Wrapf(ErrBadGridFile, "%s: missing cell (%g, %g)",
				path, grid.X0+float64(i/3%grid.NX)*grid.DX, grid.Y0+float64(i/3/grid.NX)*grid.DY)
			return
		}
	}
	log.Info("DatumShiftGrid: loaded", zap.String("file", path),
		zap.Int("nx", grid.NX), zap.Int("ny", grid.NY), zap.Float64("accuracy", grid.Accuracy))
	return
}

// 双线性内插指定坐标处的平移量。落在格网域外即报错，坐标随错误返回
func (g *DatumShiftGrid) Interpolate(lon, lat float64) (dx, dy, dz float64, err error) {
	gx := (lon - g.X0) / g.DX
	gy := (lat - g.Y0) / g.DY
	if gx < 0 || gx > float64(g.NX-1) || gy < 0 || gy > float64(g.NY-1) || math.IsNaN(gx) || math.IsNaN(gy) {
		err = errors.Wrapf(ErrOutsideGrid, "(%g, %g) of %s", lon, lat, g.path)
		return
	}
	ix, iy := int(gx), int(gy)
	if ix > g.NX-2 {
		ix = g.NX - 2
	}
	if iy > g.NY-2 {
		iy = g.NY - 2
	}
	if g.NX == 1 {
		ix = 0
	}
	if g.NY == 1 {
		iy = 0
	}
	fx, fy := gx-float64(ix), gy-float64(iy)
	c00 := 3 * (iy*g.NX + ix)
	c10 := c00 + 3
	c01 := c00 + 3*g.NX
	c11 := c01 + 3
	if g.NX == 1 {
		c10 = c00
		c11 = c01
	}
	if g.NY == 1 {
		c01 = c00
		c11 = c10
	}
	bilinear := func(off int) float64 {
		v0 := g.offsets[c00+off]*(1-fx) + g.offsets[c10+off]*fx
		v1 := g.offsets[c01+off]*(1-fx) + g.offsets[c11+off]*fx
		return v0*(1-fy) + v1*fy
	}
	dx, dy, dz = bilinear(0), bilinear(1), bilinear(2)
	return
}

// 格网内插的基准面平移变换：大地坐标 → 源椭球地心坐标(+内插平移) → 目标椭球大地坐标。
// 格网按正向输入坐标索引；逆向用定点迭代
type GridShiftTransform struct {
	grid     *DatumShiftGrid
	src, dst Ellipsoid
}

func NewGridShiftTransform(grid *DatumShiftGrid, src, dst Ellipsoid) (t *GridShiftTransform, err error) {
	if grid == nil {
		err = errors.Wrap(ErrMissingParameter, "datum shift grid")
		return
	}
	t = &GridShiftTransform{grid: grid, src: src, dst: dst}
	return
}

func (t *GridShiftTransform) Forward(lon, lat float64) (tx, ty float64, err error) {
	dx, dy, dz, err := t.grid.Interpolate(lon, lat)
	if err != nil {
		return
	}
	x, y, z := t.src.GeographicToGeocentric(lon, lat, 0)
	tx, ty, _ = t.dst.GeocentricToGeographic(x+dx, y+dy, z+dz)
	return
}

func (t *GridShiftTransform) Inverse(lon, lat float64) (tx, ty float64, err error) {
	tx, ty = lon, lat
	for i := 0; i < INVERSE_MAX_ITERATIONS; i++ {
		fx, fy, e := t.Forward(tx, ty)
		if e != nil {
			err = e
			return
		}
		ex, ey := lon-fx, lat-fy
		tx += ex
		ty += ey
		if math.Abs(ex) < INVERSE_TOLERANCE && math.Abs(ey) < INVERSE_TOLERANCE {
			return
		}
	}
	err = errors.Wrapf(ErrNoConvergence, "point (%g, %g)", lon, lat)
	return
}

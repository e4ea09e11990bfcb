package isolib

import (
	"github.com/pkg/errors"
	geom "github.com/twpayne/go-geom"
)

// 汇集单个(波段,阈值)的成品链，负责网格坐标到参考空间的转换与点合并
type pathBuilder struct {
	gridToCRS MathTransform // nil为恒等变换
	tolerance float64       // 网格单元内的点合并容差
	lines     [][]float64
}

func newPathBuilder(gridToCRS MathTransform, tolerance float64) *pathBuilder {
	return &pathBuilder{
		gridToCRS: gridToCRS,
		tolerance: tolerance,
	}
}

// 按片段拼接一条完整链并写入输出。偶数位片段逆序读取，nil占位保持奇偶约定，
// 写入的片段随即清空。closed时末尾补写首点使环闭合
func (pb *pathBuilder) writeJoint(closed bool, frags ...*polyline) (err error) {
	total := 0
	for _, f := range frags {
		if f != nil {
			total += f.size()
		}
	}
	if total == 0 {
		return
	}
	buf := make([]float64, 0, total+2)
	push := func(x, y float64) {
		if n := len(buf); n >= 2 {
			dx, dy := x-buf[n-2], y-buf[n-1]
			if dx <= pb.tolerance && dx >= -pb.tolerance &&
				dy <= pb.tolerance && dy >= -pb.tolerance {
				return
			}
		}
		buf = append(buf, x, y)
	}
	for i, f := range frags {
		if f == nil || f.isEmpty() {
			continue
		}
		if i&1 == 0 {
			for j := len(f.coords) - 2; j >= 0; j -= 2 {
				push(f.coords[j], f.coords[j+1])
			}
		} else {
			for j := 0; j < len(f.coords); j += 2 {
				push(f.coords[j], f.coords[j+1])
			}
		}
		f.clear()
	}
	if len(buf) < 4 {
		return
	}
	if closed {
		buf = append(buf, buf[0], buf[1])
	}
	if pb.gridToCRS != nil {
		for j := 0; j < len(buf); j += 2 {
			gx, gy := buf[j], buf[j+1]
			if buf[j], buf[j+1], err = pb.gridToCRS.Forward(gx, gy); err != nil {
				err = errors.Wrapf(err, "transform grid point (%g, %g)", gx, gy)
				return
			}
		}
	}
	pb.lines = append(pb.lines, buf)
	return
}

func (pb *pathBuilder) result() *geom.MultiLineString {
	ml := geom.NewMultiLineString(geom.XY)
	for _, l := range pb.lines {
		_ = ml.Push(geom.NewLineStringFlat(geom.XY, l))
	}
	return ml
}

package isolib

import (
	"math"

	"github.com/pkg/errors"
)

// 椭球参数，构造后不可变
type Ellipsoid struct {
	SemiMajor float64 // 长半轴，米
	SemiMinor float64 // 短半轴，米
}

// 常用椭球
var (
	WGS84         = Ellipsoid{6378137, 6356752.314245179}
	GRS80         = Ellipsoid{6378137, 6356752.314140356}
	Clarke1880IGN = Ellipsoid{6378249.2, 6356515.0} // NTF所用椭球
)

func NewEllipsoid(semiMajor, semiMinor float64) (e Ellipsoid, err error) {
	if !(semiMajor > 0) || !(semiMinor > 0) || semiMinor > semiMajor {
		err = errors.Wrapf(ErrBadParameter, "semi_major=%g semi_minor=%g", semiMajor, semiMinor)
		return
	}
	e = Ellipsoid{semiMajor, semiMinor}
	return
}

func NewEllipsoidFromInverseFlattening(semiMajor, invFlattening float64) (e Ellipsoid, err error) {
	if !(semiMajor > 0) || !(invFlattening > 1) {
		err = errors.Wrapf(ErrBadParameter, "semi_major=%g inverse_flattening=%g", semiMajor, invFlattening)
		return
	}
	e = Ellipsoid{semiMajor, semiMajor * (1 - 1/invFlattening)}
	return
}

func (e Ellipsoid) Flattening() float64 {
	return (e.SemiMajor - e.SemiMinor) / e.SemiMajor
}

// 第一偏心率平方
func (e Ellipsoid) Eccentricity2() float64 {
	a2 := e.SemiMajor * e.SemiMajor
	return (a2 - e.SemiMinor*e.SemiMinor) / a2
}

func (e Ellipsoid) Eccentricity() float64 {
	return math.Sqrt(e.Eccentricity2())
}

package isolib

import (
	"math"

	"github.com/pkg/errors"
)

// 大地坐标(度,度,米)转地心直角坐标(米)
func (e Ellipsoid) GeographicToGeocentric(lon, lat, h float64) (x, y, z float64) {
	var (
		e2     = e.Eccentricity2()
		sinPhi = math.Sin(lat * degToRad)
		cosPhi = math.Cos(lat * degToRad)
		nu     = e.SemiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
	)
	x = (nu + h) * cosPhi * math.Cos(lon*degToRad)
	y = (nu + h) * cosPhi * math.Sin(lon*degToRad)
	z = (nu*(1-e2) + h) * sinPhi
	return
}

// 地心直角坐标转大地坐标，Bowring闭式解
func (e Ellipsoid) GeocentricToGeographic(x, y, z float64) (lon, lat, h float64) {
	var (
		a, b   = e.SemiMajor, e.SemiMinor
		e2     = e.Eccentricity2()
		ep2    = (a*a - b*b) / (b * b)
		p      = math.Hypot(x, y)
		theta  = math.Atan2(z*a, p*b)
		sinT   = math.Sin(theta)
		cosT   = math.Cos(theta)
		phi    = math.Atan2(z+ep2*b*sinT*sinT*sinT, p-e2*a*cosT*cosT*cosT)
		sinPhi = math.Sin(phi)
		nu     = a / math.Sqrt(1-e2*sinPhi*sinPhi)
	)
	lon = math.Atan2(y, x) * radToDeg
	lat = phi * radToDeg
	if p > 1e-9 {
		h = p/math.Cos(phi) - nu
	} else {
		h = math.Abs(z) - b
	}
	return
}

// 固定三参数地心平移（近似常量法），经纬度进出均为度
type GeocentricTranslation struct {
	src, dst   Ellipsoid
	tx, ty, tz float64
}

// 必选参数：dx、dy、dz（米）
func NewGeocentricTranslation(src, dst Ellipsoid, params Parameters) (t *GeocentricTranslation, err error) {
	vals, err := params.Floats(PARAM_TX, PARAM_TY, PARAM_TZ)
	if err != nil {
		return
	}
	t = &GeocentricTranslation{
		src: src,
		dst: dst,
		tx:  vals[0],
		ty:  vals[1],
		tz:  vals[2],
	}
	return
}

func (t *GeocentricTranslation) Forward(lon, lat float64) (tx, ty float64, err error) {
	if lat < -90 || lat > 90 {
		err = errors.Wrapf(ErrBadParameter, "latitude=%g", lat)
		return
	}
	x, y, z := t.src.GeographicToGeocentric(lon, lat, 0)
	tx, ty, _ = t.dst.GeocentricToGeographic(x+t.tx, y+t.ty, z+t.tz)
	return
}

// 正变换取大地高为零，反向直接平移并非精确逆运算，与格网平移一样用定点迭代
func (t *GeocentricTranslation) Inverse(lon, lat float64) (tx, ty float64, err error) {
	if lat < -90 || lat > 90 {
		err = errors.Wrapf(ErrBadParameter, "latitude=%g", lat)
		return
	}
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

// 站心坐标系：以指定大地原点为基准的东-北-天直角坐标与地心坐标互转
type TopocentricFrame struct {
	x0, y0, z0     float64
	sinLam, cosLam float64
	sinPhi, cosPhi float64
}

func NewTopocentricFrame(ell Ellipsoid, lon0, lat0, h0 float64) (f TopocentricFrame, err error) {
	if lat0 < -90 || lat0 > 90 {
		err = errors.Wrapf(ErrBadParameter, "latitude_of_origin=%g", lat0)
		return
	}
	f.x0, f.y0, f.z0 = ell.GeographicToGeocentric(lon0, lat0, h0)
	f.sinLam, f.cosLam = math.Sincos(lon0 * degToRad)
	f.sinPhi, f.cosPhi = math.Sincos(lat0 * degToRad)
	return
}

func (f TopocentricFrame) ToTopocentric(x, y, z float64) (east, north, up float64) {
	dx, dy, dz := x-f.x0, y-f.y0, z-f.z0
	east = -f.sinLam*dx + f.cosLam*dy
	north = -f.sinPhi*f.cosLam*dx - f.sinPhi*f.sinLam*dy + f.cosPhi*dz
	up = f.cosPhi*f.cosLam*dx + f.cosPhi*f.sinLam*dy + f.sinPhi*dz
	return
}

func (f TopocentricFrame) FromTopocentric(east, north, up float64) (x, y, z float64) {
	x = f.x0 - f.sinLam*east - f.sinPhi*f.cosLam*north + f.cosPhi*f.cosLam*up
	y = f.y0 + f.cosLam*east - f.sinPhi*f.sinLam*north + f.cosPhi*f.sinLam*up
	z = f.z0 + f.cosPhi*north + f.sinPhi*up
	return
}

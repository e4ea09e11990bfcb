package isolib

import (
	"math"

	"github.com/pkg/errors"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	xr = 20037508.34 / 180
	yr = xr / degToRad
	tr = degToRad / 2
)

// 经度差折算到(-π, π]
func wrapLongitude(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// Lambert等角圆锥投影（双标准纬线，EPSG:9802）。
// 输入输出：(经度,纬度)度 ↔ (东向,北向)米
type LambertConformalConic struct {
	lon0 float64 // 弧度
	n    float64
	af   float64 // a*F
	rho0 float64
	fe   float64
	fn   float64
	e    float64
}

// 必选参数：central_meridian、latitude_of_origin、standard_parallel_1；
// standard_parallel_2缺省取standard_parallel_1，false_easting/false_northing缺省0
func NewLambertConformalConic(ell Ellipsoid, params Parameters) (t *LambertConformalConic, err error) {
	vals, err := params.Floats(PARAM_CENTRAL_MERIDIAN, PARAM_LATITUDE_OF_ORIGIN, PARAM_STANDARD_PARALLEL_1)
	if err != nil {
		return
	}
	lon0, lat0, sp1 := vals[0], vals[1], vals[2]
	sp2 := params.FloatOr(PARAM_STANDARD_PARALLEL_2, sp1)
	if lat0 < -90 || lat0 > 90 {
		err = errors.Wrapf(ErrBadParameter, "%s=%g", PARAM_LATITUDE_OF_ORIGIN, lat0)
		return
	}
	if sp1 <= -90 || sp1 >= 90 {
		err = errors.Wrapf(ErrBadParameter, "%s=%g", PARAM_STANDARD_PARALLEL_1, sp1)
		return
	}
	if sp2 <= -90 || sp2 >= 90 {
		err = errors.Wrapf(ErrBadParameter, "%s=%g", PARAM_STANDARD_PARALLEL_2, sp2)
		return
	}
	var (
		e    = ell.Eccentricity()
		phi0 = lat0 * degToRad
		phi1 = sp1 * degToRad
		phi2 = sp2 * degToRad
		m1   = lccM(phi1, e)
		t1   = lccT(phi1, e)
		n    float64
	)
	if math.Abs(phi1-phi2) < 1e-12 {
		n = math.Sin(phi1)
	} else {
		n = (math.Log(m1) - math.Log(lccM(phi2, e))) / (math.Log(t1) - math.Log(lccT(phi2, e)))
	}
	if n == 0 || math.IsNaN(n) {
		// 标准纬线关于赤道对称时圆锥退化为圆柱
		err = errors.Wrapf(ErrBadParameter, "%s=%g %s=%g", PARAM_STANDARD_PARALLEL_1, sp1, PARAM_STANDARD_PARALLEL_2, sp2)
		return
	}
	af := ell.SemiMajor * m1 / (n * math.Pow(t1, n))
	t = &LambertConformalConic{
		lon0: lon0 * degToRad,
		n:    n,
		af:   af,
		rho0: af * math.Pow(lccT(phi0, e), n),
		fe:   params.FloatOr(PARAM_FALSE_EASTING, 0),
		fn:   params.FloatOr(PARAM_FALSE_NORTHING, 0),
		e:    e,
	}
	return
}

func lccM(phi, e float64) float64 {
	s := e * math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-s*s)
}

func lccT(phi, e float64) float64 {
	s := e * math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-s)/(1+s), e/2)
}

func (t *LambertConformalConic) Forward(lon, lat float64) (tx, ty float64, err error) {
	if lat < -90 || lat > 90 {
		err = errors.Wrapf(ErrBadParameter, "latitude=%g", lat)
		return
	}
	var (
		rho   = t.af * math.Pow(lccT(lat*degToRad, t.e), t.n)
		theta = t.n * wrapLongitude(lon*degToRad-t.lon0)
	)
	tx = t.fe + rho*math.Sin(theta)
	// 先算rho0-rho：原点处rho与rho0按位相同，差值精确为零
	ty = t.fn + (t.rho0 - rho*math.Cos(theta))
	return
}

func (t *LambertConformalConic) Inverse(x, y float64) (tx, ty float64, err error) {
	var (
		dx   = x - t.fe
		dy   = t.rho0 - (y - t.fn)
		rho  = math.Sqrt(dx*dx + dy*dy)
		half = t.e / 2
	)
	if t.n < 0 {
		rho, dx, dy = -rho, -dx, -dy
	}
	tx = (wrapLongitude(math.Atan2(dx, dy)/t.n) + t.lon0) * radToDeg
	if rho == 0 {
		// 圆锥顶点即极点
		ty = math.Copysign(90, t.n)
		return
	}
	tp := math.Pow(rho/t.af, 1/t.n)
	phi := math.Pi/2 - 2*math.Atan(tp)
	for i := 0; i < INVERSE_MAX_ITERATIONS; i++ {
		s := t.e * math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(tp*math.Pow((1-s)/(1+s), half))
		if math.Abs(next-phi) < INVERSE_TOLERANCE {
			ty = next * radToDeg
			return
		}
		phi = next
	}
	err = errors.Wrapf(ErrNoConvergence, "point (%g, %g)", x, y)
	return
}

// 球面Web墨卡托（EPSG:3857）
type WebMercator struct {
	radius float64
}

func NewWebMercator() *WebMercator {
	return &WebMercator{radius: WGS84.SemiMajor}
}

func (t *WebMercator) Forward(lon, lat float64) (tx, ty float64, err error) {
	if lat <= -90 || lat >= 90 {
		err = errors.Wrapf(ErrBadParameter, "latitude=%g", lat)
		return
	}
	tx = t.radius * wrapLongitude(lon*degToRad)
	ty = t.radius * math.Log(math.Tan(math.Pi/4+lat*degToRad/2))
	return
}

func (t *WebMercator) Inverse(x, y float64) (tx, ty float64, err error) {
	tx = x / t.radius * radToDeg
	ty = (2*math.Atan(math.Exp(y/t.radius)) - math.Pi/2) * radToDeg
	return
}

// 定参快速换算，适用于无需误差处理的内部场合
func Convert4326To3857(lon, lat float64) (lonIn3857, latIn3857 float64) {
	lonIn3857 = lon * xr
	latIn3857 = math.Log(math.Tan((90+lat)*tr)) * yr
	return
}

func Convert3857To4326(lonIn3857, latIn3857 float64) (lon, lat float64) {
	lon = lonIn3857 / xr
	lat = math.Atan(math.Pow(math.E, latIn3857/yr))/tr - 90
	return
}

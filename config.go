package isolib

const (
	FILE_EXT_JSON = ".json"
	FILE_EXT_WKT  = ".wkt"

	// GR3D格网文件的行关键字
	GR3D_KEY_HEADER = "GR3D"
	GR3D_KEY_EXTENT = "GR3D1"
	GR3D_KEY_METHOD = "GR3D2"
	GR3D_KEY_LEGEND = "GR3D3"

	GR3D_INTERPOLATION = "INTERPOLATION"
	GR3D_BILINEAR      = "BILINEAR"

	// 格网精度代码缺省值（代码1~4之外），单位米
	GR3D_WORST_ACCURACY = 1.0

	// 等值线追踪的点合并容差上限，单位为格网单元
	MAX_POINT_TOLERANCE = 0.5

	// 逆变换迭代
	INVERSE_MAX_ITERATIONS = 32
	INVERSE_TOLERANCE      = 1e-12

	// 常用变换参数名
	PARAM_CENTRAL_MERIDIAN    = "central_meridian"
	PARAM_LATITUDE_OF_ORIGIN  = "latitude_of_origin"
	PARAM_STANDARD_PARALLEL_1 = "standard_parallel_1"
	PARAM_STANDARD_PARALLEL_2 = "standard_parallel_2"
	PARAM_FALSE_EASTING       = "false_easting"
	PARAM_FALSE_NORTHING      = "false_northing"
	PARAM_SCALE_FACTOR        = "scale_factor"
	PARAM_TX                  = "dx"
	PARAM_TY                  = "dy"
	PARAM_TZ                  = "dz"

	TMP_ISOLINE_JSON = "iso_%s.json"
)

// 格网精度代码1~4对应的米制精度
var gr3dAccuracy = map[int]float64{
	1: 0.05,
	2: 0.10,
	3: 0.20,
	4: 0.50,
}

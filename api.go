package isolib

import (
	"encoding/json"

	geom "github.com/twpayne/go-geom"
)

type AnyJson = json.RawMessage

// 二维坐标数学变换。Forward/Inverse均为纯函数，构造后参数不可变
type MathTransform interface {
	// 正变换
	Forward(x, y float64) (tx, ty float64, err error)
	// 逆变换。不支持时返回ErrInverseNotSupported；个别点不收敛时返回ErrNoConvergence
	Inverse(x, y float64) (tx, ty float64, err error)
}

// 单个(波段,阈值)的等值线追踪结果
type Isoline struct {
	Band  int
	Level float64
	Lines *geom.MultiLineString // 参考空间坐标；闭合环的首尾点重合
}

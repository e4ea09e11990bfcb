package isolib

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
)

// 命名数值参数集，用于构造变换。未知参数被忽略以保持前向兼容
type Parameters map[string]any

// 必选参数。缺失或无法转为数值时报错并指明参数名
func (p Parameters) Float(name string) (v float64, err error) {
	raw, ok := p[name]
	if !ok {
		err = errors.Wrap(ErrMissingParameter, name)
		return
	}
	if v, err = cast.ToFloat64E(raw); err != nil {
		err = errors.Wrapf(ErrBadParameter, "%s=%v", name, raw)
	}
	return
}

// 可选参数，缺失或不可转换时取缺省值
func (p Parameters) FloatOr(name string, def float64) float64 {
	raw, ok := p[name]
	if !ok {
		return def
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return def
	}
	return v
}

// 一次取出多个必选参数，全部缺失项合并在同一个错误中报告
func (p Parameters) Floats(names ...string) (vals []float64, err error) {
	vals = make([]float64, len(names))
	for i, n := range names {
		var e error
		if vals[i], e = p.Float(n); e != nil {
			err = multierr.Append(err, e)
		}
	}
	return
}

package isolib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParametersFloat(t *testing.T) {
	p := Parameters{
		"a": 1.5,
		"b": 2,
		"c": "3.25",
		"d": "not a number",
	}
	v, err := p.Float("a")
	require.NoError(t, err)
	require.Equal(t, 1.5, v)

	// 整数与数字字符串都可转换
	v, err = p.Float("b")
	require.NoError(t, err)
	require.Equal(t, 2.0, v)
	v, err = p.Float("c")
	require.NoError(t, err)
	require.Equal(t, 3.25, v)

	_, err = p.Float("d")
	require.ErrorIs(t, err, ErrBadParameter)

	_, err = p.Float("missing")
	require.ErrorIs(t, err, ErrMissingParameter)
	require.Contains(t, err.Error(), "missing")
}

func TestParametersFloatOr(t *testing.T) {
	p := Parameters{"a": "7", "bad": "x"}
	require.Equal(t, 7.0, p.FloatOr("a", 1))
	require.Equal(t, 1.0, p.FloatOr("absent", 1))
	require.Equal(t, 1.0, p.FloatOr("bad", 1))
}

// 多个缺失参数合并在同一个错误中
func TestParametersFloats(t *testing.T) {
	p := Parameters{"a": 1.0}
	vals, err := p.Floats("a", "b", "c")
	require.ErrorIs(t, err, ErrMissingParameter)
	require.Contains(t, err.Error(), "b")
	require.Contains(t, err.Error(), "c")
	require.Len(t, vals, 3)
	require.Equal(t, 1.0, vals[0])

	vals, err = p.Floats("a")
	require.NoError(t, err)
	require.Equal(t, []float64{1}, vals)
}

package isolib

import "github.com/pkg/errors"

// GDAL地理变换约定的仿射变换：
// tx = gt[0] + x*gt[1] + y*gt[2]
// ty = gt[3] + x*gt[4] + y*gt[5]
type AffineTransform struct {
	gt     [6]float64
	inv    [6]float64
	hasInv bool
}

func NewAffineTransform(gt [6]float64) *AffineTransform {
	t := &AffineTransform{gt: gt}
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det != 0 {
		t.hasInv = true
		t.inv[1] = gt[5] / det
		t.inv[2] = -gt[2] / det
		t.inv[4] = -gt[4] / det
		t.inv[5] = gt[1] / det
		t.inv[0] = -(t.inv[1]*gt[0] + t.inv[2]*gt[3])
		t.inv[3] = -(t.inv[4]*gt[0] + t.inv[5]*gt[3])
	}
	return t
}

// 恒等变换
func NewIdentityTransform() *AffineTransform {
	return NewAffineTransform([6]float64{0, 1, 0, 0, 0, 1})
}

func (t *AffineTransform) Forward(x, y float64) (tx, ty float64, err error) {
	tx = t.gt[0] + x*t.gt[1] + y*t.gt[2]
	ty = t.gt[3] + x*t.gt[4] + y*t.gt[5]
	return
}

func (t *AffineTransform) Inverse(x, y float64) (tx, ty float64, err error) {
	if !t.hasInv {
		err = errors.Wrap(ErrInverseNotSupported, "degenerate affine transform")
		return
	}
	tx = t.inv[0] + x*t.inv[1] + y*t.inv[2]
	ty = t.inv[3] + x*t.inv[4] + y*t.inv[5]
	return
}

type concatenated struct {
	steps []MathTransform
}

// 串接多个变换。Forward按序执行，Inverse逆序执行
func Concatenate(steps ...MathTransform) MathTransform {
	if len(steps) == 1 {
		return steps[0]
	}
	return &concatenated{steps: steps}
}

func (c *concatenated) Forward(x, y float64) (tx, ty float64, err error) {
	tx, ty = x, y
	for _, s := range c.steps {
		if tx, ty, err = s.Forward(tx, ty); err != nil {
			return
		}
	}
	return
}

func (c *concatenated) Inverse(x, y float64) (tx, ty float64, err error) {
	tx, ty = x, y
	for i := len(c.steps) - 1; i >= 0; i-- {
		if tx, ty, err = c.steps[i].Inverse(tx, ty); err != nil {
			return
		}
	}
	return
}

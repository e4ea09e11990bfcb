package isolib

// 单条在建等值线链的坐标缓冲。coords为扁平数组，每点依次存(x,y)两个double。
// 链由左缘槽位或某一列的上缘槽位持有；opposite为纯关系引用，不代表所有权
type polyline struct {
	coords   []float64
	opposite *polyline
}

func (p *polyline) size() int {
	return len(p.coords)
}

func (p *polyline) points() int {
	return len(p.coords) >> 1
}

func (p *polyline) isEmpty() bool {
	return len(p.coords) == 0
}

func (p *polyline) append(x, y float64) {
	p.coords = append(p.coords, x, y)
}

// 将两条链互设为对端。任一方已有对端即属遍历逻辑缺陷
func (p *polyline) attach(other *polyline) {
	if p.opposite != nil || other.opposite != nil {
		panic("isolib: polyline already has an opposite")
	}
	p.opposite = other
	other.opposite = p
}

// O(1)接管source的全部数据及对端链接，source清空。
// 槽位对象固定不动，链在槽位间移动时只交换底层数组
func (p *polyline) transferFrom(source *polyline) {
	if p == source {
		return
	}
	p.coords, source.coords = source.coords, p.coords[:0]
	p.opposite, source.opposite = source.opposite, nil
	if p.opposite != nil {
		p.opposite.opposite = p
	}
}

// 链到达影像右缘无法继续时，把坐标逆序并入对端链首，自身清空。
// 无对端时返回false，由调用方改为直接输出
func (p *polyline) transferToOpposite() bool {
	o := p.opposite
	if o == nil {
		return false
	}
	n := len(p.coords)
	merged := make([]float64, 0, n+len(o.coords))
	for i := n - 2; i >= 0; i -= 2 {
		merged = append(merged, p.coords[i], p.coords[i+1])
	}
	merged = append(merged, o.coords...)
	o.coords = merged
	o.opposite = nil
	p.clear()
	return true
}

// o = first ++ reverse(second) ++ o，用于左右两链在单元格内交汇后并入尚存的对端。
// first与second数据保留在原缓冲，由调用方清空
func (o *polyline) prependJoint(first, second *polyline) {
	nf, ns := len(first.coords), len(second.coords)
	merged := make([]float64, 0, nf+ns+len(o.coords))
	merged = append(merged, first.coords...)
	for i := ns - 2; i >= 0; i -= 2 {
		merged = append(merged, second.coords[i], second.coords[i+1])
	}
	merged = append(merged, o.coords...)
	o.coords = merged
}

func (p *polyline) clear() {
	p.coords = p.coords[:0]
	p.opposite = nil
}

// 样值恰等于阈值时，交汇的两链会在汇合端重走同一串点，形成零宽尖刺。
// 从两链汇合端同步回扫，找到首个坐标相异的位置，截掉重合段（b保留一份汇合点）。
// 对已无尖刺的链再次调用不产生任何截断
func removeSpikes(a, b *polyline) {
	npa, npb := a.points(), b.points()
	k := 0
	for k < npa && k < npb {
		ia, ib := (npa-1-k)<<1, (npb-1-k)<<1
		if a.coords[ia] != b.coords[ib] || a.coords[ia+1] != b.coords[ib+1] {
			break
		}
		k++
	}
	if k == 0 {
		return
	}
	a.coords = a.coords[:(npa-k)<<1]
	b.coords = b.coords[:(npb-k+1)<<1]
}

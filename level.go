package isolib

import "fmt"

// isDataAbove掩码各位对应的单元格角，置位表示该角样值不低于阈值
const (
	upperLeft  = 1
	upperRight = 2
	lowerLeft  = 4
	lowerRight = 8
)

// 单个阈值的marching squares状态机。状态仅在一次完整遍历内有效，不可重入
type level struct {
	value float64

	// 上一列右侧两位经nextColumn移入左侧，避免重复比较
	isDataAbove int

	// 穿过当前单元格左缘的链
	polylineOnLeft *polyline
	// 每列一条穿过单元格上缘的链
	polylinesOnTop []*polyline

	scratch polyline
	path    *pathBuilder
}

func newLevel(value float64, width int, path *pathBuilder) *level {
	tops := make([]*polyline, width-1)
	for i := range tops {
		tops[i] = &polyline{}
	}
	return &level{
		value:          value,
		polylineOnLeft: &polyline{},
		polylinesOnTop: tops,
		path:           path,
	}
}

// 进入下一列：右侧两位平移到左侧位置
func (lv *level) nextColumn() {
	lv.isDataAbove = (lv.isDataAbove & (upperRight | lowerRight)) >> 1
}

// 处理单元格(x,y)。四角样值为zUL/zUR/zLL/zLR，掩码已由调用方填好。
// 本单元格负责补算右缘与下缘交点；影像左缘、上缘(x==0/y==0)的交点也由本格补算
func (lv *level) interpolate(x, y int, zUL, zUR, zLL, zLR float64) error {
	mask := lv.isDataAbove
	if mask == 0 || mask == upperLeft|upperRight|lowerLeft|lowerRight {
		return nil
	}
	var (
		v      = lv.value
		fx, fy = float64(x), float64(y)
		left   = lv.polylineOnLeft
		top    = lv.polylinesOnTop[x]
	)
	if x == 0 && (mask&upperLeft != 0) != (mask&lowerLeft != 0) {
		left.append(fx, fy+(v-zUL)/(zLL-zUL))
	}
	if y == 0 && (mask&upperLeft != 0) != (mask&upperRight != 0) {
		top.append(fx+(v-zUL)/(zUR-zUL), fy)
	}
	appendRight := func(p *polyline) {
		p.append(fx+1, fy+(v-zUR)/(zLR-zUR))
	}
	appendBottom := func(p *polyline) {
		p.append(fx+(v-zLL)/(zLR-zLL), fy+1)
	}
	// 右缘、下缘同时相交：两条新链成对诞生，双向延伸
	startPair := func() {
		left.attach(top)
		appendRight(left)
		appendBottom(top)
	}
	// 鞍点翻转配对：左链下转入上缘槽位，上链右转入左缘槽位，同格互换
	crossSaddle := func() {
		appendBottom(left)
		appendRight(top)
		lv.scratch.transferFrom(left)
		left.transferFrom(top)
		top.transferFrom(&lv.scratch)
	}

	switch mask {
	case upperLeft, upperRight | lowerLeft | lowerRight:
		// 左、上缘相交：左链与上链在本格交汇
		return lv.closeLeftWithTop(x)
	case upperRight, upperLeft | lowerLeft | lowerRight:
		// 上、右缘相交：上链右转继续本行
		appendRight(top)
		left.transferFrom(top)
	case lowerLeft, upperLeft | upperRight | lowerRight:
		// 左、下缘相交：左链下转等待下一行
		appendBottom(left)
		top.transferFrom(left)
	case lowerRight, upperLeft | upperRight | lowerLeft:
		startPair()
	case upperLeft | upperRight, lowerLeft | lowerRight:
		// 水平穿越
		appendRight(left)
	case upperLeft | lowerLeft, upperRight | lowerRight:
		// 垂直穿越
		appendBottom(top)
	case upperLeft | lowerRight:
		// 鞍点：四角均值消歧。均值不低于阈值时两段线绕开右上、左下角，
		// 否则绕开左上、右下角。掩码本身不改动，下一列的位移仍然有效
		if (zUL+zUR+zLL+zLR)/4 >= v {
			crossSaddle()
		} else {
			if err := lv.closeLeftWithTop(x); err != nil {
				return err
			}
			startPair()
		}
	case upperRight | lowerLeft:
		if (zUL+zUR+zLL+zLR)/4 >= v {
			if err := lv.closeLeftWithTop(x); err != nil {
				return err
			}
			startPair()
		} else {
			crossSaddle()
		}
	default:
		// 结构上不可能出现的掩码值，属遍历逻辑缺陷
		panic(fmt.Sprintf("isolib: impossible corner mask %04b", mask))
	}
	return nil
}

// 左链与上链在本格交汇。两链互为对端说明链已首尾相接，输出闭合多边形；
// 否则拼成一条开链：两端都已完结的直接输出，尚有对端延续的并入对端链首
func (lv *level) closeLeftWithTop(x int) error {
	left, top := lv.polylineOnLeft, lv.polylinesOnTop[x]
	removeSpikes(left, top)
	if left.opposite == top {
		left.opposite, top.opposite = nil, nil
		return lv.path.writeJoint(true, left, top)
	}
	lo, to := left.opposite, top.opposite
	switch {
	case lo == nil && to == nil:
		return lv.path.writeJoint(false, nil, left, top, nil)
	case lo != nil:
		// lo = top ++ rev(left) ++ lo，新链首端接上top原有的对端
		lo.prependJoint(top, left)
		lo.opposite = to
		if to != nil {
			to.opposite = lo
		}
	default:
		// to = left ++ rev(top) ++ to，left一端起于影像边缘，链首就此完结
		to.prependJoint(left, top)
		to.opposite = nil
	}
	left.clear()
	top.clear()
	return nil
}

// 一行结束：左链到达影像右缘。能并入对端的并入，否则作为开链输出。
// 掩码清零，下一行从第0列重新计算左缘两位
func (lv *level) finishedRow() (err error) {
	if !lv.polylineOnLeft.isEmpty() && !lv.polylineOnLeft.transferToOpposite() {
		err = lv.path.writeJoint(false, nil, lv.polylineOnLeft)
	}
	lv.isDataAbove = 0
	return
}

// 整幅遍历结束：各列残余的上缘链到达影像下缘，逐条输出。
// 互为对端的两条链合并为一条，只输出一次
func (lv *level) finish() (err error) {
	for _, top := range lv.polylinesOnTop {
		if top.isEmpty() {
			continue
		}
		if o := top.opposite; o != nil {
			o.opposite, top.opposite = nil, nil
			err = lv.path.writeJoint(false, o, top)
		} else {
			err = lv.path.writeJoint(false, nil, top)
		}
		if err != nil {
			return
		}
	}
	return
}

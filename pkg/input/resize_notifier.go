package input

// ResizeFunc 视口尺寸变化回调
type ResizeFunc func(width, height int)

type resizeListener struct {
	fn      ResizeFunc
	removed bool
}

// ResizeNotifier 视口尺寸变化通知（相当于 window 的 resize 事件）
// 只有尺寸真正变化时才通知订阅者。
type ResizeNotifier struct {
	width, height int
	listeners     []*resizeListener
}

// NewResizeNotifier 以初始尺寸创建通知器
func NewResizeNotifier(width, height int) *ResizeNotifier {
	return &ResizeNotifier{width: width, height: height}
}

// Size 返回最近一次的视口尺寸
func (n *ResizeNotifier) Size() (int, int) {
	return n.width, n.height
}

// Subscribe 订阅尺寸变化，返回退订函数
func (n *ResizeNotifier) Subscribe(fn ResizeFunc) func() {
	l := &resizeListener{fn: fn}
	n.listeners = append(n.listeners, l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		live := n.listeners[:0]
		for _, existing := range n.listeners {
			if !existing.removed {
				live = append(live, existing)
			}
		}
		n.listeners = live
	}
}

// Notify 报告当前视口尺寸，尺寸未变化时不通知
// 返回是否发生了变化。
func (n *ResizeNotifier) Notify(width, height int) bool {
	if width == n.width && height == n.height {
		return false
	}
	n.width, n.height = width, height

	snapshot := make([]*resizeListener, len(n.listeners))
	copy(snapshot, n.listeners)
	for _, l := range snapshot {
		if !l.removed {
			l.fn(width, height)
		}
	}
	return true
}

// ListenerCount 返回当前订阅数量
func (n *ResizeNotifier) ListenerCount() int {
	return len(n.listeners)
}

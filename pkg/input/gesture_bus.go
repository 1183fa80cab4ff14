// Package input 提供文档级的输入事件分发
//
// Ebitengine 没有 DOM 式的事件监听，输入需要每帧轮询。
// 本包把轮询结果转换为事件并分发给订阅者，订阅者可随时退订，
// 包括在分发过程中退订（退订立即生效，同一次分发中不会再收到事件）。
package input

// GestureKind 用户手势类型
type GestureKind int

const (
	// PointerDown 鼠标按下
	PointerDown GestureKind = iota
	// TouchStart 触摸开始
	TouchStart
	// KeyDown 按键按下
	KeyDown
)

func (k GestureKind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case TouchStart:
		return "touchstart"
	case KeyDown:
		return "keydown"
	default:
		return "unknown"
	}
}

// AllGestures 返回全部手势类型
func AllGestures() []GestureKind {
	return []GestureKind{PointerDown, TouchStart, KeyDown}
}

type gestureListener struct {
	kind    GestureKind
	fn      func(GestureKind)
	removed bool
}

// GestureBus 手势事件总线
type GestureBus struct {
	listeners []*gestureListener
}

// NewGestureBus 创建空的事件总线
func NewGestureBus() *GestureBus {
	return &GestureBus{}
}

// Subscribe 订阅某类手势，返回退订函数（可重复调用）
func (b *GestureBus) Subscribe(kind GestureKind, fn func(GestureKind)) func() {
	l := &gestureListener{kind: kind, fn: fn}
	b.listeners = append(b.listeners, l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		b.compact()
	}
}

// Dispatch 分发一次手势
func (b *GestureBus) Dispatch(kind GestureKind) {
	// 拷贝快照，回调中新增的订阅不会收到本次事件
	snapshot := make([]*gestureListener, len(b.listeners))
	copy(snapshot, b.listeners)
	for _, l := range snapshot {
		if l.removed || l.kind != kind {
			continue
		}
		l.fn(kind)
	}
}

// ListenerCount 返回当前订阅数量
func (b *GestureBus) ListenerCount() int {
	return len(b.listeners)
}

// Clear 移除全部订阅
func (b *GestureBus) Clear() {
	for _, l := range b.listeners {
		l.removed = true
	}
	b.listeners = nil
}

func (b *GestureBus) compact() {
	live := b.listeners[:0]
	for _, l := range b.listeners {
		if !l.removed {
			live = append(live, l)
		}
	}
	for i := len(live); i < len(b.listeners); i++ {
		b.listeners[i] = nil
	}
	b.listeners = live
}

package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Frame 一帧内的输入快照
type Frame struct {
	// Gestures 本帧刚发生的手势（每类最多一次）
	Gestures []GestureKind
	// Click 是否有点击/触摸落下
	Click bool
	// X, Y 点击位置（逻辑像素）
	X, Y int
}

// Source 输入来源，每帧调用一次 Poll
type Source interface {
	Poll() Frame
}

// EbitenSource 基于 Ebitengine 的输入轮询
// 同时支持鼠标点击和触摸输入，优先检测触摸
type EbitenSource struct {
	touchIDs []ebiten.TouchID
	keys     []ebiten.Key
}

// NewEbitenSource 创建输入源
func NewEbitenSource() *EbitenSource {
	return &EbitenSource{}
}

// Poll 读取本帧输入
func (s *EbitenSource) Poll() Frame {
	var frame Frame

	// 首先检查触摸输入（移动设备）
	s.touchIDs = inpututil.AppendJustPressedTouchIDs(s.touchIDs[:0])
	if len(s.touchIDs) > 0 {
		frame.Gestures = append(frame.Gestures, TouchStart)
		frame.Click = true
		frame.X, frame.Y = ebiten.TouchPosition(s.touchIDs[0])
	}

	// 其次检查鼠标输入（桌面设备）
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		frame.Gestures = append(frame.Gestures, PointerDown)
		if !frame.Click {
			frame.Click = true
			frame.X, frame.Y = ebiten.CursorPosition()
		}
	}

	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	if len(s.keys) > 0 {
		frame.Gestures = append(frame.Gestures, KeyDown)
	}

	return frame
}

// DispatchFrame 把一帧中的手势分发到总线
func DispatchFrame(bus *GestureBus, frame Frame) {
	for _, g := range frame.Gestures {
		bus.Dispatch(g)
	}
}

package game

import (
	"errors"
	"log"

	"github.com/decker502/valentine/pkg/input"
	"github.com/decker502/valentine/pkg/stage"
)

// Player 背景音乐播放接口
type Player interface {
	// Play 开始或继续播放；平台拒绝自动播放时返回错误（通常是 ErrAutoplayBlocked）
	Play() error
	IsPlaying() bool
}

// AutoplayBridge 音频自动播放桥接
//
// 进入允许播放的阶段时尝试播放。被平台拒绝后，为 PointerDown、TouchStart、
// KeyDown 三种手势各注册一个一次性监听器：无论哪一个先触发，都会先移除
// 全部三个监听器，再尝试播放一次。手势之后的再次失败只记录日志，不再重试。
//
// 回退监听器挂起期间，后续阶段进入仍会尝试播放（成功则撤销监听器），
// 但不会注册第二组监听器。
//
// ErrAutoplayBlocked 只表示音频上下文尚未就绪，不算播放失败：浏览器在
// 按下手势之后、松开时才恢复音频上下文，就绪状态还要再晚一些才可见。
// 因此等待期间由 Update 每帧重试，直到上下文就绪后真正开始播放。
type AutoplayBridge struct {
	player   Player
	bus      *input.GestureBus
	eligible map[stage.Stage]bool

	detach   []func() // 挂起中的手势监听器退订函数
	waiting  bool     // 已被拒绝，等待音频上下文就绪
	gaveUp   bool     // 手势后播放仍失败，放弃
	closed   bool
	attempts int
}

// NewAutoplayBridge 创建桥接器
// player 为 nil 时（音轨缺失或无法解码）所有尝试都是空操作。
func NewAutoplayBridge(player Player, bus *input.GestureBus, eligible []stage.Stage) *AutoplayBridge {
	b := &AutoplayBridge{
		player:   player,
		bus:      bus,
		eligible: make(map[stage.Stage]bool, len(eligible)),
	}
	for _, s := range eligible {
		b.eligible[s] = true
	}
	if player == nil {
		log.Printf("[AutoplayBridge] No audio track, running silent")
	}
	return b
}

// HandleStageEntry 在进入阶段 s 时调用
func (b *AutoplayBridge) HandleStageEntry(s stage.Stage) {
	if b.closed || b.gaveUp || b.player == nil || !b.eligible[s] {
		return
	}
	if b.player.IsPlaying() {
		return
	}

	b.attempts++
	err := b.player.Play()
	if err == nil {
		b.started(s.String())
		return
	}

	if b.waiting {
		// 已经注册过回退，或手势之后正在等待上下文就绪
		return
	}
	b.waiting = true
	log.Printf("[AutoplayBridge] Autoplay rejected on %s (%v), waiting for user gesture", s, err)
	b.registerFallback()
}

// Update 每帧调用：等待期间重试播放
//
// 桌面端音频上下文在游戏循环启动后很快就绪，无需任何手势即可开始播放；
// 浏览器中则要等到手势恢复上下文之后。
func (b *AutoplayBridge) Update() {
	if !b.waiting || b.closed || b.gaveUp {
		return
	}
	if b.player.IsPlaying() {
		b.started("update")
		return
	}
	b.attempts++
	err := b.player.Play()
	switch {
	case err == nil:
		b.started("update")
	case errors.Is(err, ErrAutoplayBlocked):
		// 仍未就绪，下一帧再试
	default:
		b.giveUp("update", err)
	}
}

// started 播放已开始：撤销挂起的监听器，结束等待
func (b *AutoplayBridge) started(where string) {
	wasWaiting := b.waiting
	b.waiting = false
	if b.FallbackPending() {
		b.detachAll()
	}
	if wasWaiting {
		log.Printf("[AutoplayBridge] Playback started (%s), fallback withdrawn", where)
	}
}

func (b *AutoplayBridge) giveUp(where string, err error) {
	b.waiting = false
	b.gaveUp = true
	b.detachAll()
	log.Printf("[AutoplayBridge] Playback failed after %s: %v", where, err)
}

func (b *AutoplayBridge) registerFallback() {
	if b.bus == nil {
		return
	}
	for _, kind := range input.AllGestures() {
		b.detach = append(b.detach, b.bus.Subscribe(kind, b.onGesture))
	}
}

// onGesture 第一个手势：移除全部监听器后尝试播放一次
func (b *AutoplayBridge) onGesture(kind input.GestureKind) {
	if !b.FallbackPending() {
		return
	}
	b.detachAll()

	if b.player.IsPlaying() {
		b.started(kind.String())
		return
	}
	b.attempts++
	err := b.player.Play()
	switch {
	case err == nil:
		b.started(kind.String())
	case errors.Is(err, ErrAutoplayBlocked):
		// 手势已发生，上下文稍后才就绪，交给 Update 重试
		log.Printf("[AutoplayBridge] Audio context not ready after %s, retrying each frame", kind)
	default:
		b.giveUp(kind.String(), err)
	}
}

func (b *AutoplayBridge) detachAll() {
	for _, unsubscribe := range b.detach {
		unsubscribe()
	}
	b.detach = nil
}

// FallbackPending 返回是否有挂起的手势监听器
func (b *AutoplayBridge) FallbackPending() bool {
	return len(b.detach) > 0
}

// Waiting 返回是否仍在等待播放开始（监听器挂起或等待上下文就绪）
func (b *AutoplayBridge) Waiting() bool {
	return b.waiting
}

// GaveUp 返回手势后播放是否已失败并放弃
func (b *AutoplayBridge) GaveUp() bool {
	return b.gaveUp
}

// Attempts 返回调用 Play 的次数
func (b *AutoplayBridge) Attempts() int {
	return b.attempts
}

// Close 撤销挂起的监听器，之后的阶段进入均被忽略
func (b *AutoplayBridge) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.waiting = false
	b.detachAll()
}

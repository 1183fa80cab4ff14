package stage

import (
	"log"
	"time"

	"github.com/decker502/valentine/pkg/timeline"
)

// Timings 阶段推进所需的各段时长
type Timings struct {
	// GiftOpening 礼物盒打开动画时长（GiftOpening → LetterVisible）
	GiftOpening time.Duration
	// LetterReveal 信封出现到信纸展开（LetterVisible → LetterOpen）
	LetterReveal time.Duration
	// Typing 从进入 LetterVisible 起，到文字全部打完（TypingComplete）
	Typing time.Duration
	// LetterConfirm 点击信件后到进入 Opened 的延迟
	LetterConfirm time.Duration
}

// DefaultTimings 返回默认时长
func DefaultTimings() Timings {
	return Timings{
		GiftOpening:   1500 * time.Millisecond,
		LetterReveal:  500 * time.Millisecond,
		Typing:        13500 * time.Millisecond,
		LetterConfirm: 500 * time.Millisecond,
	}
}

// TransitionFunc 阶段切换回调，在新阶段提交后同步调用
type TransitionFunc func(from, to Stage)

// autoAdvance 进入某阶段后自动推进的规则
type autoAdvance struct {
	to    Stage
	after time.Duration
}

// Controller 展示阶段状态机
//
// 阶段只能通过 transition 单步前进。每个阶段拥有独立的定时器作用域，
// 离开阶段时作用域被取消，因此过期的定时器不会再修改阶段。
// 打字完成标志的定时器挂在会话作用域上，因为它跨越 LetterVisible 和 LetterOpen 两个阶段。
type Controller struct {
	scheduler *timeline.Scheduler
	timings   Timings
	rules     map[Stage]autoAdvance

	current    Stage
	stageScope *timeline.Scope
	session    *timeline.Scope

	typingComplete  bool
	letterVisibleAt time.Duration
	openPending     bool
	closed          bool

	transitionListeners []TransitionFunc
	typingListeners     []func()
}

// NewController 创建处于 GiftClosed 阶段的状态机
func NewController(scheduler *timeline.Scheduler, timings Timings) *Controller {
	c := &Controller{
		scheduler: scheduler,
		timings:   timings,
		rules: map[Stage]autoAdvance{
			GiftOpening:   {to: LetterVisible, after: timings.GiftOpening},
			LetterVisible: {to: LetterOpen, after: timings.LetterReveal},
		},
		current: GiftClosed,
		session: scheduler.NewScope("session"),
	}
	c.stageScope = scheduler.NewScope(GiftClosed.String())
	return c
}

// Stage 返回当前阶段
func (c *Controller) Stage() Stage {
	return c.current
}

// TypingComplete 返回文字是否已全部显示
func (c *Controller) TypingComplete() bool {
	return c.typingComplete
}

// LetterVisibleFor 返回自进入 LetterVisible 以来经过的时间
// 尚未进入 LetterVisible 时返回 0。
func (c *Controller) LetterVisibleFor() time.Duration {
	if c.current < LetterVisible {
		return 0
	}
	return c.scheduler.Now() - c.letterVisibleAt
}

// OpenPending 返回是否已接受信件点击、正在等待进入 Opened
func (c *Controller) OpenPending() bool {
	return c.openPending
}

// Closed 返回状态机是否已关闭
func (c *Controller) Closed() bool {
	return c.closed
}

// OnTransition 注册阶段切换回调
func (c *Controller) OnTransition(fn TransitionFunc) {
	c.transitionListeners = append(c.transitionListeners, fn)
}

// OnTypingComplete 注册打字完成回调（整个会话最多触发一次）
func (c *Controller) OnTypingComplete(fn func()) {
	c.typingListeners = append(c.typingListeners, fn)
}

// ClickGift 处理礼物盒点击
// 仅在 GiftClosed 阶段有效，返回点击是否被接受。
func (c *Controller) ClickGift() bool {
	if c.closed || c.current != GiftClosed {
		return false
	}
	c.transition(GiftOpening)
	return true
}

// ClickLetter 处理信件点击
//
// 文字未打完时点击被直接丢弃（不排队）。第一次有效点击调度一个
// LetterConfirm 延迟后的 Opened 切换；此后的重复点击不会产生第二条链。
func (c *Controller) ClickLetter() bool {
	if c.closed || !c.typingComplete || c.openPending || c.current != LetterOpen {
		return false
	}
	c.openPending = true
	c.stageScope.After(c.timings.LetterConfirm, func() {
		c.transition(Opened)
	})
	log.Printf("[Stage] Letter click accepted, opening in %v", c.timings.LetterConfirm)
	return true
}

// Close 关闭状态机并取消全部定时器
// 关闭后阶段冻结，点击无效，回调不再触发。
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.stageScope.Cancel()
	c.session.Cancel()
	c.transitionListeners = nil
	c.typingListeners = nil
	log.Printf("[Stage] Controller closed at %s", c.current)
}

func (c *Controller) transition(to Stage) {
	if c.closed {
		return
	}
	from := c.current
	if err := ValidateTransition(from, to); err != nil {
		log.Printf("[Stage] Warning: %v", err)
		return
	}

	c.stageScope.Cancel()
	c.current = to
	c.stageScope = c.scheduler.NewScope(to.String())
	c.enter(to)

	log.Printf("[Stage] %s → %s (t=%v)", from, to, c.scheduler.Now())

	for _, fn := range c.transitionListeners {
		fn(from, to)
	}
}

// enter 执行进入阶段时的调度
func (c *Controller) enter(s Stage) {
	if s == LetterVisible {
		c.letterVisibleAt = c.scheduler.Now()
		c.session.After(c.timings.Typing, c.completeTyping)
	}

	if rule, ok := c.rules[s]; ok {
		c.stageScope.After(rule.after, func() {
			c.transition(rule.to)
		})
	}
}

func (c *Controller) completeTyping() {
	if c.closed || c.typingComplete {
		return
	}
	c.typingComplete = true
	log.Printf("[Stage] Typing complete (t=%v)", c.scheduler.Now())
	for _, fn := range c.typingListeners {
		fn()
	}
}

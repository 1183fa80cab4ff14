package timeline

import "time"

// Scope 一组生命周期相同的定时器
//
// 阶段进入时创建作用域，阶段退出时调用 Cancel，
// 作用域内所有尚未触发的定时器随之失效。作用域取消后不可复用。
type Scope struct {
	name      string
	scheduler *Scheduler
	timers    []*Timer
	cancelled bool
}

// NewScope 创建绑定到调度器的作用域
func (s *Scheduler) NewScope(name string) *Scope {
	return &Scope{
		name:      name,
		scheduler: s,
	}
}

// Name 返回作用域名称（用于日志）
func (sc *Scope) Name() string {
	return sc.name
}

// After 在作用域内调度一次性定时器
func (sc *Scope) After(d time.Duration, fn func()) *Timer {
	return sc.track(sc.scheduler.After(d, fn))
}

// Every 在作用域内调度周期定时器
func (sc *Scope) Every(period time.Duration, fn func()) *Timer {
	return sc.track(sc.scheduler.Every(period, fn))
}

func (sc *Scope) track(t *Timer) *Timer {
	if sc.cancelled {
		t.Cancel()
		return t
	}

	// 顺便清理已失效的定时器，避免长会话中切片无限增长
	live := sc.timers[:0]
	for _, existing := range sc.timers {
		if existing.Active() {
			live = append(live, existing)
		}
	}
	sc.timers = append(live, t)
	return t
}

// Pending 返回作用域内仍会触发的定时器数量
func (sc *Scope) Pending() int {
	n := 0
	for _, t := range sc.timers {
		if t.Active() {
			n++
		}
	}
	return n
}

// Cancel 取消作用域内全部定时器
func (sc *Scope) Cancel() {
	if sc == nil || sc.cancelled {
		return
	}
	sc.cancelled = true
	for _, t := range sc.timers {
		t.Cancel()
	}
	sc.timers = nil
}

// Cancelled 返回作用域是否已取消
func (sc *Scope) Cancelled() bool {
	return sc.cancelled
}

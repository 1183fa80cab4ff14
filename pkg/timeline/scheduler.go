// Package timeline 提供由帧循环驱动的单线程定时调度器
//
// 所有回调都在调用 Advance 的 goroutine 上同步执行，
// 因此回调之间不存在数据竞争，只存在"过期定时器"这类时序问题：
// 定时器必须在其所属作用域（Scope）退出时被取消。
package timeline

import (
	"container/heap"
	"time"
)

// Timer 一个已调度的回调
// 一次性定时器触发后即失效；周期定时器在取消前会一直重新排队。
type Timer struct {
	deadline  time.Duration // 下次触发时刻（调度器时间）
	period    time.Duration // 0 表示一次性
	seq       uint64        // 同一时刻的触发顺序
	fn        func()
	cancelled bool
	fired     bool
}

// Cancel 取消定时器，可重复调用
func (t *Timer) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Active 返回定时器是否仍会触发
func (t *Timer) Active() bool {
	return t != nil && !t.cancelled && !t.fired
}

// Deadline 返回下次触发的调度器时间
func (t *Timer) Deadline() time.Duration {
	return t.deadline
}

// Scheduler 协作式调度器
// 时间只在 Advance 中前进，测试可以精确地推进到任意毫秒。
type Scheduler struct {
	now     time.Duration
	seq     uint64
	queue   timerQueue
	stopped bool
}

// NewScheduler 创建时间起点为 0 的调度器
func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: make(timerQueue, 0, 8),
	}
}

// Now 返回调度器当前时间
// 在回调执行期间等于该定时器的触发时刻，而不是本次 Advance 的终点。
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After 在 d 之后触发一次 fn
// d 为负数时按 0 处理（下一次 Advance 触发）。
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	return s.schedule(d, 0, fn)
}

// Every 每隔 period 触发一次 fn，直到被取消
func (s *Scheduler) Every(period time.Duration, fn func()) *Timer {
	if period <= 0 {
		panic("timeline: non-positive interval period")
	}
	return s.schedule(period, period, fn)
}

func (s *Scheduler) schedule(d, period time.Duration, fn func()) *Timer {
	t := &Timer{
		deadline: s.now + d,
		period:   period,
		fn:       fn,
	}
	if s.stopped {
		t.cancelled = true
		return t
	}
	s.push(t)
	return t
}

func (s *Scheduler) push(t *Timer) {
	s.seq++
	t.seq = s.seq
	heap.Push(&s.queue, t)
}

// Advance 将时间推进 dt，并按触发时刻顺序执行到期的定时器
// 回调中新建的定时器若在本次推进范围内到期，也会在本次调用中触发。
func (s *Scheduler) Advance(dt time.Duration) {
	if s.stopped {
		return
	}
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt

	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.deadline > target {
			break
		}
		heap.Pop(&s.queue)
		if next.cancelled {
			continue
		}

		s.now = next.deadline
		if next.period > 0 {
			next.deadline += next.period
			s.push(next)
		} else {
			next.fired = true
		}

		next.fn()

		if s.stopped {
			return
		}
	}

	s.now = target
}

// Pending 返回仍会触发的定时器数量
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Stop 取消全部定时器并冻结调度器
// 之后的 Advance 不再执行任何回调，新建的定时器直接处于取消状态。
func (s *Scheduler) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	for _, t := range s.queue {
		t.cancelled = true
	}
	s.queue = s.queue[:0]
}

// Stopped 返回调度器是否已停止
func (s *Scheduler) Stopped() bool {
	return s.stopped
}

// timerQueue 按 (deadline, seq) 排序的最小堆
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline == q[j].deadline {
		return q[i].seq < q[j].seq
	}
	return q[i].deadline < q[j].deadline
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) {
	*q = append(*q, x.(*Timer))
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

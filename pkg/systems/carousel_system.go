package systems

import (
	"log"
	"time"

	"github.com/decker502/valentine/pkg/components"
	"github.com/decker502/valentine/pkg/ecs"
	"github.com/decker502/valentine/pkg/timeline"
)

// CarouselSystem 轮播图自动切换
//
// 只在最终页面（Opened）启动：Start 注册一个固定间隔的周期定时器，
// 每次触发把下标加一并对图片数量取模。Stop 取消定时器。
type CarouselSystem struct {
	entityManager *ecs.EntityManager
	scheduler     *timeline.Scheduler
	interval      time.Duration
	entity        ecs.EntityID

	scope *timeline.Scope
}

// NewCarouselSystem 创建轮播系统（未启动）
func NewCarouselSystem(em *ecs.EntityManager, scheduler *timeline.Scheduler, count int, interval time.Duration) *CarouselSystem {
	cs := &CarouselSystem{
		entityManager: em,
		scheduler:     scheduler,
		interval:      interval,
	}
	cs.entity = em.CreateEntity()
	ecs.AddComponent(em, cs.entity, &components.CarouselComponent{
		Index: 0,
		Count: count,
	})
	return cs
}

// Start 开始轮播，重复调用无效
func (cs *CarouselSystem) Start() {
	if cs.scope != nil {
		return
	}
	cs.scope = cs.scheduler.NewScope("carousel")
	cs.scope.Every(cs.interval, cs.advance)
	log.Printf("[CarouselSystem] Started (interval=%v)", cs.interval)
}

// Stop 停止轮播
func (cs *CarouselSystem) Stop() {
	if cs.scope == nil || cs.scope.Cancelled() {
		return
	}
	cs.scope.Cancel()
	log.Printf("[CarouselSystem] Stopped")
}

// Running 返回轮播定时器是否在运行
func (cs *CarouselSystem) Running() bool {
	return cs.scope != nil && !cs.scope.Cancelled()
}

func (cs *CarouselSystem) advance() {
	carousel, ok := ecs.GetComponent[*components.CarouselComponent](cs.entityManager, cs.entity)
	if !ok || carousel.Count <= 0 {
		return
	}
	carousel.Index = (carousel.Index + 1) % carousel.Count
	carousel.Advances++
}

// Index 返回当前显示的图片下标
func (cs *CarouselSystem) Index() int {
	carousel, ok := ecs.GetComponent[*components.CarouselComponent](cs.entityManager, cs.entity)
	if !ok {
		return 0
	}
	return carousel.Index
}

// Count 返回图片数量
func (cs *CarouselSystem) Count() int {
	carousel, ok := ecs.GetComponent[*components.CarouselComponent](cs.entityManager, cs.entity)
	if !ok {
		return 0
	}
	return carousel.Count
}

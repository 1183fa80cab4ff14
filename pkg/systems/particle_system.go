package systems

import (
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/decker502/valentine/pkg/components"
	"github.com/decker502/valentine/pkg/config"
	"github.com/decker502/valentine/pkg/ecs"
	"github.com/decker502/valentine/pkg/input"
)

// ParticleSystem 背景粒子场
//
// 会话开始时一次性创建固定数量的粒子，之后每帧：
//  1. Update: 按速度移动粒子，坐标越出 [0, 宽/高] 时反转对应速度分量
//  2. Draw: 清空画布并把每个粒子画成实心圆
//
// 粒子场与展示阶段无关，贯穿整个会话；Stop 之后既不再移动也不再绘制。
// 视口缩小时不会重新映射粒子坐标，越界粒子依靠自身运动回到范围内。
//
// Follows ECS zero-coupling principle: communicates only through EntityManager.
type ParticleSystem struct {
	EntityManager *ecs.EntityManager

	cfg      config.ParticleConfig
	canvas Canvas
	width  float64
	height float64
	steps  int

	running      bool
	detachResize func()
}

// NewParticleSystem 创建粒子场并按随机源生成初始粒子
//
// 参数：
//   - em: 存放粒子实体的 EntityManager
//   - cfg: 粒子参数（数量、半径/速度/透明度区间）
//   - width, height: 初始视口尺寸
//   - rng: 随机源；测试传入固定种子以复现初始状态
//   - canvas: 绘制表面，可为 nil（表面不可用时仅模拟不绘制）
func NewParticleSystem(em *ecs.EntityManager, cfg config.ParticleConfig, width, height int, rng *rand.Rand, canvas Canvas) *ParticleSystem {
	ps := &ParticleSystem{
		EntityManager: em,
		cfg:           cfg,
		canvas:        canvas,
		width:         float64(width),
		height:        float64(height),
		running:       true,
	}
	ps.seed(rng)

	if canvas == nil {
		log.Printf("[ParticleSystem] Warning: no drawing surface, particles will not be rendered")
	}
	log.Printf("[ParticleSystem] Seeded %d particles in %dx%d", cfg.Count, width, height)
	return ps
}

func (ps *ParticleSystem) seed(rng *rand.Rand) {
	c := ps.cfg
	for i := 0; i < c.Count; i++ {
		id := ps.EntityManager.CreateEntity()
		ecs.AddComponent(ps.EntityManager, id, &components.PositionComponent{
			X: rng.Float64() * ps.width,
			Y: rng.Float64() * ps.height,
		})
		ecs.AddComponent(ps.EntityManager, id, &components.ParticleComponent{
			Radius:    uniform(rng, c.RadiusMin, c.RadiusMax),
			VelocityX: uniform(rng, -c.SpeedMax, c.SpeedMax),
			VelocityY: uniform(rng, -c.SpeedMax, c.SpeedMax),
			Opacity:   uniform(rng, c.OpacityMin, c.OpacityMax),
		})
	}
}

// uniform 返回 [min, max) 区间内的均匀随机数
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// AttachResize 订阅视口尺寸变化
// 重复调用会先退订之前的订阅。
func (ps *ParticleSystem) AttachResize(n *input.ResizeNotifier) {
	if ps.detachResize != nil {
		ps.detachResize()
	}
	ps.detachResize = n.Subscribe(ps.Resize)
}

// Resize 更新粒子活动范围与绘制表面尺寸
// 粒子坐标保持不变。
func (ps *ParticleSystem) Resize(width, height int) {
	if !ps.running {
		return
	}
	if width <= 0 || height <= 0 {
		// 例如窗口最小化：保持原有范围，等待下一次有效尺寸
		log.Printf("[ParticleSystem] Ignoring resize to %dx%d", width, height)
		return
	}
	ps.width = float64(width)
	ps.height = float64(height)

	if ps.canvas != nil {
		if err := ps.canvas.Resize(width, height); err != nil {
			log.Printf("[ParticleSystem] Warning: failed to resize surface: %v", err)
		}
	}
}

// Extent 返回当前活动范围
func (ps *ParticleSystem) Extent() (float64, float64) {
	return ps.width, ps.height
}

// Update 推进一帧
// 速度单位为 像素/帧，与刷新率同步，因此不使用 dt。
func (ps *ParticleSystem) Update(dt float64) {
	if !ps.running {
		return
	}
	ps.Step()
}

// Step 对每个粒子执行一次移动与边界反射
func (ps *ParticleSystem) Step() {
	if !ps.running {
		return
	}
	for _, id := range ps.Entities() {
		pos, _ := ecs.GetComponent[*components.PositionComponent](ps.EntityManager, id)
		p, _ := ecs.GetComponent[*components.ParticleComponent](ps.EntityManager, id)

		pos.X += p.VelocityX
		pos.Y += p.VelocityY

		p.VelocityX = bounce(pos.X, ps.width, p.VelocityX)
		p.VelocityY = bounce(pos.Y, ps.height, p.VelocityY)
	}
	ps.steps++
}

// bounce 坐标越出 [0, extent] 时让速度指向范围内部
//
// 对刚刚越界的粒子（速度朝外）这就是取反；对视口缩小后滞留在范围外、
// 速度已经朝内的粒子则保持方向，使其逐步回到范围内而不是原地抖动。
func bounce(coord, extent, velocity float64) float64 {
	switch {
	case coord < 0:
		return math.Abs(velocity)
	case coord > extent:
		return -math.Abs(velocity)
	default:
		return velocity
	}
}

// Draw 清空画布并绘制全部粒子
func (ps *ParticleSystem) Draw() {
	if !ps.running || ps.canvas == nil {
		return
	}
	ps.canvas.Clear()
	for _, id := range ps.Entities() {
		pos, _ := ecs.GetComponent[*components.PositionComponent](ps.EntityManager, id)
		p, _ := ecs.GetComponent[*components.ParticleComponent](ps.EntityManager, id)
		ps.canvas.FillCircle(float32(pos.X), float32(pos.Y), float32(p.Radius), particleColor(p.Opacity))
	}
}

// particleColor 白色粒子，预乘透明度
func particleColor(opacity float64) color.Color {
	a := uint8(math.Round(opacity * 255))
	return color.RGBA{R: a, G: a, B: a, A: a}
}

// Canvas 返回绘制表面（可能为 nil）
func (ps *ParticleSystem) Canvas() Canvas {
	return ps.canvas
}

// Entities 查询全部粒子实体ID（按 ID 升序，即创建顺序）
func (ps *ParticleSystem) Entities() []ecs.EntityID {
	return ecs.GetEntitiesWith2[*components.PositionComponent, *components.ParticleComponent](ps.EntityManager)
}

// Steps 返回已执行的帧数
func (ps *ParticleSystem) Steps() int {
	return ps.steps
}

// Running 返回粒子场是否仍在运行
func (ps *ParticleSystem) Running() bool {
	return ps.running
}

// Stop 停止动画、退订尺寸变化并销毁全部粒子实体，可重复调用
func (ps *ParticleSystem) Stop() {
	if !ps.running {
		return
	}
	ps.running = false
	if ps.detachResize != nil {
		ps.detachResize()
		ps.detachResize = nil
	}
	for _, id := range ps.Entities() {
		ps.EntityManager.DestroyEntity(id)
	}
	ps.EntityManager.RemoveMarkedEntities()
	log.Printf("[ParticleSystem] Stopped after %d frames", ps.steps)
}

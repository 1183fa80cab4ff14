package components

// ParticleComponent 背景粒子的运行时状态
//
// 位置保存在独立的 PositionComponent 中。粒子在会话开始时一次性创建，
// 之后每帧只修改位置与速度方向，不会被销毁或替换。
//
// This is a pure data component following ECS principles - it contains no methods.
type ParticleComponent struct {
	// Velocity (速度, 像素/帧)
	VelocityX float64
	VelocityY float64

	// Radius 绘制半径（像素）
	Radius float64

	// Opacity 不透明度，创建时确定后不再变化
	Opacity float64
}

package components

// CarouselComponent 轮播图的当前显示位置
type CarouselComponent struct {
	// Index 当前显示的图片下标，范围 [0, Count)
	Index int
	// Count 图片总数
	Count int
	// Advances 自启动以来推进的次数（用于日志与测试）
	Advances int
}

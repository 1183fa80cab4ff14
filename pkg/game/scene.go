package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a presentation scene (e.g., the greeting).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Closable 是一个可选接口，用于在会话结束时释放场景资源
//
// 实现此接口的场景会在以下时机被调用 Close()：
//   - 切换到其他场景
//   - 窗口关闭或程序收到退出信号
//
// Close 必须可以重复调用，并在返回后保证不再有定时器或监听器触发。
type Closable interface {
	Close()
}

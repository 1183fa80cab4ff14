package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager manages the high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	closed       bool
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene is closed if it implements Closable.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.closed {
		log.Printf("[SceneManager] 已关闭，忽略场景切换")
		return
	}
	if sm.currentScene != nil && sm.currentScene != scene {
		closeScene(sm.currentScene)
	}
	sm.currentScene = scene
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// Close 关闭当前场景，之后 Update/Draw 不再有任何效果
// 可重复调用。
func (sm *SceneManager) Close() {
	if sm.closed {
		return
	}
	sm.closed = true
	if sm.currentScene != nil {
		closeScene(sm.currentScene)
		sm.currentScene = nil
	}
	log.Printf("[SceneManager] 会话结束")
}

// Closed 返回是否已关闭
func (sm *SceneManager) Closed() bool {
	return sm.closed
}

func closeScene(scene Scene) {
	if c, ok := scene.(Closable); ok {
		c.Close()
	}
}

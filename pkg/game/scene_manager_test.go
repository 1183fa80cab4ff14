package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

// closableScene counts Close calls.
type closableScene struct {
	MockScene
	closeCount int
}

func (c *closableScene) Close() {
	c.closeCount++
}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.currentScene != nil {
		t.Error("Expected currentScene to be nil initially")
	}
}

// TestSceneManagerUpdate verifies that Update calls the current scene's Update method.
func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	deltaTime := 0.016 // ~60 FPS
	sm.Update(deltaTime)

	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != deltaTime {
		t.Errorf("Expected deltaTime %.3f, got %.3f", deltaTime, mockScene.deltaTime)
	}
}

// TestSceneManagerNoScene verifies that Update and Draw handle nil scene gracefully.
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016)              // Should not panic
	sm.Draw(ebiten.NewImage(8, 8)) // Should not panic
}

// TestSceneManagerDraw verifies that Draw calls the current scene's Draw method.
func TestSceneManagerDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	screen := ebiten.NewImage(800, 600)
	sm.Draw(screen)

	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerSwitchClosesPrevious verifies that switching closes the outgoing scene.
func TestSceneManagerSwitchClosesPrevious(t *testing.T) {
	sm := NewSceneManager()
	scene1 := &closableScene{}
	scene2 := &MockScene{}

	sm.SwitchTo(scene1)
	sm.SwitchTo(scene1) // 切换到同一场景不关闭
	if scene1.closeCount != 0 {
		t.Fatalf("switching to the same scene should not close it, got %d closes", scene1.closeCount)
	}

	sm.SwitchTo(scene2)
	if scene1.closeCount != 1 {
		t.Errorf("expected scene1 closed once, got %d", scene1.closeCount)
	}

	sm.Update(0.016)
	if scene1.updateCalled {
		t.Error("closed scene should not be updated")
	}
	if !scene2.updateCalled {
		t.Error("Scene2's Update was not called after switching")
	}
}

// TestSceneManagerClose verifies teardown semantics.
func TestSceneManagerClose(t *testing.T) {
	sm := NewSceneManager()
	scene := &closableScene{}
	sm.SwitchTo(scene)

	sm.Close()
	sm.Close()

	if scene.closeCount != 1 {
		t.Errorf("expected exactly one Close, got %d", scene.closeCount)
	}
	if !sm.Closed() {
		t.Error("expected manager to report closed")
	}

	sm.Update(0.016)
	if scene.updateCalled {
		t.Error("Update after Close should be a no-op")
	}

	other := &MockScene{}
	sm.SwitchTo(other)
	sm.Update(0.016)
	if other.updateCalled {
		t.Error("SwitchTo after Close should be ignored")
	}
}

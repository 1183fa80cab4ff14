package app

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/valentine/pkg/config"
	"github.com/decker502/valentine/pkg/stage"
)

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultGreetingConfig()
	cfg.Timing.GiftOpeningMs = 0

	_, err := NewApp(Config{Verbose: true, Greeting: cfg})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

// 音频上下文每个进程只能创建一次，生命周期测试放在同一个用例中
func TestAppLifecycle(t *testing.T) {
	a, err := NewApp(Config{
		Verbose: true,
		Seed:    42,
		Assets:  fstest.MapFS{}, // 没有图片和音轨：占位面板 + 静音
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.SessionID())
	assert.True(t, a.IsVerbose())
	assert.Nil(t, a.audioManager, "missing track degrades to silence")

	scene := a.scene
	require.NotNil(t, scene)
	assert.Equal(t, stage.GiftClosed, scene.Stage())

	// Layout 跟随窗口尺寸并通知视口变化
	w, h := a.Layout(1024, 640)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 640, h)
	vw, vh := a.Viewport()
	assert.Equal(t, 1024, vw)
	assert.Equal(t, 640, vh)

	// 最小化时保留上一次的尺寸
	w, h = a.Layout(0, 0)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 640, h)

	require.NoError(t, a.Update())

	a.Close()
	a.Close()
	assert.True(t, scene.Closed())
	assert.True(t, errors.Is(a.Update(), ebiten.Termination))
}

func TestConfigureLogging(t *testing.T) {
	original := log.Writer()
	t.Cleanup(func() { log.SetOutput(original) })

	var buf bytes.Buffer
	log.SetOutput(&buf)

	// verbose 模式保留调用方设置的输出
	ConfigureLogging(true)
	log.Printf("kept")
	assert.Contains(t, buf.String(), "kept")

	ConfigureLogging(false)
	assert.Equal(t, io.Discard, log.Writer())
	log.Printf("dropped")
	assert.NotContains(t, buf.String(), "dropped")

	// 从静默模式切回 verbose 时恢复标准错误输出
	ConfigureLogging(true)
	assert.Equal(t, io.Writer(os.Stderr), log.Writer())
}

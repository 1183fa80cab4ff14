// Package app 提供贺卡应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 cmd 包调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/xid"

	"github.com/decker502/valentine/pkg/config"
	"github.com/decker502/valentine/pkg/game"
	"github.com/decker502/valentine/pkg/input"
	"github.com/decker502/valentine/pkg/scenes"
	"github.com/decker502/valentine/pkg/systems"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Greeting 贺卡配置，为 nil 时使用默认配置
	Greeting *config.GreetingConfig
	// Seed 粒子随机种子，0 表示使用当前时间
	Seed int64
	// Assets 图片和音频所在的文件系统，为 nil 时使用当前工作目录
	Assets fs.FS
}

// App 是贺卡应用的核心包装器，实现 ebiten.Game 接口
//
// 视口尺寸跟随窗口：Layout 直接返回外部尺寸，并通过 ResizeNotifier
// 通知粒子层和页面布局。
type App struct {
	sessionID    xid.ID
	sceneManager *game.SceneManager
	resize       *input.ResizeNotifier
	scene        *scenes.GreetingScene
	audioManager *game.AudioManager
	verbose      bool

	closeOnce sync.Once
	closed    bool
}

// NewApp 创建并初始化贺卡应用
//
// 配置非法时返回错误；音频或绘制表面不可用只记录日志，贺卡照常运行。
func NewApp(cfg Config) (*App, error) {
	ConfigureLogging(cfg.Verbose)

	greeting := cfg.Greeting
	if greeting == nil {
		greeting = config.DefaultGreetingConfig()
	}
	if err := greeting.Validate(); err != nil {
		return nil, fmt.Errorf("贺卡配置无效: %w", err)
	}

	a := &App{
		sessionID: xid.New(),
		verbose:   cfg.Verbose,
	}
	log.Printf("[App] Session %s starting", a.sessionID)

	// 初始化音频上下文
	audioContext := audio.NewContext(greeting.Audio.SampleRate)
	resourceManager := game.NewResourceManager(audioContext, cfg.Assets)

	// 背景音乐不可用时整页静音
	var player game.Player
	audioManager, err := game.NewAudioManager(resourceManager, greeting.Audio.Track, greeting.Audio.Volume)
	if err != nil {
		log.Printf("[App] Warning: background music unavailable, running silent: %v", err)
	} else {
		a.audioManager = audioManager
		player = audioManager
	}

	width, height := greeting.Window.Width, greeting.Window.Height
	a.resize = input.NewResizeNotifier(width, height)

	// 绘制表面不可用时粒子只模拟不绘制
	var canvas systems.Canvas
	imageCanvas, err := systems.NewImageCanvas(width, height)
	if err != nil {
		log.Printf("[App] Warning: particle surface unavailable: %v", err)
	} else {
		canvas = imageCanvas
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("[App] Particle seed: %d", seed)

	a.scene = scenes.NewGreetingScene(scenes.GreetingDeps{
		Config:    greeting,
		Resources: resourceManager,
		Player:    player,
		Input:     input.NewEbitenSource(),
		Canvas:    canvas,
		Resize:    a.resize,
		Rand:      rand.New(rand.NewSource(seed)),
	})

	a.sceneManager = game.NewSceneManager()
	a.sceneManager.SwitchTo(a.scene)
	return a, nil
}

// ConfigureLogging 配置日志输出
// 非 verbose 模式丢弃全部日志；verbose 模式恢复到标准错误输出（已有自定义输出时保持不变）。
func ConfigureLogging(verbose bool) {
	if !verbose {
		log.SetOutput(io.Discard)
		return
	}
	if log.Writer() == io.Discard {
		log.SetOutput(os.Stderr)
	}
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）；会话结束后返回 ebiten.Termination
//
// 窗口关闭请求（需要 ebiten.SetWindowClosingHandled(true)）在这里结束会话。
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Close()
	}
	if a.closed {
		return ebiten.Termination
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 视口跟随窗口尺寸
// 尺寸变化时通知粒子层调整绘制表面
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	// 最小化时外部尺寸可能为 0：保留上一次的有效尺寸
	if outsideWidth > 0 && outsideHeight > 0 {
		a.resize.Notify(outsideWidth, outsideHeight)
	}
	return a.resize.Size()
}

// Close 结束会话：取消全部定时器和监听器，停止动画和音乐
// 可重复调用。关闭后下一次 Update 返回 ebiten.Termination。
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.sceneManager.Close()
		if a.audioManager != nil {
			a.audioManager.Close()
		}
		a.closed = true
		log.Printf("[App] Session %s closed at %s", a.sessionID, a.scene.Stage())
	})
}

// SessionID 返回本次会话的标识
func (a *App) SessionID() string {
	return a.sessionID.String()
}

// Viewport 返回当前视口尺寸
func (a *App) Viewport() (int, int) {
	return a.resize.Size()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

package scenes

import (
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/valentine/pkg/config"
	"github.com/decker502/valentine/pkg/ecs"
	"github.com/decker502/valentine/pkg/game"
	"github.com/decker502/valentine/pkg/input"
	"github.com/decker502/valentine/pkg/stage"
	"github.com/decker502/valentine/pkg/systems"
	"github.com/decker502/valentine/pkg/timeline"
	"github.com/decker502/valentine/pkg/utils"
)

// GreetingDeps 贺卡场景的外部依赖
//
// 除 Config 外均可为 nil：
//   - Resources 为 nil 时不加载图片和字体（文字退化为调试字体，轮播显示占位面板）
//   - Player 为 nil 时整页静音
//   - Input 为 nil 时不处理输入
//   - Canvas 为 nil 时粒子只模拟不绘制
//   - Resize 为 nil 时使用配置中的窗口尺寸
//   - Rand 为 nil 时使用基于时间的随机源
//
// 注意：Player 和 Canvas 是接口，不可用时必须传入无类型的 nil，
// 而不是值为 nil 的指针。
type GreetingDeps struct {
	Config    *config.GreetingConfig
	Resources *game.ResourceManager
	Player    game.Player
	Input     input.Source
	Canvas    systems.Canvas
	Resize    *input.ResizeNotifier
	Rand      *rand.Rand
}

// GreetingScene 贺卡场景
//
// 负责把各个组件装配在一起：
//   - Controller 驱动阶段切换（礼物 → 信件 → 最终页）
//   - ParticleSystem 作为整个会话的背景层
//   - AutoplayBridge 在每次进入阶段时尝试播放背景音乐
//   - CarouselSystem 在进入 Opened 后开始轮播
//
// 所有定时器都由同一个 Scheduler 驱动，每帧在处理完输入之后推进。
type GreetingScene struct {
	cfg       *config.GreetingConfig
	resources *game.ResourceManager
	player    game.Player
	source    input.Source
	resize    *input.ResizeNotifier

	scheduler     *timeline.Scheduler
	controller    *stage.Controller
	entityManager *ecs.EntityManager
	particles     *systems.ParticleSystem
	carousel      *systems.CarouselSystem
	bridge        *game.AutoplayBridge
	gestures      *input.GestureBus

	layout         greetingLayout
	stageEnteredAt time.Duration // 当前阶段的进入时刻（调度器时间）
	clock          float64       // 会话已运行秒数，用于循环动画

	// 绘制资源（可能为 nil）
	titleFace  *text.GoTextFace
	bodyFace   *text.GoTextFace
	hintFace   *text.GoTextFace
	images     []*ebiten.Image
	letterBody []string // 按信纸宽度换行后的正文，段落之间插入空行
	wrapWidth  int

	closed bool
}

// NewGreetingScene 创建贺卡场景，会话从 GiftClosed 开始
func NewGreetingScene(deps GreetingDeps) *GreetingScene {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultGreetingConfig()
	}

	resize := deps.Resize
	if resize == nil {
		resize = input.NewResizeNotifier(cfg.Window.Width, cfg.Window.Height)
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &GreetingScene{
		cfg:           cfg,
		resources:     deps.Resources,
		player:        deps.Player,
		source:        deps.Input,
		resize:        resize,
		scheduler:     timeline.NewScheduler(),
		entityManager: ecs.NewEntityManager(),
		gestures:      input.NewGestureBus(),
	}

	width, height := resize.Size()
	s.layout = computeLayout(width, height)

	s.controller = stage.NewController(s.scheduler, cfg.Timing.StageTimings())
	s.particles = systems.NewParticleSystem(s.entityManager, cfg.Particles, width, height, rng, deps.Canvas)
	s.particles.AttachResize(resize)
	s.carousel = systems.NewCarouselSystem(s.entityManager, s.scheduler, len(cfg.Carousel.Images), cfg.Timing.CarouselInterval())

	eligible, err := cfg.Audio.Stages()
	if err != nil {
		// Validate 已经检查过，这里只可能是调用方绕过了校验
		log.Printf("[GreetingScene] Warning: invalid audio stages, audio disabled: %v", err)
		eligible = nil
	}
	s.bridge = game.NewAutoplayBridge(deps.Player, s.gestures, eligible)

	s.controller.OnTransition(s.onTransition)
	s.controller.OnTypingComplete(func() {
		log.Printf("[GreetingScene] Letter is ready to be opened")
	})

	s.loadResources()

	// 会话开始即进入 GiftClosed
	s.bridge.HandleStageEntry(s.controller.Stage())

	log.Printf("[GreetingScene] Session started (%dx%d, %d particles)", width, height, len(s.particles.Entities()))
	return s
}

// loadResources 加载字体与轮播图片，失败时记录日志并退化
func (s *GreetingScene) loadResources() {
	s.images = make([]*ebiten.Image, len(s.cfg.Carousel.Images))
	if s.resources == nil {
		return
	}

	// 触屏设备上文字放大一些
	scale := 1.0
	if utils.IsMobile() {
		scale = 1.25
	}
	faces := []struct {
		dst  **text.GoTextFace
		size float64
	}{
		{&s.titleFace, 40},
		{&s.bodyFace, 20},
		{&s.hintFace, 18},
	}
	for _, f := range faces {
		face, err := s.resources.Face(f.size * scale)
		if err != nil {
			log.Printf("[GreetingScene] Warning: failed to load font: %v", err)
			continue
		}
		*f.dst = face
	}

	for i, path := range s.cfg.Carousel.Images {
		img, err := s.resources.LoadImage(path)
		if err != nil {
			log.Printf("[GreetingScene] Warning: carousel image %d unavailable: %v", i+1, err)
			continue
		}
		s.images[i] = img
	}
}

// Update 推进一帧
//
// 顺序：读取输入 → 分发手势（音频回退监听器）→ 点击命中测试 →
// 等待中的音频重试 → 推进定时器 → 粒子模拟。
func (s *GreetingScene) Update(deltaTime float64) {
	if s.closed {
		return
	}

	width, height := s.resize.Size()
	if width != s.layout.Width || height != s.layout.Height {
		s.layout = computeLayout(width, height)
	}

	if s.source != nil {
		frame := s.source.Poll()
		input.DispatchFrame(s.gestures, frame)
		if frame.Click {
			s.handleClick(frame.X, frame.Y)
		}
	}
	s.bridge.Update()

	s.scheduler.Advance(secondsToDuration(deltaTime))
	s.particles.Update(deltaTime)
	s.clock += deltaTime
}

// handleClick 根据当前阶段做命中测试
func (s *GreetingScene) handleClick(x, y int) {
	switch s.controller.Stage() {
	case stage.GiftClosed:
		if s.layout.hitGift(x, y) {
			s.controller.ClickGift()
		}
	case stage.LetterVisible, stage.LetterOpen:
		if s.layout.hitLetter(x, y) {
			// 文字未打完时 Controller 会直接丢弃
			s.controller.ClickLetter()
		}
	}
}

// onTransition 阶段切换后通知音频与轮播
func (s *GreetingScene) onTransition(from, to stage.Stage) {
	s.stageEnteredAt = s.scheduler.Now()
	s.bridge.HandleStageEntry(to)
	if to == stage.Opened {
		s.carousel.Start()
	}
}

// Close 结束会话：取消全部定时器和监听器，停止粒子动画
// 可重复调用。
func (s *GreetingScene) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.controller.Close()
	s.carousel.Stop()
	s.bridge.Close()
	s.particles.Stop()
	s.gestures.Clear()
	s.scheduler.Stop()

	if c, ok := s.player.(interface{ Close() }); ok {
		c.Close()
	}
	log.Printf("[GreetingScene] Session closed at %s", s.controller.Stage())
}

// Stage 返回当前阶段
func (s *GreetingScene) Stage() stage.Stage {
	return s.controller.Stage()
}

// TypingComplete 返回信件文字是否已全部显示
func (s *GreetingScene) TypingComplete() bool {
	return s.controller.TypingComplete()
}

// CarouselIndex 返回当前轮播下标
func (s *GreetingScene) CarouselIndex() int {
	return s.carousel.Index()
}

// Closed 返回会话是否已结束
func (s *GreetingScene) Closed() bool {
	return s.closed
}

// stageElapsed 返回进入当前阶段以来的时间
func (s *GreetingScene) stageElapsed() time.Duration {
	return s.scheduler.Now() - s.stageEnteredAt
}

// revealedLetter 返回当前应显示的信件正文
func (s *GreetingScene) revealedLetter(wrapWidth int) []string {
	if s.letterBody == nil || s.wrapWidth != wrapWidth {
		s.letterBody = s.wrapLetter(wrapWidth)
		s.wrapWidth = wrapWidth
	}
	return utils.RevealText(s.letterBody, s.controller.LetterVisibleFor(), s.cfg.Timing.TypingReveal())
}

func (s *GreetingScene) wrapLetter(wrapWidth int) []string {
	var lines []string
	for i, paragraph := range s.cfg.Text.LetterBody {
		if i > 0 {
			lines = append(lines, "")
		}
		if s.bodyFace == nil {
			// 调试字体每个字符 6 像素宽
			lines = append(lines, utils.WrapWords(paragraph, float64(wrapWidth), debugMeasure)...)
			continue
		}
		lines = append(lines, utils.WrapText(paragraph, s.bodyFace, float64(wrapWidth))...)
	}
	return lines
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

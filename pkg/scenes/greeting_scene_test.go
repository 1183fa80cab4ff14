package scenes

import (
	"image"
	"math/rand"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/valentine/pkg/config"
	"github.com/decker502/valentine/pkg/game"
	"github.com/decker502/valentine/pkg/input"
	"github.com/decker502/valentine/pkg/stage"
)

const testStep = 50 * time.Millisecond

// scriptedInput 每次 Poll 返回队列中的下一帧，队列为空时返回空帧
type scriptedInput struct {
	frames []input.Frame
}

func (s *scriptedInput) Poll() input.Frame {
	if len(s.frames) == 0 {
		return input.Frame{}
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f
}

func (s *scriptedInput) click(p image.Point) {
	s.frames = append(s.frames, input.Frame{
		Gestures: []input.GestureKind{input.PointerDown},
		Click:    true,
		X:        p.X,
		Y:        p.Y,
	})
}

func (s *scriptedInput) key() {
	s.frames = append(s.frames, input.Frame{Gestures: []input.GestureKind{input.KeyDown}})
}

// scenePlayer 可配置为先拒绝自动播放
type scenePlayer struct {
	blocked bool
	playing bool
	calls   int
	closed  bool
}

func (p *scenePlayer) Play() error {
	p.calls++
	if p.blocked {
		p.blocked = false
		return game.ErrAutoplayBlocked
	}
	p.playing = true
	return nil
}

func (p *scenePlayer) IsPlaying() bool { return p.playing }

func (p *scenePlayer) Close() {
	p.closed = true
	p.playing = false
}

type sceneFixture struct {
	scene  *GreetingScene
	input  *scriptedInput
	player *scenePlayer
	resize *input.ResizeNotifier
}

func newFixture(t *testing.T, blocked bool) *sceneFixture {
	t.Helper()
	f := &sceneFixture{
		input:  &scriptedInput{},
		player: &scenePlayer{blocked: blocked},
		resize: input.NewResizeNotifier(1280, 800),
	}
	f.scene = NewGreetingScene(GreetingDeps{
		Config: config.DefaultGreetingConfig(),
		Player: f.player,
		Input:  f.input,
		Resize: f.resize,
		Rand:   rand.New(rand.NewSource(7)),
	})
	t.Cleanup(f.scene.Close)
	return f
}

// run 以固定步长推进指定时长
func (f *sceneFixture) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += testStep {
		f.scene.Update(testStep.Seconds())
	}
}

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestGreetingSceneFullSequence(t *testing.T) {
	f := newFixture(t, false)
	s := f.scene
	require.Equal(t, stage.GiftClosed, s.Stage())
	assert.True(t, f.player.IsPlaying(), "audio starts on session start when allowed")

	f.input.click(center(s.layout.Gift))
	f.run(testStep)
	require.Equal(t, stage.GiftOpening, s.Stage())

	f.run(1500 * time.Millisecond)
	require.Equal(t, stage.LetterVisible, s.Stage())

	f.run(500 * time.Millisecond)
	require.Equal(t, stage.LetterOpen, s.Stage())

	// 文字未打完时点击信件无效
	f.input.click(center(s.layout.Letter))
	f.run(testStep)
	assert.Equal(t, stage.LetterOpen, s.Stage())
	assert.False(t, s.TypingComplete())

	f.run(13500 * time.Millisecond)
	require.True(t, s.TypingComplete())

	f.input.click(center(s.layout.Letter))
	f.run(testStep)
	assert.Equal(t, stage.LetterOpen, s.Stage(), "opening is delayed")

	f.run(500 * time.Millisecond)
	require.Equal(t, stage.Opened, s.Stage())
	assert.Equal(t, 0, s.CarouselIndex())

	f.run(3 * time.Second)
	assert.Equal(t, 1, s.CarouselIndex())
	f.run(12 * time.Second)
	assert.Equal(t, 0, s.CarouselIndex(), "index wraps after five images")
}

func TestGreetingSceneIgnoresClicksOutsideGift(t *testing.T) {
	f := newFixture(t, false)

	f.input.click(image.Pt(1, 1))
	f.run(time.Second)
	assert.Equal(t, stage.GiftClosed, f.scene.Stage())
}

func TestGreetingSceneDoubleGiftClick(t *testing.T) {
	f := newFixture(t, false)
	s := f.scene

	f.input.click(center(s.layout.Gift))
	f.input.click(center(s.layout.Gift))
	f.run(2 * testStep)
	require.Equal(t, stage.GiftOpening, s.Stage())

	f.run(1500 * time.Millisecond)
	assert.Equal(t, stage.LetterVisible, s.Stage())
}

func TestGreetingSceneUnlocksAudioOnFirstGesture(t *testing.T) {
	f := newFixture(t, true)
	s := f.scene
	require.False(t, f.player.IsPlaying())
	require.True(t, s.bridge.FallbackPending())

	// 按键不会打开礼物，但会解锁音频
	f.input.key()
	f.run(testStep)
	assert.True(t, f.player.IsPlaying())
	assert.False(t, s.bridge.FallbackPending())
	assert.Equal(t, stage.GiftClosed, s.Stage())
	assert.Equal(t, 2, f.player.calls)
}

// lateContextPlayer 音频上下文在手势之后若干帧才就绪
type lateContextPlayer struct {
	readyAfter int // Play 被调用多少次之后就绪
	calls      int
	playing    bool
}

func (p *lateContextPlayer) Play() error {
	p.calls++
	if p.calls <= p.readyAfter {
		return game.ErrAutoplayBlocked
	}
	p.playing = true
	return nil
}

func (p *lateContextPlayer) IsPlaying() bool { return p.playing }

func TestGreetingSceneAudioStartsWhenContextResumesAfterGesture(t *testing.T) {
	in := &scriptedInput{}
	player := &lateContextPlayer{readyAfter: 5}
	s := NewGreetingScene(GreetingDeps{
		Config: config.DefaultGreetingConfig(),
		Player: player,
		Input:  in,
		Resize: input.NewResizeNotifier(1280, 800),
		Rand:   rand.New(rand.NewSource(3)),
	})
	defer s.Close()
	require.True(t, s.bridge.FallbackPending())

	in.click(center(s.layout.Gift))
	s.Update(testStep.Seconds())
	require.Equal(t, stage.GiftOpening, s.Stage())
	assert.False(t, s.bridge.GaveUp(), "a context that is not ready yet is not a failure")

	for i := 0; i < 10 && !player.IsPlaying(); i++ {
		s.Update(testStep.Seconds())
	}
	assert.True(t, player.IsPlaying())
	assert.False(t, s.bridge.Waiting())
}

func TestGreetingSceneGiftClickAlsoUnlocksAudio(t *testing.T) {
	f := newFixture(t, true)
	s := f.scene

	f.input.click(center(s.layout.Gift))
	f.run(testStep)
	assert.True(t, f.player.IsPlaying())
	assert.Equal(t, stage.GiftOpening, s.Stage())
}

func TestGreetingSceneCloseCancelsEverything(t *testing.T) {
	f := newFixture(t, false)
	s := f.scene

	f.input.click(center(s.layout.Gift))
	f.run(testStep)
	require.Equal(t, stage.GiftOpening, s.Stage())

	s.Close()
	s.Close()
	assert.True(t, s.Closed())
	assert.False(t, s.particles.Running())
	assert.Equal(t, 0, f.resize.ListenerCount())
	assert.True(t, f.player.closed)

	steps := s.particles.Steps()
	f.run(5 * time.Second)
	assert.Equal(t, stage.GiftOpening, s.Stage(), "no timer fires after close")
	assert.Equal(t, steps, s.particles.Steps())
}

func TestGreetingSceneCloseInOpenedStopsCarousel(t *testing.T) {
	f := newFixture(t, false)
	s := f.scene

	f.input.click(center(s.layout.Gift))
	f.run(1600 * time.Millisecond)
	f.run(14 * time.Second)
	require.True(t, s.TypingComplete())
	f.input.click(center(s.layout.LetterHint))
	f.run(600 * time.Millisecond)
	require.Equal(t, stage.Opened, s.Stage())

	s.Close()
	assert.False(t, s.carousel.Running())
	index := s.CarouselIndex()
	f.run(10 * time.Second)
	assert.Equal(t, index, s.CarouselIndex())
}

func TestGreetingSceneFollowsResize(t *testing.T) {
	f := newFixture(t, false)
	s := f.scene

	f.resize.Notify(640, 480)
	f.run(testStep)

	w, h := s.particles.Extent()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 480.0, h)
	assert.Equal(t, computeLayout(640, 480), s.layout)

	// 新布局下的礼物盒仍可点击
	f.input.click(center(s.layout.Gift))
	f.run(testStep)
	assert.Equal(t, stage.GiftOpening, s.Stage())
}

func TestGreetingSceneSilentWithoutPlayer(t *testing.T) {
	s := NewGreetingScene(GreetingDeps{
		Config: config.DefaultGreetingConfig(),
		Rand:   rand.New(rand.NewSource(1)),
	})
	defer s.Close()

	assert.False(t, s.bridge.FallbackPending())
	assert.Equal(t, 150, len(s.particles.Entities()))
	s.Update(testStep.Seconds()) // 无输入源也能运行
}

func TestGreetingSceneRevealedLetter(t *testing.T) {
	f := newFixture(t, false)
	s := f.scene

	assert.Empty(t, joinNonEmpty(s.revealedLetter(400)), "nothing typed before the letter is visible")

	f.input.click(center(s.layout.Gift))
	f.run(1500*time.Millisecond + testStep)
	require.Equal(t, stage.LetterVisible, s.Stage())

	f.run(6 * time.Second)
	partial := joinNonEmpty(s.revealedLetter(400))
	assert.NotEmpty(t, partial)

	f.run(8 * time.Second)
	full := joinNonEmpty(s.revealedLetter(400))
	assert.Greater(t, len(full), len(partial))

	for _, p := range s.cfg.Text.LetterBody {
		assert.NotEmpty(t, p)
	}
}

func TestGreetingSceneDrawSmoke(t *testing.T) {
	f := newFixture(t, false)
	s := f.scene
	screen := ebiten.NewImage(1280, 800)

	s.Draw(screen)
	f.input.click(center(s.layout.Gift))
	f.run(700 * time.Millisecond)
	s.Draw(screen)
	f.run(2 * time.Second)
	s.Draw(screen)
	f.run(14 * time.Second)
	f.input.click(center(s.layout.Letter))
	f.run(time.Second)
	require.Equal(t, stage.Opened, s.Stage())
	s.Draw(screen)
}

func joinNonEmpty(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l
	}
	return out
}

func TestComputeLayoutHitTesting(t *testing.T) {
	sizes := []image.Point{{1280, 800}, {375, 667}, {1920, 1080}, {200, 200}}
	for _, size := range sizes {
		l := computeLayout(size.X, size.Y)
		assert.True(t, l.hitGift(center(l.Gift).X, center(l.Gift).Y), "gift center at %v", size)
		assert.True(t, l.hitLetter(center(l.Letter).X, center(l.Letter).Y), "letter center at %v", size)
		assert.False(t, l.hitGift(-1, -1))
		assert.False(t, l.hitLetter(size.X+10, size.Y+10))
		assert.Positive(t, l.Carousel.Dx())
		assert.Positive(t, l.Carousel.Dy())
	}
}

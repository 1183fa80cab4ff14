package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/decker502/valentine/pkg/stage"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid greeting config")

// GreetingConfig 贺卡配置
//
// 配置文件位置: data/greeting.yaml（编译时嵌入，可通过 --config 覆盖）
// 文件中缺省的字段保留 DefaultGreetingConfig 中的默认值。
type GreetingConfig struct {
	Window    WindowConfig   `yaml:"window"`
	Timing    TimingConfig   `yaml:"timing"`
	Particles ParticleConfig `yaml:"particles"`
	Carousel  CarouselConfig `yaml:"carousel"`
	Audio     AudioConfig    `yaml:"audio"`
	Text      TextConfig     `yaml:"text"`
}

// WindowConfig 窗口配置（初始尺寸，之后跟随窗口大小变化）
type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// TimingConfig 阶段时长，单位毫秒
type TimingConfig struct {
	// GiftOpeningMs 礼物盒打开动画（GiftOpening → LetterVisible）
	GiftOpeningMs int `yaml:"giftOpeningMs"`
	// LetterRevealMs 信封出现到信纸展开（LetterVisible → LetterOpen）
	LetterRevealMs int `yaml:"letterRevealMs"`
	// TypingMs 进入 LetterVisible 到文字全部打完
	TypingMs int `yaml:"typingMs"`
	// TypingRevealMs 逐字显示动画本身的时长（不含缓冲）
	TypingRevealMs int `yaml:"typingRevealMs"`
	// LetterConfirmMs 点击信件到进入最终页
	LetterConfirmMs int `yaml:"letterConfirmMs"`
	// CarouselIntervalMs 轮播切换间隔
	CarouselIntervalMs int `yaml:"carouselIntervalMs"`
}

// ParticleConfig 背景粒子参数
// 所有区间均为左闭右开 [Min, Max)。
type ParticleConfig struct {
	Count      int     `yaml:"count"`
	RadiusMin  float64 `yaml:"radiusMin"`
	RadiusMax  float64 `yaml:"radiusMax"`
	SpeedMax   float64 `yaml:"speedMax"` // 每个轴的速度范围为 [-SpeedMax, SpeedMax)
	OpacityMin float64 `yaml:"opacityMin"`
	OpacityMax float64 `yaml:"opacityMax"`
}

// CarouselConfig 轮播图配置
type CarouselConfig struct {
	Images []string `yaml:"images"`
	Label  string   `yaml:"label"`
}

// AudioConfig 背景音乐配置
type AudioConfig struct {
	Track      string  `yaml:"track"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sampleRate"`
	// EligibleStages 进入这些阶段时尝试播放（阶段名见 stage.Stage.String）
	EligibleStages []string `yaml:"eligibleStages"`
}

// TextConfig 页面文案
type TextConfig struct {
	GiftTitle    string   `yaml:"giftTitle"`
	GiftSubtitle string   `yaml:"giftSubtitle"`
	GiftHint     string   `yaml:"giftHint"`
	LetterHeader string   `yaml:"letterHeader"`
	LetterBody   []string `yaml:"letterBody"`
	LetterHint   string   `yaml:"letterHint"`
	MainTitle    string   `yaml:"mainTitle"`
	MainDate     string   `yaml:"mainDate"`
}

// DefaultGreetingConfig 返回默认配置
func DefaultGreetingConfig() *GreetingConfig {
	eligible := make([]string, 0, len(stage.All()))
	for _, s := range stage.All() {
		eligible = append(eligible, s.String())
	}

	return &GreetingConfig{
		Window: WindowConfig{
			Width:  1280,
			Height: 800,
			Title:  "Happy Valentine's Day",
		},
		Timing: TimingConfig{
			GiftOpeningMs:      1500,
			LetterRevealMs:     500,
			TypingMs:           13500,
			TypingRevealMs:     13000,
			LetterConfirmMs:    500,
			CarouselIntervalMs: 3000,
		},
		Particles: ParticleConfig{
			Count:      150,
			RadiusMin:  0.5,
			RadiusMax:  2.5,
			SpeedMax:   0.15,
			OpacityMin: 0.3,
			OpacityMax: 0.8,
		},
		Carousel: CarouselConfig{
			Images: []string{
				"assets/images/1.jpeg",
				"assets/images/2.jpeg",
				"assets/images/3.jpeg",
				"assets/images/4.jpeg",
				"assets/images/5.jpeg",
			},
			Label: "Mai ben nhau nhe",
		},
		Audio: AudioConfig{
			Track:          "assets/audio/music2.mp3",
			Volume:         0.8,
			SampleRate:     48000,
			EligibleStages: eligible,
		},
		Text: TextConfig{
			GiftTitle:    "Danh tang em",
			GiftSubtitle: "Click vao hop qua de mo nhe!",
			GiftHint:     "Click here",
			LetterHeader: "Gui em yeu cua anh",
			LetterBody: []string{
				"Chuc em luon xinh dep, luon vui ve, luon hanh phuc!",
				"Cam on em da den ben anh, lam cuoc doi anh them y nghia.",
				"Moi ngay ben em deu la nhung khoanh khac dang tran trong nhat.",
				"Happy Valentine's Day! Yeu em nhieu lam",
			},
			LetterHint: "Click de tiep tuc",
			MainTitle:  "Happy Valentine's Day",
			MainDate:   "luuv 14",
		},
	}
}

// ParseGreetingConfig 解析 YAML 配置并校验
// 数据中未出现的字段保留默认值。
func ParseGreetingConfig(data []byte) (*GreetingConfig, error) {
	cfg := DefaultGreetingConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse greeting config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadGreetingConfig 从文件加载配置
//
// 参数:
//   - path: 配置文件路径（如 "data/greeting.yaml"）
func LoadGreetingConfig(path string) (*GreetingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read greeting config: %w", err)
	}
	cfg, err := ParseGreetingConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate 校验配置合法性
func (c *GreetingConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}

	t := c.Timing
	// 按文件中的字段顺序检查，多个字段同时出错时总是报告第一个
	durations := []struct {
		name  string
		value int
	}{
		{"giftOpeningMs", t.GiftOpeningMs},
		{"letterRevealMs", t.LetterRevealMs},
		{"typingMs", t.TypingMs},
		{"typingRevealMs", t.TypingRevealMs},
		{"letterConfirmMs", t.LetterConfirmMs},
		{"carouselIntervalMs", t.CarouselIntervalMs},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%w: timing.%s must be positive, got %d", ErrInvalidConfig, d.name, d.value)
		}
	}
	// 文字打完之前信纸必须已经展开，否则信件点击门控永远无法满足
	if t.TypingMs < t.LetterRevealMs {
		return fmt.Errorf("%w: timing.typingMs (%d) must not be shorter than timing.letterRevealMs (%d)",
			ErrInvalidConfig, t.TypingMs, t.LetterRevealMs)
	}
	if t.TypingRevealMs > t.TypingMs {
		return fmt.Errorf("%w: timing.typingRevealMs (%d) must not exceed timing.typingMs (%d)",
			ErrInvalidConfig, t.TypingRevealMs, t.TypingMs)
	}

	p := c.Particles
	if p.Count <= 0 {
		return fmt.Errorf("%w: particles.count must be positive, got %d", ErrInvalidConfig, p.Count)
	}
	if p.RadiusMin <= 0 || p.RadiusMax <= p.RadiusMin {
		return fmt.Errorf("%w: particles radius range [%g, %g) is invalid", ErrInvalidConfig, p.RadiusMin, p.RadiusMax)
	}
	if p.SpeedMax < 0 {
		return fmt.Errorf("%w: particles.speedMax must not be negative, got %g", ErrInvalidConfig, p.SpeedMax)
	}
	if p.OpacityMin < 0 || p.OpacityMax > 1 || p.OpacityMax <= p.OpacityMin {
		return fmt.Errorf("%w: particles opacity range [%g, %g) is invalid", ErrInvalidConfig, p.OpacityMin, p.OpacityMax)
	}

	if len(c.Carousel.Images) == 0 {
		return fmt.Errorf("%w: carousel.images must not be empty", ErrInvalidConfig)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume must be within [0, 1], got %g", ErrInvalidConfig, c.Audio.Volume)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sampleRate must be positive, got %d", ErrInvalidConfig, c.Audio.SampleRate)
	}
	if _, err := c.Audio.Stages(); err != nil {
		return fmt.Errorf("%w: audio.eligibleStages: %v", ErrInvalidConfig, err)
	}

	return nil
}

// StageTimings 转换为状态机使用的时长
func (t TimingConfig) StageTimings() stage.Timings {
	return stage.Timings{
		GiftOpening:   msToDuration(t.GiftOpeningMs),
		LetterReveal:  msToDuration(t.LetterRevealMs),
		Typing:        msToDuration(t.TypingMs),
		LetterConfirm: msToDuration(t.LetterConfirmMs),
	}
}

// CarouselInterval 返回轮播间隔
func (t TimingConfig) CarouselInterval() time.Duration {
	return msToDuration(t.CarouselIntervalMs)
}

// TypingReveal 返回逐字显示动画时长
func (t TimingConfig) TypingReveal() time.Duration {
	return msToDuration(t.TypingRevealMs)
}

// Stages 解析允许自动播放的阶段
func (a AudioConfig) Stages() ([]stage.Stage, error) {
	stages := make([]stage.Stage, 0, len(a.EligibleStages))
	for _, name := range a.EligibleStages {
		s, err := stage.Parse(name)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

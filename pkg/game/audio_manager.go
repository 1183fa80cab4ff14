package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// ErrAutoplayBlocked 平台拒绝在用户交互之前播放音频
var ErrAutoplayBlocked = errors.New("autoplay blocked")

// Track 循环音轨需要的最小接口，*audio.Player 满足此接口
type Track interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
}

// AudioManager 背景音乐管理器
// 职责：
//   - 持有整个会话唯一的循环音轨（创建一次，阶段切换时不重置、不重新加载）
//   - 播放前检查音频上下文是否已被平台允许
//   - 实现 Player 接口，供 AutoplayBridge 调用
//
// 在浏览器中，audio.Context 在首次用户交互之前处于未就绪状态，
// 此时 Play 返回 ErrAutoplayBlocked，由 AutoplayBridge 负责回退到手势监听。
type AudioManager struct {
	track  Track       // 循环音轨
	ready  func() bool // 音频上下文是否已就绪
	volume float64     // 音量 (0.0 ~ 1.0)
	played bool        // 是否已经开始过播放
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: ResourceManager 实例（用于加载音轨）
//   - path: 音轨路径（如 "assets/audio/music2.mp3"）
//   - volume: 音量 (0.0 ~ 1.0)
//
// 返回：
//   - *AudioManager: 音频管理器实例
//   - error: 音频上下文不可用或音轨加载失败
func NewAudioManager(rm *ResourceManager, path string, volume float64) (*AudioManager, error) {
	ctx := rm.AudioContext()
	if ctx == nil {
		return nil, fmt.Errorf("failed to create audio manager: %w", ErrNoAudioContext)
	}

	player, err := rm.LoadMusic(path)
	if err != nil {
		return nil, err
	}

	log.Printf("[AudioManager] Loaded track: %s (volume: %.2f)", path, volume)
	return newAudioManager(player, ctx.IsReady, volume), nil
}

func newAudioManager(track Track, ready func() bool, volume float64) *AudioManager {
	return &AudioManager{
		track:  track,
		ready:  ready,
		volume: volume,
	}
}

// Play 开始或继续播放
// 已经在播放时直接返回 nil；音频上下文未就绪时返回 ErrAutoplayBlocked。
func (am *AudioManager) Play() error {
	if am.track.IsPlaying() {
		return nil
	}
	if am.ready != nil && !am.ready() {
		return ErrAutoplayBlocked
	}

	am.track.SetVolume(am.volume)
	am.track.Play()

	if !am.played {
		am.played = true
		log.Printf("[AudioManager] Playing track (volume: %.2f)", am.volume)
	} else {
		log.Printf("[AudioManager] Resumed track")
	}
	return nil
}

// IsPlaying 返回音轨是否正在播放
func (am *AudioManager) IsPlaying() bool {
	return am.track.IsPlaying()
}

// Pause 暂停音轨（保留播放位置）
func (am *AudioManager) Pause() {
	if am.track.IsPlaying() {
		am.track.Pause()
	}
}

// Volume 返回当前音量
func (am *AudioManager) Volume() float64 {
	return am.volume
}

// SetVolume 设置音量并立即应用到音轨
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)，越界时截断
func (am *AudioManager) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	am.volume = volume
	am.track.SetVolume(volume)
}

// Close 停止播放
// 底层播放器属于 ResourceManager 的缓存，这里只暂停不释放。
func (am *AudioManager) Close() {
	am.Pause()
}

var _ Track = (*audio.Player)(nil)

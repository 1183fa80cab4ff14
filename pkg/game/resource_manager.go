package game

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrNoAudioContext 未提供音频上下文时无法创建播放器
var ErrNoAudioContext = errors.New("no audio context")

// ResourceManager is responsible for centralized management of greeting assets.
// It provides loading and caching for the carousel images, the background
// track and the text faces, so every asset is decoded only once per session.
//
// Asset delivery is external to the greeting: a missing or corrupted file is
// returned as an error and the caller degrades (placeholder panel, silence).
//
// Thread Safety Note:
// This implementation is NOT thread-safe. For the single-threaded game loop,
// no synchronization is needed.
//
// Usage:
//
//	audioContext := audio.NewContext(48000)
//	rm := NewResourceManager(audioContext, nil)
//	img, err := rm.LoadImage("assets/images/1.jpeg")
//	if err != nil {
//	    log.Printf("Failed to load image: %v", err)
//	}
type ResourceManager struct {
	fsys          fs.FS                        // Asset file system (working directory by default)
	audioContext  *audio.Context               // Global audio context for audio decoding
	imageCache    map[string]*ebiten.Image     // Cache for loaded images: path -> Image
	musicCache    map[string]*audio.Player     // Cache for looping players: path -> Player
	faceSource    *text.GoTextFaceSource       // Built-in font source (Go Regular)
	fontFaceCache map[float64]*text.GoTextFace // Cache for text faces: size -> face
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - audioContext: The global audio context; may be nil when audio is unavailable.
//   - fsys: The file system assets are read from; nil means the working directory.
func NewResourceManager(audioContext *audio.Context, fsys fs.FS) *ResourceManager {
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	return &ResourceManager{
		fsys:          fsys,
		audioContext:  audioContext,
		imageCache:    make(map[string]*ebiten.Image),
		musicCache:    make(map[string]*audio.Player),
		fontFaceCache: make(map[float64]*text.GoTextFace),
	}
}

// AudioContext returns the audio context (nil when audio is unavailable).
func (rm *ResourceManager) AudioContext() *audio.Context {
	return rm.audioContext
}

// LoadImage loads an image file from the specified path and caches it for future use.
// If the image has already been loaded, it returns the cached version.
// Supported formats: PNG and JPEG.
func (rm *ResourceManager) LoadImage(p string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[p]; exists {
		return cachedImage, nil
	}

	img, err := decodeImage(rm.fsys, p)
	if err != nil {
		return nil, err
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[p] = ebitenImg
	return ebitenImg, nil
}

// decodeImage reads and decodes an image without touching the GPU.
func decodeImage(fsys fs.FS, p string) (image.Image, error) {
	data, err := fs.ReadFile(fsys, cleanPath(p))
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", p, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", p, err)
	}
	return img, nil
}

// LoadMusic loads a track and wraps it in an infinite loop.
// The same player is returned for every call with the same path, so the
// track is instantiated once and never reloaded.
// Supported formats: MP3 (.mp3) and OGG Vorbis (.ogg).
func (rm *ResourceManager) LoadMusic(p string) (*audio.Player, error) {
	if cachedPlayer, exists := rm.musicCache[p]; exists {
		return cachedPlayer, nil
	}
	if rm.audioContext == nil {
		return nil, fmt.Errorf("failed to load music %s: %w", p, ErrNoAudioContext)
	}

	stream, err := decodeAudio(rm.fsys, p)
	if err != nil {
		return nil, err
	}

	// Wrap the stream in an infinite loop for background music
	loopStream := audio.NewInfiniteLoop(stream, stream.Length())

	player, err := rm.audioContext.NewPlayer(loopStream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", p, err)
	}

	rm.musicCache[p] = player
	return player, nil
}

// audioStream 解码后的音频流
type audioStream interface {
	io.ReadSeeker
	Length() int64
}

func decodeAudio(fsys fs.FS, p string) (audioStream, error) {
	// Read the entire file into memory so the stream can seek without an open file
	audioData, err := fs.ReadFile(fsys, cleanPath(p))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", p, err)
	}
	reader := bytes.NewReader(audioData)

	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".mp3":
		decodedStream, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", p, err)
		}
		return decodedStream, nil
	case ".ogg":
		decodedStream, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", p, err)
		}
		return decodedStream, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg)", ext)
	}
}

// Face returns the built-in text face at the given size.
// The Go Regular font is compiled into the binary, so no font asset is shipped.
func (rm *ResourceManager) Face(size float64) (*text.GoTextFace, error) {
	if face, exists := rm.fontFaceCache[size]; exists {
		return face, nil
	}

	if rm.faceSource == nil {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source: %w", err)
		}
		rm.faceSource = source
	}

	face := &text.GoTextFace{
		Source:    rm.faceSource,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[size] = face
	return face, nil
}

// cleanPath 将资源路径转换为 fs.FS 可接受的形式（无前导 "./" 或 "/"）
func cleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return path.Clean(p)
}

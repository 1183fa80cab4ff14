package systems

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Canvas 粒子绘制表面
//
// 粒子层独立于页面内容，每帧清空后重绘，再由场景合成到屏幕上。
type Canvas interface {
	// Clear 清空为全透明
	Clear()
	// FillCircle 绘制实心圆
	FillCircle(cx, cy, radius float32, clr color.Color)
	// Resize 调整表面尺寸（内容丢弃）
	Resize(width, height int) error
	// Size 返回当前尺寸
	Size() (int, int)
}

// ImageCanvas 基于离屏 ebiten.Image 的绘制表面
type ImageCanvas struct {
	image *ebiten.Image
}

// NewImageCanvas 创建指定尺寸的离屏表面
// 尺寸非法时返回错误（调用方应退化为不绘制粒子）。
func NewImageCanvas(width, height int) (*ImageCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	return &ImageCanvas{image: ebiten.NewImage(width, height)}, nil
}

// Image 返回底层图像，用于合成到屏幕
func (c *ImageCanvas) Image() *ebiten.Image {
	return c.image
}

// Clear 清空画布
func (c *ImageCanvas) Clear() {
	c.image.Clear()
}

// FillCircle 使用抗锯齿绘制实心圆
func (c *ImageCanvas) FillCircle(cx, cy, radius float32, clr color.Color) {
	vector.DrawFilledCircle(c.image, cx, cy, radius, clr, true)
}

// Resize 重新分配离屏图像
func (c *ImageCanvas) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	w, h := c.Size()
	if w == width && h == height {
		return nil
	}
	c.image.Deallocate()
	c.image = ebiten.NewImage(width, height)
	return nil
}

// Size 返回画布尺寸
func (c *ImageCanvas) Size() (int, int) {
	b := c.image.Bounds()
	return b.Dx(), b.Dy()
}

package scenes

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/valentine/pkg/stage"
	"github.com/decker502/valentine/pkg/systems"
	"github.com/decker502/valentine/pkg/utils"
)

var (
	colorBackground  = color.RGBA{R: 0x3a, G: 0x0d, B: 0x24, A: 0xff}
	colorText        = color.RGBA{R: 0xff, G: 0xf0, B: 0xf5, A: 0xff}
	colorHint        = color.RGBA{R: 0xff, G: 0xc2, B: 0xd6, A: 0xff}
	colorInk         = color.RGBA{R: 0x5a, G: 0x1e, B: 0x32, A: 0xff}
	colorGiftBody    = color.RGBA{R: 0xe6, G: 0x39, B: 0x6b, A: 0xff}
	colorGiftLid     = color.RGBA{R: 0xf0, G: 0x5a, B: 0x85, A: 0xff}
	colorRibbon      = color.RGBA{R: 0xff, G: 0xd7, B: 0x5e, A: 0xff}
	colorPaper       = color.RGBA{R: 0xff, G: 0xfa, B: 0xf3, A: 0xff}
	colorEnvelope    = color.RGBA{R: 0xf4, G: 0xa6, B: 0xbd, A: 0xff}
	colorEnvelopeHi  = color.RGBA{R: 0xfb, G: 0xc8, B: 0xd7, A: 0xff}
	colorHeart       = color.RGBA{R: 0xff, G: 0x4d, B: 0x7d, A: 0xff}
	colorFrame       = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorPlaceholder = color.RGBA{R: 0x7a, G: 0x2a, B: 0x4a, A: 0xff}
)

const (
	// letterUnfold 信纸展开动画时长（秒）
	letterUnfold = 0.6
	// heartDots 心形光环上的点数
	heartDots = 120
	// debugGlyphWidth 调试字体每个字符的宽度
	debugGlyphWidth = 6
)

// Draw 绘制背景、粒子层和当前阶段的页面
func (s *GreetingScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	s.particles.Draw()
	if ic, ok := s.particles.Canvas().(*systems.ImageCanvas); ok && ic != nil {
		screen.DrawImage(ic.Image(), nil)
	}

	switch s.controller.Stage() {
	case stage.GiftClosed, stage.GiftOpening:
		s.drawGiftPage(screen)
	case stage.LetterVisible, stage.LetterOpen:
		s.drawLetterPage(screen)
	case stage.Opened:
		s.drawMainPage(screen)
	}
}

// ========== 礼物页 ==========

func (s *GreetingScene) drawGiftPage(screen *ebiten.Image) {
	l := s.layout
	cx := float64(l.Width) / 2
	top := float64(l.Gift.Min.Y)

	s.drawText(screen, s.cfg.Text.GiftTitle, s.titleFace, cx, top-130, text.AlignCenter, colorText)
	s.drawText(screen, s.cfg.Text.GiftSubtitle, s.bodyFace, cx, top-70, text.AlignCenter, colorHint)

	lift, alpha := 0.0, 1.0
	if s.controller.Stage() == stage.GiftOpening {
		total := s.cfg.Timing.StageTimings().GiftOpening.Seconds()
		p := utils.Progress(s.stageElapsed().Seconds(), total)
		// 盒盖弹起时略微越过最高点再落回
		lift = utils.EaseOutBack(p) * float64(l.Gift.Dy()) * 0.6
		alpha = 1 - utils.EaseOutCubic(p)
	}
	drawGiftBox(screen, l.Gift, lift, alpha)

	if s.controller.Stage() == stage.GiftClosed {
		blink := 0.5 + 0.5*utils.Pulse(s.clock, 1.6)
		s.drawText(screen, s.cfg.Text.GiftHint, s.hintFace, cx, float64(l.GiftHint.Min.Y), text.AlignCenter, withAlpha(colorHint, blink))
	}
}

// drawGiftBox 绘制礼物盒：盒身、盒盖、丝带和蝴蝶结
// lift 为盒盖上移的像素，alpha 为整体透明度。
func drawGiftBox(screen *ebiten.Image, r image.Rectangle, lift, alpha float64) {
	if alpha <= 0 {
		return
	}
	x, y := float32(r.Min.X), float32(r.Min.Y)
	w, h := float32(r.Dx()), float32(r.Dy())

	bodyTop := y + h*0.3
	bodyH := h - h*0.3
	vector.DrawFilledRect(screen, x, bodyTop, w, bodyH, withAlpha(colorGiftBody, alpha), true)
	vector.DrawFilledRect(screen, x+w*0.44, bodyTop, w*0.12, bodyH, withAlpha(colorRibbon, alpha), true)

	lidH := h * 0.18
	lidY := bodyTop - lidH - float32(lift)
	vector.DrawFilledRect(screen, x-w*0.05, lidY, w*1.1, lidH, withAlpha(colorGiftLid, alpha), true)
	vector.DrawFilledRect(screen, x+w*0.44, lidY, w*0.12, lidH, withAlpha(colorRibbon, alpha), true)

	bowR := w * 0.1
	vector.DrawFilledCircle(screen, x+w*0.5-bowR, lidY-bowR*0.6, bowR, withAlpha(colorRibbon, alpha), true)
	vector.DrawFilledCircle(screen, x+w*0.5+bowR, lidY-bowR*0.6, bowR, withAlpha(colorRibbon, alpha), true)
	vector.DrawFilledCircle(screen, x+w*0.5, lidY-bowR*0.4, bowR*0.5, withAlpha(colorGiftLid, alpha), true)
}

// ========== 信件页 ==========

func (s *GreetingScene) drawLetterPage(screen *ebiten.Image) {
	l := s.layout
	env := l.Envelope

	// 信封背面
	vector.DrawFilledRect(screen, float32(env.Min.X), float32(env.Min.Y), float32(env.Dx()), float32(env.Dy()), colorEnvelope, true)

	// 信纸从信封中升起
	open := 0.0
	if s.controller.Stage() == stage.LetterOpen {
		open = utils.EaseOutCubic(utils.Progress(s.stageElapsed().Seconds(), letterUnfold))
	}
	peek := 60.0
	paperTop := utils.Lerp(float64(env.Min.Y)-peek, float64(l.Letter.Min.Y), open)
	paperBottom := utils.Lerp(float64(env.Min.Y)+20, float64(l.Letter.Max.Y), open)
	paper := image.Rect(l.Letter.Min.X, int(paperTop), l.Letter.Max.X, int(paperBottom))
	vector.DrawFilledRect(screen, float32(paper.Min.X), float32(paper.Min.Y), float32(paper.Dx()), float32(paper.Dy()), colorPaper, true)

	// 信纸内容裁剪到信纸范围内
	if clip := paper.Intersect(screen.Bounds()); !clip.Empty() {
		sub := screen.SubImage(clip).(*ebiten.Image)
		s.drawLetterText(sub, paper)
	}

	// 信封正面口袋，信纸完全展开后不再遮挡
	if open < 1 {
		front := env.Min.Y + env.Dy()/3
		vector.DrawFilledRect(screen, float32(env.Min.X), float32(front), float32(env.Dx()), float32(env.Max.Y-front), withAlpha(colorEnvelopeHi, 1-open), true)
		vector.StrokeLine(screen, float32(env.Min.X), float32(front), float32(env.Min.X+env.Dx()/2), float32(env.Max.Y-8), 2, withAlpha(colorEnvelope, 1-open), true)
		vector.StrokeLine(screen, float32(env.Max.X), float32(front), float32(env.Min.X+env.Dx()/2), float32(env.Max.Y-8), 2, withAlpha(colorEnvelope, 1-open), true)
	}

	if s.controller.TypingComplete() && !s.controller.OpenPending() {
		blink := 0.5 + 0.5*utils.Pulse(s.clock, 1.6)
		cx := float64(l.Width) / 2
		s.drawText(screen, s.cfg.Text.LetterHint, s.hintFace, cx, float64(l.LetterHint.Min.Y), text.AlignCenter, withAlpha(colorHint, blink))
	}
}

// drawLetterText 绘制信头和逐字显示的正文
func (s *GreetingScene) drawLetterText(dst *ebiten.Image, paper image.Rectangle) {
	const padding = 24
	x := float64(paper.Min.X + padding)
	y := float64(paper.Min.Y + padding)

	s.drawText(dst, s.cfg.Text.LetterHeader, s.bodyFace, x, y, text.AlignStart, colorInk)
	y += lineHeight(s.bodyFace) * 1.6

	for _, line := range s.revealedLetter(paper.Dx() - 2*padding) {
		if line != "" {
			s.drawText(dst, line, s.bodyFace, x, y, text.AlignStart, colorInk)
		}
		y += lineHeight(s.bodyFace)
	}
}

// ========== 最终页 ==========

func (s *GreetingScene) drawMainPage(screen *ebiten.Image) {
	l := s.layout
	cx := float64(l.Width) / 2

	// 淡入
	fade := utils.Progress(s.stageElapsed().Seconds(), 0.8)

	s.drawText(screen, s.cfg.Text.MainTitle, s.titleFace, cx, 40, text.AlignCenter, withAlpha(colorText, fade))
	s.drawText(screen, s.cfg.Text.MainDate, s.bodyFace, cx, 96, text.AlignCenter, withAlpha(colorHint, fade))

	s.drawHeartRing(screen, fade)
	s.drawCarousel(screen, fade)
}

// drawHeartRing 沿心形曲线绘制一圈跳动的点
//
//	x = 16 sin³t
//	y = 13 cos t - 5 cos 2t - 2 cos 3t - cos 4t
func (s *GreetingScene) drawHeartRing(screen *ebiten.Image, alpha float64) {
	l := s.layout
	scale := l.HeartScale * (1 + 0.06*utils.Pulse(s.clock, 1.2))
	cx, cy := float64(l.HeartCenter.X), float64(l.HeartCenter.Y)

	for i := 0; i < heartDots; i++ {
		t := 2 * math.Pi * float64(i) / heartDots
		sin := math.Sin(t)
		hx := 16 * sin * sin * sin
		hy := 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)

		// 每个点错开相位闪烁
		twinkle := 0.6 + 0.4*utils.Pulse(s.clock+float64(i)*0.05, 2)
		vector.DrawFilledCircle(screen, float32(cx+hx*scale), float32(cy-hy*scale), 2.5, withAlpha(colorHeart, alpha*twinkle), true)
	}
}

// drawCarousel 绘制当前轮播图片（缺失时显示编号占位面板）和说明文字
func (s *GreetingScene) drawCarousel(screen *ebiten.Image, alpha float64) {
	box := s.layout.Carousel
	bx, by := float32(box.Min.X), float32(box.Min.Y)
	bw, bh := float32(box.Dx()), float32(box.Dy())

	vector.DrawFilledRect(screen, bx-6, by-6, bw+12, bh+12, withAlpha(colorFrame, alpha), true)

	index := s.carousel.Index()
	var img *ebiten.Image
	if index >= 0 && index < len(s.images) {
		img = s.images[index]
	}

	if img == nil {
		vector.DrawFilledRect(screen, bx, by, bw, bh, withAlpha(colorPlaceholder, alpha), true)
		s.drawText(screen, fmt.Sprintf("%d", index+1), s.titleFace, float64(box.Min.X+box.Dx()/2), float64(box.Min.Y+box.Dy()/2)-20, text.AlignCenter, withAlpha(colorText, alpha))
	} else {
		iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
		fit := math.Min(float64(box.Dx())/float64(iw), float64(box.Dy())/float64(ih))
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(fit, fit)
		op.GeoM.Translate(
			float64(box.Min.X)+(float64(box.Dx())-float64(iw)*fit)/2,
			float64(box.Min.Y)+(float64(box.Dy())-float64(ih)*fit)/2,
		)
		op.ColorScale.ScaleAlpha(float32(alpha))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}

	s.drawText(screen, s.cfg.Carousel.Label, s.bodyFace, float64(box.Min.X+box.Dx()/2), float64(box.Max.Y+16), text.AlignCenter, withAlpha(colorHint, alpha))
}

// ========== 工具函数 ==========

// drawText 绘制文字；没有字体时退化为调试字体
func (s *GreetingScene) drawText(dst *ebiten.Image, str string, face *text.GoTextFace, x, y float64, align text.Align, clr color.Color) {
	if str == "" {
		return
	}
	if face == nil {
		w := debugMeasure(str)
		switch align {
		case text.AlignCenter:
			x -= w / 2
		case text.AlignEnd:
			x -= w
		}
		ebitenutil.DebugPrintAt(dst, str, int(x), int(y))
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = align
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, str, face, op)
}

func lineHeight(face *text.GoTextFace) float64 {
	if face == nil {
		return 16
	}
	return face.Size * 1.5
}

// debugMeasure 调试字体的文字宽度
func debugMeasure(str string) float64 {
	return float64(utf8.RuneCountInString(str) * debugGlyphWidth)
}

// withAlpha 返回按透明度缩放后的预乘颜色
func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	a := utils.Clamp01(alpha)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

package scenes

import (
	"image"
	"math"
)

// greetingLayout 页面元素在当前视口中的位置（逻辑像素）
// 每帧根据视口尺寸重新计算，窗口缩放后点击区域随之移动。
type greetingLayout struct {
	Width, Height int

	// 礼物页
	Gift     image.Rectangle // 礼物盒（含盒盖），可点击
	GiftHint image.Rectangle

	// 信件页
	Envelope   image.Rectangle
	Letter     image.Rectangle // 展开后的信纸，可点击
	LetterHint image.Rectangle // 可点击

	// 最终页
	HeartCenter image.Point
	HeartScale  float64 // 心形曲线的缩放系数（曲线原始宽度约 32）
	Carousel    image.Rectangle
}

func computeLayout(width, height int) greetingLayout {
	l := greetingLayout{Width: width, Height: height}
	cx, cy := width/2, height/2

	giftSize := clampInt(min(width, height)/3, 120, 220)
	l.Gift = image.Rect(cx-giftSize/2, cy-giftSize/2+20, cx+giftSize/2, cy+giftSize/2+20)
	l.GiftHint = image.Rect(cx-90, l.Gift.Max.Y+24, cx+90, l.Gift.Max.Y+56)

	letterW := clampInt(width-48, 200, 640)
	letterH := clampInt(height-200, 160, 440)
	l.Letter = image.Rect(cx-letterW/2, cy-letterH/2-20, cx+letterW/2, cy+letterH/2-20)
	l.Envelope = image.Rect(l.Letter.Min.X-12, l.Letter.Max.Y-letterH/3, l.Letter.Max.X+12, l.Letter.Max.Y+40)
	l.LetterHint = image.Rect(cx-120, l.Envelope.Max.Y+16, cx+120, l.Envelope.Max.Y+48)

	// 最终页：上半部分标题与心形，下半部分轮播图
	l.HeartCenter = image.Pt(cx, height/4+40)
	l.HeartScale = math.Max(2, float64(min(width, height))/160)
	boxW := clampInt(width-64, 160, 420)
	boxH := boxW * 3 / 4
	top := height/2 + 10
	if top+boxH > height-48 {
		boxH = max(height-48-top, 60)
		boxW = boxH * 4 / 3
	}
	l.Carousel = image.Rect(cx-boxW/2, top, cx+boxW/2, top+boxH)
	return l
}

// hitGift 点击是否落在礼物盒上
func (l greetingLayout) hitGift(x, y int) bool {
	p := image.Pt(x, y)
	return p.In(l.Gift) || p.In(l.GiftHint)
}

// hitLetter 点击是否落在信纸或提示文字上
func (l greetingLayout) hitLetter(x, y int) bool {
	p := image.Pt(x, y)
	return p.In(l.Letter) || p.In(l.LetterHint) || p.In(l.Envelope)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

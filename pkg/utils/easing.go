package utils

import "math"

// Easing Functions (缓动函数)
//
// 缓动函数用于控制动画的速度曲线，使动画看起来更自然。
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值。
//
// 参考：https://easings.net/

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（礼物盒盖弹起、信纸展开）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutSine 正弦缓入缓出
// 特点：两端平缓（心形呼吸、提示文字闪烁）
// 公式：f(t) = -(cos(πt) - 1) / 2
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// EaseOutBack 回弹缓出
// 特点：略微越过终点再回到终点，返回值可能大于 1
// 公式：f(t) = 1 + c3(t-1)³ + c1(t-1)²
func EaseOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 将值截断到 [0, 1]
func Clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

// Progress 返回已用时间占总时长的比例，截断到 [0, 1]
// total 非正时视为已完成。
func Progress(elapsed, total float64) float64 {
	if total <= 0 {
		return 1
	}
	return Clamp01(elapsed / total)
}

// Pulse 周期性脉动，返回值 ∈ [0, 1]
// period 为周期（秒），t 为当前时间（秒）
func Pulse(t, period float64) float64 {
	if period <= 0 {
		return 0
	}
	phase := math.Mod(t, period) / period
	if phase < 0 {
		phase += 1
	}
	// 前半周期上升，后半周期下降
	if phase < 0.5 {
		return EaseInOutSine(phase * 2)
	}
	return EaseInOutSine((1 - phase) * 2)
}

package utils

import (
	"time"
	"unicode/utf8"
)

// RevealText 逐字显示：返回 elapsed 时刻每段已显示的文字
//
// 所有段落共享同一个总时长，按字符（rune）数均匀分配，段落依次显示；
// elapsed >= total 时返回全部文字。返回的切片长度与 paragraphs 相同，
// 尚未开始的段落为空字符串。
func RevealText(paragraphs []string, elapsed, total time.Duration) []string {
	out := make([]string, len(paragraphs))

	totalRunes := 0
	for _, p := range paragraphs {
		totalRunes += utf8.RuneCountInString(p)
	}
	if totalRunes == 0 || elapsed <= 0 {
		return out
	}
	if total <= 0 || elapsed >= total {
		copy(out, paragraphs)
		return out
	}

	shown := int(int64(totalRunes) * int64(elapsed) / int64(total))
	for i, p := range paragraphs {
		n := utf8.RuneCountInString(p)
		if shown >= n {
			out[i] = p
			shown -= n
			continue
		}
		out[i] = firstRunes(p, shown)
		break
	}
	return out
}

// firstRunes 返回 s 的前 n 个字符
func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

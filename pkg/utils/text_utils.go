package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// MeasureFunc 返回一段文字的绘制宽度（像素）
type MeasureFunc func(s string) float64

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
func WrapText(textStr string, font *text.GoTextFace, maxWidth float64) []string {
	if font == nil {
		return []string{textStr}
	}
	return WrapWords(textStr, maxWidth, func(s string) float64 {
		return measureTextWidth(s, font)
	})
}

// WrapWords 按单词换行
//
// 换行规则:
//   - 在空格处断行，行首行尾不保留空格
//   - 单个单词超过最大宽度时按字符强制断行
//   - 空文本或非正宽度时原样返回
func WrapWords(textStr string, maxWidth float64, measure MeasureFunc) []string {
	if textStr == "" || maxWidth <= 0 || measure == nil {
		return []string{textStr}
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(textStr) {
		candidate := word
		if currentLine != "" {
			candidate = currentLine + " " + word
		}
		if measure(candidate) <= maxWidth {
			currentLine = candidate
			continue
		}

		if currentLine != "" {
			lines = append(lines, currentLine)
			currentLine = ""
		}

		// 单词本身超宽：按字符切分
		for measure(word) > maxWidth {
			cut := fitRunes(word, maxWidth, measure)
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		currentLine = word
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	// 全是空白时至少返回一行
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// fitRunes 返回 word 中能放进 maxWidth 的最长前缀的字节长度（至少一个字符）
func fitRunes(word string, maxWidth float64, measure MeasureFunc) int {
	_, first := utf8.DecodeRuneInString(word)
	cut := first
	for pos := range word {
		if pos == 0 {
			continue
		}
		if measure(word[:pos]) > maxWidth {
			break
		}
		cut = pos
	}
	return cut
}

// measureTextWidth 测量文本宽度
func measureTextWidth(textStr string, font *text.GoTextFace) float64 {
	if textStr == "" || font == nil {
		return 0
	}

	// 使用 Measure 方法测量文本尺寸
	width, _ := text.Measure(textStr, font, 0)
	return width
}

// Package stage 定义贺卡的展示阶段及其状态机
package stage

import (
	"errors"
	"fmt"
)

// Stage 当前展示的页面阶段
// 阶段严格单向前进，不存在回退。
type Stage int

const (
	// GiftClosed 礼物盒未打开（初始阶段）
	GiftClosed Stage = iota
	// GiftOpening 礼物盒打开动画中
	GiftOpening
	// LetterVisible 信封出现
	LetterVisible
	// LetterOpen 信纸展开，文字逐字显示
	LetterOpen
	// Opened 最终页面（终止阶段）
	Opened
)

var stageNames = [...]string{
	GiftClosed:    "GiftClosed",
	GiftOpening:   "GiftOpening",
	LetterVisible: "LetterVisible",
	LetterOpen:    "LetterOpen",
	Opened:        "Opened",
}

// ErrInvalidTransition 非法的阶段切换
var ErrInvalidTransition = errors.New("stage: invalid transition")

// ErrUnknownStage 无法识别的阶段名称
var ErrUnknownStage = errors.New("stage: unknown stage")

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Valid 返回阶段值是否在定义范围内
func (s Stage) Valid() bool {
	return s >= GiftClosed && s <= Opened
}

// Terminal 返回是否为终止阶段
func (s Stage) Terminal() bool {
	return s == Opened
}

// All 按顺序返回全部阶段
func All() []Stage {
	return []Stage{GiftClosed, GiftOpening, LetterVisible, LetterOpen, Opened}
}

// Next 返回下一个阶段；终止阶段返回 false
func Next(s Stage) (Stage, bool) {
	if !s.Valid() || s.Terminal() {
		return s, false
	}
	return s + 1, true
}

// Parse 根据名称解析阶段（区分大小写，与 String 输出一致）
func Parse(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return GiftClosed, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// ValidateTransition 校验 from → to 是否为合法的单步前进
func ValidateTransition(from, to Stage) error {
	next, ok := Next(from)
	if !ok || !to.Valid() || next != to {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}
	return nil
}

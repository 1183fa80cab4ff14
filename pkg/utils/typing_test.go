package utils

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestRevealTextBoundaries(t *testing.T) {
	paragraphs := []string{"abcd", "efgh"}
	total := 8 * time.Second

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected []string
	}{
		{"未开始", 0, []string{"", ""}},
		{"负值", -time.Second, []string{"", ""}},
		{"第一段进行中", 3 * time.Second, []string{"abc", ""}},
		{"第一段完成", 4 * time.Second, []string{"abcd", ""}},
		{"第二段进行中", 5500 * time.Millisecond, []string{"abcd", "e"}},
		{"完成", total, []string{"abcd", "efgh"}},
		{"超时", 20 * time.Second, []string{"abcd", "efgh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RevealText(paragraphs, tt.elapsed, total)
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("RevealText(%v) = %q, 期望 %q", tt.elapsed, got, tt.expected)
			}
		})
	}
}

func TestRevealTextIsMonotonic(t *testing.T) {
	paragraphs := []string{"Chúc em luôn xinh đẹp", "Happy Valentine's Day!"}
	total := 13 * time.Second

	prev := 0
	for ms := 0; ms <= 13000; ms += 100 {
		got := RevealText(paragraphs, time.Duration(ms)*time.Millisecond, total)
		n := 0
		for i, s := range got {
			if !strings.HasPrefix(paragraphs[i], s) {
				t.Fatalf("paragraph %d: %q is not a prefix of %q", i, s, paragraphs[i])
			}
			if !utf8.ValidString(s) {
				t.Fatalf("paragraph %d cut inside a rune: %q", i, s)
			}
			n += utf8.RuneCountInString(s)
		}
		if n < prev {
			t.Fatalf("revealed text shrank at %dms: %d < %d", ms, n, prev)
		}
		prev = n
	}
}

func TestRevealTextEmpty(t *testing.T) {
	if got := RevealText(nil, time.Second, time.Second); len(got) != 0 {
		t.Errorf("expected empty result, got %q", got)
	}
	got := RevealText([]string{"", ""}, time.Second, 2*time.Second)
	if len(got) != 2 || got[0] != "" || got[1] != "" {
		t.Errorf("expected two empty paragraphs, got %q", got)
	}
}

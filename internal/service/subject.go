package service

import (
	"regexp"
	"strings"
	"unicode"
)

// subjectMaxLen 提取出的责任人名称最大长度（按 rune 计）
const subjectMaxLen = 50

// subjectPattern 匹配 "broken ... by ..." 模式，大小写不敏感
// 捕获组为 by 之后到行尾的内容，分隔符允许空白与常见标点
var subjectPattern = regexp.MustCompile(`(?i)broken[\s:：,，.\-—_*]*by[\s:：,，.\-—_*]*(.+)`)

// ExtractSubject 从报损说明文字中提取责任人名称
// 未命中模式或清洗后为空返回 ok=false
func ExtractSubject(caption string) (string, bool) {
	m := subjectPattern.FindStringSubmatch(caption)
	if m == nil {
		return "", false
	}

	s := m[1]

	// 去掉行尾的标点与消息标记
	s = strings.TrimRight(s, "*_-.,|•!?:;~ \t　！？：；、。")

	// 仅保留字母、数字、空白与 . - '
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			r == '.' || r == '-' || r == '\'' {
			b.WriteRune(r)
		}
	}
	s = b.String()

	// 截断到最大长度
	if runes := []rune(s); len(runes) > subjectMaxLen {
		s = string(runes[:subjectMaxLen])
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// [自证通过] internal/service/subject.go

// Package trigger 实现关卡中的触发区域
//
// 触发区域是带效果标签的轴对齐矩形：出口、水、陷阱、阻挡者力场等。
// Registry 按注册顺序扫描，返回第一个包含查询点且已冷却完毕的区域的效果。
package trigger

import (
	"fmt"
	"strconv"
	"strings"
)

// Effect 触发效果
type Effect int

const (
	// EffectNone 无效果
	EffectNone Effect = iota
	// EffectExit 出口：旅鼠进入退出状态
	EffectExit
	// EffectBlockerLeft 阻挡者左侧力场：朝右的旅鼠转向左
	EffectBlockerLeft
	// EffectBlockerRight 阻挡者右侧力场：朝左的旅鼠转向右
	EffectBlockerRight
	// EffectTrap 陷阱
	EffectTrap
	// EffectDrown 水
	EffectDrown
	// EffectKill 致死（火焰、粉碎机等）
	EffectKill
	// EffectReserved7 保留标签：可以保存和读取，但永远不会触发
	EffectReserved7
	// EffectReserved8 保留标签：可以保存和读取，但永远不会触发
	EffectReserved8
)

var effectNames = map[Effect]string{
	EffectNone:         "none",
	EffectExit:         "exit",
	EffectBlockerLeft:  "blocker-left",
	EffectBlockerRight: "blocker-right",
	EffectTrap:         "trap",
	EffectDrown:        "drown",
	EffectKill:         "kill",
	EffectReserved7:    "reserved-7",
	EffectReserved8:    "reserved-8",
}

// String 返回效果名称；未知效果返回 "effect(N)"
func (e Effect) String() string {
	if name, ok := effectNames[e]; ok {
		return name
	}
	return fmt.Sprintf("effect(%d)", int(e))
}

// Known 判断效果ID是否在已知范围内
func (e Effect) Known() bool {
	_, ok := effectNames[e]
	return ok
}

// Reserved 判断是否为保留标签
func (e Effect) Reserved() bool {
	return e == EffectReserved7 || e == EffectReserved8
}

// Fires 判断该效果是否会被 Resolve 返回
func (e Effect) Fires() bool {
	return e != EffectNone && e.Known() && !e.Reserved()
}

// ParseEffect 解析效果名称或数字ID
// 数字ID即使未知也会原样保留（Resolve 时按 none 处理并输出诊断）
func ParseEffect(s string) (Effect, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return EffectNone, nil
	}
	for e, name := range effectNames {
		if name == s {
			return e, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return EffectNone, fmt.Errorf("negative trigger effect id %d", n)
		}
		return Effect(n), nil
	}
	return EffectNone, fmt.Errorf("unknown trigger effect %q", s)
}

// MarshalText 实现 encoding.TextMarshaler（YAML/JSON 共用）
func (e Effect) MarshalText() ([]byte, error) {
	if e.Known() {
		return []byte(e.String()), nil
	}
	return []byte(strconv.Itoa(int(e))), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (e *Effect) UnmarshalText(text []byte) error {
	parsed, err := ParseEffect(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

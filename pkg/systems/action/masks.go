package action

import (
	"fmt"

	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/terrain"
)

// MaskSet 处理器使用的挖掘模板
//
// 资源中只保存朝右的模板，朝左的由 Mirror 生成。
// 模板的激活单元表示"要挖掉的地面"。
type MaskSet struct {
	bash    [2][]terrain.Mask // [朝向][帧]
	mine    [2][]terrain.Mask
	explode terrain.Mask

	bashReach int // 朝右猛击模板能达到的最远列（相对旅鼠 x，不含）
}

// NewMaskSet 创建模板集合
//
// 参数：
//   - bash: 朝右的猛击模板，4 帧
//   - mine: 朝右的采矿模板，2 帧
//   - explode: 爆炸模板
func NewMaskSet(bash, mine []*terrain.Stencil, explode *terrain.Stencil) (*MaskSet, error) {
	if len(bash) != bashMaskFrameSize {
		return nil, fmt.Errorf("bash mask needs %d frames, got %d", bashMaskFrameSize, len(bash))
	}
	if len(mine) != mineMaskFrameSize {
		return nil, fmt.Errorf("mine mask needs %d frames, got %d", mineMaskFrameSize, len(mine))
	}
	if explode == nil {
		return nil, fmt.Errorf("explode mask is required")
	}

	set := &MaskSet{explode: explode}
	for _, s := range bash {
		if s == nil {
			return nil, fmt.Errorf("bash mask frame is nil")
		}
		set.bash[components.FacingRight] = append(set.bash[components.FacingRight], s)
		set.bash[components.FacingLeft] = append(set.bash[components.FacingLeft], s.Mirror())

		ax, _ := s.Anchor()
		if reach := ax + s.Width(); reach > set.bashReach {
			set.bashReach = reach
		}
	}
	for _, s := range mine {
		if s == nil {
			return nil, fmt.Errorf("mine mask frame is nil")
		}
		set.mine[components.FacingRight] = append(set.mine[components.FacingRight], s)
		set.mine[components.FacingLeft] = append(set.mine[components.FacingLeft], s.Mirror())
	}
	return set, nil
}

// Bash 返回猛击模板
func (m *MaskSet) Bash(facing components.Facing, frame int) terrain.Mask {
	return m.bash[facing][frame]
}

// Mine 返回采矿模板
func (m *MaskSet) Mine(facing components.Facing, frame int) terrain.Mask {
	return m.mine[facing][frame]
}

// Explode 返回爆炸模板
func (m *MaskSet) Explode() terrain.Mask {
	return m.explode
}

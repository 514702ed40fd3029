package equi8

import (
	"lvnet/types"
	"math"
	"math/cmplx"
)

// BuildInjection 构造注入相量
// 中性线注入 Iinj∠0,各相抽取 Iinj/3,相角分别为 0°/-120°/+120°
func BuildInjection(nodeID string, iinj float64) types.Injection {
	iinj = math.Max(0, iinj)
	inj := types.Injection{
		NodeID:  nodeID,
		Neutral: cmplx.Rect(iinj, 0),
	}
	for i, deg := range types.PhaseAngles {
		inj.Phases[i] = cmplx.Rect(-iinj/3, deg*math.Pi/180)
	}
	return inj
}

// Magnitude 注入电流幅值
func Magnitude(inj types.Injection) float64 { return cmplx.Abs(inj.Neutral) }

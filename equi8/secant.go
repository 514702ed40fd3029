package equi8

import (
	"lvnet/types"
	"math"
)

// AdjustSecant 阻尼割线法计算下一次注入电流
// 首次迭代(无历史或电压差无变化)使用比例修正,之后使用割线斜率,
// 单步变化限制在当前值的±20%并乘以阻尼因子,结果限制在 [0, limit]
func AdjustSecant(iinj, achieved, target, iinjPrev, achievedPrev, limit float64) float64 {
	if iinjPrev == 0 || math.Abs(achieved-achievedPrev) < types.SecantEpsilon {
		ratio := 1.0
		if target > 0 {
			ratio = achieved / target
		}
		raw := iinj * (1 + (1-ratio)*types.SecantFirstGain)
		next := iinj + types.SecantDamping*(raw-iinj)
		return clamp(next, limit)
	}
	slope := (achieved - achievedPrev) / (iinj - iinjPrev)
	if math.Abs(slope) < types.SecantEpsilon {
		return clamp(iinj*types.SecantFallbackStep, limit)
	}
	raw := iinj - (achieved-target)/slope
	maxStep := types.SecantMaxStep * math.Abs(iinj)
	delta := math.Max(-maxStep, math.Min(maxStep, raw-iinj))
	return clamp(iinj+types.SecantDamping*delta, limit)
}

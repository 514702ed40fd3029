package equi8

import (
	"lvnet/types"
	"math"
)

// ClampByThermal 按时长等级限制电流
func ClampByThermal(current float64, class types.Duration) types.ThermalClamp {
	if !class.Valid() {
		class = types.DurationPermanent
	}
	limit := class.ThermalLimit()
	return types.ThermalClamp{
		Current: clamp(current, limit),
		Limited: current > limit,
		Limit:   limit,
		Class:   class,
	}
}

// clamp 限制在 [0, limit]
func clamp(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), limit)
}

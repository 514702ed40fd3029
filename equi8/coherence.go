package equi8

import (
	"lvnet/types"
	"math"
)

// ValidateCoherence 比较目标电压和求解得到的电压
// tolerance 不大于0时使用默认值 2V
func ValidateCoherence(cme types.CMEResult, achieved types.PhaseVoltages, tolerance float64) types.Coherence {
	if tolerance <= 0 {
		tolerance = types.CoherenceToleranceV
	}
	res := types.Coherence{Valid: true, Tolerance: tolerance}
	for i := range achieved {
		res.Errors[i] = math.Abs(achieved[i] - cme.UTarget[i])
		if !(res.Errors[i] <= tolerance) {
			res.Valid = false
		}
	}
	return res
}

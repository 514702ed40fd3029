package equi8

import (
	"fmt"
	"lvnet/types"
	"math"

	"github.com/rs/zerolog"
)

// Engine CME 目标计算
type Engine struct {
	Log zerolog.Logger
}

// NewEngine 创建计算引擎
func NewEngine(log zerolog.Logger) *Engine { return &Engine{Log: log} }

var nopEngine = NewEngine(zerolog.Nop())

// ComputeCME 使用静默日志计算目标电压和理论注入电流
func ComputeCME(u types.PhaseVoltages, zph, zn float64) types.CMEResult {
	return nopEngine.ComputeCME(u, zph, zn)
}

// ComputeCME 根据三相电压和等效阻抗计算补偿后的目标电压、目标电压差和理论注入电流
func (e *Engine) ComputeCME(u types.PhaseVoltages, zph, zn float64) types.CMEResult {
	res := types.CMEResult{
		UInit:    u,
		UTarget:  u,
		ZphEff:   math.Max(types.CMEImpedanceFloor, zph),
		ZnEff:    math.Max(types.CMEImpedanceFloor, zn),
		ZphValid: zph >= types.CMEImpedanceFloor,
		ZnValid:  zn >= types.CMEImpedanceFloor,
	}
	res.Umoy = u.Mean()
	res.DeltaUInit = u.Spread()
	// 阻抗下限
	if !res.ZphValid || !res.ZnValid {
		res.Aborted = true
		res.AbortReason = fmt.Sprintf("等效阻抗低于下限 %.2fΩ: Zph=%.4fΩ Zn=%.4fΩ",
			types.CMEImpedanceFloor, zph, zn)
		e.Log.Warn().
			Float64("Zph", zph).
			Float64("Zn", zn).
			Msg("CME 计算中止: 阻抗过低")
		return res
	}
	// 已平衡
	if res.DeltaUInit < types.CMEBalancedSpread {
		res.Balanced = true
		res.DeltaUEQUI8 = res.DeltaUInit
		e.Log.Debug().Float64("deltaU", res.DeltaUInit).Msg("CME 电压已平衡")
		return res
	}
	denom := types.CMEDenomSlope*math.Log(res.ZphEff) + types.CMEDenomOffset
	factor := 2 * res.ZphEff / (res.ZphEff + res.ZnEff)
	res.DeltaUEQUI8 = (1 / denom) * res.DeltaUInit * factor
	for i := range u {
		res.Ratios[i] = (u[i] - res.Umoy) / res.DeltaUInit
		res.UTarget[i] = res.Umoy + res.Ratios[i]*res.DeltaUEQUI8
	}
	res.IEQEst = types.CMECurrentCoef * math.Pow(res.ZphEff, types.CMECurrentExp) * res.DeltaUInit * factor
	e.Log.Debug().
		Str("U", u.String()).
		Float64("Umoy", res.Umoy).
		Float64("deltaU_init", res.DeltaUInit).
		Float64("deltaU_EQUI8", res.DeltaUEQUI8).
		Float64("I_EQ_est", res.IEQEst).
		Str("U_target", res.UTarget.String()).
		Msg("CME 目标")
	return res
}

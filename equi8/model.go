package equi8

import (
	"fmt"
	"lvnet/types"
	"math"

	"github.com/rs/zerolog"
)

// 补偿模型名称
const (
	ModelCME            = "cme"
	ModelRedistribution = "redistribution"
)

// Model 补偿模型
type Model interface {
	Name() string
	Targets(u types.PhaseVoltages, z types.EquivalentImpedances) types.CMEResult
}

// NewModel 按名称创建模型,空名称为 CME
func NewModel(name string, log zerolog.Logger) (Model, error) {
	switch name {
	case "", ModelCME:
		return &CMEModel{Engine: NewEngine(log)}, nil
	case ModelRedistribution:
		return &RedistributionModel{Log: log, Share: DefaultRedistributionShare}, nil
	}
	return nil, fmt.Errorf("未知补偿模型: %s", name)
}

// CMEModel 电流注入模型
type CMEModel struct{ *Engine }

func (m *CMEModel) Name() string { return ModelCME }

// Targets 调用 CME 经验公式
func (m *CMEModel) Targets(u types.PhaseVoltages, z types.EquivalentImpedances) types.CMEResult {
	return m.ComputeCME(u, z.ZphOhm, z.ZnOhm)
}

// DefaultRedistributionShare 负荷转移模型默认削减比例
const DefaultRedistributionShare = 0.5

// RedistributionModel 相间负荷转移模型,仅用于历史结果对比
//
// Deprecated: 已由 CMEModel 取代,生产计算不应使用。
type RedistributionModel struct {
	Log   zerolog.Logger
	Share float64 // 各相偏差削减比例 [0,1]
}

func (m *RedistributionModel) Name() string { return ModelRedistribution }

// Targets 各相偏差按比例向平均值收缩,电流按最大偏差与相阻抗估算
func (m *RedistributionModel) Targets(u types.PhaseVoltages, z types.EquivalentImpedances) types.CMEResult {
	share := math.Min(math.Max(m.Share, 0), 1)
	res := types.CMEResult{
		UInit:    u,
		UTarget:  u,
		Umoy:     u.Mean(),
		ZphEff:   math.Max(types.CMEImpedanceFloor, z.ZphOhm),
		ZnEff:    math.Max(types.CMEImpedanceFloor, z.ZnOhm),
		ZphValid: z.ZphValid,
		ZnValid:  z.ZnValid,
	}
	res.DeltaUInit = u.Spread()
	if res.DeltaUInit < types.CMEBalancedSpread {
		res.Balanced = true
		res.DeltaUEQUI8 = res.DeltaUInit
		return res
	}
	var maxDev float64
	for i := range u {
		dev := u[i] - res.Umoy
		res.Ratios[i] = dev / res.DeltaUInit
		res.UTarget[i] = res.Umoy + dev*(1-share)
		maxDev = math.Max(maxDev, math.Abs(dev))
	}
	res.DeltaUEQUI8 = res.DeltaUInit * (1 - share)
	res.IEQEst = maxDev * share / res.ZphEff
	m.Log.Debug().
		Float64("deltaU_init", res.DeltaUInit).
		Float64("deltaU_target", res.DeltaUEQUI8).
		Float64("I_est", res.IEQEst).
		Msg("负荷转移模型目标")
	return res
}

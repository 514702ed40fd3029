package equi8

import (
	"errors"
	"fmt"
	"lvnet/types"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrSolver 潮流求解失败
var ErrSolver = errors.New("潮流求解失败")

// limitEpsilon 判断电流到达上限的容差
const limitEpsilon = 1e-9

// Calibrator 注入电流标定
type Calibrator struct {
	Log                 zerolog.Logger
	Solver              types.Solver
	Model               Model
	Debug               types.Debug
	Duration            types.Duration // 热限制时长等级
	ToleranceV          float64        // 收敛容差
	MaxIterations       int            // 最大迭代次数
	CoherenceToleranceV float64        // 一致性校验容差
}

// NewCalibrator 创建默认参数的标定器
func NewCalibrator(solver types.Solver, log zerolog.Logger) *Calibrator {
	return &Calibrator{
		Log:                 log,
		Solver:              solver,
		Model:               &CMEModel{Engine: NewEngine(log)},
		Debug:               &types.NopDebug{},
		Duration:            types.DurationPermanent,
		ToleranceV:          types.CMEToleranceV,
		MaxIterations:       types.CMEMaxIterations,
		CoherenceToleranceV: types.CoherenceToleranceV,
	}
}

// impedances 预设阻抗优先
func impedances(comp *types.NeutralCompensator, resolved types.EquivalentImpedances) types.EquivalentImpedances {
	if !comp.HasPresetImpedance() {
		return resolved
	}
	return types.EquivalentImpedances{
		ZphOhm:   comp.ZphOhm,
		ZnOhm:    comp.ZnOhm,
		ZphValid: comp.ZphOhm >= types.CMEImpedanceFloor,
		ZnValid:  comp.ZnOhm >= types.CMEImpedanceFloor,
	}
}

// Calibrate 标定单个补偿器的注入电流
// 领域内的中止状态(阻抗过低、已平衡、未收敛、热限制)通过结果字段返回,
// 仅在潮流求解失败时返回错误,此时结果保留已完成的迭代
func (c *Calibrator) Calibrate(comp types.NeutralCompensator, resolved types.EquivalentImpedances) (types.CalibrationResult, error) {
	log := c.Log.With().Str("compensator", comp.ID).Str("node", comp.NodeID).Logger()
	res := types.CalibrationResult{
		RunID:         uuid.NewString(),
		CompensatorID: comp.ID,
		NodeID:        comp.NodeID,
		Model:         c.Model.Name(),
		ThermalLimit:  ClampByThermal(0, c.Duration).Limit,
	}
	res.CurrentLimit = res.ThermalLimit
	if !comp.Enabled {
		res.Skipped, res.SkipReason = true, "补偿器未启用"
		log.Debug().Msg(res.SkipReason)
		return res, nil
	}
	z := impedances(&comp, resolved)
	res.Impedances = z
	// 无补偿基态
	base, err := c.Solver.Solve()
	if err != nil {
		c.Debug.Error(err)
		return res, fmt.Errorf("%w: 基态: %w", ErrSolver, err)
	}
	u, ok := base.NodeVoltages(comp.NodeID)
	if !ok {
		err = fmt.Errorf("%w: 节点 %s 无电压结果", ErrSolver, comp.NodeID)
		c.Debug.Error(err)
		return res, err
	}
	res.VoltagesInitial, res.VoltagesAchieved = u, u
	if in := base.NeutralCurrent(comp.NodeID); comp.ToleranceA > 0 && in < comp.ToleranceA {
		res.Skipped = true
		res.SkipReason = fmt.Sprintf("中性线电流 %.2fA 低于门槛 %.2fA", in, comp.ToleranceA)
		log.Debug().Msg(res.SkipReason)
		return res, nil
	}
	// 目标
	cme := c.Model.Targets(u, z)
	res.CME = cme
	res.VoltagesTarget = cme.UTarget
	res.DeltaUTarget = cme.DeltaUEQUI8
	res.DeltaUAchieved = cme.DeltaUInit
	res.Residual = cme.DeltaUInit - cme.DeltaUEQUI8
	c.Debug.Init(comp, cme)
	switch {
	case cme.Aborted:
		res.Skipped, res.SkipReason = true, cme.AbortReason
		log.Warn().Str("reason", cme.AbortReason).Msg("补偿中止")
		c.Debug.Finish(res)
		return res, nil
	case cme.Balanced || cme.IEQEst <= 0:
		res.Converged = true
		res.Residual = 0
		res.Coherence = ValidateCoherence(cme, u, c.CoherenceToleranceV)
		c.Debug.Finish(res)
		return res, nil
	}
	// 电流上限
	limit := res.ThermalLimit
	powerBound := false
	if comp.MaxPowerKVA > 0 && cme.Umoy > 0 {
		if p := comp.MaxPowerKVA * 1000 / cme.Umoy; p < limit {
			limit, powerBound = p, true
		}
	}
	res.CurrentLimit = limit
	markLimited := func() {
		if powerBound {
			res.PowerLimited = true
		} else {
			res.ThermalLimited = true
		}
	}
	iinj := clamp(cme.IEQEst, limit)
	if cme.IEQEst > res.ThermalLimit {
		res.ThermalLimited = true
	}
	if cme.IEQEst > limit {
		markLimited()
		log.Info().
			Float64("I_est", cme.IEQEst).
			Float64("limit", limit).
			Bool("power", powerBound).
			Msg("估算电流超出上限")
	}
	var prevI, prevA float64
	for k := 1; k <= c.MaxIterations; k++ {
		sol, err := c.Solver.Solve(BuildInjection(comp.NodeID, iinj))
		if err != nil {
			c.Debug.Error(err)
			return res, fmt.Errorf("%w: 第%d次迭代: %w", ErrSolver, k, err)
		}
		ua, ok := sol.NodeVoltages(comp.NodeID)
		if !ok {
			err = fmt.Errorf("%w: 节点 %s 无电压结果", ErrSolver, comp.NodeID)
			c.Debug.Error(err)
			return res, err
		}
		achieved := ua.Spread()
		it := types.Iteration{
			Index:          k,
			Iinj:           iinj,
			Voltages:       ua,
			DeltaUAchieved: achieved,
			Residual:       achieved - cme.DeltaUEQUI8,
			NeutralCurrent: sol.NeutralCurrent(comp.NodeID),
		}
		res.History = append(res.History, it)
		res.Iterations = k
		res.FinalIinj = iinj
		res.VoltagesAchieved = ua
		res.DeltaUAchieved = achieved
		res.Residual = it.Residual
		c.Debug.Update(it)
		log.Debug().
			Int("iter", k).
			Float64("Iinj", iinj).
			Float64("deltaU", achieved).
			Float64("target", cme.DeltaUEQUI8).
			Float64("residual", it.Residual).
			Msg("标定迭代")
		if math.Abs(it.Residual) <= c.ToleranceV {
			res.Converged = true
			break
		}
		next := AdjustSecant(iinj, achieved, cme.DeltaUEQUI8, prevI, prevA, limit)
		if next >= limit-limitEpsilon {
			markLimited()
			// 已在上限且仍需更大电流
			if iinj >= limit-limitEpsilon {
				log.Info().Float64("limit", limit).Msg("注入电流饱和")
				break
			}
		}
		prevI, prevA = iinj, achieved
		iinj = next
	}
	res.Coherence = ValidateCoherence(cme, res.VoltagesAchieved, c.CoherenceToleranceV)
	if !res.Converged {
		log.Warn().
			Int("iterations", res.Iterations).
			Float64("residual", res.Residual).
			Bool("thermalLimited", res.ThermalLimited).
			Msg("标定未收敛")
	}
	c.Debug.Finish(res)
	return res, nil
}

package lvnet

import (
	"context"
	"errors"
	"fmt"
	"lvnet/config"
	"lvnet/equi8"
	"lvnet/flow"
	"lvnet/types"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownCompensator 补偿器不存在
var ErrUnknownCompensator = errors.New("补偿器不存在")

// Network 低压网络及其补偿器
type Network struct {
	Log    zerolog.Logger
	File   *config.File
	Flow   *flow.Solver
	Solver types.Solver // 标定使用的求解器,默认为 Flow
}

// Load 加载网络描述文件
func Load(filename string, log zerolog.Logger) (*Network, error) {
	f, err := config.Load(filename)
	if err != nil {
		return nil, err
	}
	return New(f, log)
}

// New 由配置构建网络
func New(f *config.File, log zerolog.Logger) (*Network, error) {
	solver, err := flow.NewSolver(f.Topology(), log.With().Str("component", "flow").Logger())
	if err != nil {
		return nil, fmt.Errorf("网络 %s: %w", f.Name, err)
	}
	solver.PhaseVoltage = f.Source.PhaseVoltage
	return &Network{Log: log, File: f, Flow: solver, Solver: solver}, nil
}

// Compensator 查找补偿器
func (n *Network) Compensator(id string) (*types.NeutralCompensator, bool) {
	for i := range n.File.Compensators {
		if n.File.Compensators[i].ID == id {
			return &n.File.Compensators[i], true
		}
	}
	return nil, false
}

// Impedance 节点等效阻抗
func (n *Network) Impedance(nodeID string) types.EquivalentImpedances {
	return n.Flow.Resolve(nodeID)
}

// Calibrator 按配置创建标定器
func (n *Network) Calibrator(debug types.Debug) (*equi8.Calibrator, error) {
	cfg := n.File.Calibration
	log := n.Log.With().Str("component", "equi8").Logger()
	model, err := equi8.NewModel(cfg.Model, log)
	if err != nil {
		return nil, err
	}
	c := equi8.NewCalibrator(n.Solver, log)
	c.Model = model
	c.Duration = cfg.Duration
	c.ToleranceV = cfg.ToleranceV
	c.MaxIterations = cfg.MaxIterations
	c.CoherenceToleranceV = cfg.CoherenceToleranceV
	if debug != nil {
		c.Debug = debug
	}
	return c, nil
}

// Calibrate 标定指定补偿器,debug 可为空
// 求解失败时同时返回已完成部分的结果
func (n *Network) Calibrate(id string, debug types.Debug) (types.CalibrationResult, error) {
	comp, ok := n.Compensator(id)
	if !ok {
		return types.CalibrationResult{CompensatorID: id}, fmt.Errorf("%w: %s", ErrUnknownCompensator, id)
	}
	return n.calibrate(*comp, debug)
}

func (n *Network) calibrate(comp types.NeutralCompensator, debug types.Debug) (types.CalibrationResult, error) {
	c, err := n.Calibrator(debug)
	if err != nil {
		return types.CalibrationResult{CompensatorID: comp.ID, NodeID: comp.NodeID, Error: err.Error()}, err
	}
	res, err := c.Calibrate(comp, n.Impedance(comp.NodeID))
	if err != nil {
		res.Error = err.Error()
	}
	return res, err
}

// CalibrateAll 并发标定全部补偿器,各补偿器独立计算互不影响
// 结果顺序与配置一致;单个补偿器失败不影响其他结果,失败信息记录在结果中并合并返回
// 仅在 ctx 取消时返回空结果
func (n *Network) CalibrateAll(ctx context.Context) ([]types.CalibrationResult, error) {
	results := make([]types.CalibrationResult, len(n.File.Compensators))
	errs := make([]error, len(n.File.Compensators))
	g, ctx := errgroup.WithContext(ctx)
	for i := range n.File.Compensators {
		comp := n.File.Compensators[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := n.calibrate(comp, nil)
			if err != nil {
				errs[i] = fmt.Errorf("补偿器 %s: %w", comp.ID, err)
				n.Log.Error().Err(err).Str("compensator", comp.ID).Msg("标定失败")
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, errors.Join(errs...)
}

package types

// Solution 潮流计算结果
type Solution struct {
	Voltages        map[string]PhaseVoltages // 各节点相对中性线电压幅值
	NeutralCurrents map[string]float64       // 节点上游中性线电流幅值
	Iterations      int                      // 求解迭代次数
}

// NodeVoltages 读取节点电压
func (s *Solution) NodeVoltages(nodeID string) (PhaseVoltages, bool) {
	if s == nil {
		return PhaseVoltages{}, false
	}
	u, ok := s.Voltages[nodeID]
	return u, ok
}

// NeutralCurrent 读取节点中性线电流
func (s *Solution) NeutralCurrent(nodeID string) float64 {
	if s == nil {
		return 0
	}
	return s.NeutralCurrents[nodeID]
}

// Solver 潮流求解接口
// injections 为附加在节点上的电流源,为空时计算无补偿的基态
type Solver interface {
	Solve(injections ...Injection) (*Solution, error)
}

// SolverFunc 函数适配
type SolverFunc func(injections ...Injection) (*Solution, error)

// Solve 调用函数
func (f SolverFunc) Solve(injections ...Injection) (*Solution, error) { return f(injections...) }

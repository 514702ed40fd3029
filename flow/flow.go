package flow

import (
	"fmt"
	"lvnet/graph"
	"lvnet/types"
	"math"
	"math/cmplx"

	"github.com/rs/zerolog"
)

// 导体索引: A/B/C 三相和中性线
const (
	conductorN     = types.PhaseCount
	conductorCount = types.PhaseCount + 1
)

// phasors 四导体相量
type phasors [conductorCount]complex128

// Solver 四线制辐射网络前推回代潮流
// 负荷为恒功率模型,相电压过低时转为恒阻抗;电源节点三相电压固定,中性线在电源处接地
type Solver struct {
	Log           zerolog.Logger
	Topology      *types.Topology
	PhaseVoltage  float64 // 电源相电压(V)
	Tolerance     float64 // 电压收敛容差(V)
	MaxIterations int
	Relaxation    float64 // 前推电压松弛因子 (0,1]
	ConstZRatio   float64 // 恒阻抗切换电压比例

	tree *graph.Tree
}

// NewSolver 创建求解器并构建网络树
func NewSolver(topo *types.Topology, log zerolog.Logger) (*Solver, error) {
	tree, err := graph.NewTree(topo)
	if err != nil {
		return nil, err
	}
	return &Solver{
		Log:           log,
		Topology:      topo,
		PhaseVoltage:  types.DefaultPhaseVoltage,
		Tolerance:     types.FlowTolerance,
		MaxIterations: types.FlowMaxIterations,
		Relaxation:    types.FlowRelaxation,
		ConstZRatio:   types.FlowConstZRatio,
		tree:          tree,
	}, nil
}

// Tree 网络树
func (s *Solver) Tree() *graph.Tree { return s.tree }

// Resolve 节点等效阻抗
func (s *Solver) Resolve(nodeID string) types.EquivalentImpedances {
	return graph.NewResolver(s.Log).ResolveTree(s.tree, nodeID)
}

// impedance 支路各导体阻抗
func impedance(b *graph.Branch) phasors {
	var z phasors
	if b.Type == nil {
		return z
	}
	zph := complex(b.Type.R12OhmPerKm*b.LengthKm, b.Type.X12OhmPerKm*b.LengthKm)
	for p := 0; p < types.PhaseCount; p++ {
		z[p] = zph
	}
	z[conductorN] = complex(b.Type.R0OhmPerKm*b.LengthKm, b.Type.X0OhmPerKm*b.LengthKm)
	return z
}

// loadPower 节点各相复功率(VA)
func loadPower(n *types.Node) [types.PhaseCount]complex128 {
	var s [types.PhaseCount]complex128
	cos := n.CosPhi
	if cos <= 0 || cos > 1 {
		cos = 1
	}
	sin := math.Sqrt(1 - cos*cos)
	for p := range n.LoadKVA {
		va := n.LoadKVA[p] * 1000
		s[p] = complex(va*cos, va*sin)
	}
	return s
}

// loadCurrent 负荷电流,|upn| 低于 uz 时按 uz 处等效的恒阻抗计算
func loadCurrent(sp, upn complex128, uz float64) complex128 {
	if cmplx.Abs(upn) < uz {
		return cmplx.Conj(sp) * upn / complex(uz*uz, 0)
	}
	return cmplx.Conj(sp / upn)
}

// Solve 计算节点电压
// injections 为补偿器从节点各导体吸收的电流: 中性线 Iinj∠0 抵消负荷回流,各相相量为负即向相线送出
// 求解器不保存迭代状态,可并发调用
func (s *Solver) Solve(injections ...types.Injection) (*types.Solution, error) {
	tree := s.tree
	relax := s.Relaxation
	if relax <= 0 || relax > 1 {
		relax = 1
	}
	uz := s.ConstZRatio * s.PhaseVoltage
	source := phasors{}
	for p, deg := range types.PhaseAngles {
		source[p] = cmplx.Rect(s.PhaseVoltage, deg*math.Pi/180)
	}
	voltage := make(map[string]phasors, len(tree.Order))
	for _, id := range tree.Order {
		voltage[id] = source
	}
	power := make(map[string][types.PhaseCount]complex128, len(tree.Order))
	for _, id := range tree.Order {
		if n, ok := s.Topology.Node(id); ok {
			power[id] = loadPower(n)
		}
	}
	injected := make(map[string]phasors)
	for _, inj := range injections {
		if !tree.Contains(inj.NodeID) {
			return nil, fmt.Errorf("注入节点 %s 不在网络中", inj.NodeID)
		}
		j := injected[inj.NodeID]
		for p := range inj.Phases {
			j[p] += inj.Phases[p]
		}
		j[conductorN] += inj.Neutral
		injected[inj.NodeID] = j
	}
	zs := make(map[string]phasors, len(tree.Branches))
	for id, b := range tree.Branches {
		zs[id] = impedance(b)
	}
	current := make(map[string]phasors, len(tree.Order))
	var iter int
	for iter = 1; iter <= s.MaxIterations; iter++ {
		// 回代: 由末端向电源累加支路电流
		for i := len(tree.Order) - 1; i >= 0; i-- {
			id := tree.Order[i]
			u := voltage[id]
			var j phasors
			for p := 0; p < types.PhaseCount; p++ {
				upn := u[p] - u[conductorN]
				if cmplx.Abs(upn) < 1e-9 || power[id][p] == 0 {
					continue
				}
				il := loadCurrent(power[id][p], upn, uz)
				j[p] += il
				j[conductorN] -= il
			}
			inj := injected[id]
			for c := range j {
				j[c] += inj[c]
			}
			for _, child := range tree.Children[id] {
				ic := current[child]
				for c := range j {
					j[c] += ic[c]
				}
			}
			current[id] = j
		}
		// 前推: 由电源向末端计算电压
		var diff float64
		for _, id := range tree.Order[1:] {
			b := tree.Branches[id]
			up, z, i, old := voltage[b.Parent], zs[id], current[id], voltage[id]
			var u phasors
			for c := range u {
				step := up[c] - z[c]*i[c] - old[c]
				diff = math.Max(diff, cmplx.Abs(step))
				u[c] = old[c] + complex(relax, 0)*step
			}
			voltage[id] = u
		}
		if diff < s.Tolerance {
			break
		}
	}
	if iter > s.MaxIterations {
		s.Log.Warn().Int("iterations", s.MaxIterations).Msg("潮流未收敛")
		return nil, fmt.Errorf("潮流计算 %d 次迭代未收敛", s.MaxIterations)
	}
	sol := &types.Solution{
		Voltages:        make(map[string]types.PhaseVoltages, len(tree.Order)),
		NeutralCurrents: make(map[string]float64, len(tree.Order)),
		Iterations:      iter,
	}
	for _, id := range tree.Order {
		u := voltage[id]
		var pv types.PhaseVoltages
		for p := range pv {
			pv[p] = cmplx.Abs(u[p] - u[conductorN])
		}
		sol.Voltages[id] = pv
		sol.NeutralCurrents[id] = cmplx.Abs(current[id][conductorN])
	}
	s.Log.Debug().Int("iterations", iter).Int("injections", len(injections)).Msg("潮流计算完成")
	return sol, nil
}

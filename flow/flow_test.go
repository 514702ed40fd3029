package flow

import (
	"lvnet/equi8"
	"lvnet/types"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kmLat = 1 / (types.EarthRadiusM / 1000 * math.Pi / 180)

// line 电源经1公里电缆连接负荷节点 N
func line(load [3]float64) *types.Topology {
	return &types.Topology{
		Nodes: []types.Node{
			{ID: "S", IsSource: true, Lat: 45, Lng: 5},
			{ID: "N", Lat: 45 + kmLat, Lng: 5, LoadKVA: load},
		},
		CableTypes: []types.CableType{{ID: "T", R12OhmPerKm: 0.5, R0OhmPerKm: 0.5}},
		Cables:     []types.Cable{{ID: "C", NodeAID: "S", NodeBID: "N", TypeID: "T"}},
	}
}

func TestSolveBalanced(t *testing.T) {
	s, err := NewSolver(line([3]float64{3, 3, 3}), zerolog.Nop())
	require.NoError(t, err)
	sol, err := s.Solve()
	require.NoError(t, err)
	// V·I = 3kVA, V = 230 - 0.5·I
	expected := (230 + math.Sqrt(230*230-4*0.5*3000)) / 2
	u, ok := sol.NodeVoltages("N")
	require.True(t, ok)
	for p := range u {
		assert.InDelta(t, expected, u[p], 0.01, "phase %s", types.PhaseNames[p])
	}
	assert.InDelta(t, 0, sol.NeutralCurrent("N"), 1e-3)
	src, _ := sol.NodeVoltages("S")
	assert.InDelta(t, 230, src[types.PhaseA], 1e-9)
}

func TestSolveSinglePhase(t *testing.T) {
	s, err := NewSolver(line([3]float64{4, 0, 0}), zerolog.Nop())
	require.NoError(t, err)
	sol, err := s.Solve()
	require.NoError(t, err)
	u := sol.Voltages["N"]
	assert.Less(t, u[types.PhaseA], u[types.PhaseB])
	assert.Less(t, u[types.PhaseA], u[types.PhaseC])
	assert.InDelta(t, u[types.PhaseB], u[types.PhaseC], 1e-6)
	assert.Greater(t, sol.NeutralCurrent("N"), 15.0)
}

func TestSolveHeavyLoad(t *testing.T) {
	s, err := NewSolver(line([3]float64{40, 40, 40}), zerolog.Nop())
	require.NoError(t, err)
	sol, err := s.Solve()
	require.NoError(t, err)
	// 低于 0.8·230V 后按恒阻抗 R = 184²/40000 计算
	r := math.Pow(types.FlowConstZRatio*230, 2) / 40000
	expected := 230 * r / (r + 0.5)
	u := sol.Voltages["N"]
	for p := range u {
		assert.InDelta(t, expected, u[p], 0.01, "phase %s", types.PhaseNames[p])
	}
}

func TestSolveInjection(t *testing.T) {
	s, err := NewSolver(line([3]float64{}), zerolog.Nop())
	require.NoError(t, err)
	sol, err := s.Solve(equi8.BuildInjection("N", 30))
	require.NoError(t, err)
	u := sol.Voltages["N"]
	// 中性线电位 -0.5·30, 各相抬升 0.5·10
	assert.InDelta(t, 250, u[types.PhaseA], 1e-3)
	assert.InDelta(t, math.Sqrt(235*235+15*15-235*15), u[types.PhaseB], 1e-3)
	assert.InDelta(t, u[types.PhaseB], u[types.PhaseC], 1e-6)
	assert.InDelta(t, 30, sol.NeutralCurrent("N"), 1e-9)

	_, err = s.Solve(equi8.BuildInjection("missing", 10))
	assert.Error(t, err)
}

func TestSolveConcurrent(t *testing.T) {
	s, err := NewSolver(line([3]float64{3, 1, 2}), zerolog.Nop())
	require.NoError(t, err)
	ref, err := s.Solve()
	require.NoError(t, err)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sol, err := s.Solve()
			assert.NoError(t, err)
			assert.Equal(t, ref.Voltages, sol.Voltages)
		}()
	}
	wg.Wait()
}

func TestSolveNoSource(t *testing.T) {
	topo := line([3]float64{})
	topo.Nodes[0].IsSource = false
	_, err := NewSolver(topo, zerolog.Nop())
	assert.Error(t, err)
}

// 补偿器吸收中性线回流后 A 相抬升,电压差减小
func TestInjectionReducesSpread(t *testing.T) {
	s, err := NewSolver(line([3]float64{2, 1, 1}), zerolog.Nop())
	require.NoError(t, err)
	base, err := s.Solve()
	require.NoError(t, err)
	prev := base.Voltages["N"].Spread()
	for _, i := range []float64{1, 2, 4} {
		sol, err := s.Solve(equi8.BuildInjection("N", i))
		require.NoError(t, err)
		spread := sol.Voltages["N"].Spread()
		assert.Less(t, spread, prev, "Iinj=%v", i)
		assert.Less(t, sol.NeutralCurrent("N"), base.NeutralCurrent("N"), "Iinj=%v", i)
		prev = spread
	}
}

func TestCalibrateOnFeeder(t *testing.T) {
	s, err := NewSolver(line([3]float64{2, 1, 1}), zerolog.Nop())
	require.NoError(t, err)
	comp := types.NeutralCompensator{ID: "EQ", NodeID: "N", Enabled: true, MaxPowerKVA: 30}
	c := equi8.NewCalibrator(s, zerolog.Nop())
	res, err := c.Calibrate(comp, s.Resolve("N"))
	require.NoError(t, err)
	require.False(t, res.Skipped, res.SkipReason)
	assert.True(t, res.Impedances.Valid())
	assert.InDelta(t, 0.5, res.Impedances.ZphOhm, 1e-3)
	assert.Greater(t, res.CME.DeltaUInit, types.CMEBalancedSpread)
	assert.True(t, res.Converged, "residual %v after %d iterations", res.Residual, res.Iterations)
	assert.LessOrEqual(t, math.Abs(res.Residual), types.CMEToleranceV)
	assert.GreaterOrEqual(t, res.Iterations, 1)
	assert.LessOrEqual(t, res.Iterations, types.CMEMaxIterations)
	assert.False(t, res.ThermalLimited)
	assert.Greater(t, res.FinalIinj, 0.0)
	assert.LessOrEqual(t, res.FinalIinj, res.CurrentLimit)
	assert.True(t, res.Coherence.Valid, "%+v", res.Coherence)
	assert.Len(t, res.History, res.Iterations)
}

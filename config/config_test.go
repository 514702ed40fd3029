package config

import (
	"lvnet/equi8"
	"lvnet/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	f, err := Load("../testdata/feeder.toml")
	require.NoError(t, err)
	assert.Equal(t, types.DurationPermanent, f.Calibration.Duration)
	assert.Equal(t, 20, f.Calibration.MaxIterations)
	assert.Len(t, f.Nodes, 5)
	assert.Len(t, f.Cables, 4)
	assert.Len(t, f.Compensators, 3)
	assert.Equal(t, [3]float64{2, 0.5, 1}, f.Nodes[3].LoadKVA)
	assert.Len(t, f.Cables[0].Coordinates, 3)
	assert.InDelta(t, 0.837, f.CableTypes[0].R0OhmPerKm, 1e-12)
	assert.True(t, f.Compensators[1].HasPresetImpedance())

	topo := f.Topology()
	src := topo.Sources()
	require.Len(t, src, 1)
	assert.Equal(t, "TR", src[0].ID)
}

func TestParseDefaults(t *testing.T) {
	f, err := Parse(strings.NewReader(`
[[nodes]]
id = "S"
is_source = true
`))
	require.NoError(t, err)
	assert.Equal(t, types.DurationPermanent, f.Calibration.Duration)
	assert.Equal(t, types.CMEToleranceV, f.Calibration.ToleranceV)
	assert.Equal(t, types.CMEMaxIterations, f.Calibration.MaxIterations)
	assert.Equal(t, types.CoherenceToleranceV, f.Calibration.CoherenceToleranceV)
	assert.Equal(t, equi8.ModelCME, f.Calibration.Model)
	assert.Equal(t, types.DefaultPhaseVoltage, f.Source.PhaseVoltage)
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"未知字段": `
foo = 1
[[nodes]]
id = "S"
is_source = true`,
		"无电源": `
[[nodes]]
id = "S"`,
		"节点重复": `
[[nodes]]
id = "S"
is_source = true
[[nodes]]
id = "S"`,
		"电缆端点": `
[[nodes]]
id = "S"
is_source = true
[[cable_types]]
id = "T"
[[cables]]
id = "C"
node_a = "S"
node_b = "X"
type_id = "T"`,
		"电缆型号": `
[[nodes]]
id = "S"
is_source = true
[[nodes]]
id = "A"
[[cables]]
id = "C"
node_a = "S"
node_b = "A"
type_id = "T"`,
		"补偿器节点": `
[[nodes]]
id = "S"
is_source = true
[[compensators]]
id = "E"
node_id = "X"`,
		"补偿模型": `
[calibration]
model = "linear"
[[nodes]]
id = "S"
is_source = true`,
		"热限制等级": `
[calibration]
duration = "1d"
[[nodes]]
id = "S"
is_source = true`,
	}
	for name, src := range tests {
		_, err := Parse(strings.NewReader(src))
		assert.ErrorIs(t, err, ErrInvalid, name)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("../testdata/missing.toml")
	assert.Error(t, err)
}

package config

import (
	"errors"
	"fmt"
	"io"
	"lvnet/equi8"
	"lvnet/types"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalid 配置校验失败
var ErrInvalid = errors.New("网络配置无效")

// Calibration 标定参数
type Calibration struct {
	Duration            types.Duration `toml:"duration"`              // 热限制等级
	ToleranceV          float64        `toml:"tolerance_v"`           // 收敛容差
	MaxIterations       int            `toml:"max_iterations"`        // 最大迭代次数
	CoherenceToleranceV float64        `toml:"coherence_tolerance_v"` // 一致性校验容差
	Model               string         `toml:"model"`                 // 补偿模型
}

// Source 电源参数
type Source struct {
	PhaseVoltage float64 `toml:"phase_voltage"` // 相电压(V)
}

// File 网络描述文件
type File struct {
	Name         string                     `toml:"name"`
	Calibration  Calibration                `toml:"calibration"`
	Source       Source                     `toml:"source"`
	CableTypes   []types.CableType          `toml:"cable_types"`
	Nodes        []types.Node               `toml:"nodes"`
	Cables       []types.Cable              `toml:"cables"`
	Compensators []types.NeutralCompensator `toml:"compensators"`
}

// Topology 网络拓扑视图
func (f *File) Topology() *types.Topology {
	return &types.Topology{Nodes: f.Nodes, Cables: f.Cables, CableTypes: f.CableTypes}
}

// Load 读取配置文件
func Load(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("配置读取失败 (%s): %w", path, err)
	}
	return finish(&f, md)
}

// Parse 从读取器解析配置
func Parse(r io.Reader) (*File, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("配置解析失败: %w", err)
	}
	return finish(&f, md)
}

func finish(f *File, md toml.MetaData) (*File, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: 未知字段 %s", ErrInvalid, strings.Join(keys, ", "))
	}
	applyDefaults(f)
	if err := Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

func applyDefaults(f *File) {
	c := &f.Calibration
	if c.Duration == "" {
		c.Duration = types.DurationPermanent
	}
	if c.ToleranceV <= 0 {
		c.ToleranceV = types.CMEToleranceV
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = types.CMEMaxIterations
	}
	if c.CoherenceToleranceV <= 0 {
		c.CoherenceToleranceV = types.CoherenceToleranceV
	}
	if c.Model == "" {
		c.Model = equi8.ModelCME
	}
	if f.Source.PhaseVoltage <= 0 {
		f.Source.PhaseVoltage = types.DefaultPhaseVoltage
	}
}

// Validate 校验引用关系
func Validate(f *File) error {
	if !f.Calibration.Duration.Valid() {
		return fmt.Errorf("%w: 未知热限制等级 %q", ErrInvalid, f.Calibration.Duration)
	}
	switch f.Calibration.Model {
	case equi8.ModelCME, equi8.ModelRedistribution:
	default:
		return fmt.Errorf("%w: 未知补偿模型 %q", ErrInvalid, f.Calibration.Model)
	}
	nodes := map[string]bool{}
	sources := 0
	for i, n := range f.Nodes {
		if strings.TrimSpace(n.ID) == "" {
			return fmt.Errorf("%w: nodes[%d] 缺少 id", ErrInvalid, i)
		}
		if nodes[n.ID] {
			return fmt.Errorf("%w: 节点 %s 重复", ErrInvalid, n.ID)
		}
		nodes[n.ID] = true
		if n.IsSource {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("%w: 需要且仅需要一个电源节点, 实际 %d", ErrInvalid, sources)
	}
	cableTypes := map[string]bool{}
	for _, ct := range f.CableTypes {
		if cableTypes[ct.ID] {
			return fmt.Errorf("%w: 电缆型号 %s 重复", ErrInvalid, ct.ID)
		}
		cableTypes[ct.ID] = true
	}
	cables := map[string]bool{}
	for _, c := range f.Cables {
		switch {
		case cables[c.ID]:
			return fmt.Errorf("%w: 电缆 %s 重复", ErrInvalid, c.ID)
		case !nodes[c.NodeAID] || !nodes[c.NodeBID]:
			return fmt.Errorf("%w: 电缆 %s 端点不存在", ErrInvalid, c.ID)
		case !cableTypes[c.TypeID]:
			return fmt.Errorf("%w: 电缆 %s 型号 %s 不存在", ErrInvalid, c.ID, c.TypeID)
		}
		cables[c.ID] = true
	}
	comps := map[string]bool{}
	for _, c := range f.Compensators {
		switch {
		case comps[c.ID]:
			return fmt.Errorf("%w: 补偿器 %s 重复", ErrInvalid, c.ID)
		case !nodes[c.NodeID]:
			return fmt.Errorf("%w: 补偿器 %s 节点 %s 不存在", ErrInvalid, c.ID, c.NodeID)
		case c.MaxPowerKVA < 0 || c.ToleranceA < 0 || c.ZphOhm < 0 || c.ZnOhm < 0:
			return fmt.Errorf("%w: 补偿器 %s 参数不能为负", ErrInvalid, c.ID)
		}
		comps[c.ID] = true
	}
	return nil
}

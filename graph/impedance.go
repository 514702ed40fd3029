package graph

import (
	"lvnet/types"

	"github.com/rs/zerolog"
)

// Resolver 等效阻抗计算
type Resolver struct {
	Log zerolog.Logger
}

// NewResolver 创建
func NewResolver(log zerolog.Logger) *Resolver { return &Resolver{Log: log} }

// Resolve 计算电源到节点路径上的等效电阻
// 相等效: (R0 + 2·R12)/3 × L, 中性线等效: R0 × L, 仅计电阻分量
func (r *Resolver) Resolve(topo *types.Topology, nodeID string) types.EquivalentImpedances {
	tree, err := NewTree(topo)
	if err != nil {
		r.Log.Warn().Err(err).Str("node", nodeID).Msg("等效阻抗计算失败")
		return types.EquivalentImpedances{}
	}
	return r.ResolveTree(tree, nodeID)
}

// ResolveTree 在已构建的树上计算
func (r *Resolver) ResolveTree(tree *Tree, nodeID string) types.EquivalentImpedances {
	path, err := tree.PathToSource(nodeID)
	if err != nil {
		r.Log.Warn().Err(err).Msg("等效阻抗计算失败")
		return types.EquivalentImpedances{}
	}
	var zph, zn float64
	for _, b := range path {
		if b.Type == nil {
			r.Log.Warn().Str("cable", b.Cable.ID).Str("type", b.Cable.TypeID).Msg("电缆型号不存在,忽略该段")
			continue
		}
		zph += (b.Type.R0OhmPerKm + 2*b.Type.R12OhmPerKm) / 3 * b.LengthKm
		zn += b.Type.R0OhmPerKm * b.LengthKm
	}
	z := types.EquivalentImpedances{
		ZphOhm:   zph,
		ZnOhm:    zn,
		ZphValid: zph >= types.CMEImpedanceFloor,
		ZnValid:  zn >= types.CMEImpedanceFloor,
	}
	r.Log.Debug().
		Str("node", nodeID).
		Int("cables", len(path)).
		Float64("Zph", zph).
		Float64("Zn", zn).
		Msg("等效阻抗")
	return z
}

// Resolve 使用静默日志计算等效阻抗
func Resolve(topo *types.Topology, nodeID string) types.EquivalentImpedances {
	return NewResolver(zerolog.Nop()).Resolve(topo, nodeID)
}

package types

// Duration 热限制时长等级
type Duration string

// 时长等级
const (
	Duration15Min     Duration = "15min"
	Duration3h        Duration = "3h"
	DurationPermanent Duration = "permanent"
)

// ThermalLimit 返回时长等级对应的电流上限,未知等级按长期处理
func (d Duration) ThermalLimit() float64 {
	switch d {
	case Duration15Min:
		return Thermal15MinA
	case Duration3h:
		return Thermal3hA
	default:
		return ThermalPermanentA
	}
}

// Valid 是否为已知等级
func (d Duration) Valid() bool {
	switch d {
	case Duration15Min, Duration3h, DurationPermanent:
		return true
	}
	return false
}

// NeutralCompensator 中性线补偿器(EQUI8)配置
type NeutralCompensator struct {
	ID          string  `toml:"id" json:"id"`
	Name        string  `toml:"name" json:"name"`
	NodeID      string  `toml:"node_id" json:"nodeId"`            // 安装节点
	MaxPowerKVA float64 `toml:"max_power_kva" json:"maxPower_kVA"` // 功率上限,0为不限制
	ToleranceA  float64 `toml:"tolerance_a" json:"tolerance_A"`    // 中性线电流动作门槛
	Enabled     bool    `toml:"enabled" json:"enabled"`
	ZphOhm      float64 `toml:"zph_ohm" json:"Zph_Ohm"` // 预设相等效阻抗,0由拓扑计算
	ZnOhm       float64 `toml:"zn_ohm" json:"Zn_Ohm"`   // 预设中性线等效阻抗,0由拓扑计算
}

// HasPresetImpedance 是否使用预设阻抗
func (c *NeutralCompensator) HasPresetImpedance() bool {
	return c.ZphOhm > 0 && c.ZnOhm > 0
}

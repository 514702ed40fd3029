package types

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PhaseVoltages 三相电压(V),按A/B/C顺序
type PhaseVoltages [PhaseCount]float64

// Slice 返回切片视图
func (u *PhaseVoltages) Slice() []float64 { return u[:] }

// Mean 平均值
func (u PhaseVoltages) Mean() float64 { return stat.Mean(u[:], nil) }

// Min 最小值
func (u PhaseVoltages) Min() float64 { return floats.Min(u[:]) }

// Max 最大值
func (u PhaseVoltages) Max() float64 { return floats.Max(u[:]) }

// Spread 最大最小差值
func (u PhaseVoltages) Spread() float64 { return floats.Max(u[:]) - floats.Min(u[:]) }

// String 格式化输出
func (u PhaseVoltages) String() string {
	return fmt.Sprintf("[A=%.2f B=%.2f C=%.2f]", u[PhaseA], u[PhaseB], u[PhaseC])
}

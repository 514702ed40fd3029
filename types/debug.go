package types

import "io"

// Debug 标定调试接口
type Debug interface {
	Init(comp NeutralCompensator, cme CMEResult)
	IsDebug() bool
	SetDebug(is bool)
	Update(it Iteration)
	Finish(result CalibrationResult)
	Render(w io.Writer) error
	Error(err error)
}

// NopDebug 空调试实现
type NopDebug struct{ is bool }

func (NopDebug) Init(NeutralCompensator, CMEResult) {}
func (d *NopDebug) IsDebug() bool                  { return d.is }
func (d *NopDebug) SetDebug(is bool)               { d.is = is }
func (NopDebug) Update(Iteration)                  {}
func (NopDebug) Finish(CalibrationResult)          {}
func (NopDebug) Render(w io.Writer) error          { return nil }
func (NopDebug) Error(err error)                   {}

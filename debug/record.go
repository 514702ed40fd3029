package debug

import (
	"encoding/json"
	"io"
	"lvnet/types"

	"github.com/rs/zerolog"
)

// Record 记录标定过程
type Record struct {
	Log         zerolog.Logger           `json:"-"`
	Compensator types.NeutralCompensator `json:"compensator"`
	CME         types.CMEResult          `json:"cme"`
	History     []types.Iteration        `json:"history"`
	Result      *types.CalibrationResult `json:"result,omitempty"`
	Errors      []string                 `json:"errors,omitempty"`
}

// NewRecord 创建记录
func NewRecord(log zerolog.Logger) *Record { return &Record{Log: log} }

// Init 初始化
func (list *Record) Init(comp types.NeutralCompensator, cme types.CMEResult) {
	list.Compensator = comp
	list.CME = cme
	list.History = list.History[:0]
	list.Result = nil
	list.Errors = nil
}

func (*Record) IsDebug() bool    { return true }
func (*Record) SetDebug(is bool) {}

// Update 记录迭代
func (list *Record) Update(it types.Iteration) {
	list.History = append(list.History, it)
}

// Finish 记录结果
func (list *Record) Finish(result types.CalibrationResult) {
	list.Result = &result
}

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

func (list *Record) Error(err error) {
	list.Errors = append(list.Errors, err.Error())
	list.Log.Error().Err(err).Str("compensator", list.Compensator.ID).Msg("标定失败")
}

// target 目标电压差
func (list *Record) target() float64 {
	if list.Result != nil {
		return list.Result.DeltaUTarget
	}
	return list.CME.DeltaUEQUI8
}

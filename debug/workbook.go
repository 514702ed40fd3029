package debug

import (
	"io"
	"lvnet/types"

	"github.com/xuri/excelize/v2"
)

// 工作表名称
const (
	SheetSummary = "概要"
	SheetHistory = "迭代"
)

// Workbook 标定结果表格
type Workbook struct {
	*Record
}

// build 生成表格,调用方负责关闭
func (b *Workbook) build() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	rows := [][2]any{
		{"补偿器", b.Compensator.ID},
		{"节点", b.Compensator.NodeID},
		{"Umoy(V)", b.CME.Umoy},
		{"ΔU_init(V)", b.CME.DeltaUInit},
		{"ΔU_EQUI8(V)", b.CME.DeltaUEQUI8},
		{"I_EQ_est(A)", b.CME.IEQEst},
		{"Zph_eff(Ω)", b.CME.ZphEff},
		{"Zn_eff(Ω)", b.CME.ZnEff},
	}
	if r := b.Result; r != nil {
		rows = append(rows,
			[2]any{"运行ID", r.RunID},
			[2]any{"模型", r.Model},
			[2]any{"收敛", r.Converged},
			[2]any{"迭代次数", r.Iterations},
			[2]any{"最终Iinj(A)", r.FinalIinj},
			[2]any{"实际ΔU(V)", r.DeltaUAchieved},
			[2]any{"残差(V)", r.Residual},
			[2]any{"电流上限(A)", r.CurrentLimit},
			[2]any{"热限制", r.ThermalLimited},
			[2]any{"功率限制", r.PowerLimited},
			[2]any{"一致性", r.Coherence.Valid},
			[2]any{"跳过", r.Skipped},
			[2]any{"跳过原因", r.SkipReason},
		)
	}
	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			f.SetCellValue(SheetSummary, cell, v)
		}
	}
	if _, err := f.NewSheet(SheetHistory); err != nil {
		f.Close()
		return nil, err
	}
	headers := []string{"迭代", "Iinj(A)", "ΔU(V)", "残差(V)", "中性线电流(A)"}
	for p := 0; p < types.PhaseCount; p++ {
		headers = append(headers, "U"+types.PhaseNames[p]+"(V)")
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(SheetHistory, cell, h)
	}
	for i, it := range b.History {
		values := []any{it.Index, it.Iinj, it.DeltaUAchieved, it.Residual, it.NeutralCurrent}
		for _, v := range it.Voltages {
			values = append(values, v)
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(SheetHistory, cell, v)
		}
	}
	return f, nil
}

// Render 写出 xlsx
func (b *Workbook) Render(w io.Writer) error {
	f, err := b.build()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveAs 保存到文件
func (b *Workbook) SaveAs(filename string) error {
	f, err := b.build()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}

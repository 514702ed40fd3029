package debug

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoHistory 无迭代记录
var ErrNoHistory = errors.New("无迭代记录")

// Plot 收敛曲线图片
type Plot struct {
	*Record
	Width, Height vg.Length
	Format        string // png/svg/pdf
}

// NewPlot 默认 16x10cm PNG
func NewPlot(rec *Record) *Plot {
	return &Plot{Record: rec, Width: 16 * vg.Centimeter, Height: 10 * vg.Centimeter, Format: "png"}
}

// Render 输出收敛曲线
func (p *Plot) Render(w io.Writer) error {
	if len(p.History) == 0 {
		return ErrNoHistory
	}
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("EQUI8 %s", p.Compensator.ID)
	pl.X.Label.Text = "iteration"
	pl.Y.Label.Text = "ΔU (V) / Iinj (A)"
	pl.Add(plotter.NewGrid())
	current := make(plotter.XYs, len(p.History))
	achieved := make(plotter.XYs, len(p.History))
	target := make(plotter.XYs, len(p.History))
	for i, it := range p.History {
		x := float64(it.Index)
		current[i] = plotter.XY{X: x, Y: it.Iinj}
		achieved[i] = plotter.XY{X: x, Y: it.DeltaUAchieved}
		target[i] = plotter.XY{X: x, Y: p.target()}
	}
	if err := plotutil.AddLinePoints(pl,
		"Iinj", current,
		"ΔU", achieved,
		"ΔU target", target,
	); err != nil {
		return err
	}
	format := p.Format
	if format == "" {
		format = "png"
	}
	wt, err := pl.WriterTo(p.Width, p.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

package debug

import (
	"fmt"
	"io"
	lvtypes "lvnet/types"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	*Record
}

// lineChart 迭代曲线
func lineChart(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithAnimation(true),
	)
	return line
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	name := c.Compensator.ID
	if c.Compensator.Name != "" {
		name = c.Compensator.Name
	}
	x := make([]int, len(c.History))
	current := make([]opts.LineData, len(c.History))
	achieved := make([]opts.LineData, len(c.History))
	target := make([]opts.LineData, len(c.History))
	neutral := make([]opts.LineData, len(c.History))
	var phases [lvtypes.PhaseCount][]opts.LineData
	for p := range phases {
		phases[p] = make([]opts.LineData, len(c.History))
	}
	for i, it := range c.History {
		x[i] = it.Index
		current[i] = opts.LineData{Value: it.Iinj}
		neutral[i] = opts.LineData{Value: it.NeutralCurrent}
		achieved[i] = opts.LineData{Value: it.DeltaUAchieved}
		target[i] = opts.LineData{Value: c.target()}
		for p := range phases {
			phases[p][i] = opts.LineData{Value: it.Voltages[p]}
		}
	}
	// 电流信息
	lineI := lineChart("注入电流", fmt.Sprintf("%s 各次迭代注入电流", name))
	lineI.SetXAxis(x).
		AddSeries("Iinj(A)", current).
		AddSeries("中性线电流(A)", neutral)
	// 电压差信息
	lineD := lineChart("电压差", fmt.Sprintf("%s 实际电压差与目标", name))
	lineD.SetXAxis(x).
		AddSeries("ΔU(V)", achieved).
		AddSeries("目标ΔU(V)", target, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
	// 相电压信息
	lineV := lineChart("相电压", fmt.Sprintf("%s 节点三相电压", name))
	lineV.SetXAxis(x)
	for p := range phases {
		lineV.AddSeries(lvtypes.PhaseNames[p], phases[p])
	}
	// 构建界面
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s 标定过程", name)
	page.AddCharts(
		lineI,
		lineD,
		lineV,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}

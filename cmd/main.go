package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"lvnet"
	"lvnet/debug"
	"lvnet/logging"
	"lvnet/types"
	"net/http"
	"os"
	"text/tabwriter"
)

// options 命令行参数
type options struct {
	ConfigFile string
	CompID     string
	JSONFile   string
	HTMLFile   string
	PNGFile    string
	XLSXFile   string
	ServeAddr  string
}

func parseFlags(args []string) (*options, error) {
	var o options
	fs := flag.NewFlagSet("lvnet", flag.ContinueOnError)
	fs.StringVar(&o.ConfigFile, "config", "testdata/feeder.toml", "网络描述文件")
	fs.StringVar(&o.CompID, "compensator", "", "仅标定指定补偿器并输出报告")
	fs.StringVar(&o.JSONFile, "json", "", "JSON 记录输出路径")
	fs.StringVar(&o.HTMLFile, "html", "", "HTML 曲线输出路径")
	fs.StringVar(&o.PNGFile, "png", "", "PNG 收敛曲线输出路径")
	fs.StringVar(&o.XLSXFile, "xlsx", "", "XLSX 报告输出路径")
	fs.StringVar(&o.ServeAddr, "serve", "", "在该地址发布 HTML 曲线,如 :8080")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.CompID == "" && (o.JSONFile != "" || o.HTMLFile != "" || o.PNGFile != "" || o.XLSXFile != "" || o.ServeAddr != "") {
		return nil, fmt.Errorf("报告输出需要指定 -compensator")
	}
	return &o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(logging.ProfileRuntime, os.Stderr)

	network, err := lvnet.Load(opts.ConfigFile, log)
	if err != nil {
		log.Fatal().Err(err).Str("config", opts.ConfigFile).Msg("网络加载失败")
	}
	if opts.CompID == "" {
		results, err := network.CalibrateAll(context.Background())
		if results == nil {
			log.Fatal().Err(err).Msg("标定失败")
		}
		printResults(os.Stdout, results...)
		if err != nil {
			log.Error().Err(err).Msg("部分补偿器标定失败")
			os.Exit(1)
		}
		return
	}
	rec := debug.NewRecord(log)
	charts := &debug.Charts{Record: rec}
	res, err := network.Calibrate(opts.CompID, rec)
	if err != nil {
		log.Fatal().Err(err).Str("compensator", opts.CompID).Msg("标定失败")
	}
	printResults(os.Stdout, res)
	reports := []struct {
		path   string
		render func(io.Writer) error
	}{
		{opts.JSONFile, rec.Render},
		{opts.HTMLFile, charts.Render},
		{opts.PNGFile, debug.NewPlot(rec).Render},
		{opts.XLSXFile, (&debug.Workbook{Record: rec}).Render},
	}
	for _, r := range reports {
		if r.path == "" {
			continue
		}
		if err := writeFile(r.path, r.render); err != nil {
			log.Error().Err(err).Str("path", r.path).Msg("报告输出失败")
			continue
		}
		log.Info().Str("path", r.path).Msg("报告已输出")
	}
	if opts.ServeAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/", charts.Handler)
		log.Info().Str("addr", opts.ServeAddr).Str("compensator", opts.CompID).Msg("发布标定曲线")
		if err := http.ListenAndServe(opts.ServeAddr, mux); err != nil {
			log.Fatal().Err(err).Msg("HTTP 服务退出")
		}
	}
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printResults(w io.Writer, results ...types.CalibrationResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "补偿器\t节点\tΔU初始\tΔU目标\tΔU实际\tIinj(A)\t迭代\t状态")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t%s\n",
			r.CompensatorID, r.NodeID,
			r.CME.DeltaUInit, r.DeltaUTarget, r.DeltaUAchieved,
			r.FinalIinj, r.Iterations, status(r))
	}
	tw.Flush()
}

func status(r types.CalibrationResult) string {
	switch {
	case r.Error != "":
		return "失败: " + r.Error
	case r.Skipped:
		return "跳过: " + r.SkipReason
	case r.Converged:
		return "收敛"
	case r.PowerLimited:
		return "功率受限"
	case r.ThermalLimited:
		return "热限制"
	default:
		return "未收敛"
	}
}

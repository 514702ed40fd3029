package debug

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"lvnet/types"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// record 三次迭代的标定记录
func record() *Record {
	rec := NewRecord(zerolog.Nop())
	comp := types.NeutralCompensator{ID: "EQ1", Name: "末端补偿", NodeID: "N3", Enabled: true}
	cme := types.CMEResult{Umoy: 230, DeltaUInit: 10, DeltaUEQUI8: 3.4, IEQEst: 7.6, ZphEff: 0.5, ZnEff: 0.4}
	rec.Init(comp, cme)
	for i, iinj := range []float64{7.6, 11.2, 13.1} {
		rec.Update(types.Iteration{
			Index:          i + 1,
			Iinj:           iinj,
			Voltages:       types.PhaseVoltages{233, 228, 229},
			DeltaUAchieved: 10 - iinj/2,
			Residual:       10 - iinj/2 - 3.4,
			NeutralCurrent: 20,
		})
	}
	rec.Finish(types.CalibrationResult{
		RunID:         "run",
		CompensatorID: "EQ1",
		Converged:     true,
		Iterations:    3,
		FinalIinj:     13.1,
		DeltaUTarget:  3.4,
	})
	return rec
}

func TestRecord(t *testing.T) {
	rec := record()
	var d types.Debug = rec
	assert.True(t, d.IsDebug())
	assert.Len(t, rec.History, 3)
	require.NotNil(t, rec.Result)

	var buf bytes.Buffer
	require.NoError(t, rec.Render(&buf))
	var decoded struct {
		Compensator types.NeutralCompensator
		History     []types.Iteration
		Result      types.CalibrationResult
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "EQ1", decoded.Compensator.ID)
	assert.Len(t, decoded.History, 3)
	assert.True(t, decoded.Result.Converged)

	rec.Error(errors.New("boom"))
	assert.Equal(t, []string{"boom"}, rec.Errors)

	// 重新初始化清空历史
	rec.Init(types.NeutralCompensator{ID: "EQ2"}, types.CMEResult{})
	assert.Empty(t, rec.History)
	assert.Nil(t, rec.Result)
	assert.Empty(t, rec.Errors)
}

func TestCharts(t *testing.T) {
	c := &Charts{Record: record()}
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "注入电流")
	assert.Contains(t, html, "末端补偿")
}

func TestChartsHandler(t *testing.T) {
	c := &Charts{Record: record()}
	srv := httptest.NewServer(http.HandlerFunc(c.Handler))
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "电压差")
}

func TestPlot(t *testing.T) {
	p := NewPlot(record())
	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	p.Format = "svg"
	buf.Reset()
	require.NoError(t, p.Render(&buf))
	assert.Contains(t, buf.String(), "<svg")

	empty := NewPlot(NewRecord(zerolog.Nop()))
	assert.ErrorIs(t, empty.Render(&buf), ErrNoHistory)
}

func TestWorkbook(t *testing.T) {
	b := &Workbook{Record: record()}
	var buf bytes.Buffer
	require.NoError(t, b.Render(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetSummary, SheetHistory}, f.GetSheetList())

	v, err := f.GetCellValue(SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "EQ1", v)

	rows, err := f.GetRows(SheetHistory)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "迭代", rows[0][0])
	assert.Equal(t, "UA(V)", rows[0][5])
	assert.Equal(t, "3", rows[3][0])

	path := t.TempDir() + "/result.xlsx"
	require.NoError(t, b.SaveAs(path))
}

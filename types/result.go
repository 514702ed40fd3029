package types

// EquivalentImpedances 电源到节点的等效电阻
type EquivalentImpedances struct {
	ZphOhm   float64 `json:"Zph_ohm"` // 相等效电阻
	ZnOhm    float64 `json:"Zn_ohm"`  // 中性线等效电阻
	ZphValid bool    `json:"Zph_valid"`
	ZnValid  bool    `json:"Zn_valid"`
}

// Valid 两个阻抗均满足下限
func (z EquivalentImpedances) Valid() bool { return z.ZphValid && z.ZnValid }

// Injection EQUI8 注入电流相量
type Injection struct {
	NodeID  string                 `json:"nodeId"`
	Neutral complex128             `json:"-"` // 中性线注入
	Phases  [PhaseCount]complex128 `json:"-"` // 各相抽取(负值)
}

// CMEResult CME 目标计算结果
type CMEResult struct {
	UInit       PhaseVoltages       `json:"U_init"`    // 输入电压
	UTarget     PhaseVoltages       `json:"U_target"`  // 目标电压
	Umoy        float64             `json:"Umoy"`      // 平均电压
	DeltaUInit  float64             `json:"deltaU_init"`
	DeltaUEQUI8 float64             `json:"deltaU_EQUI8"` // 补偿后目标电压差
	IEQEst      float64             `json:"I_EQ_est"`     // 理论注入电流
	Ratios      [PhaseCount]float64 `json:"ratios"`       // 各相偏离比例
	ZphEff      float64             `json:"Zph_eff"`
	ZnEff       float64             `json:"Zn_eff"`
	ZphValid    bool                `json:"Zph_valid"`
	ZnValid     bool                `json:"Zn_valid"`
	Balanced    bool                `json:"balanced"` // 已平衡,无需补偿
	Aborted     bool                `json:"aborted"`
	AbortReason string              `json:"abortReason,omitempty"`
}

// ThermalClamp 热限制结果
type ThermalClamp struct {
	Current float64  `json:"current"`
	Limited bool     `json:"limited"`
	Limit   float64  `json:"limit"`
	Class   Duration `json:"class"`
}

// Coherence 一致性校验结果
type Coherence struct {
	Valid     bool                `json:"valid"`
	Errors    [PhaseCount]float64 `json:"errors"` // 各相绝对误差
	Tolerance float64             `json:"tolerance"`
}

// Iteration 单次标定迭代记录
type Iteration struct {
	Index          int           `json:"index"`
	Iinj           float64       `json:"Iinj"`
	Voltages       PhaseVoltages `json:"voltages"`
	DeltaUAchieved float64       `json:"deltaU_achieved"`
	Residual       float64       `json:"residual"`
	NeutralCurrent float64       `json:"neutralCurrent"`
}

// CalibrationResult 一次标定的最终状态
type CalibrationResult struct {
	RunID            string               `json:"runId"`
	CompensatorID    string               `json:"compensatorId"`
	NodeID           string               `json:"nodeId"`
	Model            string               `json:"model"`
	Converged        bool                 `json:"converged"`
	Iterations       int                  `json:"iterations"`
	FinalIinj        float64              `json:"finalIinj"`
	DeltaUAchieved   float64              `json:"deltaU_achieved"`
	DeltaUTarget     float64              `json:"deltaU_target"`
	Residual         float64              `json:"residual"`
	ThermalLimited   bool                 `json:"thermalLimited"`
	ThermalLimit     float64              `json:"thermalLimit"`
	PowerLimited     bool                 `json:"powerLimited"`
	CurrentLimit     float64              `json:"currentLimit"` // 实际生效上限
	VoltagesInitial  PhaseVoltages        `json:"voltagesInitial"`
	VoltagesAchieved PhaseVoltages        `json:"voltagesAchieved"`
	VoltagesTarget   PhaseVoltages        `json:"voltagesTarget"`
	Impedances       EquivalentImpedances `json:"impedances"`
	CME              CMEResult            `json:"cme"`
	Coherence        Coherence            `json:"coherence"`
	History          []Iteration          `json:"history"`
	Skipped          bool                 `json:"skipped"` // 未执行补偿
	SkipReason       string               `json:"skipReason,omitempty"`
	Error            string               `json:"error,omitempty"` // 求解失败信息,结果保留已完成的迭代
}

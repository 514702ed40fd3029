package types

// 相位索引
const (
	PhaseA = iota // A相
	PhaseB        // B相
	PhaseC        // C相
	PhaseCount    // 相数
)

// PhaseNames 相位名称
var PhaseNames = [PhaseCount]string{"A", "B", "C"}

// PhaseAngles 相位参考角度(度)
var PhaseAngles = [PhaseCount]float64{0, -120, 120}

// CME 经验公式常量(厂家标定数据,不可调整)
const (
	CMEImpedanceFloor = 0.15   // 阻抗下限(Ω),低于此值经验模型不可信
	CMEBalancedSpread = 0.5    // 电压差低于此值视为已平衡(V)
	CMEDenomSlope     = 0.9119 // 分母对数系数
	CMEDenomOffset    = 3.8654 // 分母常数项
	CMECurrentCoef    = 0.392  // 电流估算系数
	CMECurrentExp     = -0.8065
)

// 标定迭代常量
const (
	CMEToleranceV       = 0.5  // 收敛容差(V)
	CMEMaxIterations    = 20   // 最大迭代次数
	SecantDamping       = 0.7  // 阻尼因子
	SecantMaxStep       = 0.2  // 单次迭代最大相对步长
	SecantFallbackStep  = 1.05 // 斜率过小时的步进
	SecantFirstGain     = 0.5  // 首次比例修正增益
	SecantEpsilon       = 1e-6 // 斜率/差值判零阈值
	CoherenceToleranceV = 2.0  // 一致性校验默认容差(V)
)

// 热限制电流(A)
const (
	Thermal15MinA     = 80.0 // 15分钟
	Thermal3hA        = 60.0 // 3小时
	ThermalPermanentA = 45.0 // 长期
)

// 网络默认参数
const (
	DefaultPhaseVoltage = 230.0   // 额定相电压(V)
	EarthRadiusM        = 6371000 // 地球半径(米)
	FlowTolerance       = 1e-4    // 潮流收敛容差(V)
	FlowMaxIterations   = 100     // 潮流最大迭代次数
	FlowRelaxation      = 0.7     // 前推电压松弛因子
	FlowConstZRatio     = 0.8     // 相电压低于额定值该比例时负荷按恒阻抗计算
)

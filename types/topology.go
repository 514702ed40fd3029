package types

// Coordinate 地理坐标
type Coordinate struct {
	Lat float64 `toml:"lat" json:"lat"` // 纬度
	Lng float64 `toml:"lng" json:"lng"` // 经度
}

// Node 网络节点
type Node struct {
	ID       string     `toml:"id" json:"id"`
	Name     string     `toml:"name" json:"name"`
	IsSource bool       `toml:"is_source" json:"isSource"` // 电源(变压器)节点
	Lat      float64    `toml:"lat" json:"lat"`
	Lng      float64    `toml:"lng" json:"lng"`
	LoadKVA  [3]float64 `toml:"load_kva" json:"loadKVA"` // 各相负荷(kVA),负值为发电
	CosPhi   float64    `toml:"cos_phi" json:"cosPhi"`   // 功率因数,0按1处理
}

// Position 节点坐标
func (n *Node) Position() Coordinate { return Coordinate{Lat: n.Lat, Lng: n.Lng} }

// CableType 电缆型号
type CableType struct {
	ID          string  `toml:"id" json:"id"`
	Label       string  `toml:"label" json:"label"`
	R12OhmPerKm float64 `toml:"r12_ohm_per_km" json:"R12_ohm_per_km"` // 正序电阻
	X12OhmPerKm float64 `toml:"x12_ohm_per_km" json:"X12_ohm_per_km"` // 正序电抗
	R0OhmPerKm  float64 `toml:"r0_ohm_per_km" json:"R0_ohm_per_km"`   // 零序电阻
	X0OhmPerKm  float64 `toml:"x0_ohm_per_km" json:"X0_ohm_per_km"`   // 零序电抗
	MaxCurrentA float64 `toml:"max_current_a" json:"maxCurrent_A"`    // 载流量
}

// Cable 电缆段
type Cable struct {
	ID          string       `toml:"id" json:"id"`
	NodeAID     string       `toml:"node_a" json:"nodeAId"`
	NodeBID     string       `toml:"node_b" json:"nodeBId"`
	TypeID      string       `toml:"type_id" json:"typeId"`
	Coordinates []Coordinate `toml:"coords" json:"coordinates"` // 地理折线
}

// Other 返回电缆另一端节点
func (c *Cable) Other(nodeID string) string {
	if c.NodeAID == nodeID {
		return c.NodeBID
	}
	return c.NodeAID
}

// Topology 网络拓扑
type Topology struct {
	Nodes      []Node      `toml:"nodes" json:"nodes"`
	Cables     []Cable     `toml:"cables" json:"cables"`
	CableTypes []CableType `toml:"cable_types" json:"cableTypes"`
}

// Node 按ID查找节点
func (t *Topology) Node(id string) (*Node, bool) {
	for i := range t.Nodes {
		if t.Nodes[i].ID == id {
			return &t.Nodes[i], true
		}
	}
	return nil, false
}

// CableType 按ID查找电缆型号
func (t *Topology) CableType(id string) (*CableType, bool) {
	for i := range t.CableTypes {
		if t.CableTypes[i].ID == id {
			return &t.CableTypes[i], true
		}
	}
	return nil, false
}

// Sources 返回所有电源节点
func (t *Topology) Sources() []*Node {
	var list []*Node
	for i := range t.Nodes {
		if t.Nodes[i].IsSource {
			list = append(list, &t.Nodes[i])
		}
	}
	return list
}

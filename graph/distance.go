package graph

import (
	"lvnet/types"
	"math"
)

// Haversine 两点间大圆距离(米)
func Haversine(a, b types.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * types.EarthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// PolylineLength 折线逐段累加长度(米)
func PolylineLength(points []types.Coordinate) float64 {
	var length float64
	for i := 1; i < len(points); i++ {
		length += Haversine(points[i-1], points[i])
	}
	return length
}

// CableLength 电缆长度(米),折线不足两点时取两端节点距离
func CableLength(topo *types.Topology, c *types.Cable) float64 {
	if len(c.Coordinates) >= 2 {
		return PolylineLength(c.Coordinates)
	}
	a, okA := topo.Node(c.NodeAID)
	b, okB := topo.Node(c.NodeBID)
	if !okA || !okB {
		return 0
	}
	return Haversine(a.Position(), b.Position())
}

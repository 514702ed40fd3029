package graph

import (
	"errors"
	"fmt"
	"lvnet/types"
)

// 拓扑错误
var (
	ErrNoSource       = errors.New("网络没有电源节点")
	ErrMultipleSource = errors.New("网络存在多个电源节点")
	ErrUnreachable    = errors.New("节点与电源不连通")
)

// Branch 节点的上游支路
type Branch struct {
	Parent   string           // 上游节点
	Cable    *types.Cable     // 连接电缆
	Type     *types.CableType // 电缆型号,可能为空
	LengthKm float64          // 电缆长度(km)
}

// Tree 辐射状网络树
type Tree struct {
	Source   string             // 电源节点
	Order    []string           // 广度优先顺序
	Branches map[string]*Branch // 节点上游支路
	Children map[string][]string
}

// NewTree 从电源节点广度优先构建树
func NewTree(topo *types.Topology) (*Tree, error) {
	sources := topo.Sources()
	switch {
	case len(sources) == 0:
		return nil, ErrNoSource
	case len(sources) > 1:
		return nil, fmt.Errorf("%w: %d", ErrMultipleSource, len(sources))
	}
	// 邻接表
	adjacency := map[string][]*types.Cable{}
	for i := range topo.Cables {
		c := &topo.Cables[i]
		adjacency[c.NodeAID] = append(adjacency[c.NodeAID], c)
		adjacency[c.NodeBID] = append(adjacency[c.NodeBID], c)
	}
	tree := &Tree{
		Source:   sources[0].ID,
		Branches: map[string]*Branch{},
		Children: map[string][]string{},
	}
	visited := map[string]bool{tree.Source: true}
	queue := []string{tree.Source}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		tree.Order = append(tree.Order, curr)
		for _, c := range adjacency[curr] {
			next := c.Other(curr)
			if visited[next] {
				continue
			}
			visited[next] = true
			ct, _ := topo.CableType(c.TypeID)
			tree.Branches[next] = &Branch{
				Parent:   curr,
				Cable:    c,
				Type:     ct,
				LengthKm: CableLength(topo, c) / 1000,
			}
			tree.Children[curr] = append(tree.Children[curr], next)
			queue = append(queue, next)
		}
	}
	return tree, nil
}

// Contains 节点是否在树上
func (tree *Tree) Contains(nodeID string) bool {
	if nodeID == tree.Source {
		return true
	}
	_, ok := tree.Branches[nodeID]
	return ok
}

// PathToSource 返回节点到电源的支路列表(从节点向电源)
func (tree *Tree) PathToSource(nodeID string) ([]*Branch, error) {
	if !tree.Contains(nodeID) {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, nodeID)
	}
	var path []*Branch
	for n := nodeID; n != tree.Source; {
		b := tree.Branches[n]
		path = append(path, b)
		n = b.Parent
	}
	return path, nil
}

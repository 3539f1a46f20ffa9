package model

type NodeType string

const (
	InputNodeType NodeType = "input"
	OpNodeType    NodeType = "op"
)

// NodeInfo describes a node of a graph.
type NodeInfo struct {
	Type NodeType
	Name string
	Op   string
}

var (
	StartNode = &NodeInfo{Name: "start"}
	EndNode   = &NodeInfo{Name: "end"}
)

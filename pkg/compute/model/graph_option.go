package model

import "time"

// GraphOption defines the interface for graph options.
type GraphOption interface {
	// New initialises the graph option.
	New() error

	// PrepareNode runs when a node is added to the graph. Inputs have StartNode as their only parent.
	PrepareNode(parents []*NodeInfo, node *NodeInfo) error
	// PrepareRun runs before the first node is evaluated. sinks are the nodes nothing depends on.
	PrepareRun(sinks []*NodeInfo) error

	// OnNodeOutput runs everytime a node has been evaluated. It can be called concurrently.
	OnNodeOutput(node *NodeInfo, computationDuration time.Duration) error
	// OnEdge runs for each parent of an evaluated node, with the time between the parent output and the node start.
	// It can be called concurrently.
	OnEdge(parent, node *NodeInfo, waitDuration time.Duration) error

	// AfterRun runs once every node has been evaluated.
	AfterRun(totalDuration time.Duration) error
	// Finish runs after AfterRun has been called on every option.
	Finish() error
}

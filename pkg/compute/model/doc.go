// Package model provides the data structures shared by the compute package and its options.
// It defines the description of a node of the graph and the hooks a graph option can implement.
package model

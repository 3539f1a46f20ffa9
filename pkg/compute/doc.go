// Package compute evaluates a graph of tensor operations.
//
// A graph is built from named inputs and named operations consuming previously declared nodes, so it is acyclic by
// construction. Running the graph evaluates it layer by layer: every node of a layer only depends on nodes of
// previous layers, so the nodes of a layer are evaluated concurrently. The run stops on the first error, which is
// wrapped with the name of the failing node.
//
// Graph options (see the model package) are notified while the graph is built and run. The measure package records
// durations and the drawer package writes the graph in the DOT language.
package compute

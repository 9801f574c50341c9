// Package compflow implements dependency resolution and execution for a
// plug-in style data-collection and analysis framework.
//
// Components are small units of work that declare, by reference, the
// other components whose results they consume. A Registry builds a
// directed acyclic dependency graph from those declarations, a Run
// executes each component at most once in a topologically valid order,
// and a Broker collects outcomes — values, exceptional failures, or
// skips — while dispatching observers as each component completes.
package compflow

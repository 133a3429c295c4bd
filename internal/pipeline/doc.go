// Package pipeline pulls read blocks from a source, expands them over the
// phylogeny, and feeds the expansions in arrival order to a single sink.
//
// The contracts are BlockSource, Expander and Sink. With Threads > 1 the
// expansion step runs on a worker pool and a collector restores arrival
// order before the sink sees anything, so the output never depends on the
// thread count.
package pipeline

// Package pipeline assembles per-ticker cards out of the source adapters'
// sections: building the fixed-universe snapshot, merging the fixed and
// extension halves of the ticker universe, and sequencing concurrent
// invocations so only the most recent one ever commits a visible result.
package pipeline

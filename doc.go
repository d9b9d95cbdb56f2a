// Package composites provides composable samplers for Ising-model and
// QUBO problems.  A Sampler draws scored candidate solutions from a
// problem; composites are Samplers that wrap an inner Sampler and
// transform the problem on the way in (fixing variables, embedding onto
// a fixed topology, checking structure) or the returned samples on the
// way out (truncating, tracking).  The package also bundles a small set
// of local software solvers so the composites can be exercised without
// access to quantum hardware.
package composites

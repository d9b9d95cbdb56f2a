// This file provides functions for applying a known embedding of a
// logical problem onto a physical topology and for mapping answers
// back, including the composite that does both around an inner sampler.
// Searching for an embedding is out of scope; embeddings are supplied
// by the caller.

package composites

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Embeddings indicates the logical variable e[i] that maps to physical
// qubit i (or -1 for no logical variable).
type Embeddings []int

// chains inverts an Embeddings into a map from each logical variable to
// its chain of physical qubits, in ascending qubit order.
func (emb Embeddings) chains() map[int][]int {
	ch := make(map[int][]int)
	for q, v := range emb {
		if v < 0 {
			continue
		}
		ch[v] = append(ch[v], q)
	}
	return ch
}

// An EmbedProblemResult represents the result of an embedding of a problem in
// a physical topology.
type EmbedProblemResult struct {
	Prob Problem    // Embedded problem
	JC   Problem    // Chain edges (J values coupling vertices representing the same logical variable)
	Emb  Embeddings // Embedding that produced the problem
}

// EmbedProblem maps a logical Ising-model problem onto a physical
// topology using a known embedding.  Each logical field weight is
// spread uniformly over its chain; each logical coupler strength is
// spread uniformly over the physical couplers joining the two chains;
// and every physical coupler interior to a chain receives a
// ferromagnetic coupling of strength -chainStrength, reported
// separately in JC.  It fails with an ErrNoEmbedding error if a logical
// variable has no chain, two coupled logical variables have no physical
// coupler between their chains, or a multi-qubit chain has no interior
// couplers at all.
func EmbedProblem(pr Problem, emb Embeddings, adj Problem, chainStrength float64) (*EmbedProblemResult, error) {
	ch := emb.chains()
	edges := edgeSet(adj)

	embedded := make(Problem, 0, len(pr))
	for _, pe := range pr.Canonicalize() {
		if pe.I == pe.J {
			// Spread a field weight across its chain.
			chain, found := ch[pe.I]
			if !found {
				return nil, newErrorf(ErrNoEmbedding, "Logical variable %d has no chain", pe.I)
			}
			w := pe.Value / float64(len(chain))
			for _, q := range chain {
				embedded = append(embedded, ProblemEntry{I: q, J: q, Value: w})
			}
			continue
		}

		// Spread a coupler strength across the available physical
		// couplers between the two chains.
		ci, found := ch[pe.I]
		if !found {
			return nil, newErrorf(ErrNoEmbedding, "Logical variable %d has no chain", pe.I)
		}
		cj, found := ch[pe.J]
		if !found {
			return nil, newErrorf(ErrNoEmbedding, "Logical variable %d has no chain", pe.J)
		}
		avail := make([][2]int, 0, 1)
		for _, u := range ci {
			for _, v := range cj {
				if edges[edgeKey(u, v)] {
					avail = append(avail, [2]int{u, v})
				}
			}
		}
		if len(avail) == 0 {
			return nil, newErrorf(ErrNoEmbedding, "No physical coupler joins the chains of logical variables %d and %d", pe.I, pe.J)
		}
		w := pe.Value / float64(len(avail))
		for _, cp := range avail {
			embedded = append(embedded, ProblemEntry{I: cp[0], J: cp[1], Value: w})
		}
	}

	// Couple the interior of every chain ferromagnetically.
	jc := make(Problem, 0)
	for v, chain := range ch {
		if len(chain) < 2 {
			continue
		}
		interior := 0
		for a := 0; a < len(chain); a++ {
			for b := a + 1; b < len(chain); b++ {
				if edges[edgeKey(chain[a], chain[b])] {
					jc = append(jc, ProblemEntry{I: chain[a], J: chain[b], Value: -chainStrength})
					interior++
				}
			}
		}
		if interior == 0 {
			return nil, newErrorf(ErrNoEmbedding, "The chain of logical variable %d has no interior couplers", v)
		}
	}

	embCopy := make(Embeddings, len(emb))
	copy(embCopy, emb)
	return &EmbedProblemResult{
		Prob: embedded.Canonicalize(),
		JC:   jc.Canonicalize(),
		Emb:  embCopy,
	}, nil
}

// edgeSet converts an adjacency Problem into a set of normalized edges.
func edgeSet(adj Problem) map[[2]int]bool {
	edges := make(map[[2]int]bool, len(adj))
	for _, pe := range adj {
		if pe.I != pe.J {
			edges[edgeKey(pe.I, pe.J)] = true
		}
	}
	return edges
}

// edgeKey normalizes an edge so {u, v} and {v, u} compare equal.
func edgeKey(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}

// BrokenChains specifies how broken chains should be handled.
type BrokenChains int

// These are the valid values for a BrokenChains variable.
const (
	BrokenChainsMinimizeEnergy BrokenChains = iota // Choose the chain value that minimizes the logical energy
	BrokenChainsVote                               // Choose the majority value within the chain
	BrokenChainsDiscard                            // Drop solutions containing a broken chain
	BrokenChainsWeightedRandom                     // Choose randomly, weighted by the chain's split
)

// UnembedAnswer maps solutions from physical qubit numbers back to
// logical variable numbers.  A chain whose qubits disagree is broken
// and is resolved according to the given policy.  prob is the logical
// problem, used by the minimize-energy policy.
func UnembedAnswer(solns [][]int8, emb Embeddings, broken BrokenChains, prob Problem) ([][]int8, error) {
	ch := emb.chains()
	size := prob.maxVariable() + 1
	h, cMap := fieldsAndCouplers(prob)
	out := make([][]int8, 0, len(solns))

	for _, phys := range solns {
		logical := newSolution(size)
		brokenVars := make([]int, 0)
		ok := true
		for v, chain := range ch {
			if v >= size {
				continue
			}
			up, down := 0, 0
			for _, q := range chain {
				if q >= len(phys) || phys[q] == Unused {
					continue
				}
				if phys[q] > 0 {
					up++
				} else {
					down++
				}
			}
			switch {
			case up == 0 && down == 0:
				ok = false
			case up == 0:
				logical[v] = -1
			case down == 0:
				logical[v] = 1
			default:
				// The chain is broken; resolve it per policy.
				switch broken {
				case BrokenChainsDiscard:
					ok = false
				case BrokenChainsVote:
					// Ties go to the first qubit in the chain.
					switch {
					case up > down:
						logical[v] = 1
					case down > up:
						logical[v] = -1
					default:
						logical[v] = spinOf(phys, chain[0])
					}
				case BrokenChainsWeightedRandom:
					if rand.Intn(up+down) < up {
						logical[v] = 1
					} else {
						logical[v] = -1
					}
				case BrokenChainsMinimizeEnergy:
					brokenVars = append(brokenVars, v)
				default:
					return nil, newErrorf(ErrInvalidParameter, "Unrecognized broken-chains policy %d", broken)
				}
			}
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}

		// Resolve any chains deferred by the minimize-energy policy:
		// greedily choose each value against the already-settled
		// neighbors.
		for _, v := range brokenVars {
			field := h[v]
			for _, pe := range cMap[v] {
				if pe.J < size && logical[pe.J] != Unused && logical[pe.J] != 0 {
					field += pe.Value * float64(logical[pe.J])
				}
			}
			if field > 0 {
				logical[v] = -1
			} else {
				logical[v] = 1
			}
		}
		out = append(out, logical)
	}
	return out, nil
}

// spinOf returns the spin of a physical qubit, defaulting to +1 for
// out-of-range or unused positions.
func spinOf(phys []int8, q int) int8 {
	if q >= len(phys) || phys[q] == Unused || phys[q] >= 0 {
		return 1
	}
	return -1
}

// An EmbeddingComposite maps a logical problem onto a structured
// sampler's physical topology through a caller-supplied embedding,
// samples the embedded problem, and maps the answers back, recomputing
// every energy against the logical problem.
type EmbeddingComposite struct {
	Sampler       Sampler      // Inner (structured) sampler
	Emb           Embeddings   // Physical-to-logical embedding
	Adj           Problem      // Physical adjacency
	ChainStrength float64      // Magnitude of the ferromagnetic chain couplings
	Broken        BrokenChains // Broken-chain resolution policy
}

// NewEmbeddingComposite wraps a structured sampler in an embedding
// layer.  A chainStrength of zero selects a default of 1.
func NewEmbeddingComposite(inner Sampler, emb Embeddings, adj Problem, chainStrength float64) *EmbeddingComposite {
	if chainStrength == 0 {
		chainStrength = 1.0
	}
	return &EmbeddingComposite{
		Sampler:       inner,
		Emb:           emb,
		Adj:           adj,
		ChainStrength: chainStrength,
		Broken:        BrokenChainsMinimizeEnergy,
	}
}

// Sample embeds a logical problem, samples it, and unembeds the result.
func (c *EmbeddingComposite) Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error) {
	// The chain couplings are ferromagnetic Ising couplings, so run
	// the physical problem under the Ising convention regardless of the
	// logical convention.
	logical := p
	if pt == ProblemTypeQubo {
		logical, _ = p.ToIsing()
	}
	er, err := EmbedProblem(logical, c.Emb, c.Adj, c.ChainStrength)
	if err != nil {
		return SampleSet{}, err
	}
	physical := append(append(Problem{}, er.Prob...), er.JC...)

	inner, err := c.Sampler.Sample(physical, ProblemTypeIsing, sp)
	if err != nil {
		return SampleSet{}, errors.Wrap(err, "inner sampler failed on the embedded problem")
	}

	// Unembed row by row so that discarded rows can be matched up with
	// their occurrence tallies, recomputing each energy against the
	// original problem.
	var out SampleSet
	for i, phys := range inner.Solutions {
		rows, err := UnembedAnswer([][]int8{phys}, er.Emb, c.Broken, logical)
		if err != nil {
			return SampleSet{}, err
		}
		if len(rows) == 0 {
			continue // Discarded: a chain was broken.
		}
		soln := rows[0]
		if pt == ProblemTypeQubo {
			for j, v := range soln {
				if v == -1 {
					soln[j] = 0
				}
			}
		}
		out.appendSample(soln, p.Energy(soln), inner.Occurrences[i])
	}
	return finishReads(out, sp.orDefaults()), nil
}

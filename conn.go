// This file presents connection-related types and functions: a
// Connection is a registry of named solvers, and a Solver couples a
// registered sampler with its properties.

package composites

import (
	"sort"

	"github.com/rs/zerolog"
)

// A Connection represents a connection to a set of solvers.  Only local
// (software) solvers are available; the URL, token, and proxy fields
// are retained from configuration for diagnostic purposes but no
// network communication takes place.
type Connection struct {
	solvers map[string]*Solver // Registered solvers by name
	URL     string             // Connection name
	Token   string             // Token to authenticate a user
	Proxy   string             // Proxy URL
	log     zerolog.Logger     // Destination for debug output
}

// A ConnectionOption adjusts a Connection at construction time.
type ConnectionOption func(*Connection)

// WithLogger directs a Connection's debug output to the given logger.
func WithLogger(l zerolog.Logger) ConnectionOption {
	return func(c *Connection) {
		c.log = l
	}
}

// LocalConnection returns a connection to the set of local solvers
// (i.e., simulators).
func LocalConnection(opts ...ConnectionOption) *Connection {
	conn := &Connection{
		solvers: make(map[string]*Solver, 4),
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(conn)
	}
	conn.registerLocalSolvers()
	return conn
}

// registerLocalSolvers populates a Connection with the bundled
// software solvers.  The c4-prefixed solvers are structured on a
// {4, 4, 4} Chimera topology; the exact solver accepts any problem
// small enough to enumerate.
func (c *Connection) registerLocalSolvers() {
	c4, err := ChimeraAdjacency(4, 4, 4)
	if err != nil {
		panic(err) // Fixed arguments; cannot fail.
	}
	c4Props := chimeraProperties(c4)
	c.register("exact", ExactSolver{}, &SolverProperties{
		SupportedProblemTypes: []string{"ising", "qubo"},
		Parameters:            []string{"answer_mode"},
	})
	c.register("c4-sw_optimize", OptimizeSolver{}, c4Props)
	c.register("c4-sw_sample", SampleSolver{}, c4Props)
}

// register adds a solver to a Connection under a given name.
func (c *Connection) register(name string, s Sampler, props *SolverProperties) {
	c.solvers[name] = &Solver{
		Name:    name,
		Conn:    c,
		sampler: s,
		props:   props,
	}
}

// Solver returns a solver associated with a given connection.
func (c *Connection) Solver(name string) (*Solver, error) {
	s, found := c.solvers[name]
	if !found {
		return nil, newErrorf(ErrInvalidParameter, "Solver %q not found on connection %s", name, c.URL)
	}
	return s, nil
}

// Solvers returns a sorted list of all solvers available on the current
// connection.
func (c *Connection) Solvers() []string {
	list := make([]string, 0, len(c.solvers))
	for name := range c.solvers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// An IsingRangeProperties indicates the acceptable ranges of h and J
// coefficients.
type IsingRangeProperties struct {
	HMin float64
	HMax float64
	JMin float64
	JMax float64
}

// A QuantumSolverProperties records the available qubits and couplers.
type QuantumSolverProperties struct {
	NumQubits int      // Total number of qubits, both working and non-working, in the processor
	Qubits    []int    // Working qubit indices
	Couplers  [][2]int // Working couplers in the processor
}

// SolverProperties represents a solver's properties.
type SolverProperties struct {
	SupportedProblemTypes []string                 // "qubo" and/or "ising"
	IsingRanges           *IsingRangeProperties    // Range of h and J coefficients
	QuantumProps          *QuantumSolverProperties // Topology of a structured solver, or nil for unstructured solvers
	Parameters            []string                 // Valid solver parameter names, sorted in ascending order
}

// chimeraProperties builds the properties of a structured software
// solver from a Chimera adjacency.
func chimeraProperties(adj Problem) *SolverProperties {
	couplers := make([][2]int, len(adj))
	for i, pe := range adj {
		couplers[i] = [2]int{pe.I, pe.J}
	}
	qubits := adj.Variables()
	return &SolverProperties{
		SupportedProblemTypes: []string{"ising", "qubo"},
		IsingRanges:           &IsingRangeProperties{HMin: -2, HMax: 2, JMin: -1, JMax: 1},
		QuantumProps: &QuantumSolverProperties{
			NumQubits: len(qubits),
			Qubits:    qubits,
			Couplers:  couplers,
		},
		Parameters: []string{"annealing_time", "answer_mode", "beta", "num_reads", "random_seed"},
	}
}

// A Solver represents a named solver registered on a Connection.
type Solver struct {
	Name    string      // Solver name
	Conn    *Connection // Connection with which this solver is associated
	sampler Sampler     // Implementation that draws the samples
	props   *SolverProperties
}

// GetProperties returns the properties associated with a solver.
func (s *Solver) GetProperties() *SolverProperties {
	return s.props
}

// HardwareAdjacency returns the adjacency matrix for the solver's
// underlying topology.
func (s *Solver) HardwareAdjacency() (Problem, error) {
	if s.props == nil || s.props.QuantumProps == nil {
		return nil, newErrorf(ErrInvalidParameter, "Solver %s has no fixed topology", s.Name)
	}
	adj := make(Problem, len(s.props.QuantumProps.Couplers))
	for i, cp := range s.props.QuantumProps.Couplers {
		adj[i] = ProblemEntry{I: cp[0], J: cp[1]}
	}
	return adj, nil
}

// NewSolverParameters returns an appropriate SolverParameters for the
// solver type.
func (s *Solver) NewSolverParameters() *SolverParameters {
	sp := NewSolverParameters()
	switch s.Name {
	case "c4-sw_optimize":
		sp.NumReads = 10
	case "c4-sw_sample":
		sp.NumReads = 10
		sp.Beta = 3.0
	}
	return sp
}

// Sample draws samples from a problem.  Structured solvers reject
// problems that do not fit their topology before any work is done.
func (s *Solver) Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error) {
	if s.props != nil && s.props.QuantumProps != nil {
		if err := checkStructure(p, s.props.QuantumProps.Qubits, s.props.QuantumProps.Couplers); err != nil {
			return SampleSet{}, err
		}
	}
	s.Conn.log.Debug().
		Str("solver", s.Name).
		Str("type", pt.String()).
		Int("entries", len(p)).
		Msg("submitting problem")
	return s.sampler.Sample(p, pt, sp)
}

// SolveIsing solves an Ising-model problem.
func (s *Solver) SolveIsing(p Problem, sp *SolverParameters) (SampleSet, error) {
	return s.Sample(p, ProblemTypeIsing, sp)
}

// SolveQubo solves a QUBO problem.
func (s *Solver) SolveQubo(p Problem, sp *SolverParameters) (SampleSet, error) {
	return s.Sample(p, ProblemTypeQubo, sp)
}

package omok

import "time"

const DefaultDepth = 3

// Limits bounds one search. Zero Nodes or Movetime means unbounded.
type Limits struct {
	Depth    int
	Nodes    int64
	Movetime time.Duration

	// OnIteration is called after every completed deepening iteration.
	OnIteration func(IterationInfo)
}

type IterationInfo struct {
	Depth   int
	Result  SearchResult
	Nodes   int64
	Elapsed time.Duration
}

func DefaultLimits() Limits {
	return Limits{Depth: DefaultDepth}
}

func (l Limits) WithDepth(depth int) Limits {
	l.Depth = depth
	return l
}

func (l Limits) WithNodes(nodes int64) Limits {
	l.Nodes = nodes
	return l
}

func (l Limits) WithMovetime(d time.Duration) Limits {
	l.Movetime = d
	return l
}

type SearchStats struct {
	Nodes          int64
	Leaves         int64
	Cutoffs        int64
	CompletedDepth int
	Aborted        bool
	Start          time.Time
	Elapsed        time.Duration
}

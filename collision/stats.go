package collision

import "time"

// Stats counts the work done by one query. A nil *Stats counts nothing.
type Stats struct {
	NumBVTests   int           `json:"num_bv_tests"`
	NumLeafTests int           `json:"num_leaf_tests"`
	QueryTime    time.Duration `json:"query_time"`
}

func (s *Stats) bvTest() {
	if s != nil {
		s.NumBVTests++
	}
}

func (s *Stats) leafTest() {
	if s != nil {
		s.NumLeafTests++
	}
}

// Add folds other into s.
func (s *Stats) Add(other *Stats) {
	if s == nil || other == nil {
		return
	}
	s.NumBVTests += other.NumBVTests
	s.NumLeafTests += other.NumLeafTests
	s.QueryTime += other.QueryTime
}

package compressed

// Stats holds list counters. All counts are cumulative since construction.
type Stats struct {
	Len            int
	Anchors        int   // Materialized values held by the list.
	Hits           int64 // Reads answered from a stored value.
	Misses         int64 // Reads that had to call the generator.
	GenerateCalls  int64
	FirstCalls     int64
	Recalculations int64
}

// HitRate returns the fraction of reads answered without the generator (0.0 to 1.0).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CompressionRatio returns stored anchors per logical element. An empty list reports 0.
func (s Stats) CompressionRatio() float64 {
	if s.Len == 0 {
		return 0
	}

	return float64(s.Anchors) / float64(s.Len)
}

// counters is embedded by both strategies.
type counters struct {
	hits           int64
	misses         int64
	generateCalls  int64
	firstCalls     int64
	recalculations int64
}

func (c *counters) snapshot(length, anchors int) Stats {
	return Stats{
		Len:            length,
		Anchors:        anchors,
		Hits:           c.hits,
		Misses:         c.misses,
		GenerateCalls:  c.generateCalls,
		FirstCalls:     c.firstCalls,
		Recalculations: c.recalculations,
	}
}

package connector

// ConnectionStats is a point-in-time snapshot of the session pool backing
// a Connection.
type ConnectionStats struct {
	OpenConnections int
	InUse           int
	Idle            int
	MaxConnections  int
}

// Saturation reports the fraction of pool capacity currently acquired,
// in the range [0, 1]. It returns 0 when the pool size is unknown.
func (s ConnectionStats) Saturation() float64 {
	if s.MaxConnections <= 0 {
		return 0
	}
	return float64(s.InUse) / float64(s.MaxConnections)
}

package domain

// Stats summarises a computed layout.
type Stats struct {
	Nodes     int `json:"nodes"`
	Edges     int `json:"edges"`
	MaxColumn int `json:"max_column"`
}

// Columns returns the number of lanes the rendering spans.
func (s Stats) Columns() int {
	if s.Nodes == 0 {
		return 0
	}
	return s.MaxColumn + 1
}

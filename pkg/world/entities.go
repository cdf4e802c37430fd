package world

// FeatureType classifies a connected land/water region.
type FeatureType uint8

const (
	FeatureNone FeatureType = iota
	FeatureOcean
	FeatureLake
	FeatureIsland
)

func (t FeatureType) String() string {
	switch t {
	case FeatureOcean:
		return "ocean"
	case FeatureLake:
		return "lake"
	case FeatureIsland:
		return "island"
	default:
		return "none"
	}
}

// Feature is a maximal connected region of uniform land/water classification.
type Feature struct {
	ID     int
	Type   FeatureType
	Land   bool
	Border bool
	// FirstCell is the cell the flood fill started from.
	FirstCell int
	Cells     []int
	Area      float64

	// Lake data. Shoreline lists land cells adjacent to the lake.
	Shoreline []int
	Height    float64
	Closed    bool
	Outlet    int
	Flux      float64
}

// River is an ordered path of cells from source to mouth. It owns no cells.
type River struct {
	ID     int
	Name   string
	Source int
	Mouth  int
	Cells  []int
	// Parent is the river this one joins, 0 if it reaches water on its own.
	Parent    int
	Discharge float64
	Length    float64
	Removed   bool
}

// Culture is a named cultural territory.
type Culture struct {
	ID           int
	Name         string
	Color        string
	Base         int
	Center       int
	Expansionism float64
	Cells        int
	Area         float64
	Rural        float64
	Urban        float64
	Removed      bool
}

// Burg is a settlement anchored to exactly one cell.
type Burg struct {
	ID         int
	Name       string
	Cell       int
	X, Y       float64
	State      int
	Culture    int
	Feature    int
	Capital    bool
	Port       bool
	Population float64
	Removed    bool
}

// State is a polity founded by a capital burg. State.ID equals Capital.
type State struct {
	ID           int
	Name         string
	Color        string
	Capital      int
	Center       int
	Culture      int
	Expansionism float64
	Burgs        int
	Cells        int
	Area         float64
	Rural        float64
	Urban        float64
	Removed      bool
}

// Religion is an organized faith spreading from an origin cell.
type Religion struct {
	ID           int
	Name         string
	Color        string
	Type         string
	Culture      int
	Center       int
	Expansionism float64
	Cells        int
	Area         float64
	Rural        float64
	Urban        float64
	Removed      bool
}

// MarkerType enumerates point-of-interest kinds.
type MarkerType string

const (
	MarkerVolcano MarkerType = "volcano"
	MarkerBridge  MarkerType = "bridge"
	MarkerLake    MarkerType = "lake"
)

// Marker is a point of interest anchored to a cell.
type Marker struct {
	ID   int
	Type MarkerType
	Cell int
	X, Y float64
	Note string
}

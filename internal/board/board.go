// internal/board/board.go
package board

// Package board holds the immutable 40-square configuration table. It is
// loaded once at process start; per-game copies of the mutable-relevant
// fields (tax, rent schedule, house cost) are made at game creation.

// SquareType classifies a board position.
type SquareType string

const (
	TypeProperty      SquareType = "PROPERTY"
	TypeTrainStation  SquareType = "TRAIN_STATION"
	TypeUtility       SquareType = "UTILITY"
	TypeLotto         SquareType = "LOTTO"
	TypeChance        SquareType = "CHANCE"
	TypeIsolation     SquareType = "ISOLATION"
	TypePayDay        SquareType = "PAY_DAY"
	TypeCentralPark   SquareType = "CENTRAL_PARK"
	TypeGoToIsolation SquareType = "GO_TO_ISOLATION"
)

// Fixed positions of the special squares (1-based, 40 squares).
const (
	NumSquares            = 40
	PayDayPosition        = 1
	IsolationPosition     = 11
	CentralParkPosition   = 21
	GoToIsolationPosition = 31

	// SolarFarmPosition is the utility whose owner pays no electricity.
	SolarFarmPosition = 29
)

// SquareConfig is the static rule set for one square.
type SquareConfig struct {
	ID      int
	Name    string
	Type    SquareType
	GroupID int

	Price     int
	HouseCost int
	// Tax is the per-turn tax rate in percent of purchase price.
	Tax float64
	// ElectricityCost is the per-house per-turn utility charge.
	ElectricityCost int
	// Rent is indexed by house count (0..5, 5 = hotel). For train stations
	// the index is the number of stations the owner holds minus one.
	Rent [6]int
}

// IsPurchasable reports whether the square can be owned.
func (c SquareConfig) IsPurchasable() bool {
	switch c.Type {
	case TypeProperty, TypeTrainStation, TypeUtility:
		return true
	}
	return false
}

var squares = map[int]SquareConfig{}

func init() {
	for _, c := range table {
		squares[c.ID] = c
	}
	if len(squares) != NumSquares {
		panic("board: configuration table must hold exactly 40 squares")
	}
}

// Get returns the configuration for a square id.
func Get(id int) (SquareConfig, bool) {
	c, ok := squares[id]
	return c, ok
}

// MustGet returns the configuration for a known-valid square id.
func MustGet(id int) SquareConfig {
	c, ok := squares[id]
	if !ok {
		panic("board: unknown square id")
	}
	return c
}

// GroupSquares returns the ids of every square in the given group, ascending.
func GroupSquares(groupID int) []int {
	var ids []int
	for id := 1; id <= NumSquares; id++ {
		if squares[id].GroupID == groupID {
			ids = append(ids, id)
		}
	}
	return ids
}

func property(id int, name string, group, price, houseCost int, tax float64, elec int, rent [6]int) SquareConfig {
	return SquareConfig{
		ID: id, Name: name, Type: TypeProperty, GroupID: group,
		Price: price, HouseCost: houseCost, Tax: tax, ElectricityCost: elec, Rent: rent,
	}
}

func station(id int, name string) SquareConfig {
	return SquareConfig{
		ID: id, Name: name, Type: TypeTrainStation, GroupID: 9,
		Price: 200, Tax: 2, Rent: [6]int{25, 50, 100, 200},
	}
}

// table is the full NYC-themed board. Group ids 1-8 are property color
// groups, 9 is train stations, 10 is utilities.
var table = []SquareConfig{
	{ID: 1, Name: "Pay Day", Type: TypePayDay},

	property(2, "Mott Haven", 1, 60, 50, 1, 2, [6]int{2, 10, 30, 90, 160, 250}),
	{ID: 3, Name: "Lotto", Type: TypeLotto},
	property(4, "Melrose", 1, 60, 50, 1, 2, [6]int{4, 20, 60, 180, 320, 450}),
	property(5, "Port Morris", 1, 80, 50, 1.5, 2, [6]int{6, 30, 90, 270, 400, 550}),
	station(6, "Grand Central Terminal"),
	property(7, "Hunts Point", 2, 100, 50, 2, 3, [6]int{6, 30, 90, 270, 400, 550}),
	{ID: 8, Name: "Chance", Type: TypeChance},
	property(9, "Longwood", 2, 100, 50, 2, 3, [6]int{8, 40, 100, 300, 450, 600}),
	property(10, "Morrisania", 2, 120, 50, 2, 3, [6]int{10, 50, 150, 450, 625, 750}),

	{ID: 11, Name: "Isolation", Type: TypeIsolation},
	property(12, "East Harlem", 3, 140, 100, 2.5, 4, [6]int{10, 50, 150, 450, 625, 750}),
	{ID: 13, Name: "Con Edison", Type: TypeUtility, GroupID: 10, Price: 150, Tax: 1, Rent: [6]int{20, 40}},
	property(14, "Harlem", 3, 140, 100, 2.5, 4, [6]int{12, 60, 180, 500, 700, 900}),
	property(15, "Washington Heights", 3, 160, 100, 2.5, 4, [6]int{14, 70, 200, 550, 750, 950}),
	station(16, "Penn Station"),
	property(17, "Inwood", 4, 180, 100, 3, 4, [6]int{14, 70, 200, 550, 750, 950}),
	{ID: 18, Name: "Lotto", Type: TypeLotto},
	property(19, "Chelsea", 4, 180, 100, 3, 4, [6]int{16, 80, 220, 600, 800, 1000}),
	property(20, "Hell's Kitchen", 4, 200, 100, 3, 4, [6]int{18, 90, 250, 700, 875, 1050}),

	{ID: 21, Name: "Central Park", Type: TypeCentralPark},
	property(22, "Midtown", 5, 220, 150, 3.5, 5, [6]int{18, 90, 250, 700, 875, 1050}),
	{ID: 23, Name: "Chance", Type: TypeChance},
	property(24, "Murray Hill", 5, 220, 150, 3.5, 5, [6]int{20, 100, 300, 750, 925, 1100}),
	property(25, "Gramercy", 5, 240, 150, 3.5, 5, [6]int{22, 110, 330, 800, 975, 1150}),
	station(26, "Atlantic Terminal"),
	property(27, "Greenwich Village", 6, 260, 150, 4, 5, [6]int{22, 110, 330, 800, 975, 1150}),
	property(28, "SoHo", 6, 260, 150, 4, 5, [6]int{24, 120, 360, 850, 1025, 1200}),
	{ID: 29, Name: "Solar Farm", Type: TypeUtility, GroupID: 10, Price: 150, Tax: 1, Rent: [6]int{20, 40}},
	property(30, "Tribeca", 6, 280, 150, 4, 5, [6]int{26, 130, 390, 900, 1100, 1275}),

	{ID: 31, Name: "Go To Isolation", Type: TypeGoToIsolation},
	property(32, "Financial District", 7, 300, 200, 4.5, 6, [6]int{26, 130, 390, 900, 1100, 1275}),
	property(33, "Battery Park", 7, 300, 200, 4.5, 6, [6]int{28, 150, 450, 1000, 1200, 1400}),
	{ID: 34, Name: "Lotto", Type: TypeLotto},
	property(35, "Upper West Side", 7, 320, 200, 4.5, 6, [6]int{30, 160, 470, 1050, 1250, 1450}),
	station(36, "Hoboken Terminal"),
	{ID: 37, Name: "Chance", Type: TypeChance},
	property(38, "Upper East Side", 8, 350, 200, 5, 6, [6]int{35, 175, 500, 1100, 1300, 1500}),
	property(39, "Park Avenue", 8, 350, 200, 5, 6, [6]int{35, 175, 500, 1100, 1300, 1500}),
	property(40, "Fifth Avenue", 8, 400, 200, 5, 6, [6]int{50, 200, 600, 1400, 1700, 2000}),
}

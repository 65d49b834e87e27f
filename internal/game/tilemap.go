package game

// CellKind identifies what occupies a tile of the collision map. The numeric
// values are part of the level format and must not be reordered.
type CellKind uint8

const (
	CellEmpty          CellKind = iota // Walkable floor
	CellChair                          // Group of chairs, breakable
	CellLight                          // Lamp, breakable
	CellBotSpawn                       // Bot start marker, cleared once the bot is extracted
	CellAvoidable                      // Bush, blocks movement but not sight
	CellSolid                          // Wall with no exposed edge
	cellReserved                       // unused
	CellBig                            // Vending machine, breakable
	CellFlower                         // Flowers, breakable
	CellTable                          // Table, breakable
	CellBonsai                         // Tree, breakable
	CellWallDown                       // Wall, solid bottom edge
	CellWallLeft                       // Wall, solid left edge
	CellWallRight                      // Wall, solid right edge
	CellWallUpDown                     // Wall, solid top and bottom edges
	CellWallUpLeft                     // Wall, solid top and left edges
	CellWallUpRight                    // Wall, solid top and right edges
	CellWallUpDownLeft                 // Wall, three solid edges
	CellWallUpDownRight                // Wall, three solid edges
	CellWallUpLeftRight                // Wall, three solid edges
	CellWallUpDownLeftRight            // Free-standing wall block
	CellWallDownLeft                   // Wall, solid bottom and left edges
	CellWallDownRight                  // Wall, solid bottom and right edges
	CellWallDownLeftRight              // Wall, three solid edges
	CellWallLeftRight                  // Wall, solid left and right edges
	CellWallUp                         // Wall, solid top edge
	cellKindCount                      // sentinel
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellChair:
		return "chair"
	case CellLight:
		return "light"
	case CellBotSpawn:
		return "bot_spawn"
	case CellAvoidable:
		return "avoidable"
	case CellSolid:
		return "solid"
	case CellBig:
		return "big"
	case CellFlower:
		return "flower"
	case CellTable:
		return "table"
	case CellBonsai:
		return "bonsai"
	}
	if k.IsWall() {
		return "wall_" + wallEdges(k).String()
	}
	return "unknown"
}

// Edge is a bit set of the solid sides of a wall tile.
type Edge uint8

const (
	EdgeUp Edge = 1 << iota
	EdgeDown
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	s := ""
	if e&EdgeUp != 0 {
		s += "u"
	}
	if e&EdgeDown != 0 {
		s += "d"
	}
	if e&EdgeLeft != 0 {
		s += "l"
	}
	if e&EdgeRight != 0 {
		s += "r"
	}
	if s == "" {
		return "none"
	}
	return s
}

// Valid reports whether k is a cell kind of the level format.
func (k CellKind) Valid() bool { return k < cellKindCount }

// IsWall reports whether rockets stop on this tile and leave impacts.
func (k CellKind) IsWall() bool {
	return k >= CellWallDown && k <= CellWallUp
}

// wallEdges returns the solid sides of a wall tile.
func wallEdges(k CellKind) Edge {
	switch k {
	case CellWallDown:
		return EdgeDown
	case CellWallLeft:
		return EdgeLeft
	case CellWallRight:
		return EdgeRight
	case CellWallUpDown:
		return EdgeUp | EdgeDown
	case CellWallUpLeft:
		return EdgeUp | EdgeLeft
	case CellWallUpRight:
		return EdgeUp | EdgeRight
	case CellWallUpDownLeft:
		return EdgeUp | EdgeDown | EdgeLeft
	case CellWallUpDownRight:
		return EdgeUp | EdgeDown | EdgeRight
	case CellWallUpLeftRight:
		return EdgeUp | EdgeLeft | EdgeRight
	case CellWallUpDownLeftRight:
		return EdgeUp | EdgeDown | EdgeLeft | EdgeRight
	case CellWallDownLeft:
		return EdgeDown | EdgeLeft
	case CellWallDownRight:
		return EdgeDown | EdgeRight
	case CellWallDownLeftRight:
		return EdgeDown | EdgeLeft | EdgeRight
	case CellWallLeftRight:
		return EdgeLeft | EdgeRight
	case CellWallUp:
		return EdgeUp
	default:
		return 0
	}
}

// wallKindForEdges is the inverse of wallEdges. A wall with no exposed side
// is CellSolid.
func wallKindForEdges(e Edge) CellKind {
	for k := CellWallDown; k <= CellWallUp; k++ {
		if wallEdges(k) == e {
			return k
		}
	}
	return CellSolid
}

// cellFactor returns the fraction of a tile, centred, that blocks the player.
func cellFactor(k CellKind) float64 {
	switch k {
	case CellBig:
		return 0.4
	case CellLight, CellTable:
		return 0.2
	default:
		return 1.0
	}
}

// cellSeeThrough reports whether bots can see across the tile.
func cellSeeThrough(k CellKind) bool {
	switch k {
	case CellEmpty, CellAvoidable, CellLight, CellTable:
		return true
	default:
		return false
	}
}

// cellBreakable reports whether a rocket can destroy what stands on the tile.
func cellBreakable(k CellKind) bool {
	switch k {
	case CellChair, CellLight, CellBig, CellFlower, CellTable, CellBonsai:
		return true
	default:
		return false
	}
}

// CollisionMap is the per-tile collision grid, row-major.
type CollisionMap [MapSize]CellKind

// At returns the kind of tile (x,z).
func (m *CollisionMap) At(x, z int) CellKind {
	return m[TileIndex(x, z)]
}

// Set overwrites tile (x,z).
func (m *CollisionMap) Set(x, z int, k CellKind) {
	m[TileIndex(x, z)] = k
}

// checked returns the kind at a raw index, aborting the step when the index
// falls outside the grid.
func (m *CollisionMap) checked(op string, x, z int) CellKind {
	if x < 0 || x >= MapEdgeSize || z < 0 || z >= MapEdgeSize {
		fatalf(op, "tile (%d,%d) outside the %dx%d map", x, z, MapEdgeSize, MapEdgeSize)
	}
	return m[z*MapEdgeSize+x]
}

// MoveFlag is the walkability class of a tile in the move map.
type MoveFlag uint8

const (
	MoveFree     MoveFlag = iota // walkable
	MoveWall                     // structural wall
	MoveObstacle                 // breakable or avoidable object
)

func (f MoveFlag) String() string {
	switch f {
	case MoveFree:
		return "free"
	case MoveWall:
		return "wall"
	case MoveObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// NoArea marks a tile that belongs to no area in the bot map.
const NoArea = 0xFF

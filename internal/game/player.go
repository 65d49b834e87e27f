package game

import "math"

// Player health limits.
const (
	PlayerMaxHealth    = 100
	playerBoundingSize = Factor / 4
)

// Player is the user-controlled entity.
type Player struct {
	X, Y, Z   float64
	Direction float64

	health  int
	winning bool
}

// NewPlayer returns a player at full health facing up the map.
func NewPlayer() *Player {
	return &Player{health: PlayerMaxHealth, Direction: math.Pi}
}

// BoundingSize is the side of the square the player occupies.
func (p *Player) BoundingSize() float64 { return playerBoundingSize }

// Health returns the current health.
func (p *Player) Health() int { return p.health }

// Alive reports whether health is above zero.
func (p *Player) Alive() bool { return p.health > 0 }

// Winning reports whether the level has been won.
func (p *Player) Winning() bool { return p.winning }

// SetWinner marks the level as won.
func (p *Player) SetWinner() { p.winning = true }

// SetLoser clears the won flag.
func (p *Player) SetLoser() { p.winning = false }

// DecreaseHealth removes n health, never going below zero.
func (p *Player) DecreaseHealth(n int) {
	p.health -= n
	if p.health < 0 {
		p.health = 0
	}
}

// IncreaseHealth adds n health up to the maximum.
func (p *Player) IncreaseHealth(n int) {
	p.health += n
	if p.health > PlayerMaxHealth {
		p.health = PlayerMaxHealth
	}
}

// Respawn restores full health and puts the player back on the floor.
func (p *Player) Respawn() {
	p.health = PlayerMaxHealth
	p.Y = 0
}

// PlaceAt moves the player to the centre of a tile with the given facing.
func (p *Player) PlaceAt(t TilePos, dir float64) {
	p.X, p.Z = t.Center()
	p.Y = 0
	p.Direction = wrapDirection(dir)
}

// Tile returns the tile under the player.
func (p *Player) Tile() TilePos { return tileAt(p.X, p.Z) }

// IntersectsWith reports whether the player's bounding sphere touches an
// item's.
func (p *Player) IntersectsWith(it *HealthPowerUp) bool {
	dx := p.X - it.X
	dz := p.Z - it.Z
	r := p.BoundingSize()/2 + it.Radius
	return dx*dx+dz*dz <= r*r
}

// Collects takes the item if the player needs it.
func (p *Player) Collects(it *HealthPowerUp) bool {
	if it.collected || p.health >= PlayerMaxHealth {
		return false
	}
	p.IncreaseHealth(it.HealthGain)
	it.collected = true
	return true
}

package game

// Health power-up defaults.
const (
	healthItemGain    = 20
	healthItemRadius  = Factor / 4
	healthItemFrames  = 8
	infoMessageMillis = 2000
)

// ItemSpec is one collectible from the level's item list.
type ItemSpec struct {
	Name             string
	AfterCollectName string
	Tile             TilePos
	HealthGain       int
}

// HealthPowerUp restores health when the player walks into it.
type HealthPowerUp struct {
	Name             string
	AfterCollectName string
	X, Z             float64
	Radius           float64
	HealthGain       int
	Frame            int

	collected bool
	disposed  bool
}

// Collected reports whether the player picked the item up.
func (h *HealthPowerUp) Collected() bool { return h.collected }

// updateFrameIndex advances the idle spin.
func (h *HealthPowerUp) updateFrameIndex() {
	h.Frame = (h.Frame + 1) % healthItemFrames
}

// Dispose marks the item gone.
func (h *HealthPowerUp) Dispose() { h.disposed = true }

// HealthPowerUpFactory turns item specs into live items.
type HealthPowerUpFactory struct {
	specs []ItemSpec
}

// NewHealthPowerUpFactory returns a factory over the level's item list.
func NewHealthPowerUpFactory(specs []ItemSpec) *HealthPowerUpFactory {
	return &HealthPowerUpFactory{specs: specs}
}

// Spawn builds a fresh set of items.
func (f *HealthPowerUpFactory) Spawn() []*HealthPowerUp {
	out := make([]*HealthPowerUp, 0, len(f.specs))
	for _, s := range f.specs {
		gain := s.HealthGain
		if gain <= 0 {
			gain = healthItemGain
		}
		after := s.AfterCollectName
		if after == "" {
			after = "health +" + itoa(gain)
		}
		x, z := s.Tile.Center()
		out = append(out, &HealthPowerUp{
			Name:             s.Name,
			AfterCollectName: after,
			X:                x,
			Z:                z,
			Radius:           healthItemRadius,
			HealthGain:       gain,
		})
	}
	return out
}

package game

// SoundID selects a sample of the sound bank.
type SoundID int

const (
	SoundRocketLaunch SoundID = iota
	SoundWallHit
	SoundHit
	SoundDecoBreak
	SoundTableBreak
	SoundApplause
	SoundBotSpotted
	SoundBotHit1
	SoundBotHit2
	SoundBotHit3
	SoundTerm
	soundCount
)

func (s SoundID) String() string {
	switch s {
	case SoundRocketLaunch:
		return "launch"
	case SoundWallHit:
		return "wall_hit"
	case SoundHit:
		return "hit"
	case SoundDecoBreak:
		return "deco_break"
	case SoundTableBreak:
		return "table_break"
	case SoundApplause:
		return "applause"
	case SoundBotSpotted:
		return "bot_spotted"
	case SoundBotHit1, SoundBotHit2, SoundBotHit3:
		return "bot_hit"
	case SoundTerm:
		return "term"
	default:
		return "unknown"
	}
}

// SoundCount is the size of the sound bank.
const SoundCount = int(soundCount)

// Moving sound masks. Each bit is one looping channel.
const (
	MovingPlayer  = 1 << 1
	movingBotWalk = 6 // first bot-walk channel bit
)

// BotWalkMask returns the moving-sound mask of bot-walk channel i.
func BotWalkMask(i int) int { return 1 << (movingBotWalk + i) }

// SoundTrigger receives fire-and-forget sound requests. Positions are
// fixed-point; the backend attenuates by the source-listener distance.
type SoundTrigger interface {
	PlaySound(id SoundID, srcX, srcZ, listenerX, listenerZ int)
	PlayBotHit(srcX, srcZ, listenerX, listenerZ int)
	PlayAreaCleared()
	PlayTermSound()
	StartMovingSound(mask int)
	StopMovingSound(mask int)
}

// NopSound discards every request.
type NopSound struct{}

func (NopSound) PlaySound(SoundID, int, int, int, int) {}
func (NopSound) PlayBotHit(int, int, int, int)         {}
func (NopSound) PlayAreaCleared()                      {}
func (NopSound) PlayTermSound()                        {}
func (NopSound) StartMovingSound(int)                  {}
func (NopSound) StopMovingSound(int)                   {}

const (
	botWalkChannels = 3
	botWalkMinPlay  = 800 // ms a channel plays before it may stop
)

// BotWalkGate drives the looping bot footstep channels from the number of
// walking bots. A channel that started keeps playing for at least
// botWalkMinPlay so quick start/stop flips do not flood the mixer.
type BotWalkGate struct {
	requested [botWalkChannels]bool
	playing   [botWalkChannels]bool
	since     [botWalkChannels]int64
	walkers   int
}

// Request asks channel i to play.
func (g *BotWalkGate) Request(i int) { g.requested[i%botWalkChannels] = true }

// Unrequest lets channel i stop once its minimum play time is over.
func (g *BotWalkGate) Unrequest(i int) { g.requested[i%botWalkChannels] = false }

// Walkers returns the walker count of the last update.
func (g *BotWalkGate) Walkers() int { return g.walkers }

// Playing reports whether channel i is playing.
func (g *BotWalkGate) Playing(i int) bool { return g.playing[i%botWalkChannels] }

// update adjusts the requests from the walker count of the previous and the
// current frame.
func (g *BotWalkGate) update(walkers int) {
	old := g.walkers
	g.walkers = walkers
	switch {
	case walkers > old:
		if old >= botWalkChannels {
			return
		}
		n := min(botWalkChannels, walkers) - old
		for i := 0; i < n; i++ {
			g.Request(old)
			old++
		}
	case walkers < old:
		if walkers <= 0 {
			for i := 0; i < botWalkChannels; i++ {
				g.Unrequest(i)
			}
			return
		}
		if old > botWalkChannels {
			return
		}
		for n := old - walkers; n > 0; n-- {
			old--
			g.Unrequest(old)
		}
	}
}

// Step starts and stops channels to match the requests.
func (g *BotWalkGate) Step(now int64, snd SoundTrigger) {
	for i := 0; i < botWalkChannels; i++ {
		if g.requested[i] && !g.playing[i] {
			snd.StartMovingSound(BotWalkMask(i))
			g.playing[i] = true
			g.since[i] = now
		}
		if !g.requested[i] && g.playing[i] && g.since[i]+botWalkMinPlay < now {
			snd.StopMovingSound(BotWalkMask(i))
			g.playing[i] = false
		}
	}
}

// Reset silences the gate without emitting stop requests.
func (g *BotWalkGate) Reset() { *g = BotWalkGate{} }

package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

const sampleRate = beep.SampleRate(44100)

// File names of the one-shot samples, indexed by game.SoundID.
var sampleFiles = [game.SoundCount]string{
	"launch", "wallhit", "hit", "deco", "table", "applause",
	"greeting", "bothit1", "bothit2", "bothit3", "term",
}

// Looping footstep samples.
const (
	walkFile    = "walk"
	botWalkFile = "botwalk"
)

// tone is the synthesized stand-in for a missing sample.
type tone struct {
	freq float64
	ms   int
	kind int // 0 sine, 1 square, 2 sawtooth
}

var fallbackTones = [game.SoundCount]tone{
	{180, 220, 2}, // launch
	{90, 120, 1},  // wall hit
	{140, 160, 1}, // hit
	{600, 90, 1},  // deco
	{300, 140, 1}, // table
	{520, 900, 0}, // applause
	{440, 300, 0}, // greeting
	{260, 180, 2}, // bot hit
	{230, 180, 2},
	{200, 180, 2},
	{110, 1400, 0}, // term
}

var (
	walkTone    = tone{70, 60, 1}
	botWalkTone = tone{55, 60, 1}
)

// Bank holds the decoded samples. A nil entry plays its fallback tone.
type Bank struct {
	samples [game.SoundCount]*beep.Buffer
	walk    *beep.Buffer
	botWalk *beep.Buffer
}

// LoadBank decodes <name>.wav files from fsys. Missing files are not an
// error; unreadable ones are.
func LoadBank(fsys fs.FS) (*Bank, error) {
	b := &Bank{}
	for i, name := range sampleFiles {
		buf, err := loadWav(fsys, name)
		if err != nil {
			return nil, err
		}
		b.samples[i] = buf
	}
	var err error
	if b.walk, err = loadWav(fsys, walkFile); err != nil {
		return nil, err
	}
	if b.botWalk, err = loadWav(fsys, botWalkFile); err != nil {
		return nil, err
	}
	return b, nil
}

func loadWav(fsys fs.FS, name string) (*beep.Buffer, error) {
	f, err := fsys.Open(name + ".wav")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("sound %s: %w", name, err)
	}
	defer s.Close()
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate == sampleRate {
		buf.Append(s)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, sampleRate, s))
	}
	return buf, nil
}

// Loaded reports how many one-shot samples came from files.
func (b *Bank) Loaded() int {
	n := 0
	for _, s := range b.samples {
		if s != nil {
			n++
		}
	}
	return n
}

// clip returns a fresh streamer for sound id.
func (b *Bank) clip(id game.SoundID) beep.Streamer {
	if b != nil && b.samples[id] != nil {
		return b.samples[id].Streamer(0, b.samples[id].Len())
	}
	return fallbackTones[id].streamer()
}

// footsteps returns one step of the player or bot walk loop.
func (b *Bank) footsteps(bot bool) beep.Streamer {
	buf, t := (*beep.Buffer)(nil), walkTone
	if b != nil {
		buf = b.walk
		if bot {
			buf = b.botWalk
		}
	}
	if bot {
		t = botWalkTone
	}
	if buf != nil {
		return buf.Streamer(0, buf.Len())
	}
	return beep.Seq(t.streamer(), beep.Silence(sampleRate.N(250*time.Millisecond)))
}

func (t tone) streamer() beep.Streamer {
	var (
		s   beep.Streamer
		err error
	)
	switch t.kind {
	case 1:
		s, err = generators.SquareTone(sampleRate, t.freq)
	case 2:
		s, err = generators.SawtoothTone(sampleRate, t.freq)
	default:
		s, err = generators.SineTone(sampleRate, t.freq)
	}
	if err != nil {
		return beep.Silence(0)
	}
	return beep.Take(sampleRate.N(time.Duration(t.ms)*time.Millisecond), s)
}

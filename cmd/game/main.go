package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/Garsondee/tuer/internal/audio"
	"github.com/Garsondee/tuer/internal/game"
	"github.com/Garsondee/tuer/internal/level"
	"github.com/Garsondee/tuer/internal/logger"
	"github.com/Garsondee/tuer/internal/view"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	levelDir := flag.String("level", "pic256", "directory holding the level files")
	soundDir := flag.String("sounds", "sound", "directory holding wav samples; missing samples use tones")
	cheat := flag.Bool("cheat", false, "player ignores rocket damage and bots hold fire")
	mute := flag.Bool("mute", false, "start with sound muted")
	scale := flag.Int("scale", 3, "screen pixels per map tile")
	flag.Parse()

	logger.Init()
	log := logger.Component("main")

	bank, err := audio.LoadBank(os.DirFS(*soundDir))
	if err != nil {
		log.WithError(err).Warn("sound samples unusable, using tones")
		bank = nil
	}
	opts := []audio.Option{audio.WithMute(*mute)}
	if bank != nil {
		opts = append(opts, audio.WithBank(bank))
	}
	snd := audio.New(opts...)
	if err := snd.Start(); err != nil {
		log.WithError(err).Warn("no audio device, continuing silent")
	}
	defer snd.Close()

	g := view.New(view.WithTilePixels(*scale), view.WithMuter(snd))
	cfg := game.DefaultConfig()
	cfg.Cheat = *cheat
	eng, err := game.Load(level.Dir(*levelDir), cfg,
		game.WithDisplay(g),
		game.WithInput(g),
		game.WithInfoSink(g),
		game.WithSound(snd),
	)
	if err != nil {
		log.WithError(err).WithField("level", *levelDir).Fatal("level load failed")
	}
	g.Attach(eng)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	simDone := make(chan error, 1)
	go func() {
		simDone <- eng.Run(ctx)
		g.Close()
	}()

	ebiten.SetWindowTitle("Tuer")
	ebiten.SetWindowSize(g.Size())
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.WithError(err).Fatal("window closed with error")
	}

	eng.PerformAtExit()
	cancel()
	if err := <-simDone; err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("simulation failed")
	}
}

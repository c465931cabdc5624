package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	levelName := flag.String("level", "sandbox", "level name in levels/ (basename, .json optional)")
	debug := flag.Bool("debug", false, "draw waypoints and the state overlay")
	watch := flag.Bool("watch", false, "hot-reload prefabs/ and prefabs/scripts/")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	game, err := NewGame(*levelName, *debug, log)
	if err != nil {
		log.WithError(err).Fatal("sandbox: start")
	}
	defer game.Close()

	if *watch {
		if err := game.Watch(); err != nil {
			log.WithError(err).Warn("sandbox: hot reload disabled")
		}
	}

	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("tilekin sandbox")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)

	if err := ebiten.RunGame(game); err != nil {
		log.WithError(err).Fatal("sandbox: run")
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/milk9111/tilekin/levels"
	"github.com/milk9111/tilekin/physics"
	"github.com/milk9111/tilekin/prefabs"
	"github.com/milk9111/tilekin/scene"
	"github.com/sirupsen/logrus"
)

func main() {
	levelName := flag.String("level", "sandbox", "level name in levels/ (basename, .json optional)")
	ticks := flag.Int("ticks", 600, "number of fixed steps to run")
	dt := flag.Float64("dt", 0.02, "step length in seconds")
	every := flag.Int("every", 0, "log the checksum every N ticks (0 = only at the end)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true, DisableTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	sum, err := run(*levelName, *ticks, *dt, *every, log)
	if err != nil {
		log.WithError(err).Fatal("simcheck")
	}
	fmt.Printf("%016x\n", sum)
}

// run steps the level headless and returns the final world checksum.
func run(levelName string, ticks int, dt float64, every int, log logrus.FieldLogger) (uint64, error) {
	if ticks < 0 || !(dt > 0) {
		return 0, fmt.Errorf("simcheck: need ticks >= 0 and dt > 0, got %d and %v", ticks, dt)
	}
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return 0, err
	}
	content, err := prefabs.LoadContent()
	if err != nil {
		return 0, err
	}
	s, err := scene.Build(lvl, content, scene.WithLogger(log))
	if err != nil {
		return 0, err
	}

	scriptErrors := 0
	for i := 1; i <= ticks; i++ {
		if err := s.Update(dt); err != nil {
			scriptErrors++
			log.WithError(err).WithField("tick", i).Debug("simcheck: script")
		}
		if every > 0 && i%every == 0 {
			log.WithFields(logrus.Fields{
				"tick":     i,
				"checksum": fmt.Sprintf("%016x", s.World.Checksum()),
			}).Info("simcheck: progress")
		}
	}

	for _, a := range s.Actors() {
		logBody(log, a.Name, a.Body)
	}
	for _, p := range s.Platforms() {
		pos := p.Platform.Position()
		log.WithFields(logrus.Fields{
			"platform": p.Name,
			"x":        round(pos.X),
			"y":        round(pos.Y),
			"next":     p.Platform.NextWaypoint(),
		}).Info("simcheck: platform")
	}

	sum := s.World.Checksum()
	log.WithFields(logrus.Fields{
		"level":         levelName,
		"ticks":         s.World.Ticks(),
		"script_errors": scriptErrors,
		"checksum":      fmt.Sprintf("%016x", sum),
	}).Info("simcheck: done")
	return sum, nil
}

func logBody(log logrus.FieldLogger, name string, b *physics.KinematicBody) {
	pos := b.Position()
	vel := b.Velocity()
	log.WithFields(logrus.Fields{
		"body":     name,
		"x":        round(pos.X),
		"y":        round(pos.Y),
		"vx":       round(vel.X),
		"vy":       round(vel.Y),
		"grounded": b.Grounded(),
		"material": b.Material().Name(),
	}).Info("simcheck: body")
}

func round(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

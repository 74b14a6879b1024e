// Command precalc builds and persists the prefix-sum table for a
// reference catalogue and logs its blake3 digest. cmd/procon does not read
// this file; it rebuilds the table from the reference WAVs on every run.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/readingcard/procon/audiovec"
	"github.com/readingcard/procon/cardvoice"
	"github.com/readingcard/procon/logging"
	"github.com/readingcard/procon/precalc"
	"github.com/readingcard/procon/store"
	"github.com/readingcard/procon/wav"
)

func main() {
	app := &cli.App{
		Name:  "precalc",
		Usage: "precompute the reference catalogue's prefix-sum table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "references", Required: true, Usage: "directory of E01..J44.wav reference files"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "path to write the table to"},
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log := logging.New(os.Stderr, c.String("log-level"))
	vctx := audiovec.NewContext()

	voices := make(map[cardvoice.Index]*audiovec.AudioVec, cardvoice.Count)
	dir := c.String("references")
	for _, idx := range cardvoice.All() {
		path := filepath.Join(dir, idx.String()+".wav")
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		samples, err := wav.Load(f)
		closeErr := f.Close()
		if err != nil {
			return errors.Wrapf(err, "load %s", path)
		}
		if closeErr != nil {
			return closeErr
		}
		voices[idx] = audiovec.FromPCM(vctx, samples, false)
	}

	table := precalc.Build(voices, &log)
	digest, err := store.Save(c.String("out"), table)
	if err != nil {
		return errors.Wrap(err, "save table")
	}
	log.Info().Str("path", c.String("out")).Str("digest", digest).Msg("precalculated table written")
	return nil
}

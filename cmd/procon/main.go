// Command procon solves a contest match: it fetches the problem
// recording, locates which references were superimposed into it, and
// posts the answer back.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/readingcard/procon/audiovec"
	"github.com/readingcard/procon/cardvoice"
	"github.com/readingcard/procon/config"
	"github.com/readingcard/procon/logging"
	"github.com/readingcard/procon/loss"
	"github.com/readingcard/procon/transport"
	"github.com/readingcard/procon/wav"
)

func main() {
	app := &cli.App{
		Name:  "procon",
		Usage: "locate the reference voices superimposed into a contest problem recording",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
			&cli.StringFlag{Name: "fixture", Usage: "use a local YAML fixture directory instead of the live server"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	log := logging.New(os.Stderr, cfg.LogLevel)

	var requester transport.Requester
	if fixture := c.String("fixture"); fixture != "" {
		requester, err = transport.NewMock(fixture)
		if err != nil {
			return errors.Wrap(err, "load fixture")
		}
	} else {
		requester = transport.NewNet(cfg.ServerURL, cfg.Token, nil)
	}

	ctx := context.Background()
	vctx := audiovec.NewContext()

	voices, err := loadReferences(vctx, cfg.ReferenceDir)
	if err != nil {
		return errors.Wrap(err, "load references")
	}
	solver := loss.New(vctx, voices, &log)

	match, err := requester.GetMatch(ctx)
	if err != nil {
		return errors.Wrap(err, "get match")
	}
	problemMeta, err := requester.GetProblem(ctx, match.ID)
	if err != nil {
		return errors.Wrap(err, "get problem")
	}
	chunks, err := requester.GetChunks(ctx, problemMeta.ID, problemMeta.Chunks)
	if err != nil {
		return errors.Wrap(err, "get chunks")
	}

	samples, err := decodeChunks(chunks)
	if err != nil {
		return errors.Wrap(err, "decode problem audio")
	}

	problem := audiovec.FromPCM(vctx, samples, false)

	points, err := solver.FindPoints(problem, problemMeta.Data)
	if err != nil {
		return errors.Wrap(err, "find points")
	}

	answers := make([]string, len(points))
	for i, p := range points {
		answers[i] = p.UsingVoice.AnswerString()
	}

	resp, err := requester.PostAnswer(ctx, problemMeta.ID, answers)
	if err != nil {
		return errors.Wrap(err, "post answer")
	}
	log.Info().Bool("correct", resp.Correct).Str("message", resp.Message).Msg("answer submitted")
	return nil
}

func decodeChunks(chunks [][]byte) ([]int16, error) {
	var samples []int16
	for _, chunk := range chunks {
		s, err := wav.Load(bytes.NewReader(chunk))
		if err != nil {
			return nil, err
		}
		samples = append(samples, s...)
	}
	return samples, nil
}

func loadReferences(vctx *audiovec.Context, dir string) (map[cardvoice.Index]*audiovec.AudioVec, error) {
	voices := make(map[cardvoice.Index]*audiovec.AudioVec, cardvoice.Count)
	for _, idx := range cardvoice.All() {
		path := filepath.Join(dir, idx.String()+".wav")
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
		samples, err := wav.Load(f)
		closeErr := f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", path)
		}
		if closeErr != nil {
			return nil, closeErr
		}
		voices[idx] = audiovec.FromPCM(vctx, samples, false)
	}
	return voices, nil
}

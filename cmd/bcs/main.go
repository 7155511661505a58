// Copyright 2026 the bcs authors.
//
// The bcs library is free software: you can redistribute it and/or modify it
// under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// The bcs library is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
// or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser General Public
// License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the bcs library. If not, see <http://www.gnu.org/licenses/>.

// bcs runs stochastic simulations of parsed beacon-calculus programs and
// writes their transition traces.
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/beacon-calculus/bcs/expr"
	"github.com/beacon-calculus/bcs/lang"
	"github.com/beacon-calculus/bcs/log"
	"github.com/beacon-calculus/bcs/sim"
)

var (
	programFlag = &cli.StringFlag{
		Name:     "program",
		Aliases:  []string{"p"},
		Usage:    "parsed program to simulate (JSON)",
		Required: true,
	}
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "trace output file",
		Value:   "trace.simulation.bcs",
	}
	simulationsFlag = &cli.IntFlag{
		Name:    "simulations",
		Aliases: []string{"s"},
		Usage:   "number of independent replicates",
		Value:   1,
	}
	threadsFlag = &cli.IntFlag{
		Name:    "threads",
		Aliases: []string{"t"},
		Usage:   "maximum replicates run concurrently",
		Value:   runtime.NumCPU(),
	}
	maxTransFlag = &cli.IntFlag{
		Name:  "max-trans",
		Usage: "maximum transitions per replicate",
		Value: 10000,
	}
	maxDurationFlag = &cli.Float64Flag{
		Name:  "max-duration",
		Usage: "maximum simulated time per replicate (negative for unbounded)",
		Value: -1,
	}
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML configuration file; explicit flags take precedence",
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "seed for reproducible runs (0 seeds nondeterministically)",
	}
	noProgressFlag = &cli.BoolFlag{
		Name:  "no-progress",
		Usage: "suppress the progress display",
	}
)

func main() {
	app := &cli.App{
		Name:  "bcs",
		Usage: "stochastic simulator for the beacon calculus",
		Flags: []cli.Flag{
			programFlag, outputFlag, simulationsFlag, threadsFlag,
			maxTransFlag, maxDurationFlag, configFlag, seedFlag, noProgressFlag,
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Crit("simulation failed", "err", err)
	}
}

// fileConfig mirrors the simulation flags in the TOML configuration file.
type fileConfig struct {
	Simulations    int
	Threads        int
	MaxTransitions int
	MaxDuration    float64
	Output         string
}

func loadConfig(ctx *cli.Context) (sim.Config, string, error) {
	cfg := sim.Config{
		Simulations:    ctx.Int(simulationsFlag.Name),
		Threads:        ctx.Int(threadsFlag.Name),
		MaxTransitions: ctx.Int(maxTransFlag.Name),
		MaxDuration:    ctx.Float64(maxDurationFlag.Name),
	}
	output := ctx.String(outputFlag.Name)

	if path := ctx.String(configFlag.Name); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return sim.Config{}, "", fmt.Errorf("opening config: %w", err)
		}
		defer f.Close()

		var fc fileConfig
		if err := toml.NewDecoder(f).Decode(&fc); err != nil {
			return sim.Config{}, "", fmt.Errorf("decoding config %s: %w", path, err)
		}
		if fc.Simulations > 0 && !ctx.IsSet(simulationsFlag.Name) {
			cfg.Simulations = fc.Simulations
		}
		if fc.Threads > 0 && !ctx.IsSet(threadsFlag.Name) {
			cfg.Threads = fc.Threads
		}
		if fc.MaxTransitions > 0 && !ctx.IsSet(maxTransFlag.Name) {
			cfg.MaxTransitions = fc.MaxTransitions
		}
		if fc.MaxDuration != 0 && !ctx.IsSet(maxDurationFlag.Name) {
			cfg.MaxDuration = fc.MaxDuration
		}
		if fc.Output != "" && !ctx.IsSet(outputFlag.Name) {
			output = fc.Output
		}
	}

	if cfg.MaxDuration < 0 {
		cfg.MaxDuration = math.Inf(1)
	}
	return cfg, output, nil
}

func run(ctx *cli.Context) error {
	cfg, output, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(ctx.String(programFlag.Name))
	if err != nil {
		return fmt.Errorf("opening program: %w", err)
	}
	program, err := lang.DecodeProgram(f)
	f.Close()
	if err != nil {
		return err
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	var opts []sim.Option
	if seed := ctx.Int64(seedFlag.Name); seed != 0 {
		opts = append(opts, sim.WithRand(rand.New(rand.NewSource(seed))))
	}
	if !ctx.Bool(noProgressFlag.Name) && isatty.IsTerminal(os.Stderr.Fd()) {
		done := color.New(color.FgGreen, color.Bold)
		opts = append(opts, sim.WithProgress(func(completed, total int) {
			done.Fprintf(os.Stderr, "\rsimulated %d/%d", completed, total)
			if completed == total {
				fmt.Fprintln(os.Stderr)
			}
		}))
	}

	if err := sim.SimulateSystem(program, expr.RPN{}, cfg, out, opts...); err != nil {
		return err
	}
	log.Info("trace written", "file", output, "replicates", cfg.Simulations)
	return nil
}

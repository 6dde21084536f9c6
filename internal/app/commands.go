package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RozmiDan/driftrace/internal/config"
	"github.com/RozmiDan/driftrace/internal/entity"
	"github.com/RozmiDan/driftrace/internal/form"
	"github.com/RozmiDan/driftrace/internal/logger"
	"github.com/RozmiDan/driftrace/internal/processor"
	"github.com/RozmiDan/driftrace/internal/tui"
)

type app struct {
	cfgPath   string
	logLevel  string
	precision int
	cfg       entity.Config
	log       zerolog.Logger
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{stdin: in, stdout: out, stderr: errOut, log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "driftrace",
		Short:         "Tokyo Drift race calculator: Mazda RX-7 vs Nissan 350Z",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgPath, "config", entity.CfgPath, "path to the YAML config")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log level (trace, debug, info, warn, error, disabled)")
	cmd.PersistentFlags().IntVar(&a.precision, "precision", 0, "decimal places in the output, 2 or 3 (default from config)")

	cmd.AddCommand(newEvalCmd(a), newBatchCmd(a), newUICmd(a))
	return cmd
}

// load читает конфиг и применяет флаги поверх него
func (a *app) load() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = strings.ToLower(a.logLevel)
	}
	if a.precision != 0 {
		cfg.Precision = a.precision
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(cfg.LogLevel, a.stderr)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func newEvalCmd(a *app) *cobra.Command {
	vals := map[entity.Field]*string{}
	var lenient, asJSON bool

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one race and print the step-by-step breakdown",
		Example: "  driftrace eval --distance 5 --speed-a 100 --speed-b 95 --bonus-a 0.2\n" +
			"  driftrace eval --distance 10 --speed-a 60 --speed-b 60 --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := form.Values{}
			for f, v := range vals {
				in[f] = *v
			}
			params, err := parseValues(in, lenient)
			if err != nil {
				return err
			}

			rep := processor.NewProcessor(a.cfg, a.log).Run(params)
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				return nil
			}
			for _, ln := range rep.Details {
				fmt.Fprintln(a.stdout, ln)
			}
			fmt.Fprintln(a.stdout, rep.Summary)
			return nil
		},
	}

	flags := []struct {
		field entity.Field
		name  string
		usage string
	}{
		{entity.FieldDistance, "distance", "race distance in km"},
		{entity.FieldSpeedA, "speed-a", "Mazda RX-7 average speed in km/h"},
		{entity.FieldSpeedB, "speed-b", "Nissan 350Z average speed in km/h"},
		{entity.FieldBonusA, "bonus-a", "Mazda RX-7 drift bonus (time credit)"},
		{entity.FieldBonusB, "bonus-b", "Nissan 350Z drift bonus (time credit)"},
	}
	for _, fl := range flags {
		vals[fl.field] = cmd.Flags().String(fl.name, "", fl.usage)
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "treat unparsable values as 0 instead of failing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var lenient, details bool

	cmd := &cobra.Command{
		Use:   "batch <file|->",
		Short: "Evaluate one race per line: distance speedA speedB [bonusA [bonusB]]",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = a.stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open races: %w", err)
				}
				defer f.Close()
				r = f
			}
			return runBatch(a, r, lenient, details)
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "treat unparsable values as 0 instead of failing")
	cmd.Flags().BoolVar(&details, "details", false, "print the full breakdown for every race")
	return cmd
}

func runBatch(a *app, r io.Reader, lenient, details bool) error {
	proc := processor.NewProcessor(a.cfg, a.log)

	// Сканируем построчно
	sc := bufio.NewScanner(r)
	n, races := 0, 0
	for sc.Scan() {
		n++
		vals, ok, err := parseRaceLine(sc.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if !ok {
			continue
		}
		params, err := parseValues(vals, lenient)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}

		rep := proc.Run(params)
		races++
		if details {
			for _, ln := range rep.Details {
				fmt.Fprintln(a.stdout, ln)
			}
		}
		fmt.Fprintf(a.stdout, "[%d] %s\n", n, rep.Summary)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	a.log.Info().Int("races", races).Msg("batch done")
	return nil
}

// parseRaceLine разбирает одну строку батча, ok=false для пустых строк и комментариев
func parseRaceLine(line string) (form.Values, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, false, nil
	}
	parts := strings.Fields(line)
	if len(parts) < 3 || len(parts) > len(entity.Fields) {
		return nil, false, fmt.Errorf("expected 3 to %d values, got %d: %q", len(entity.Fields), len(parts), line)
	}
	vals := make(form.Values, len(parts))
	for i, p := range parts {
		vals[entity.Fields[i]] = p
	}
	return vals, true, nil
}

func parseValues(vals form.Values, lenient bool) (entity.RaceParameters, error) {
	if lenient {
		return form.ParseLenient(vals), nil
	}
	params, errs := form.Parse(vals)
	if err := errs.Err(); err != nil {
		return entity.RaceParameters{}, fmt.Errorf("invalid race parameters: %w", err)
	}
	return params, nil
}

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive race calculator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// терминал занят TUI, поэтому логи только в файл
			log, closer, err := logger.Open(a.cfg.LogLevel, a.cfg.LogFile, io.Discard)
			if err != nil {
				return err
			}
			defer closer.Close()

			return tui.Run(tui.Options{Config: a.cfg, Log: log})
		},
	}
}

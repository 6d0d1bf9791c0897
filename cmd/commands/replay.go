/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/imdario/mergo"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/numaproj/indicator"
	"github.com/numaproj/indicator/pkg/config"
	"github.com/numaproj/indicator/pkg/metrics"
	"github.com/numaproj/indicator/pkg/replay"
	"github.com/numaproj/indicator/pkg/shared/logging"
	"github.com/numaproj/indicator/pkg/shared/util"
	"github.com/numaproj/indicator/pkg/sinks"
	logsink "github.com/numaproj/indicator/pkg/sinks/logger"
	sqlitesink "github.com/numaproj/indicator/pkg/sinks/sqlite"
	"github.com/numaproj/indicator/pkg/sources/file"
	"github.com/numaproj/indicator/pkg/window"
)

// EnvInput is the default of the --input flag.
const EnvInput = "INDICATOR_INPUT"

type replayFlags struct {
	input         string
	configPath    string
	kind          string
	period        string
	offset        string
	length        int
	inline        int
	filter        string
	sqlite        string
	metricsAddr   string
	batchSize     int
	onlyNewWindow bool
	quiet         bool
}

func NewReplayCommand() *cobra.Command {
	f := &replayFlags{}

	command := &cobra.Command{
		Use:   "replay",
		Short: "Replay a CSV file of ticks through the configured indicators",
		Example: `  indicator replay --input ticks.csv --indicator ohlc --period 1h --length 24
  indicator replay --input ticks.csv --config indicators.yaml --sqlite samples.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New().String()
			log := logging.NewLogger().Named("replay").With("run", runID)
			v := indicator.GetVersion()
			log.Infow("Starting replay", "version", v)
			metrics.BuildInfo.WithLabelValues(v.Version, v.Platform).Set(1)

			conf, err := f.load()
			if err != nil {
				return err
			}
			return runReplay(logging.WithLogger(cmd.Context(), log), runID, conf, f, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	command.Flags().StringVarP(&f.input, "input", "i", util.LookupEnvStringOr(EnvInput, "-"), "CSV file of timestamp,price[,symbol] lines, - for stdin")
	command.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	command.Flags().StringVar(&f.kind, "indicator", "", "indicator kind (ohlc, sma, ema, tr), replaces the configured indicators")
	command.Flags().StringVar(&f.period, "period", "1h", "window period, e.g. 0, 1y, 1M, 1d, 2w, 4h, 15m")
	command.Flags().StringVar(&f.offset, "offset", "", "time zone of the windows, e.g. +08:00 or Asia/Tokyo")
	command.Flags().IntVar(&f.length, "length", 3, "number of windows kept by the indicator")
	command.Flags().IntVar(&f.inline, "inline", 0, "number of windows allocated upfront")
	command.Flags().StringVar(&f.filter, "filter", "", "expression over price, ts, unix and symbol, non matching ticks are dropped")
	command.Flags().StringVar(&f.sqlite, "sqlite", "", "SQLite database the samples are written to")
	command.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "address of the metrics server, e.g. :9090")
	command.Flags().IntVar(&f.batchSize, "batch-size", 0, "number of samples written to the sinks at once")
	command.Flags().BoolVar(&f.onlyNewWindow, "only-new-window", false, "only emit the first sample of every window")
	command.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "do not print the samples to stdout")
	return command
}

// load reads the configuration file and applies the flags that were set on top of it.
func (f *replayFlags) load() (*config.Config, error) {
	conf, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}
	// flags left to their zero values do not override the file
	overrides := config.Config{
		Offset:        f.offset,
		Filter:        f.filter,
		OnlyNewWindow: f.onlyNewWindow,
		BatchSize:     f.batchSize,
		SQLite:        f.sqlite,
		MetricsAddr:   f.metricsAddr,
	}
	if f.kind != "" {
		overrides.Indicators = []*config.IndicatorConfig{{
			Kind:   f.kind,
			Period: f.period,
			Length: f.length,
			Inline: f.inline,
		}}
	}
	if err := mergo.Merge(conf, overrides, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to apply flags, %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}
	return conf, nil
}

func runReplay(ctx context.Context, runID string, conf *config.Config, f *replayFlags, stdin io.Reader, stdout io.Writer) (err error) {
	log := logging.FromContext(ctx)
	jobs, err := conf.Jobs(log)
	if err != nil {
		return err
	}
	loc, err := window.ParseOffset(conf.Offset)
	if err != nil {
		return err
	}

	in := stdin
	if f.input != "-" {
		fh, err := os.Open(f.input)
		if err != nil {
			return fmt.Errorf("failed to open input, %w", err)
		}
		defer fh.Close()
		in = fh
	}

	var sinkList []sinks.Sink
	defer func() {
		err = multierr.Append(err, sinks.CloseAll(sinkList...))
	}()
	if !f.quiet {
		toLog, err := logsink.NewToLog(stdout, logsink.WithLogger(log))
		if err != nil {
			return err
		}
		sinkList = append(sinkList, toLog)
	}
	if conf.SQLite != "" {
		toSQLite, err := sqlitesink.NewToSQLite(conf.SQLite, sqlitesink.WithRunID(runID), sqlitesink.WithLogger(log))
		if err != nil {
			return err
		}
		sinkList = append(sinkList, toSQLite)
	}

	opts := []replay.Option{replay.WithBatchSize(conf.BatchSize), replay.WithLogger(log)}
	if conf.Filter != "" {
		filter, err := replay.NewFilter(conf.Filter)
		if err != nil {
			return err
		}
		opts = append(opts, replay.WithFilter(filter))
	}
	if conf.OnlyNewWindow {
		opts = append(opts, replay.WithOnlyNewWindow())
	}

	if conf.MetricsAddr != "" {
		shutdown := metrics.NewMetricsServer(conf.MetricsAddr).Start(ctx)
		defer func() { _ = shutdown(context.Background()) }()
	}

	replayer, err := replay.NewReplayer(file.NewReader(in, file.WithLocation(loc)), jobs, sinkList, opts...)
	if err != nil {
		return err
	}
	stats, err := replayer.Run(ctx)
	if err != nil {
		return err
	}
	for name, n := range stats.Windows {
		log.Infow("Indicator summary", zap.String("indicator", name), zap.Int64("windows", n))
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wildstyl3r/tipem/internal/config"
	"github.com/wildstyl3r/tipem/internal/model"
	"github.com/wildstyl3r/tipem/internal/store"
)

func defaultConfigName() string {
	if name := os.Getenv("TIPEM_CONFIG"); name != "" {
		return name
	}
	return "tipem"
}

func defaultThreads() int {
	if threads, err := strconv.Atoi(os.Getenv("TIPEM_THREADS")); err == nil && threads > 0 {
		return threads
	}
	return runtime.NumCPU()
}

type runResult struct {
	name       string
	parameters config.ModelParameters
	extractor  *model.DataExtractor
}

func newEmitCmd() *cobra.Command {
	var configFileName, dbPath string
	var threads int

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Compute emitted electrons for every configured model",
	}
	cmd.Flags().StringVarP(&configFileName, "input", "c", defaultConfigName(), "model configuration in toml format")
	cmd.Flags().IntVar(&threads, "threads", defaultThreads(), "models computed in parallel")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database to store results in")
	dataFlags := model.NewDataFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()
		log.Infof("Current time: %s", startTime.UTC().Format(time.UnixDate))

		cfg, meta, err := config.LoadConfig(configFileName)
		if err != nil {
			return err
		}
		if cfg.OutputDir != "" && cfg.OutputDir != "." {
			if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
				return err
			}
		}
		dataFlags.SetOutputPath(cfg.OutputDir)

		names := cfg.ModelNames()
		unified := make([]config.ModelParameters, len(names))
		for i, modelName := range names {
			unified[i] = cfg.Models[modelName]
			if err := unified[i].CheckAndUnify(modelName, &cfg, &meta); err != nil {
				return err
			}
			unified[i].SetVerbosity(verbose)
			unified[i].SetThreads(threads)
		}

		results := make([]runResult, len(names))
		var g errgroup.Group
		g.SetLimit(max(1, threads))
		for i, modelName := range names {
			i, modelName := i, modelName
			parameters := unified[i]
			g.Go(func() error {
				logger := log.WithField("model", modelName)
				logger.Info("started")
				te, err := model.NewFromParameters(parameters)
				if err != nil {
					return err
				}
				extractor, err := model.NewDataExtractor(te, parameters)
				if err != nil {
					return err
				}
				if err := extractor.Save(modelName, dataFlags); err != nil {
					return err
				}
				logger.WithFields(log.Fields{
					"patches":   humanize.Comma(int64(len(extractor.Patches()))),
					"electrons": humanize.SIWithDigits(extractor.TotalElectrons(), 3, ""),
				}).Info("done")
				results[i] = runResult{name: modelName, parameters: parameters, extractor: extractor}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if err := saveSummary(filepath.Join(cfg.OutputDir, "summary.txt"), results); err != nil {
			return err
		}
		if dbPath != "" {
			if err := saveResults(dbPath, results); err != nil {
				return err
			}
		}
		log.Infof("Elapsed time: %v", time.Since(startTime))
		return nil
	}
	return cmd
}

func saveSummary(path string, results []runResult) error {
	names := make([]string, len(results))
	extractors := make([]*model.DataExtractor, len(results))
	for i := range results {
		names[i] = results[i].name
		extractors[i] = results[i].extractor
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = model.WriteSummary(file, names, extractors)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	log.WithField("path", path).Debug("summary saved")
	return nil
}

func saveResults(dbPath string, results []runResult) error {
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, result := range results {
		patches := result.extractor.Patches()
		totals := result.extractor.Totals()
		records := make([]store.PatchRecord, len(patches))
		for j, p := range patches {
			records[j] = store.PatchRecord{
				Index:     j,
				X:         p.PositionCart.X,
				Y:         p.PositionCart.Y,
				Z:         p.PositionCart.Z,
				Area:      p.Area,
				Electrons: totals[j],
			}
		}
		id, err := db.SaveRun(store.RunRecord{
			Model:          result.name,
			Identifier:     result.parameters.Identifier,
			FieldAmplitude: result.parameters.FieldAmplitude,
			WorkFunction:   result.parameters.WorkFunction,
			TotalElectrons: result.extractor.TotalElectrons(),
		}, records)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"model": result.name, "run": id}).Info("results stored")
	}
	return nil
}

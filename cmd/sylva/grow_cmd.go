package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbanos/sylva"
	"github.com/pbanos/sylva/feature"
	featureyaml "github.com/pbanos/sylva/feature/yaml"
	"github.com/pbanos/sylva/measure"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	output        string
	targetFeature string
	measureName   string
	method        string
	minWorth      float64
	maxHeight     int
	minCount      float64
	minError      float64
	prior         float64
	weighted      bool
	keepGrown     bool
	maxDBConns    int
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a table of data",
		Long:  `Grow a decision or regression tree from a table of data to predict a certain feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			features, err := featureyaml.ReadFeaturesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			table, err := readTable(config.dataInput, features, config.maxDBConns)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			target := feature.Find(features, config.targetFeature)
			if target < 0 {
				fmt.Fprintf(os.Stderr, "target feature '%s' is not defined\n", config.targetFeature)
				os.Exit(4)
			}
			gc, err := config.growConfig(features[target])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			log.Infof("Growing tree from a table with %d tuples and %d features to predict %s ...", table.Len(), len(features)-1, features[target].Name())
			t, err := sylva.Grow(table, target, gc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(6)
			}
			log.Infof("Done: %d nodes, height %d", t.Size(), t.Height())
			if config.verbose {
				log.Info("\n" + t.String())
			}
			err = saveTree(config.output, t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file, or a redis://host:port/prefix/name location, to which the grown tree will be written as JSON (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.targetFeature), "target-feature", "c", "", "name of the feature the grown tree should predict (required)")
	cmd.PersistentFlags().StringVar(&(config.measureName), "measure", "", "scoring measure to evaluate candidate splits with; unknown names select no measure and yield a single leaf (defaults to infgain for discrete targets, sse for metric ones)")
	cmd.PersistentFlags().StringVar(&(config.method), "method", "plain", "partition method for discrete features, one of: plain, binary, subsets, binary-subsets")
	cmd.PersistentFlags().Float64Var(&(config.minWorth), "min-worth", 0, "worth a partition must reach for a node to be split")
	cmd.PersistentFlags().IntVar(&(config.maxHeight), "max-height", -1, "bound on the height of the grown tree (negative for no bound)")
	cmd.PersistentFlags().Float64Var(&(config.minCount), "min-count", 2, "minimum weight a branch must carry")
	cmd.PersistentFlags().Float64Var(&(config.minError), "min-error", 0, "node error at or below which a node is not split further")
	cmd.PersistentFlags().Float64Var(&(config.prior), "prior", 0, "prior parameter for measures that take one")
	cmd.PersistentFlags().BoolVar(&(config.weighted), "weighted", false, "weight worths by the fraction of known values, penalizing features with many unknowns")
	cmd.PersistentFlags().BoolVar(&(config.keepGrown), "keep-grown", false, "keep grown subtrees even when they are not measurably better than the leaf they replaced")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.targetFeature == "" {
		return fmt.Errorf("required target-feature flag was not set")
	}
	return nil
}

func (gcc *growCmdConfig) growConfig(target *feature.Feature) (sylva.GrowConfig, error) {
	gc := sylva.DefaultGrowConfig()
	if gcc.measureName != "" {
		if target.Metric() {
			gc.MetricMeasure = measure.ParseMetric(gcc.measureName)
		} else {
			gc.Measure = measure.Parse(gcc.measureName)
		}
	}
	switch gcc.method {
	case "plain":
		gc.Method = sylva.SplitPlain
	case "binary":
		gc.Method = sylva.SplitBinary
	case "subsets":
		gc.Method = sylva.SplitSubsets
	case "binary-subsets":
		gc.Method = sylva.SplitBinarySubsets
	default:
		return gc, fmt.Errorf("unknown partition method %s", gcc.method)
	}
	gc.Params = measure.Params{Weighted: gcc.weighted, Prior: gcc.prior}
	gc.MinWorth = gcc.minWorth
	gc.MaxHeight = gcc.maxHeight
	gc.MinCount = gcc.minCount
	gc.MinError = gcc.minError
	gc.KeepGrown = gcc.keepGrown
	return gc, nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/dataset/csv"
	featureyaml "github.com/pbanos/sylva/feature/yaml"
	"github.com/pbanos/sylva/tree"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	metadataInput string
	dataInput     string
	output        string
	maxDBConns    int
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the target feature for a table of data",
		Long:  `Run every tuple of a table through a tree and write the table back with the target feature replaced by the tree's predictions.`,
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
			t, err := loadTree(config.treeInput, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			table, err := readTable(config.dataInput, features, config.maxDBConns)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			log.Infof("Predicting %s for %d tuples ...", t.TargetFeature().Name(), table.Len())
			predicted, err := predictTable(t, table)
			if err != nil {
				fmt.Fprintf(os.Stderr, "predicting: %v\n", err)
				os.Exit(5)
			}
			err = config.writeTable(predicted)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON tree file, or a redis://host:port/prefix/name location, with the tree to predict with (required)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features the tree refers to (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL with tuples to predict (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the table with predictions will be written as CSV (defaults to STDOUT)")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

// predictTable runs every tuple of the table through the tree and
// returns a new table with the target cells replaced by the
// predicted class or mean.
func predictTable(t *tree.Tree, table *dataset.Table) (*dataset.Table, error) {
	target := t.Target()
	predicted, err := dataset.New(table.Features(), nil)
	if err != nil {
		return nil, err
	}
	for i, tp := range table.Tuples() {
		p, err := t.Exec(tp, tp.Weight())
		if err != nil {
			return nil, fmt.Errorf("tuple %d: %v", i, err)
		}
		cells := make([]dataset.Instance, tp.Len())
		for c := 0; c < tp.Len(); c++ {
			cells[c] = tp.Instance(c)
		}
		if t.Metric() {
			cells[target] = dataset.NumberInstance(p.Mean())
		} else {
			cells[target] = dataset.DiscreteInstance(p.Class())
		}
		err = predicted.Add(dataset.NewTuple(cells, tp.Weight()))
		if err != nil {
			return nil, err
		}
	}
	return predicted, nil
}

func (pcc *predictCmdConfig) writeTable(table *dataset.Table) error {
	var f *os.File
	var err error
	if pcc.output == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(pcc.output)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	return csv.WriteTable(f, table)
}

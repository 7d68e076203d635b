package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbanos/sylva"
	featureyaml "github.com/pbanos/sylva/feature/yaml"
)

type pruneCmdConfig struct {
	*rootCmdConfig
	treeInput          string
	metadataInput      string
	output             string
	method             string
	maxHeight          int
	checkLargestBranch bool
	selectionThreshold float64
	validationInput    string
	maxDBConns         int
}

func pruneCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &pruneCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune a grown tree",
		Long:  `Prune a grown tree, collapsing subtrees that do not predict measurably better than a leaf, using an analytic error estimator or a held-out validation table.`,
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
			pc, err := config.pruneConfig()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			if config.validationInput != "" {
				pc.Validation, err = readTable(config.validationInput, features, config.maxDBConns)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(5)
				}
			}
			log.Infof("Pruning tree with %d nodes and height %d ...", t.Size(), t.Height())
			err = sylva.Prune(t, pc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "pruning the tree: %v\n", err)
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
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON tree file, or a redis://host:port/prefix/name location, with the tree to prune (required)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features the tree refers to (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file, or a redis://host:port/prefix/name location, to which the pruned tree will be written as JSON (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.method), "method", "p", "pessimistic:0.5", "error estimation method to prune with, one of: pessimistic:[INCREMENT], confidence:[LEVEL] (ignored when a validation table is given)")
	cmd.PersistentFlags().IntVar(&(config.maxHeight), "max-height", -1, "bound on the height of the pruned tree (negative for no bound)")
	cmd.PersistentFlags().BoolVar(&(config.checkLargestBranch), "check-largest-branch", false, "also consider replacing every test node by its largest branch when pruning against a validation table")
	cmd.PersistentFlags().Float64Var(&(config.selectionThreshold), "selection-threshold", 0, "on two-class trees, collapse nodes whose first-class relative frequency falls below this threshold (0 disables the filter)")
	cmd.PersistentFlags().StringVar(&(config.validationInput), "validation", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL, with a held-out table to prune against")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (pcc *pruneCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (pcc *pruneCmdConfig) pruneConfig() (sylva.PruneConfig, error) {
	pc := sylva.DefaultPruneConfig()
	parsed := strings.Split(pcc.method, ":")
	switch parsed[0] {
	case "pessimistic":
		pc.Method = sylva.PrunePessimistic
	case "confidence":
		pc.Method = sylva.PruneConfidence
		pc.Param = 0.25
	default:
		return pc, fmt.Errorf("unknown pruning method %s", parsed[0])
	}
	if len(parsed) > 1 {
		param, err := strconv.ParseFloat(parsed[1], 64)
		if err != nil {
			return pc, fmt.Errorf("parsing %s parameter: %v", parsed[0], err)
		}
		pc.Param = param
	}
	pc.MaxHeight = pcc.maxHeight
	pc.CheckLargestBranch = pcc.checkLargestBranch
	pc.SelectionThreshold = pcc.selectionThreshold
	return pc, nil
}

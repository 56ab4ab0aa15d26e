package softkbd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dasdy/softkbd/db"
)

var (
	mergeInputs []string
	mergeOutput string
)

func mergeFiles(inputs []string, outputPath string) error {
	if len(inputs) == 0 {
		return errors.New("nothing to merge, pass files with --file")
	}

	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("output file %s already exists", outputPath)
	}

	stores := make([]*db.SQLiteStorage, 0, len(inputs))

	defer func() {
		for _, s := range stores {
			s.Close()
		}
	}()

	for _, fn := range inputs {
		store, err := db.NewStorageFromPath(fn, false)
		if err != nil {
			return fmt.Errorf("could not open %s: %w", fn, err)
		}

		stores = append(stores, store)
	}

	output, err := db.NewStorageFromPath(outputPath, false)
	if err != nil {
		return err
	}
	defer output.Close()

	return db.Merge(stores, output)
}

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge recorded databases into one",
	Long:  `Given several storage files, create a new one holding the union of their key presses.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mergeFiles(mergeInputs, mergeOutput)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceVarP(
		&mergeInputs,
		"file",
		"f",
		[]string{},
		"List of filenames to merge data from",
	)

	mergeCmd.Flags().StringVarP(
		&mergeOutput,
		"out",
		"o",
		"./merged.sqlite",
		"Output path for the merged key presses")
}

package cli

import (
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Record a visit to a directory",
	Long:  "Record a visit to a directory. The shell hook calls this in the background on every directory change.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	path, err := absPath(args[0])
	if err != nil {
		return err
	}

	eng, closeDB, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	_, err = eng.RecordVisit(cmd.Context(), path)
	return err
}

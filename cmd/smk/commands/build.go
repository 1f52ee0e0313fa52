package commands

import (
	"github.com/spf13/cobra"

	"github.com/alex-iam/smk/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Build the project in the given directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			jobs, _ := cmd.Flags().GetInt("jobs")
			buildType, _ := cmd.Flags().GetString("type")
			force, _ := cmd.Flags().GetBool("force")
			verbose, _ := cmd.Flags().GetBool("verbose")
			compileDB, _ := cmd.Flags().GetBool("compile-db")
			runAfter, _ := cmd.Flags().GetBool("run")
			_, err := c.app.Run(cmd.Context(), app.RunOptions{
				Dir:       dir,
				Jobs:      jobs,
				Type:      buildType,
				Force:     force,
				Verbose:   verbose,
				CompileDB: compileDB,
				RunAfter:  runAfter,
			})
			return err
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of parallel compile jobs (0 = number of CPUs)")
	cmd.Flags().String("type", "", "Build type: debug or release")
	cmd.Flags().BoolP("force", "f", false, "Rebuild everything, ignoring recorded state")
	cmd.Flags().BoolP("verbose", "v", false, "Log the full compiler command line for each unit")
	cmd.Flags().Bool("compile-db", false, "Write compile_commands.json into the project root")
	cmd.Flags().Bool("run", false, "Run the executable after a successful build")
	return cmd
}

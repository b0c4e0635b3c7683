package cmd

import (
	"os"

	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ctfwriteup",
	Short: "Scaffold CTF writeups from challenge pages of various platforms.",
	Long: `ctfwriteup fetches challenge metadata and attachments from CTF platforms and
prepares one writeup folder per challenge: the files, and an index.md (optionally
index.fr.md) with a Hugo front-matter and the challenge summary, ready to be completed.
Existing writeups are never overwritten.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Enable debug mode if flag is set
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
}

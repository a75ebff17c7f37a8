package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attendance-system",
	Short: "Face-recognition attendance backend",
	Long: `Attendance System identifies students from face images by comparing
encodings against the enrolled set and records attendance at most once
per student and course session.

Face encodings come from an external encoding service; this tool
handles enrollment, identification, recording and administration.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

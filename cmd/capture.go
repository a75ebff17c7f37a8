package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GAURAV130105/attendance-system/internal/attendance"
)

var captureCmd = &cobra.Command{
	Use:   "capture <image-file>",
	Short: "Identify a face and record attendance",
	Long: `Identify the face in an image against the enrolled students and
record an attendance event for the currently eligible course session.

Capturing the same student twice in one session reports
already-recorded instead of failing. An unidentified face or a capture
outside any session window is a normal outcome, not an error.

Examples:
  attendance-system capture frame.jpg
  attendance-system capture frame.jpg --at 2026-09-01T09:05:00Z --json`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().String("at", "", "Observation time (RFC 3339, default now)")
	captureCmd.Flags().Bool("json", false, "Output as JSON")
}

func runCapture(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	at := time.Now()
	if s := mustGetString(cmd, "at"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid --at value: %w", err)
		}
		at = parsed
	}

	imageData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	result, err := c.capture.Capture(ctx, imageData, at)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

func printResult(r attendance.Result) {
	switch r.Outcome {
	case attendance.OutcomeRecorded:
		fmt.Printf("Recorded %s for student %s in session %s (distance %.4f)\n",
			r.Status, r.StudentID, r.CourseID, r.Distance)
	case attendance.OutcomeAlreadyRecorded:
		fmt.Printf("Student %s already recorded for session %s\n", r.StudentID, r.CourseID)
	case attendance.OutcomeOutsideSession:
		fmt.Printf("Student %s identified, but no session is eligible at this time\n", r.StudentID)
	case attendance.OutcomeUnidentified:
		fmt.Println("No enrolled student matched")
	case attendance.OutcomeExtractionFailed:
		fmt.Printf("Could not read a face from the image: %s\n", r.Reason)
	}
}

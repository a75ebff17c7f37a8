package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GAURAV130105/attendance-system/internal/enroll"
	"github.com/GAURAV130105/attendance-system/internal/extractor"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <student-id> <image-file>",
	Short: "Enroll a face encoding for a student",
	Long: `Extract the face encoding from an image and enroll it for a student.

A new student is created when --first-name/--last-name are given;
otherwise the student must already exist. Enrolling several images per
student improves recall.

Examples:
  # First enrollment, creates the student
  attendance-system enroll S1 face.jpg --first-name Jan --last-name Novak

  # Additional sample for an existing student
  attendance-system enroll S1 face-profile.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("first-name", "", "First name (creates the student if missing)")
	enrollCmd.Flags().String("last-name", "", "Last name (creates the student if missing)")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	studentID, imagePath := args[0], args[1]
	firstName := mustGetString(cmd, "first-name")
	lastName := mustGetString(cmd, "last-name")

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	enc, err := c.enrollment.Enroll(ctx, studentID, firstName, lastName, imageData, imagePath)
	var extErr *extractor.ExtractionError
	switch {
	case errors.As(err, &extErr):
		return fmt.Errorf("image rejected: %s", extErr.Reason)
	case errors.Is(err, enroll.ErrIndexOutOfSync):
		fmt.Printf("Warning: encoding %d stored, but the live index is stale; run 'index rebuild'\n", enc.ID)
		return nil
	case err != nil:
		return err
	}

	count, err := c.encodings.CountByStudent(ctx, studentID)
	if err != nil {
		return err
	}
	fmt.Printf("Enrolled encoding %d for student %s (%d samples total)\n", enc.ID, studentID, count)
	return nil
}

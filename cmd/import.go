package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/GAURAV130105/attendance-system/internal/database/legacy"
	"github.com/GAURAV130105/attendance-system/internal/enroll"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import students from the legacy MySQL database",
	Long: `Import students and face encodings from the original MySQL
attendance_system database into PostgreSQL.

The legacy schema stores face vectors as JSON text; they are decoded
and re-stored as pgvector columns. Students that already exist are
skipped. The legacy database is only read, never modified.

Requires LEGACY_DATABASE_URL (MySQL DSN) and DATABASE_URL to be set.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("dry-run", false, "Preview without writing to PostgreSQL")
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun := mustGetBool(cmd, "dry-run")

	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if c.cfg.Legacy.DatabaseURL == "" {
		return errors.New("LEGACY_DATABASE_URL is required")
	}

	legacyPool, err := legacy.NewPool(c.cfg.Legacy.DatabaseURL)
	if err != nil {
		return err
	}
	defer legacyPool.Close()

	students, err := legacyPool.Students(ctx)
	if err != nil {
		return err
	}
	encodings, err := legacyPool.Encodings(ctx)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("Would import %d students and %d encodings\n", len(students), len(encodings))
		return nil
	}

	names := make(map[string]legacy.Student, len(students))
	for _, s := range students {
		names[s.StudentID] = s
	}

	bar := progressbar.NewOptions(len(encodings),
		progressbar.OptionSetDescription("Importing encodings"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("encodings"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var imported, skipped int
	start := time.Now()
	for _, enc := range encodings {
		_ = bar.Add(1)

		s, ok := names[enc.StudentID]
		if !ok {
			skipped++
			continue
		}

		_, err := c.enrollment.EnrollEncoding(ctx, s.StudentID, s.FirstName, s.LastName, enc.Vector, enc.ImagePath)
		switch {
		case errors.Is(err, enroll.ErrAlreadyEnrolled),
			errors.Is(err, enroll.ErrInvalidEncoding):
			skipped++
		case err != nil:
			return fmt.Errorf("import encoding for %s: %w", enc.StudentID, err)
		default:
			imported++
		}
	}

	fmt.Printf("\nImported %d encodings, skipped %d (%s)\n", imported, skipped, time.Since(start).Round(time.Second))
	return nil
}

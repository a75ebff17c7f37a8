package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GAURAV130105/attendance-system/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage course sessions",
}

var scheduleImportCmd = &cobra.Command{
	Use:   "import <schedule.yaml>",
	Short: "Expand a weekly schedule into course sessions",
	Long: `Expand a weekly YAML schedule into concrete course sessions over a
date range and insert them into the database.

Schedule file example:

  timezone: Europe/Prague
  courses:
    - course: CS101
      name: Introduction to Computer Science
      weekday: monday
      start: "09:00"
      end: "10:30"
      grace_minutes: 5

Each meeting becomes its own session (course ID + date), so attendance
is recorded at most once per meeting.`,
	Args: cobra.ExactArgs(1),
	RunE: runScheduleImport,
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List course sessions",
	RunE:  runScheduleList,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleImportCmd)
	scheduleCmd.AddCommand(scheduleListCmd)

	scheduleImportCmd.Flags().String("from", "", "First date to expand (YYYY-MM-DD, required)")
	scheduleImportCmd.Flags().String("to", "", "Last date to expand (YYYY-MM-DD, required)")
	_ = scheduleImportCmd.MarkFlagRequired("from")
	_ = scheduleImportCmd.MarkFlagRequired("to")
}

func runScheduleImport(cmd *cobra.Command, args []string) error {
	from, err := time.Parse("2006-01-02", mustGetString(cmd, "from"))
	if err != nil {
		return fmt.Errorf("invalid --from date: %w", err)
	}
	to, err := time.Parse("2006-01-02", mustGetString(cmd, "to"))
	if err != nil {
		return fmt.Errorf("invalid --to date: %w", err)
	}

	file, err := schedule.Load(args[0])
	if err != nil {
		return err
	}
	loc, err := file.Location()
	if err != nil {
		return err
	}
	sessions, err := file.Expand(from, to, loc)
	if err != nil {
		return err
	}

	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	for _, session := range sessions {
		if err := c.courses.Create(ctx, session); err != nil {
			return fmt.Errorf("session %s: %w", session.CourseID, err)
		}
	}

	fmt.Printf("Imported %d sessions from %s\n", len(sessions), args[0])
	return nil
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	courses, err := c.courses.List(ctx)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		fmt.Println("No sessions found")
		return nil
	}

	for _, course := range courses {
		fmt.Printf("%-24s %-30s %s - %s (grace %s)\n",
			course.CourseID, course.Name,
			course.ScheduledStart.Format("2006-01-02 15:04"),
			course.ScheduledEnd.Format("15:04"),
			course.GracePeriod)
	}
	return nil
}

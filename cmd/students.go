package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage enrolled students",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled students",
	Long: `List enrolled students with their sample counts.

With --name, only students whose normalized name matches are shown;
the comparison ignores case, diacritics and dashes, so "jan-novak"
matches "Jan Novák".`,
	RunE: runStudentsList,
}

var studentsRevokeCmd = &cobra.Command{
	Use:   "revoke <student-id>",
	Short: "Revoke a student from recognition",
	Long: `Soft-revoke a student: their encodings leave the live index and no
future capture can match them. Attendance history is kept. Use
'students reinstate' to undo.`,
	Args: cobra.ExactArgs(1),
	RunE: runStudentsRevoke,
}

var studentsReinstateCmd = &cobra.Command{
	Use:   "reinstate <student-id>",
	Short: "Reinstate a revoked student",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsReinstate,
}

var studentsDeleteCmd = &cobra.Command{
	Use:   "delete <student-id>",
	Short: "Hard-delete a student and their history",
	Long: `Hard-delete a student. Face encodings and attendance history are
removed with them (cascade). Prefer 'students revoke' when history
must be kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runStudentsDelete,
}

func init() {
	rootCmd.AddCommand(studentsCmd)
	studentsCmd.AddCommand(studentsListCmd)
	studentsCmd.AddCommand(studentsRevokeCmd)
	studentsCmd.AddCommand(studentsReinstateCmd)
	studentsCmd.AddCommand(studentsDeleteCmd)

	studentsListCmd.Flags().String("name", "", "Filter by normalized full name")
}

func runStudentsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	var students []database.Student
	if name := mustGetString(cmd, "name"); name != "" {
		students, err = c.students.FindByName(ctx, name)
	} else {
		students, err = c.students.List(ctx)
	}
	if err != nil {
		return err
	}

	if len(students) == 0 {
		fmt.Println("No students found")
		return nil
	}

	for _, s := range students {
		count, err := c.encodings.CountByStudent(ctx, s.StudentID)
		if err != nil {
			return err
		}
		state := ""
		if s.Revoked {
			state = " [revoked]"
		}
		fmt.Printf("%-12s %-30s enrolled %s, %d samples%s\n",
			s.StudentID, s.FullName(), s.EnrolledAt.Format("2006-01-02"), count, state)
	}
	return nil
}

func runStudentsRevoke(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.enrollment.Revoke(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Student %s revoked\n", args[0])
	return nil
}

func runStudentsReinstate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.enrollment.Reinstate(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Student %s reinstated\n", args[0])
	return nil
}

func runStudentsDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.enrollment.DeleteStudent(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Student %s deleted\n", args[0])
	return nil
}

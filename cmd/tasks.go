package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hrnexus/hrnexus-cli/internal/api"
)

var (
	tasksCategory string

	taskTitle       string
	taskDescription string
	taskCategoryArg string
	taskPriority    string
	taskStatus      string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List and manage HR tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		tasks, err := client.ListTasks(cmd.Context(), tasksCategory)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("(no tasks)")
			return nil
		}
		for _, t := range tasks {
			fmt.Printf("%4d  [%-11s]  %-8s  %-20s  %s\n", t.ID, t.Status, t.Priority, t.Category, t.Title)
		}
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		if taskTitle == "" {
			return fmt.Errorf("--title is required")
		}
		if !api.ValidPillar(taskCategoryArg) {
			return fmt.Errorf("unknown category %q (one of: %v)", taskCategoryArg, api.Pillars)
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		t, err := client.CreateTask(cmd.Context(), api.TaskCreate{
			Title:       taskTitle,
			Description: taskDescription,
			Category:    taskCategoryArg,
			Priority:    taskPriority,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Task %d created: %s\n", t.ID, t.Title)
		return nil
	},
}

var tasksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace a task's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		if taskTitle == "" {
			return fmt.Errorf("--title is required")
		}
		if !api.ValidPillar(taskCategoryArg) {
			return fmt.Errorf("unknown category %q (one of: %v)", taskCategoryArg, api.Pillars)
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		t, err := client.UpdateTask(cmd.Context(), id, api.TaskCreate{
			Title:       taskTitle,
			Description: taskDescription,
			Category:    taskCategoryArg,
			Priority:    taskPriority,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Task %d updated: %s\n", t.ID, t.Title)
		return nil
	},
}

var tasksStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Set a task's status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		switch taskStatus {
		case api.TaskPending, api.TaskInProgress, api.TaskCompleted:
		default:
			return fmt.Errorf("invalid status %q (one of: %q, %q, %q)",
				taskStatus, api.TaskPending, api.TaskInProgress, api.TaskCompleted)
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		if err := client.UpdateTaskStatus(cmd.Context(), id, taskStatus); err != nil {
			return err
		}
		fmt.Printf("✓ Task %d is now %s\n", id, taskStatus)
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		if err := client.UpdateTaskStatus(cmd.Context(), id, api.TaskCompleted); err != nil {
			return err
		}
		fmt.Printf("✓ Task %d completed\n", id)
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		if err := client.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("✓ Task %d deleted\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksEditCmd)
	tasksCmd.AddCommand(tasksStatusCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
	tasksCmd.AddCommand(tasksRmCmd)

	tasksCmd.Flags().StringVarP(&tasksCategory, "category", "c", "", "filter by pillar category")
	for _, c := range []*cobra.Command{tasksAddCmd, tasksEditCmd} {
		c.Flags().StringVarP(&taskTitle, "title", "t", "", "task title")
		c.Flags().StringVarP(&taskDescription, "desc", "d", "", "task description")
		c.Flags().StringVarP(&taskCategoryArg, "category", "c", "", "pillar category")
		c.Flags().StringVarP(&taskPriority, "priority", "p", "Medium", "priority: Low, Medium, High")
	}
	tasksStatusCmd.Flags().StringVarP(&taskStatus, "status", "s", "", "new status")
}

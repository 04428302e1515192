package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lironatar/TasksList/pkg/client"
)

func (c *cli) listsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show your task lists, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			lists, err := c.client.TaskLists(cmd.Context())
			if err != nil {
				return err
			}
			printLists(c.out, lists)
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Create, show, update or delete a task list",
	}
	cmd.AddCommand(c.listCreateCmd(), c.listShowCmd(), c.listUpdateCmd(), c.listDeleteCmd())
	return cmd
}

func (c *cli) listCreateCmd() *cobra.Command {
	var in client.TaskListInput
	var tasks []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a list, optionally with initial tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			for _, title := range tasks {
				in.Tasks = append(in.Tasks, client.TaskInput{Title: title})
			}
			list, err := c.client.CreateTaskList(cmd.Context(), in)
			if err != nil {
				return err
			}
			printList(c.out, list)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "List title")
	cmd.Flags().StringVar(&in.Description, "description", "", "List description")
	cmd.Flags().StringArrayVar(&tasks, "task", nil, "Initial task title (repeatable)")
	return cmd
}

func (c *cli) listShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show a list and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			list, err := c.client.TaskList(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printList(c.out, list)
			return nil
		},
	}
}

func (c *cli) listUpdateCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "update <list-id>",
		Short: "Rename a list or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			var update client.TaskListUpdate
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}
			if update.Title == nil && update.Description == nil {
				return errors.New("nothing to update; pass --title or --description")
			}
			list, err := c.client.UpdateTaskList(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			printList(c.out, list)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func (c *cli) listDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a list and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			if err := c.client.DeleteTaskList(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted list %s.\n", args[0])
			return nil
		},
	}
}

func (c *cli) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, update or delete tasks",
	}
	cmd.AddCommand(c.taskAddCmd(), c.taskUpdateCmd(), c.taskDeleteCmd())
	return cmd
}

func (c *cli) taskAddCmd() *cobra.Command {
	var in client.TaskInput

	cmd := &cobra.Command{
		Use:   "add <list-id>",
		Short: "Add a task to a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			task, err := c.client.CreateTask(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			printTasks(c.out, []client.Task{*task})
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Task description")
	cmd.Flags().StringVar(&in.Priority, "priority", "", "low, medium or high (default medium)")
	cmd.Flags().StringVar(&in.Status, "status", "", "pending, in_progress or completed (default pending)")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "Due date as YYYY-MM-DD")
	return cmd
}

func (c *cli) taskUpdateCmd() *cobra.Command {
	var title, description, priority, status, due string
	var clearDue bool

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Change only the given fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			var update client.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				update.Title = &title
			}
			if flags.Changed("description") {
				update.Description = &description
			}
			if flags.Changed("priority") {
				update.Priority = &priority
			}
			if flags.Changed("status") {
				update.Status = &status
			}
			switch {
			case clearDue && flags.Changed("due"):
				return errors.New("--due and --clear-due are mutually exclusive")
			case clearDue:
				update.DueDate = client.String("")
			case flags.Changed("due"):
				update.DueDate = &due
			}
			if update == (client.TaskUpdate{}) {
				return errors.New("nothing to update")
			}
			task, err := c.client.UpdateTask(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			printTasks(c.out, []client.Task{*task})
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&status, "status", "", "pending, in_progress or completed")
	cmd.Flags().StringVar(&due, "due", "", "Due date as YYYY-MM-DD")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	return cmd
}

func (c *cli) taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			if err := c.client.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted task %s.\n", args[0])
			return nil
		},
	}
}

func (c *cli) completeAllCmd() *cobra.Command {
	var batch bool

	cmd := &cobra.Command{
		Use:   "complete-all <list-id>",
		Short: "Mark every task of a list completed",
		Long: `Mark every task of a list completed.

By default each task is updated separately; tasks that were updated stay
completed even when others fail. With --batch the server updates all tasks
in one transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			if batch {
				n, err := c.client.SetAllStatus(cmd.Context(), args[0], client.StatusCompleted)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Completed %d task(s).\n", n)
				return nil
			}
			tasks, err := c.client.CompleteAll(cmd.Context(), args[0])
			if len(tasks) > 0 {
				printTasks(c.out, tasks)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&batch, "batch", false, "Use the transactional server-side update")
	return cmd
}

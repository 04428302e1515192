package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/lironatar/TasksList/pkg/client"
)

func printUser(out io.Writer, u *client.User) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Verified:\t%t\n", u.IsVerified)
	if u.ProfileIcon != "" {
		fmt.Fprintf(tw, "Icon:\t%s\n", u.ProfileIcon)
	}
	if u.LastLoginAt != nil {
		fmt.Fprintf(tw, "Last login:\t%s\n", u.LastLoginAt.Local().Format(time.DateTime))
	}
	_ = tw.Flush()
}

func printLists(out io.Writer, lists []client.TaskList) {
	if len(lists) == 0 {
		fmt.Fprintln(out, "No task lists yet.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDONE\tCREATED")
	for _, l := range lists {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\n", l.ID, l.Title, l.CompletedCount, l.TaskCount, l.CreatedAt.Local().Format(time.DateOnly))
	}
	_ = tw.Flush()
}

func printList(out io.Writer, l *client.TaskList) {
	fmt.Fprintf(out, "%s  (%s)\n", l.Title, l.ID)
	if l.Description != "" {
		fmt.Fprintln(out, l.Description)
	}
	fmt.Fprintf(out, "%d of %d task(s) completed\n", l.CompletedCount, l.TaskCount)
	if len(l.Tasks) > 0 {
		printTasks(out, l.Tasks)
	}
}

func printTasks(out io.Writer, tasks []client.Task) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = *t.DueDate
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, t.Priority, due)
	}
	_ = tw.Flush()
}

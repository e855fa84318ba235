package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/david/accel-hub/internal/db"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Prints review assignments that are past due and not finished, for the
// operator chasing reviewers by hand.
func main() {
	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, `
		SELECT a.id, u.email, ap.startup_name, a.status, a.due_date, a.assigned_at
		FROM review_assignments a
		JOIN users u ON u.id = a.reviewer_id
		JOIN applications ap ON ap.id = a.application_id
		WHERE a.due_date < NOW()
		  AND a.status NOT IN ('COMPLETED', 'REJECTED', 'WITHDRAWN')
		ORDER BY a.due_date ASC
		LIMIT 50`)
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Reviewer", "Startup", "Status", "Due", "Overdue By", "Assigned At"})

	now := time.Now()
	for rows.Next() {
		var id, email, startup, status string
		var dueDate *time.Time
		var assignedAt time.Time

		if err := rows.Scan(&id, &email, &startup, &status, &dueDate, &assignedAt); err != nil {
			log.Printf("Scan error: %v", err)
			continue
		}

		due := ""
		overdueBy := ""
		if dueDate != nil {
			due = dueDate.Format("2006-01-02")
			overdueBy = now.Sub(*dueDate).Round(time.Hour).String()
		}

		t.AppendRow(table.Row{email, startup, status, due, overdueBy, assignedAt.Format("2006-01-02")})
	}
	t.Render()
}

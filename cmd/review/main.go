package main

// Review pending documents:
//   go run ./cmd/review list
//   go run ./cmd/review approve <id>
//   go run ./cmd/review reject <id>

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"docreview-backend/internal/apiclient"
	"docreview-backend/internal/review"
	"docreview-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()
	apiURL := flag.String("api", cfg.PublicBaseURL+"/api", "API base URL")
	flag.Parse()

	ctx := context.Background()
	board := review.NewBoard(apiclient.New(*apiURL, nil))
	if err := board.Load(ctx); err != nil {
		log.Fatalf("load: %v", err)
	}

	switch flag.Arg(0) {
	case "", "list":
	case "approve", "reject":
		id := flag.Arg(1)
		if id == "" {
			log.Fatalf("usage: review %s <document id>", flag.Arg(0))
		}
		var res review.Result
		if flag.Arg(0) == "approve" {
			res = board.Approve(ctx, id)
		} else {
			res = board.Reject(ctx, id)
		}
		if res.Err != nil {
			log.Printf("%v", res.Err)
		} else {
			log.Printf("document %s %s", res.DocumentID, res.Status)
		}
		if res.RefreshErr != nil {
			log.Printf("refresh: %v", res.RefreshErr)
		}
		defer func() {
			if res.Err != nil {
				os.Exit(1)
			}
		}()
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER ID\tDOCUMENT TYPE\tSTATUS\tDOB CHECK")
	for _, doc := range board.Pending() {
		check := "-"
		if doc.DOBMatch != nil {
			check = fmt.Sprintf("%t (%s)", *doc.DOBMatch, doc.ExtractedDOB)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", doc.ID, doc.UserID, doc.DocumentType, doc.Status, check)
	}
	tw.Flush()
}

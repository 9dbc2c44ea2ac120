package main

// Upload an applicant's documents through the API:
//   go run ./cmd/intake -name "Asha Rao" -dob 05/08/1998 gateScorecard=./score.png ewsCertificate=./ews.pdf

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"docreview-backend/internal/apiclient"
	"docreview-backend/internal/doctypes"
	"docreview-backend/internal/intake"
	"docreview-backend/internal/ocr"
	"docreview-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	apiURL := flag.String("api", cfg.PublicBaseURL+"/api", "API base URL")
	userID := flag.String("user", "", "user id recorded on each document (defaults to -name)")
	fullName := flag.String("name", "", "applicant full name")
	refDOB := flag.String("dob", "", "reference date of birth, dd/mm/yyyy")
	gender := flag.String("gender", "", "applicant gender, saved with -save")
	save := flag.Bool("save", false, "save applicant details before uploading")
	final := flag.Bool("final", false, "final submit once every document is uploaded")
	ocrURL := flag.String("ocr", cfg.OCREndpoint, "OCR extract-text endpoint")
	typesFile := flag.String("doc-types", cfg.DocTypesFile, "document types YAML")
	flag.Parse()

	if strings.TrimSpace(*fullName) == "" {
		log.Fatal("-name is required")
	}
	if *userID == "" {
		*userID = *fullName
	}

	catalog, err := doctypes.Load(*typesFile)
	if err != nil {
		log.Fatalf("load document types: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(*apiURL, nil)
	if *save {
		if _, err := client.SaveApplicant(ctx, apiclient.ApplicantInput{FullName: *fullName, DOB: *refDOB, Gender: *gender}); err != nil {
			log.Fatalf("save details: %v", err)
		}
	}

	extractor := ocr.Chain{ocr.PDFExtractor{}}
	if strings.TrimSpace(*ocrURL) != "" {
		extractor = append(extractor, ocr.NewHTTPExtractor(*ocrURL, cfg.OCRTimeout))
	}

	session := intake.New(intake.Config{
		UserID:       *userID,
		FullName:     *fullName,
		ReferenceDOB: *refDOB,
		Catalog:      catalog,
		API:          client,
		OCR:          extractor,
		OnNotice: func(n intake.Notice) {
			log.Printf("[%s] %s", n.Level, n.Message)
		},
		OnProgress: func(p intake.Progress) {
			fmt.Fprintf(os.Stderr, "\r%s %3d%%", p.DocumentType, p.Percent)
			if p.Percent >= 100 {
				fmt.Fprintln(os.Stderr)
			}
		},
	})

	for _, arg := range flag.Args() {
		docType, path, ok := strings.Cut(arg, "=")
		if !ok {
			log.Fatalf("expected docType=path, got %q", arg)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		if err := session.Select(ctx, docType, intake.File{Name: filepath.Base(path), Data: data}); err != nil {
			log.Printf("%s: %v", docType, err)
		}
	}
	session.Wait()

	for _, slot := range session.Slots() {
		verdict := "correct"
		switch {
		case !slot.Checked:
			verdict = "unchecked"
		case !slot.Valid:
			verdict = "incorrect"
		}
		if slot.State != intake.StateUploaded {
			verdict = "-"
		}
		fmt.Printf("%-20s %-9s %-10s %s\n", slot.Label, slot.State, verdict, slot.URL)
	}

	if !session.CanSubmit() {
		return
	}
	summary, err := session.Submit()
	if err != nil {
		log.Fatalf("submit: %v", err)
	}
	for _, key := range catalog.Keys() {
		fmt.Printf("%s: %s\n", catalog.Label(key), summary[key])
	}
	if !*final {
		return
	}
	res, err := session.FinalSubmit(ctx)
	if err != nil {
		log.Fatalf("final submit: %v", err)
	}
	if !res.AllValid {
		if len(res.Unchecked) > 0 {
			log.Printf("documents whose date of birth could not be read: %s", strings.Join(res.Unchecked, ", "))
		}
		if len(res.Invalid) > 0 {
			log.Printf("documents with a mismatched date of birth: %s", strings.Join(res.Invalid, ", "))
		}
		os.Exit(2)
	}
	log.Printf("applicant %s validated", *fullName)
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	listviews "github.com/goliatone/go-listviews"
	"github.com/goliatone/go-listviews/internal/prompt"
)

func main() {
	dir := flag.String("views", "views", "directory holding view YAML/JSON documents")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	set, err := listviews.LoadViews(os.DirFS(*dir))
	if err != nil {
		log.Fatalf("load views: %v", err)
	}

	if err := prompt.PreviewSort(ctx, prompt.NewSurveyDriver(os.Stdout), set); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return
		}
		log.Fatalf("preview: %v", err)
	}
}

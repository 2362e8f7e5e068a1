package main

import (
	"context"
	"fmt"
	"os"

	"github.com/campusrecords/catalog/pkg/authorbooks"
	"github.com/campusrecords/catalog/pkg/authors"
	"github.com/campusrecords/catalog/pkg/config"
	"github.com/campusrecords/catalog/pkg/database"
	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

type authorDump struct {
	ID         int      `json:"id"`
	AuthorName *string  `json:"author_name"`
	Books      []string `json:"books,omitempty"`
}

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Search    string `short:"s" long:"search" description:"Only dump authors whose name contains this text"`
		Limit     int    `short:"l" long:"limit" default:"50" description:"Maximum number of authors to dump"`
		WithBooks bool   `short:"b" long:"with-books" description:"Include the titles of each author's books"`
		Debug     bool   `long:"debug" description:"Log every query"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if len(args) != 0 {
		fmt.Println("go run ./cmd/scripts/debug/dump-authors [--search text] [--limit n] [--with-books]")
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	cfg.DatabaseDebug = opts.Debug

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	if opts.Debug {
		ctx = database.WithLogging(ctx)
	}

	listOpts := authors.ListAuthorsOptions{Limit: &opts.Limit}
	if opts.Search != "" {
		listOpts.Search = &opts.Search
	}

	found, total, err := authors.NewService(db).ListAuthorsWithTotal(ctx, listOpts)
	if err != nil {
		log.Err(err).Fatal("list authors error")
	}

	links := authorbooks.NewService(db)
	dump := make([]authorDump, 0, len(found))
	for _, a := range found {
		entry := authorDump{ID: a.ID, AuthorName: a.AuthorName}
		if opts.WithBooks {
			books, err := links.ListBooksForAuthor(ctx, a.ID)
			if err != nil {
				log.Err(err).Fatal("list books error")
			}
			for _, b := range books {
				entry.Books = append(entry.Books, b.Title)
			}
		}
		dump = append(dump, entry)
	}

	out, err := json.MarshalIndent(map[string]interface{}{"total": total, "authors": dump}, "", "  ")
	if err != nil {
		log.Err(err).Fatal("marshal error")
	}
	fmt.Println(string(out))
}

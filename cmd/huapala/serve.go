package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huapala/huapala/internal/archive"
	"github.com/huapala/huapala/internal/linkage"
	"github.com/huapala/huapala/internal/server"
	"github.com/huapala/huapala/internal/util"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search and review HTTP API",
	Long: `Serve the JSON API used by the song browser and the review UI.

Routes:
  GET  /health
  GET  /api/songs?q=&columns=
  GET  /api/people?q=&columns=
  GET  /api/songbook-entries?q=&columns=
  GET  /api/linkages?status=&confidence=&q=
  GET  /api/linkages/stats
  POST /api/linkages/reload
  PUT  /api/linkages/{songId}-{entryId}   {"status": "approved"}

Record files (--songs, --people, --entries) are optional; the linkage
routes need --suggestions.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", ":8080", "address to listen on")
	serveCmd.Flags().Bool("offline", false, "record approvals without calling the API")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	var review *linkage.Store
	var source linkage.Source
	if viper.GetString("suggestions") != "" {
		offline, _ := cmd.Flags().GetBool("offline")
		session, err := openReview(ctx, offline)
		if err != nil {
			return err
		}
		defer session.Close()
		review, source = session.review, session.source
		util.InfoLog("Reviewing %d linkages (decisions in %s)", len(review.Linkages()), session.dbPath)
	} else {
		util.WarnLog("No --suggestions configured; linkage routes are disabled")
	}

	srv := server.NewServer(catalog, review, source)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(GetConfigString("listen", ":8080"))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		util.InfoLog("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	}
}

// loadCatalog reads whichever record files are configured
func loadCatalog() (*server.Catalog, error) {
	catalog := &server.Catalog{}

	if path := viper.GetString("songs"); path != "" {
		songs, err := archive.LoadSongs(path)
		if err != nil {
			return nil, err
		}
		catalog.Songs = songs
	}
	if path := viper.GetString("people"); path != "" {
		people, err := archive.LoadPeople(path)
		if err != nil {
			return nil, err
		}
		catalog.People = people
	}
	if path := viper.GetString("entries"); path != "" {
		entries, err := archive.LoadEntries(path)
		if err != nil {
			return nil, err
		}
		catalog.Entries = entries
	}

	util.InfoLog("Loaded %d songs, %d people, %d songbook entries",
		len(catalog.Songs), len(catalog.People), len(catalog.Entries))
	if len(catalog.Songs)+len(catalog.People)+len(catalog.Entries) == 0 {
		util.WarnLog("No record files configured; set --songs, --people or --entries to enable search")
	}
	return catalog, nil
}

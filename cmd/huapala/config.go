package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/huapala/huapala/internal/huapala"
	"github.com/huapala/huapala/internal/linkage"
	"github.com/huapala/huapala/internal/store"
	"github.com/huapala/huapala/internal/util"
)

// GetConfigString retrieves a string config value with proper precedence:
// 1. Command-line flag (if set)
// 2. Environment variable (HUAPALA_*)
// 3. Config file
// 4. Default value
func GetConfigString(key string, defaultValue string) string {
	val := viper.GetString(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// newClient returns an API client for the configured base URL
func newClient() *huapala.Client {
	return huapala.NewClient(util.GetAPIURL())
}

// reviewSession is a loaded review store with its backing database
type reviewSession struct {
	db          *store.Store
	review      *linkage.Store
	source      linkage.FileSource
	dbPath      string
	suggestions string
}

func (s *reviewSession) Close() error {
	return s.db.Close()
}

// openReview opens the decisions database and loads the configured
// suggestions. With offline set, approvals are recorded but not pushed to
// the API.
func openReview(ctx context.Context, offline bool) (*reviewSession, error) {
	suggestions, err := util.RequirePath("suggestions")
	if err != nil {
		return nil, err
	}

	dbPath := GetConfigString("db", "huapala-review.db")
	db, err := openStore(dbPath)
	if err != nil {
		return nil, err
	}

	var notifier linkage.Notifier
	if !offline {
		notifier = newClient()
	}

	session := &reviewSession{
		db:          db,
		review:      linkage.NewStore(db.Overrides(), notifier),
		source:      linkage.FileSource{Path: suggestions},
		dbPath:      dbPath,
		suggestions: suggestions,
	}

	if err := session.review.Reload(ctx, session.source); err != nil {
		db.Close()
		return nil, err
	}

	util.DebugLog("Loaded %d linkages from %s", len(session.review.Linkages()), suggestions)
	return session, nil
}

// openStore opens the decisions database without loading suggestions
func openStore(dbPath string) (*store.Store, error) {
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	redis "gopkg.in/redis.v5"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/dataset/csv"
	"github.com/pbanos/sylva/dataset/sqlds"
	"github.com/pbanos/sylva/dataset/sqlds/pqadapter"
	"github.com/pbanos/sylva/dataset/sqlds/sqlite3adapter"
	"github.com/pbanos/sylva/feature"
	"github.com/pbanos/sylva/tree"
	"github.com/pbanos/sylva/tree/redisstore"
	"github.com/pbanos/sylva/tree/treejson"
)

// readTable routes a data input location to the right backend: an
// empty location reads CSV from STDIN, postgresql:// URLs and .db
// files go through the SQL adapters, anything else is a CSV file.
func readTable(input string, features []*feature.Feature, maxDBConns int) (*dataset.Table, error) {
	if input == "" {
		log.Info("Reading table from STDIN...")
		return csv.ReadTable(os.Stdin, features)
	}
	if strings.HasPrefix(input, "postgresql://") {
		log.Infof("Opening dataset over PostgreSQL adapter for %s...", input)
		adapter, err := pqadapter.New(input, maxDBConns)
		if err != nil {
			return nil, err
		}
		return readSQLTable(adapter, features)
	}
	if strings.HasSuffix(input, ".db") {
		log.Infof("Opening dataset over SQLite3 adapter for file %s...", input)
		adapter, err := sqlite3adapter.New(input, maxDBConns)
		if err != nil {
			return nil, err
		}
		return readSQLTable(adapter, features)
	}
	log.Infof("Opening %s to read table...", input)
	return csv.ReadTableFromFilePath(input, features)
}

func readSQLTable(adapter sqlds.Adapter, features []*feature.Feature) (*dataset.Table, error) {
	ds, err := sqlds.Open(adapter, features)
	if err != nil {
		return nil, err
	}
	return ds.Read()
}

// loadTree reads a tree from a JSON file or, for redis:// locations,
// from a redis-backed tree store.
func loadTree(location string, features []*feature.Feature) (*tree.Tree, error) {
	if strings.HasPrefix(location, "redis://") {
		store, name, err := redisTreeStore(location)
		if err != nil {
			return nil, err
		}
		log.Infof("Loading tree %s from redis...", name)
		return store.Load(name, features)
	}
	log.Infof("Reading tree from %s...", location)
	return treejson.ReadTreeFromFile(location, features)
}

// saveTree writes a tree as JSON to STDOUT, to a file, or, for
// redis:// locations, to a redis-backed tree store.
func saveTree(location string, t *tree.Tree) error {
	if location == "" {
		return treejson.WriteTree(os.Stdout, t)
	}
	if strings.HasPrefix(location, "redis://") {
		store, name, err := redisTreeStore(location)
		if err != nil {
			return err
		}
		log.Infof("Saving tree %s to redis...", name)
		return store.Save(name, t)
	}
	log.Infof("Writing tree to %s...", location)
	return treejson.WriteTreeToFile(location, t)
}

// redisTreeStore parses a location of the form
// redis://host:port/prefix/name into a store and a tree name.
func redisTreeStore(location string) (*redisstore.Store, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("parsing redis tree location %s: %v", location, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, "", fmt.Errorf("invalid redis tree location %s: expected redis://host:port/prefix/name", location)
	}
	rc := redis.NewClient(&redis.Options{Addr: u.Host})
	return redisstore.New(rc, parts[0]), parts[1], nil
}

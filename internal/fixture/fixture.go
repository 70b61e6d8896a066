// Package fixture builds the reference database used by end-to-end tests:
// a small catalogue of amenities available at campground sites.
//
// The database is written through mattn/go-sqlite3 rather than through this
// module, so tests read data they did not produce themselves.
package fixture

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Amenity is one row of the site_amenities table.
type Amenity struct {
	ID       int64
	SiteID   string
	Name     string
	Category string
	Rating   float64
	Photo    []byte
	Opened   int64
}

// Amenities are the rows inserted by Build, in id order.
var Amenities = []Amenity{
	{1, "yosemite-north", "Fire Pit", "outdoor", 4.5, []byte{0x89, 0x50, 0x4e, 0x47}, 1577836800},
	{2, "yosemite-north", "Picnic Table", "outdoor", 4.0, nil, 1577836800},
	{3, "yosemite-north", "Bear Locker", "storage", 4.8, []byte{}, 1580515200},
	{4, "big-sur-east", "Hot Shower", "hygiene", 3.9, []byte{0xff, 0xd8, 0xff}, 1585699200},
	{5, "big-sur-east", "Flush Toilet", "hygiene", 3.5, nil, 1585699200},
	{6, "big-sur-east", "Electric Hookup", "utility", 4.2, nil, 1590969600},
	{7, "zion-south", "Water Spigot", "utility", 4.1, nil, 1593561600},
	{8, "zion-south", "Shade Structure", "outdoor", 3.8, nil, 1596240000},
	{9, "zion-south", "Dump Station", "utility", 2.9, nil, 1598918400},
	{10, "acadia-west", "Wifi", "utility", 2.5, nil, 1609459200},
	{11, "acadia-west", "Camp Store", "retail", 4.6, []byte("logo"), 1612137600},
	{12, "acadia-west", "Kayak Rental", "retail", 4.9, nil, 1614556800},
}

// Count is the number of rows in site_amenities.
var Count = len(Amenities)

var schema = []string{
	`DROP TABLE IF EXISTS site_amenities`,
	`CREATE TABLE site_amenities (
		id INTEGER PRIMARY KEY NOT NULL,
		site_id VARCHAR(64) NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		rating DOUBLE NOT NULL,
		photo BLOB,
		opened INTEGER NOT NULL
	)`,
	`CREATE INDEX site_amenities_site_id ON site_amenities(site_id)`,
}

// Build creates or recreates the fixture database at path.
func Build(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return fmt.Errorf("failed to open fixture database: %w", err)
	}
	defer db.Close()

	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("failed to create fixture schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin fixture transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO site_amenities (id, site_id, name, category, rating, photo, opened)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare fixture insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range Amenities {
		var photo any
		if a.Photo != nil {
			photo = a.Photo
		}
		if _, err := stmt.ExecContext(ctx, a.ID, a.SiteID, a.Name, a.Category, a.Rating, photo, a.Opened); err != nil {
			return fmt.Errorf("failed to insert amenity %d: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fixture: %w", err)
	}
	return nil
}

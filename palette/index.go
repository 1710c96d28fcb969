package palette

import (
	"database/sql"
	"image/color"

	_ "github.com/mattn/go-sqlite3"
)

// Index is a persistent cache of representative colors keyed by the SHA1 of
// the texture contents and the strategy used, so colors are only recomputed
// when a texture actually changes between sessions.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if necessary) an index database at file.
func OpenIndex(file string) (*Index, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS block_color (sha1 TEXT NOT NULL, strategy TEXT NOT NULL, r INTEGER NOT NULL, g INTEGER NOT NULL, b INTEGER NOT NULL, PRIMARY KEY (sha1, strategy))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Get returns the cached color for the given texture hash and strategy. The
// second return value reports whether an entry was found.
func (ix *Index) Get(sha string, strategy Strategy) (color.NRGBA, bool, error) {
	var r, g, b uint8
	switch err := ix.db.QueryRow("SELECT r, g, b FROM block_color WHERE sha1 = ? AND strategy = ?", sha, string(strategy)).Scan(&r, &g, &b); err {
	case sql.ErrNoRows:
		return color.NRGBA{}, false, nil
	case nil:
		return color.NRGBA{r, g, b, 0xff}, true, nil
	default:
		return color.NRGBA{}, false, err
	}
}

// Put stores the color for the given texture hash and strategy.
func (ix *Index) Put(sha string, strategy Strategy, c color.NRGBA) error {
	_, err := ix.db.Exec("INSERT OR REPLACE INTO block_color (sha1, strategy, r, g, b) VALUES (?, ?, ?, ?, ?)", sha, string(strategy), c.R, c.G, c.B)
	return err
}

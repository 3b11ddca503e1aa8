package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// NewLocal creates a Storage backed by diskv rooted at basePath. Rows are
// stored one file per (user, date) key, so a write for an existing key
// replaces the previous content: upsert semantics fall out of the layout.
func NewLocal(basePath string) (Storage, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: base path required")
	}
	return &local{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type local struct {
	d        *diskv.Diskv
	basePath string
}

func (l *local) Upsert(_ context.Context, table string, row Row) error {
	if err := validateTable(table); err != nil {
		return err
	}
	if row.UserID == "" || row.Date == "" {
		return errors.New("store: user and date required")
	}
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return l.d.Write(toKey(Key{UserID: row.UserID, Date: row.Date}), data)
}

func (l *local) SelectOne(_ context.Context, table string, key Key) (Row, error) {
	if err := validateTable(table); err != nil {
		return Row{}, err
	}
	val, err := l.d.Read(toKey(key))
	if err != nil {
		// diskv surfaces a missing key as a file-not-found read error;
		// report that as the explicit not-found result.
		return Row{}, ErrNotFound
	}
	var row Row
	if err := json.Unmarshal(val, &row); err != nil {
		return Row{}, err
	}
	return row, nil
}

func (l *local) SelectAll(ctx context.Context, table string, userID string) ([]Row, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	encoded := toBucket(userID)
	all := make([]Row, 0)
	for key := range l.d.Keys(ctx.Done()) {
		if pk := keyToPathTransform(key); len(pk.Path) == 0 || pk.Path[0] != encoded {
			continue
		}
		val, err := l.d.Read(key)
		if err != nil {
			continue
		}
		var row Row
		if err := json.Unmarshal(val, &row); err != nil {
			continue
		}
		all = append(all, row)
	}
	sortRows(all)
	return all, nil
}

func validateTable(table string) error {
	if table != TableEntries {
		return fmt.Errorf("store: unknown table %q", table)
	}
	return nil
}

// sortRows orders newest date first for the home view and list command.
func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return &diskv.PathKey{FileName: s}
	}
	// The date holds the final three segments (YYYY-MM-DD); everything in
	// front of it is the encoded user bucket.
	cut := len(parts) - 3
	if cut < 1 {
		cut = 1
	}
	return &diskv.PathKey{
		Path:     parts[:cut],
		FileName: strings.Join(parts[cut:], "-"),
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `bucket-date` with the user id hex encoded so arbitrary ids
// stay filesystem safe and free of the key separator.
func toKey(k Key) string {
	return fmt.Sprintf("%s-%s", toBucket(k.UserID), k.Date)
}

func toBucket(userID string) string {
	return hex.EncodeToString([]byte(userID))
}

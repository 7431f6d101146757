package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")
)

// Index describes one index of a table, keys use the Search sort syntax ("field" or "-field")
type Index struct {
	Keys   []string
	Unique bool
}

// Mongo abstract the mongo layer.
type Mongo interface {
	// Insert inserts a new document to the table, ErrDuplicateKey on a unique index violation
	Insert(c ctx.Ctx, table domain.Table, doc interface{}) error

	// FindOne decodes the first match into result, ErrNotFound when nothing matches
	FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count return counting for matched entry in the table
	Count(c ctx.Ctx, table domain.Table, query interface{}) (int, error)

	// Search sorts by each of sortFields (ex "time" ascending, or "-time" descending)
	// and decodes the selected page into results.
	Search(c ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error

	// EnsureIndexes creates the missing indexes of table
	EnsureIndexes(c ctx.Ctx, table domain.Table, indexes ...Index) error
}

// sortDoc turns "field" / "-field" strings into a mongo sort document
func sortDoc(fields ...string) bson.D {
	res := bson.D{}
	for _, f := range fields {
		if f == "" {
			continue
		}
		if f[0] == '-' {
			res = append(res, bson.E{Key: f[1:], Value: -1})
		} else {
			res = append(res, bson.E{Key: f, Value: 1})
		}
	}
	return res
}

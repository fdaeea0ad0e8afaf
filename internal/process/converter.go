// Package process turns entries of a source tree into measurement records.
//
// A Converter holds no mutable state; every call owns its own context
// stack, so one Converter may serve concurrent conversions of distinct
// records.
package process

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/nxload/internal/ctxlog"
	"github.com/specialistvlad/nxload/internal/dataset"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/override"
	"github.com/specialistvlad/nxload/internal/state"
)

// Converter converts entries of one source file.
type Converter struct {
	// Override is optional.
	Override *override.Document
	// FileName selects the run section of Override and is recorded as FILE_NAME.
	FileName string
}

// Convert converts one entry into rec with group ids starting at start. A
// nil data group converts the entry's monitors instead.
func (c Converter) Convert(ctx context.Context, entry, data nxtree.Node, rec *dataset.DataSet, start int) error {
	ctx, _ = ctxlog.With(ctx, "conversion_id", uuid.NewString())
	st := state.New()
	err := c.Process(ctx, st, rec, entry, data, start)
	if st.Depth() != 0 {
		panic(fmt.Sprintf("process: context stack left at depth %d", st.Depth()))
	}
	return err
}

// ConvertFile converts every entry under root: one monitor record per entry
// that has monitors, then one histogram record per data group. Group ids
// are allocated contiguously across records from start. Records that fail
// with a fatal error are dropped; records with sub-processor failures are
// kept. All failures are joined into the returned error.
func (c Converter) ConvertFile(ctx context.Context, root nxtree.Node, start int) ([]*dataset.DataSet, error) {
	if root == nil {
		return nil, newError(MissingRequiredInput, "", "source tree is required")
	}
	fileName, version := nxtree.FileInfo(root)
	if c.FileName == "" {
		c.FileName = fileName
	}
	logger := ctxlog.FromContext(ctx).With("file", c.FileName, "schema_version", version)
	ctx = ctxlog.WithLogger(ctx, logger)

	var records []*dataset.DataSet
	var errs []error
	next := start

	convert := func(entry, data nxtree.Node) {
		rec := &dataset.DataSet{}
		err := c.Convert(ctx, entry, data, rec, next)
		if err != nil {
			errs = append(errs, err)
			if IsFatal(err) {
				return
			}
		}
		records = append(records, rec)
		next += rec.Len()
	}

	entries := nxtree.ChildrenOfClass(root, nxtree.ClassEntry)
	if len(entries) == 0 {
		logger.Warn("Source tree has no entries.")
	}
	for _, entry := range entries {
		if len(nxtree.ChildrenOfClass(entry, nxtree.ClassMonitor)) > 0 {
			convert(entry, nil)
		}
		for _, data := range nxtree.ChildrenOfClass(entry, nxtree.ClassData) {
			convert(entry, data)
		}
	}

	logger.Debug("File converted.", "records", len(records), "failures", len(errs))
	return records, errors.Join(errs...)
}

package resultstore

import (
	"context"
	"fmt"
	"strings"

	"csvrecon/internal/recon"
	"csvrecon/internal/records"
)

// Table name suffixes for the three result sets.
const (
	TableOnlyIn1     = "only_in_1"
	TableOnlyIn2     = "only_in_2"
	TableDifferences = "differences"
)

// SaveResult writes all three result sets of a compared run into
// <prefix>_only_in_1, <prefix>_only_in_2 and <prefix>_differences.
//
// Tables are created if missing and reset before insert, so rerunning a job
// replaces its previous results rather than appending to them. A non-compared
// result (empty input) writes nothing.
func SaveResult(ctx context.Context, s Store, res recon.Result, keyColumns []string, prefix string) error {
	if res.Status != recon.StatusCompared {
		return nil
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "recon"
	}

	if err := saveDataset(ctx, s, prefix+"_"+TableOnlyIn1, res.OnlyA); err != nil {
		return err
	}
	if err := saveDataset(ctx, s, prefix+"_"+TableOnlyIn2, res.OnlyB); err != nil {
		return err
	}

	diffDS := records.Dataset{
		Fields:  recon.DiffHeader(keyColumns),
		Records: recon.DiffRecords(res.Diffs, keyColumns),
	}
	return saveDataset(ctx, s, prefix+"_"+TableDifferences, diffDS)
}

func saveDataset(ctx context.Context, s Store, table string, ds records.Dataset) error {
	if err := s.EnsureTable(ctx, table, ds.Fields); err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	if err := s.Reset(ctx, table); err != nil {
		return fmt.Errorf("reset table %s: %w", table, err)
	}
	if len(ds.Records) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(ds.Records))
	for _, r := range ds.Records {
		row := make([]string, len(ds.Fields))
		for i, f := range ds.Fields {
			row[i] = r.Value(f)
		}
		rows = append(rows, row)
	}

	if _, err := s.InsertRows(ctx, table, ds.Fields, rows); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Package respagg collapses raw response rows into one canonical response
// record per alert identifier.
package respagg

import (
	"sort"
	"strings"

	"github.com/abarry/gapcast/schema"
)

// Aggregate groups raw response rows by alert identifier and reduces each
// group to a single row:
//
//   - sector flags are OR-combined, missing treated as zero
//   - counts take the group max ignoring missing; an all-missing group stays
//     missing rather than collapsing to a sentinel
//   - start date is the earliest present start
//   - end date is rebuilt as min start plus the longest observed elapsed
//     time, so a duration survives inconsistent individual end dates
//   - actors are joined as a distinct, sorted, comma-separated list
//   - donor and admin columns are copied from the group's first row, which
//     assumes homogeneity per alert and does not validate it
//   - response_number counts every raw row in the group, including rows with
//     no populated detail, since it measures attempted interventions
//
// Group order follows first appearance in the input, so the output is
// deterministic for a given snapshot.
func Aggregate(t *schema.Table, cfg schema.AggregateConfig) (*schema.Table, error) {
	required := []string{cfg.UUID, cfg.Counts.Household, cfg.Counts.Individual, cfg.StartDate, cfg.EndDate}
	required = append(required, cfg.SectorFlags...)
	for _, c := range []string{cfg.Actor, cfg.Donor, cfg.Admin1, cfg.Admin2} {
		if c != "" {
			required = append(required, c)
		}
	}
	if err := t.RequireColumns(required...); err != nil {
		return nil, err
	}

	keys, groups := groupByUUID(t, cfg.UUID)

	columns := []string{cfg.UUID, schema.ColResponseNumber}
	columns = append(columns, cfg.SectorFlags...)
	columns = append(columns, cfg.Counts.Household, cfg.Counts.Individual, cfg.StartDate, cfg.EndDate)
	for _, c := range []string{cfg.Actor, cfg.Donor, cfg.Admin1, cfg.Admin2} {
		if c != "" {
			columns = append(columns, c)
		}
	}

	out := schema.NewTable(columns...)
	for _, key := range keys {
		out.Append(reduceGroup(key, groups[key], cfg))
	}
	return out, nil
}

// groupByUUID partitions rows by identifier, preserving first-appearance
// order of the keys and input order within each group.
func groupByUUID(t *schema.Table, uuidCol string) ([]string, map[string][]schema.Record) {
	var keys []string
	groups := make(map[string][]schema.Record)
	for _, row := range t.Rows {
		key, _ := row.Get(uuidCol).Str()
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], row)
	}
	return keys, groups
}

// reduceGroup computes the canonical response row for one identifier.
func reduceGroup(key string, rows []schema.Record, cfg schema.AggregateConfig) schema.Record {
	out := schema.Record{
		cfg.UUID:                 schema.StringValue(key),
		schema.ColResponseNumber: schema.IntValue(schema.SomeInt(len(rows))),
	}

	for _, flag := range cfg.SectorFlags {
		any := false
		for _, row := range rows {
			if row.Get(flag).Truthy() {
				any = true
				break
			}
		}
		out[flag] = schema.BoolValue(any)
	}

	out[cfg.Counts.Household] = schema.IntValue(maxCount(rows, cfg.Counts.Household))
	out[cfg.Counts.Individual] = schema.IntValue(maxCount(rows, cfg.Counts.Individual))

	starts := make([]schema.Date, len(rows))
	elapsed := make([]schema.Int, len(rows))
	for i, row := range rows {
		starts[i] = row.Get(cfg.StartDate).Date()
		elapsed[i] = starts[i].DaysUntil(row.Get(cfg.EndDate).Date())
	}
	start := schema.MinDate(starts...)
	out[cfg.StartDate] = schema.DateValueOpt(start)
	out[cfg.EndDate] = schema.DateValueOpt(start.AddDays(schema.MaxInt(elapsed...)))

	if cfg.Actor != "" {
		out[cfg.Actor] = joinActors(rows, cfg.Actor)
	}
	for _, c := range []string{cfg.Donor, cfg.Admin1, cfg.Admin2} {
		if c != "" {
			out[c] = rows[0].Get(c)
		}
	}
	return out
}

// maxCount reduces one count column over a group, ignoring missing.
func maxCount(rows []schema.Record, col string) schema.Int {
	values := make([]schema.Int, len(rows))
	for i, row := range rows {
		values[i] = row.Get(col).Int()
	}
	return schema.MaxInt(values...)
}

// joinActors builds the distinct, sorted, comma-separated actor list.
func joinActors(rows []schema.Record, col string) schema.Value {
	seen := make(map[string]struct{})
	var names []string
	for _, row := range rows {
		name, ok := row.Get(col).Str()
		if !ok || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if len(names) == 0 {
		return schema.Value{}
	}
	sort.Strings(names)
	return schema.StringValue(strings.Join(names, ", "))
}

package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ballot-backend/internal/store"
)

// Validation runs before any write. All records are checked exhaustively so
// the caller sees every problem in the batch at once; any failure gates the
// whole batch.

var candidateRequiredFields = []string{"first_name", "last_name", "email", "party"}
var nominationRequiredFields = []string{"email", "party", "constituency", "election"}

type idSet map[int64]bool

func (i *Importer) validateCandidates(ctx context.Context, records []Record) ([]string, error) {
	parties, err := i.fetchIDSet(ctx, "party")
	if err != nil {
		return nil, err
	}
	rules := compileRules(i.registry.ContentType("candidate"))
	return validateCandidateRecords(records, parties, rules), nil
}

func validateCandidateRecords(records []Record, parties idSet, rules []compiledRule) []string {
	var msgs []string
	seen := make(map[string]int) // email -> row number of first use

	for idx, rec := range records {
		row := rowNumber(idx)

		if missing := missingFields(rec, candidateRequiredFields); len(missing) > 0 {
			msgs = append(msgs, fmt.Sprintf("Row %d: missing required fields: %s", row, strings.Join(missing, ", ")))
		}

		email := strings.ToLower(fieldString(rec, "email"))
		if email == "" {
			msgs = append(msgs, fmt.Sprintf("Row %d: email must not be empty", row))
		} else if prev, dup := seen[email]; dup {
			msgs = append(msgs, fmt.Sprintf("Row %d: duplicate email %q already used in row %d", row, email, prev))
		} else {
			seen[email] = row
		}

		if msg := checkForeignKey(rec, "party", parties, row); msg != "" {
			msgs = append(msgs, msg)
		}

		msgs = append(msgs, evaluateRules(rules, rec, row)...)
	}
	return msgs
}

func (i *Importer) validateNominations(ctx context.Context, records []Record) ([]string, error) {
	candidates, err := i.fetchCandidateIDsByEmail(ctx)
	if err != nil {
		return nil, err
	}

	sets := make(map[string]idSet, 3)
	for _, slug := range []string{"party", "constituency", "election"} {
		set, err := i.fetchIDSet(ctx, slug)
		if err != nil {
			return nil, err
		}
		sets[slug] = set
	}

	rules := compileRules(i.registry.ContentType("nomination"))
	return validateNominationRecords(records, candidates, sets, rules), nil
}

func validateNominationRecords(records []Record, candidates map[string]int64, sets map[string]idSet, rules []compiledRule) []string {
	var msgs []string
	seen := make(map[string]int) // composite key -> row number of first use

	for idx, rec := range records {
		row := rowNumber(idx)

		if missing := missingFields(rec, nominationRequiredFields); len(missing) > 0 {
			msgs = append(msgs, fmt.Sprintf("Row %d: missing required fields: %s", row, strings.Join(missing, ", ")))
		}

		email := strings.ToLower(fieldString(rec, "email"))
		if email == "" {
			msgs = append(msgs, fmt.Sprintf("Row %d: email must not be empty", row))
		} else if cid, ok := candidates[email]; !ok {
			msgs = append(msgs, fmt.Sprintf("Row %d: no candidate found with email %q", row, email))
		} else {
			// Attach the resolved id so reconciliation skips a second lookup.
			rec["candidate"] = cid
		}

		for _, fk := range []string{"party", "constituency", "election"} {
			if msg := checkForeignKey(rec, fk, sets[fk], row); msg != "" {
				msgs = append(msgs, msg)
			}
		}

		key := strings.Join([]string{
			email,
			fieldString(rec, "party"),
			fieldString(rec, "constituency"),
			fieldString(rec, "election"),
		}, "|")
		if email != "" {
			if prev, dup := seen[key]; dup {
				msgs = append(msgs, fmt.Sprintf(
					"Row %d: duplicate nomination (email, party, constituency, election) already used in row %d", row, prev))
			} else {
				seen[key] = row
			}
		}

		msgs = append(msgs, evaluateRules(rules, rec, row)...)
	}
	return msgs
}

// checkForeignKey verifies a scalar foreign-key value against a pre-fetched
// id set. Nested objects are left for the resolver; empty values are the
// required-field check's problem.
func checkForeignKey(rec Record, field string, valid idSet, row int) string {
	if fieldEmpty(rec, field) {
		return ""
	}
	v := rec[field]
	if _, nested := v.(map[string]any); nested {
		return ""
	}
	id, ok := rawID(v)
	if !ok || !valid[id] {
		return fmt.Sprintf("Row %d: %s %v does not exist", row, field, v)
	}
	return ""
}

// rawID parses a numeric entity id out of a raw record value, accepting the
// numeric strings CSV parsing produces.
func rawID(v any) (int64, bool) {
	if s, ok := v.(string); ok {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return id, err == nil
	}
	id, err := store.ToID(v)
	return id, err == nil
}

func (i *Importer) fetchIDSet(ctx context.Context, slug string) (idSet, error) {
	ct := i.registry.ContentType(slug)
	if ct == nil {
		return nil, fmt.Errorf("unknown content type: %s", slug)
	}
	rows, err := store.FindMany(ctx, i.store.DB, i.store.Dialect, ct, nil)
	if err != nil {
		return nil, err
	}
	set := make(idSet, len(rows))
	for _, row := range rows {
		id, err := store.ToID(row["id"])
		if err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, nil
}

func (i *Importer) fetchCandidateIDsByEmail(ctx context.Context) (map[string]int64, error) {
	ct := i.registry.ContentType("candidate")
	if ct == nil {
		return nil, fmt.Errorf("unknown content type: candidate")
	}
	rows, err := store.FindMany(ctx, i.store.DB, i.store.Dialect, ct, nil)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]int64, len(rows))
	for _, row := range rows {
		email, _ := row["email"].(string)
		if email == "" {
			continue
		}
		id, err := store.ToID(row["id"])
		if err != nil {
			return nil, err
		}
		byEmail[strings.ToLower(email)] = id
	}
	return byEmail, nil
}

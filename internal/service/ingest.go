package service

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/nestegg/internal/database/repository"
)

// IngestService populates the sqlite data file from CSV documents. It runs
// out-of-band; the session proper reads the file once at startup.
type IngestService struct {
	Accounts     *repository.AccountRepo
	Transactions *repository.TransactionRepo
	Rates        *repository.RateRepo
	Log          zerolog.Logger

	accountCache map[string]repository.Account
}

type IngestResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// ImportTransactionsCSV reads rows of date,kind,amount[,note] into the
// named account, creating it if needed. amount is dollars with an optional
// minus; a malformed amount coerces to 0 rather than failing the row, per
// the boundary contract — the engine never sees non-numeric input.
// Re-imports skip duplicates via the source hash.
func (s *IngestService) ImportTransactionsCSV(ctx context.Context, r io.Reader, accountName string) (IngestResult, error) {
	res := IngestResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if len(rec) < 3 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: expected date,kind,amount", line))
			continue
		}
		dateStr, kindStr, amountStr := rec[0], rec[1], rec[2]
		note := ""
		if len(rec) > 3 {
			note = strings.TrimSpace(strings.Join(rec[3:], ","))
		}

		if _, err := civil.ParseDate(strings.TrimSpace(dateStr)); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d date: %w", line, err))
			continue
		}
		date := strings.TrimSpace(dateStr)

		kind := strings.ToLower(strings.TrimSpace(kindStr))
		switch kind {
		case "deposit", "withdrawal", "interest":
		default:
			res.Errors = append(res.Errors, fmt.Errorf("line %d: unknown kind %q", line, kindStr))
			continue
		}

		cents, err := dollarsToCents(amountStr)
		if err != nil {
			s.Log.Warn().Int("line", line).Str("amount", amountStr).Msg("coercing malformed amount to 0")
			cents = 0
		}
		if cents < 0 {
			cents = -cents
		}

		acct, err := s.accountForName(ctx, accountName)
		if err != nil {
			return res, fmt.Errorf("line %d account: %w", line, err)
		}

		hash := hashSource(acct.ID, date, kind, strconv.FormatInt(cents, 10), note)
		t := repository.Transaction{
			ID:          uuid.NewString(),
			AccountID:   acct.ID,
			Date:        date,
			Kind:        kind,
			AmountCents: cents,
			Note:        note,
			SourceHash:  &hash,
		}
		if err := s.Transactions.Insert(ctx, t); err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				res.Skipped++
				continue
			}
			res.Errors = append(res.Errors, fmt.Errorf("line %d insert: %w", line, err))
			continue
		}
		res.Imported++
	}
	s.Log.Info().Str("account", accountName).Int("imported", res.Imported).
		Int("skipped", res.Skipped).Int("errors", len(res.Errors)).Msg("transactions import done")
	return res, nil
}

// ImportRatesCSV reads rows of start,end,rate into the named account's
// schedule; an empty account name targets the global fallback schedule.
// rate may be a fraction (0.05) or percentage-like (5); normalization is
// the schedule constructor's job, the raw value is stored as given.
func (s *IngestService) ImportRatesCSV(ctx context.Context, r io.Reader, accountName string) (IngestResult, error) {
	res := IngestResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if len(rec) < 3 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: expected start,end,rate", line))
			continue
		}

		start, err := civil.ParseDate(strings.TrimSpace(rec[0]))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d start: %w", line, err))
			continue
		}
		end, err := civil.ParseDate(strings.TrimSpace(rec[1]))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d end: %w", line, err))
			continue
		}
		if end.Before(start) {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: end before start", line))
			continue
		}

		rate, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			s.Log.Warn().Int("line", line).Str("rate", rec[2]).Msg("coercing malformed rate to 0")
			rate = 0
		}

		var accountID *string
		if accountName != "" {
			acct, err := s.accountForName(ctx, accountName)
			if err != nil {
				return res, fmt.Errorf("line %d account: %w", line, err)
			}
			accountID = &acct.ID
		}

		iv := repository.RateInterval{
			ID:         uuid.NewString(),
			AccountID:  accountID,
			StartDate:  start.String(),
			EndDate:    end.String(),
			AnnualRate: rate,
		}
		if err := s.Rates.Insert(ctx, iv); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d insert: %w", line, err))
			continue
		}
		res.Imported++
	}
	s.Log.Info().Str("account", accountName).Int("imported", res.Imported).
		Int("errors", len(res.Errors)).Msg("rates import done")
	return res, nil
}

func (s *IngestService) accountForName(ctx context.Context, name string) (repository.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Account{}, fmt.Errorf("empty account name")
	}
	if s.accountCache == nil {
		s.accountCache = make(map[string]repository.Account)
	}
	if a, ok := s.accountCache[name]; ok {
		return a, nil
	}
	existing, err := s.Accounts.GetByName(ctx, name)
	if err != nil {
		return repository.Account{}, err
	}
	if existing != nil {
		s.accountCache[name] = *existing
		return *existing, nil
	}
	a := repository.Account{ID: uuid.NewString(), Name: name}
	if err := s.Accounts.Upsert(ctx, a); err != nil {
		return repository.Account{}, err
	}
	s.accountCache[name] = a
	return a, nil
}

// dollarsToCents converts a decimal dollar string to integer cents.
func dollarsToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}

func hashSource(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", h[:])
}

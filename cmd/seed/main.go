// Package main provides a CLI tool for seeding the database with initial data:
// sequence counters, a default academic session and baseline config keys.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/domain/academics/session"
	"campuscore/internal/domain/sequence"
	"campuscore/internal/domain/sysconfig"
	"campuscore/internal/infrastructure/storage/postgres"
	"campuscore/internal/infrastructure/storage/postgres/record_repo"
	"campuscore/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedCounters(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed sequence counters", "error", err)
	}
	if err := seedSession(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed academic session", "error", err)
	}
	if err := seedConfig(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed config keys", "error", err)
	}

	log.Info("seeding complete")
}

// counterDefaults mirrors the identifiers the school hands out on paper:
// STU2026000001 admission numbers, INV-prefixed invoices that restart each
// year, receipts that restart daily.
func counterDefaults() []*sequence.Counter {
	year := time.Now().Format("2006")

	specs := []struct {
		kind    sequence.Kind
		prefix  string
		padding int
		reset   sequence.ResetFrequency
	}{
		{sequence.KindStudentID, "STU" + year, 6, sequence.ResetNever},
		{sequence.KindEmployeeID, "EMP", 4, sequence.ResetNever},
		{sequence.KindInvoice, "INV-", 6, sequence.ResetYearly},
		{sequence.KindReceipt, "RCP-", 6, sequence.ResetDaily},
		{sequence.KindLibraryBook, "LIB", 5, sequence.ResetNever},
		{sequence.KindTransportBus, "BUS", 3, sequence.ResetNever},
	}

	counters := make([]*sequence.Counter, len(specs))
	for i, s := range specs {
		c := sequence.NewCounter(s.kind)
		c.Prefix = s.prefix
		c.Padding = s.padding
		c.ResetFrequency = s.reset
		counters[i] = c
	}
	return counters
}

func seedCounters(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := postgres.NewSequenceRepo(txManager)
	allocator := sequence.NewAllocator(repo, txManager)

	for _, counter := range counterDefaults() {
		if err := allocator.Ensure(ctx, counter); err != nil {
			return fmt.Errorf("ensure counter %s: %w", counter.Kind, err)
		}
		log.Infow("counter ready", "kind", counter.Kind, "prefix", counter.Prefix)
	}
	return nil
}

func seedSession(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := record_repo.NewSessionRepo(txManager)
	svc := session.NewService(repo, txManager)

	if _, err := svc.Current(ctx); err == nil {
		log.Info("current academic session already set")
		return nil
	} else if !apperror.IsNotFound(err) {
		return err
	}

	// September through June of the following year.
	now := time.Now()
	startYear := now.Year()
	if now.Month() < time.July {
		startYear--
	}
	start := time.Date(startYear, time.September, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(startYear+1, time.June, 30, 0, 0, 0, 0, time.UTC)

	s := session.New(fmt.Sprintf("%d/%d", startYear, startYear+1), start, end)
	if err := svc.Create(ctx, s); err != nil {
		return err
	}
	if _, err := svc.SetCurrent(ctx, s.ID); err != nil {
		return err
	}

	log.Infow("academic session created", "name", s.Name)
	return nil
}

func seedConfig(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := record_repo.NewConfigRepo(txManager)
	rules, err := sysconfig.NewRuleEngine()
	if err != nil {
		return err
	}
	svc := sysconfig.NewService(repo, txManager, nil, rules)

	defaults := []struct {
		key      string
		value    any
		category sysconfig.Category
		public   bool
		rule     string
	}{
		{"general.school_name", "Springfield High School", sysconfig.CategoryGeneral, true, ""},
		{"academic.semesters_per_year", 2, sysconfig.CategoryAcademic, true, "value >= 2.0 && value <= 3.0"},
		{"finance.late_fee_percent", 5.0, sysconfig.CategoryFinance, false, "value >= 0.0 && value <= 100.0"},
		{"communication.notification_retention_days", 30, sysconfig.CategoryCommunication, false, "value >= 1.0"},
	}

	for _, d := range defaults {
		cfg, err := sysconfig.New(d.key, d.value, d.category)
		if err != nil {
			return err
		}
		cfg.IsPublic = d.public
		cfg.ValidationRule = d.rule

		if err := svc.Define(ctx, cfg, d.value); err != nil {
			if apperror.IsConflict(err) {
				log.Infow("config key already present", "key", d.key)
				continue
			}
			return fmt.Errorf("define %s: %w", d.key, err)
		}
		log.Infow("config key created", "key", d.key)
	}
	return nil
}

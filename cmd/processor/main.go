package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rva-directmail/internal/audit"
	"github.com/rva-directmail/internal/config"
	"github.com/rva-directmail/internal/db"
	"github.com/rva-directmail/internal/debug"
	"github.com/rva-directmail/internal/load"
	"github.com/rva-directmail/internal/niche"
	"github.com/rva-directmail/internal/pipeline"
	"github.com/rva-directmail/internal/region"
	"github.com/rva-directmail/internal/store"
)

var (
	regionsFile string
	debugFlag   bool
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "processor",
		Short: "Direct-mail property processing pipeline",
		Long:  `Monthly processing pipeline: classification, priority scoring, niche merging, and store upserts per region`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug.SetEnabled(debugFlag)
		},
	}

	rootCmd.PersistentFlags().StringVar(&regionsFile, "regions", "regions.toml", "Path to regions configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable diagnostic output")

	rootCmd.AddCommand(createProcessCmd())
	rootCmd.AddCommand(createListRegionsCmd())
	rootCmd.AddCommand(createNicheCmd())
	rootCmd.AddCommand(createSkipTraceCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// createProcessCmd creates the monthly processing command
func createProcessCmd() *cobra.Command {
	var regionKey string
	var allRegions bool
	var dataDir string
	var skipTraceFile string
	var workers int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the monthly processing pipeline",
		Long:  `Process a region's primary file plus its niche datasets and emit inserts/updates to the store`,
		Run: func(cmd *cobra.Command, args []string) {
			manager, err := region.Load(regionsFile)
			if err != nil {
				log.Fatalf("Failed to load regions: %v", err)
			}

			keys := []string{regionKey}
			if allRegions {
				keys = manager.Keys()
			} else if regionKey == "" {
				log.Fatalf("Either --region or --all-regions is required")
			}

			var st *store.Store
			if !dryRun {
				conn, err := db.NewConnection()
				if err != nil {
					log.Fatalf("Failed to connect to database: %v", err)
				}
				defer conn.Close()

				st = store.New(conn.DB)
				if err := st.EnsureSchema(); err != nil {
					log.Fatalf("Failed to ensure schema: %v", err)
				}
			}

			if workers < 1 {
				workers = 1
			}

			// Independent regions share nothing; only the store serializes.
			sem := make(chan struct{}, workers)
			var wg sync.WaitGroup
			for _, key := range keys {
				cfg, err := manager.Get(key)
				if err != nil {
					log.Fatalf("Unknown region %s: %v", key, err)
				}

				wg.Add(1)
				go func(cfg region.Config) {
					defer wg.Done()
					sem <- struct{}{}
					defer func() { <-sem }()

					if err := processRegion(cfg, dataDir, skipTraceFile, st, dryRun); err != nil {
						log.Printf("Region %s failed: %v", cfg.Key, err)
					}
				}(cfg)
			}
			wg.Wait()
		},
	}

	cmd.Flags().StringVar(&regionKey, "region", "", "Region key to process")
	cmd.Flags().BoolVar(&allRegions, "all-regions", false, "Process every configured region")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory holding per-region input files")
	cmd.Flags().StringVar(&skipTraceFile, "skip-trace-file", "", "Optional statewide skip trace CSV")
	cmd.Flags().IntVar(&workers, "workers", 2, "Number of regions to process in parallel")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Process without writing to the store")

	return cmd
}

// processRegion runs the full pipeline for one region.
func processRegion(cfg region.Config, dataDir, skipTraceFile string, st *store.Store, dryRun bool) error {
	started := time.Now()
	regionDir := filepath.Join(dataDir, cfg.Key)

	primaryRows, err := load.ReadCSVFile(filepath.Join(regionDir, "primary.csv"))
	if err != nil {
		return fmt.Errorf("primary file: %w", err)
	}

	input := pipeline.Input{Records: load.PropertyRecords(primaryRows)}

	if rows, err := load.ReadCSVFile(filepath.Join(regionDir, "recent_sales.csv")); err == nil {
		input.RecentSales = load.PropertyRecords(rows)
	}

	input.Niches, err = loadNicheDir(filepath.Join(regionDir, "niche"))
	if err != nil {
		return err
	}

	if skipTraceFile != "" {
		rows, err := load.ReadCSVFile(skipTraceFile)
		if err != nil {
			return fmt.Errorf("skip trace file: %w", err)
		}
		input.SkipTrace = load.SkipTraceRows(rows)
	}

	if st != nil {
		input.Existing, err = st.LoadExisting(cfg.Key)
		if err != nil {
			return fmt.Errorf("load existing: %w", err)
		}
	}

	result := pipeline.NewRunner(cfg, time.Now()).Run(input)

	runID := uuid.New()
	if !dryRun && st != nil {
		if err := st.Apply(runID, cfg.Key, result.Plan); err != nil {
			return fmt.Errorf("apply plan: %w", err)
		}
		run := audit.Run{
			ID:         runID,
			Region:     cfg.Key,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Counts:     result.Counts,
		}
		if err := audit.NewTracker(st.DB()).RecordRun(run); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	printSummary(cfg, runID, result, dryRun)
	return nil
}

// loadNicheDir reads every CSV in a region's niche directory, detecting
// the dataset type from each file name.
func loadNicheDir(dir string) ([]pipeline.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("niche dir: %w", err)
	}

	var datasets []pipeline.Dataset
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}
		rows, err := load.ReadCSVFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		nicheType := niche.DetectType(entry.Name())
		datasets = append(datasets, pipeline.Dataset{
			Type: nicheType,
			Rows: load.NicheRecords(rows, nicheType),
		})
	}
	return datasets, nil
}

func printSummary(cfg region.Config, runID uuid.UUID, result pipeline.Result, dryRun bool) {
	fmt.Printf("\n=== %s ===\n", cfg.Name)
	fmt.Printf("Run ID: %s\n", runID)
	if dryRun {
		fmt.Println("Mode: dry run (no store writes)")
	}
	fmt.Printf("Records processed: %d\n", result.Counts.Processed)
	fmt.Printf("Recent sales added: %d\n", result.Counts.RecentSalesAdded)
	fmt.Printf("Niche updates: %d, inserts: %d\n", result.Counts.NicheUpdates, result.Counts.NicheInserts)
	fmt.Printf("Excluded addresses: %d\n", result.Counts.ExcludedAddresses)
	fmt.Printf("Skip trace matches: %d\n", result.Counts.SkipTraceMatches)
	fmt.Printf("Store inserts: %d, updates: %d, frozen: %d\n",
		result.Counts.Inserts, result.Counts.Updates, result.Counts.Frozen)

	codes := make([]string, 0, len(result.Counts.ByPriority))
	for code := range result.Counts.ByPriority {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	fmt.Println("Priority distribution:")
	for _, code := range codes {
		fmt.Printf("  %-30s %d\n", code, result.Counts.ByPriority[code])
	}
}

// createListRegionsCmd creates the region listing command
func createListRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-regions",
		Short: "List configured regions and their thresholds",
		Run: func(cmd *cobra.Command, args []string) {
			manager, err := region.Load(regionsFile)
			if err != nil {
				log.Fatalf("Failed to load regions: %v", err)
			}

			fmt.Println("Key                  | Name                 | FIPS  | Old Sale   | Recent Buyer | Low     | High")
			fmt.Println("---------------------|----------------------|-------|------------|--------------|---------|--------")
			for _, cfg := range manager.List() {
				fmt.Printf("%-20s | %-20s | %-5s | %s | %s   | %7.0f | %7.0f\n",
					cfg.Key, cfg.Name, cfg.FIPS,
					cfg.OldSaleCutoff.Format("2006-01-02"),
					cfg.RecentBuyerCutoff.Format("2006-01-02"),
					cfg.LowAmount, cfg.HighAmount)
			}
		},
	}
}

// createNicheCmd creates a standalone niche inspection command
func createNicheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "niche [file]",
		Short: "Inspect a niche file: detected type and row counts",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			filename := args[0]
			rows, err := load.ReadCSVFile(filename)
			if err != nil {
				log.Fatalf("Failed to read niche file: %v", err)
			}

			nicheType := niche.DetectType(filename)
			usable := 0
			for _, r := range load.NicheRecords(rows, nicheType) {
				if r.UsableAddress() {
					usable++
				}
			}

			fmt.Printf("File: %s\n", filename)
			fmt.Printf("Detected type: %s\n", nicheType)
			fmt.Printf("Rows: %d (usable addresses: %d, excluded: %d)\n",
				len(rows), usable, len(rows)-usable)
		},
	}
}

// createSkipTraceCmd creates a standalone skip trace inspection command
func createSkipTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skiptrace [file]",
		Short: "Inspect a skip trace file: flag counts per region FIPS",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rows, err := load.ReadCSVFile(args[0])
			if err != nil {
				log.Fatalf("Failed to read skip trace file: %v", err)
			}

			byFIPS := make(map[string]int)
			flagged := 0
			for _, st := range load.SkipTraceRows(rows) {
				byFIPS[st.FIPS]++
				if st.Deceased || st.Bankruptcy != nil || st.Foreclosure != nil ||
					st.Lien != nil || st.Judgment != nil || st.Quitclaim != nil {
					flagged++
				}
			}

			fmt.Printf("Rows: %d, with flags: %d\n", len(rows), flagged)
			fips := make([]string, 0, len(byFIPS))
			for f := range byFIPS {
				fips = append(fips, f)
			}
			sort.Strings(fips)
			for _, f := range fips {
				fmt.Printf("  FIPS %-6s %d\n", f, byFIPS[f])
			}
		},
	}
}

// createPingCmd creates a command to test database connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()

			fmt.Println("Database connection successful!")

			var count int
			err = conn.DB.QueryRow("SELECT COUNT(*) FROM property_record").Scan(&count)
			if err != nil {
				log.Printf("Error counting property records: %v", err)
			} else {
				fmt.Printf("Property records loaded: %d\n", count)
			}
		},
	}
}

package kv

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/nsKV/cmd/util"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for store backends",
		Long:    "Runs set, get, remove and mixed benchmarks on a store using the first usable backend of --backends.",
		Args:    cobra.NoArgs,
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__perf"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)
)

// perfBenchmark describes a single benchmark run by the perf command
type perfBenchmark struct {
	name    string
	prefill bool
	op      func(s *store.Store[string], key string, counter int) error
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "perf-keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(1, viper.GetInt("perf-keys"))
	perfNumThreads = max(1, viper.GetInt("threads"))
	perfSkip = util.SplitList(viper.GetString("skip"))

	return nil
}

func perfBenchmarks() []perfBenchmark {
	largeValue := strings.Repeat("x", perfLargeValueSizeKB*1024)

	return []perfBenchmark{
		{name: "set", op: func(s *store.Store[string], key string, _ int) error {
			_, err := s.Set(key, "test")
			return err
		}},
		{name: "set-large", op: func(s *store.Store[string], key string, _ int) error {
			_, err := s.Set(key, largeValue)
			return err
		}},
		{name: "get", prefill: true, op: func(s *store.Store[string], key string, _ int) error {
			_, _, err := s.Get(key)
			return err
		}},
		{name: "remove", prefill: true, op: func(s *store.Store[string], key string, _ int) error {
			return s.Remove(key)
		}},
		{name: "mixed", prefill: true, op: func(s *store.Store[string], key string, counter int) error {
			var err error
			switch counter % 3 {
			case 0: // set
				_, err = s.Set(key, "test")
			case 1: // get
				_, _, err = s.Get(key)
			case 2: // remove
				err = s.Remove(key)
			}
			return err
		}},
	}
}

func runPerf(cmd *cobra.Command, _ []string) error {
	benchmarks := perfBenchmarks()

	// declare the keys of every benchmark
	var keys []string
	for _, bm := range benchmarks {
		keys = append(keys, perfKeys(bm.name)...)
	}

	return withStore(keys, func(_ *backend.Names, s *store.Store[string]) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Performance testing tool for store backends")

		// Print configuration
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Backend: %s\n", s.BackendName())
		fmt.Fprintf(out, "Threads: %d\n", perfNumThreads)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "starting tests...")

		// Create results map
		results := make(map[string]testing.BenchmarkResult)

		for _, bm := range benchmarks {
			result := runPerfBenchmark(s, bm)
			results[bm.name] = result
			printResult(cmd, bm.name, result)
		}

		// Write results to csv is specified
		if csvPath := viper.GetString("csv"); csvPath != "" {
			fmt.Fprintf(out, "\nExporting results to CSV: %s\n", csvPath)
			if err := writeResultsToCSV(csvPath, results, s.BackendName()); err != nil {
				return fmt.Errorf("failed to export results to CSV: %v", err)
			}
			fmt.Fprintln(out, "Export complete")
		}

		return nil
	})
}

// runPerfBenchmark runs a single benchmark in parallel on the store
func runPerfBenchmark(s *store.Store[string], bm perfBenchmark) testing.BenchmarkResult {
	if shouldSkip(bm.name) {
		return testing.BenchmarkResult{}
	}

	keys := perfKeys(bm.name)

	return testing.Benchmark(func(b *testing.B) {
		// set keys
		if bm.prefill {
			for _, k := range keys {
				if _, err := s.Set(k, "test"); err != nil {
					log.Printf("(%s) - error setting key: %v\n", bm.name, err)
				}
			}
		}

		// cleanup
		b.Cleanup(func() {
			for _, k := range keys {
				if err := s.Remove(k); err != nil {
					log.Printf("(%s) - error removing key: %v\n", bm.name, err)
				}
			}
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				if err := bm.op(s, keys[counter%len(keys)], counter); err != nil {
					log.Printf("(%s) - error: %v\n", bm.name, err)
				}
				counter++
			}
		})
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// perfKeys creates the test keys of a benchmark
func perfKeys(prefix string) []string {
	keys := make([]string, perfKeySpread)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}
	return keys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(cmd *cobra.Command, test string, result testing.BenchmarkResult) {
	out := cmd.OutOrStdout()
	if result.NsPerOp() == 0 {
		fmt.Fprintf(out, "%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Fprintf(out, "%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, backendName string) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Backend", "Compressed", "Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		skipped := "true"

		if result.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			backendName,
			strconv.FormatBool(viper.GetBool("compress")),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}

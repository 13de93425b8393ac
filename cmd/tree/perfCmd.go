package tree

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/rpc/common"
	gmetrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for dTree servers",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfPathPrefix       = "/__perf"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfPathSpread       = 100
	perfSkip             = make([]string, 0)

	// percentiles reported for every benchmark
	perfPercentiles = []float64{0.5, 0.9, 0.99}
)

// perfResult combines the result of testing.Benchmark with the latency distribution of the single requests
type perfResult struct {
	bench   testing.BenchmarkResult
	latency gmetrics.Timer
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. write,read)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the write-large test should be (in KB)"))
	key = "paths"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different paths to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfPathSpread = max(viper.GetInt("paths"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	scheme := util.GetScheme()

	fmt.Println("Performance testing tool for dTree servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Adapter: %d\n", util.GetAdapterID())
	fmt.Printf("Scheme: %s\n", scheme)
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	largeValue := strings.Repeat("x", perfLargeValueSizeKB*1024)

	benchmarks := []struct {
		name    string
		prefill bool
		op      func(path string, i int) error
	}{
		{
			name: "write",
			op: func(path string, _ int) error {
				_, err := rpcTree.Write(scheme, path, "test")
				return err
			},
		},
		{
			name: "write-large",
			op: func(path string, _ int) error {
				_, err := rpcTree.Write(scheme, path, largeValue)
				return err
			},
		},
		{
			name:    "read",
			prefill: true,
			op: func(path string, _ int) error {
				_, err := rpcTree.Read(scheme, path)
				return err
			},
		},
		{
			name: "read-unset",
			op: func(path string, _ int) error {
				_, err := rpcTree.Read(scheme, path)
				return err
			},
		},
		{
			name:    "delete",
			prefill: true,
			op: func(path string, _ int) error {
				_, err := rpcTree.Delete(scheme, path)
				return err
			},
		},
		{
			name:    "mixed",
			prefill: true,
			op: func(path string, i int) error {
				var err error
				switch i % 3 {
				case 0:
					_, err = rpcTree.Write(scheme, path, i)
				case 1:
					_, err = rpcTree.Read(scheme, path)
				case 2:
					_, err = rpcTree.Delete(scheme, path)
				}
				return err
			},
		},
	}

	// Create results map
	results := make(map[string]perfResult)

	for _, bm := range benchmarks {
		if shouldSkip(bm.name) {
			results[bm.name] = perfResult{latency: gmetrics.NilTimer{}}
			printResult(bm.name, results[bm.name])
			continue
		}

		timer := gmetrics.NewTimer()
		getPath, iter := getPaths(bm.name)

		bench := testing.Benchmark(func(b *testing.B) {
			if bm.prefill {
				iter(func(p string) {
					if _, err := rpcTree.Write(scheme, p, "test"); err != nil {
						log.Printf("(%s) - error writing path: %v\n", bm.name, err)
					}
				})
			}

			// cleanup (removes the whole subtree of the benchmark)
			b.Cleanup(func() {
				if _, err := rpcTree.Delete(scheme, perfPathPrefix+"/"+bm.name); err != nil {
					log.Printf("(%s) - error deleting subtree: %v\n", bm.name, err)
				}
			})

			b.SetParallelism(perfNumThreads)

			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					var err error
					timer.Time(func() {
						err = bm.op(getPath(counter), counter)
					})
					if err != nil {
						log.Printf("(%s) - error performing operation: %v\n", bm.name, err)
					}
					counter++
				}
			})
		})

		results[bm.name] = perfResult{bench: bench, latency: timer}
		printResult(bm.name, results[bm.name])
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %w", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// getPaths creates the test paths of a benchmark and functions to work with them
func getPaths(name string) (func(int) string, func(func(string))) {
	paths := make([]string, perfPathSpread)
	for i := 0; i < perfPathSpread; i++ {
		paths[i] = fmt.Sprintf("%s/%s/%d", perfPathPrefix, name, i)
	}

	// Function to get a path by index (with wraparound)
	getPath := func(i int) string {
		return paths[i%perfPathSpread]
	}

	// Function to iterate over all paths and apply a function to each
	iteratePaths := func(fn func(string)) {
		for _, p := range paths {
			fn(p)
		}
	}

	return getPath, iteratePaths
}

// opsPerSec converts the result of a benchmark to operations per second (0 = skipped)
func opsPerSec(result testing.BenchmarkResult) (float64, float64) {
	if result.NsPerOp() == 0 {
		return 0, 0
	}
	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	return nsPerOp, 1.0 / (nsPerOp / 1e9)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result perfResult) {
	nsPerOp, ops := opsPerSec(result.bench)
	if nsPerOp == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	ps := result.latency.Percentiles(perfPercentiles)
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50=%s p90=%s p99=%s\n",
		test, nsPerOp, time.Duration(nsPerOp), ops,
		time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]perfResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"P50Ns", "P90Ns", "P99Ns", "MaxNs",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"AdapterID", "Scheme", "Serializer", "Transport",
		"Threads", "LargeValueSizeKB", "Paths Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write test results
	for test, result := range results {
		nsPerOp, ops := opsPerSec(result.bench)
		skipped := strconv.FormatBool(nsPerOp == 0)
		ps := result.latency.Percentiles(perfPercentiles)

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", ops),
			skipped,
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			strconv.FormatInt(result.latency.Max(), 10),
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			strconv.FormatUint(util.GetAdapterID(), 10),
			util.GetScheme(),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfPathSpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", test, err)
		}
	}

	return writer.Error()
}

// Package main provides a performance benchmarking tool for the siri CLI.
// It measures scan times across different repository sizes and scan scopes,
// running each scan multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - siri binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark scan (plain average, cold run and average of warm runs with a store).
type BenchmarkResult struct {
	Repository string
	Scope      string
	PlainTime  string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase  string
	Timeout   time.Duration
	PlainRuns int
	StoreRuns int
	TestRepos []string
	RepoPaths map[string]string
}

// scanScope is one set of arguments benchmarked against every repository.
type scanScope struct {
	name string
	args []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	config := BenchmarkConfig{
		RepoBase:  repoBase,
		Timeout:   10 * time.Minute,
		PlainRuns: 3,
		StoreRuns: 4,
		TestRepos: []string{"csv-parser", "fd", "git", "kubernetes"},
		RepoPaths: map[string]string{
			"csv-parser": "python",
			"fd":         "src",
			"git":        "builtin",
			"kubernetes": "cmd",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	storeDir, err := os.MkdirTemp("", "siri-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create store directory: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(storeDir) }()

	results := runBenchmarks(config, storeDir)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that siri binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("siri"); err != nil {
		return fmt.Errorf("siri binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// runBenchmarks executes all benchmark scans across configured repositories
func runBenchmarks(config BenchmarkConfig, storeDir string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, plain: %d runs, store: %d runs\n",
		len(config.TestRepos), config.Timeout, config.PlainRuns, config.StoreRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)

		repoPath := filepath.Join(config.RepoBase, repo)
		scopes := []scanScope{
			{name: "all", args: nil},
			{name: "code", args: []string{"--code"}},
		}
		if path, ok := config.RepoPaths[repo]; ok {
			scopes = append(scopes, scanScope{name: "path", args: []string{"--detail", path}})
		}

		for _, scope := range scopes {
			dbPath := filepath.Join(storeDir, fmt.Sprintf("%s-%s.db", repo, scope.name))
			results = append(results, runBenchmarkSuite(config, repo, repoPath, dbPath, scope))
		}
	}

	return results
}

// runBenchmarkSuite runs a scan without a store and then with a SQLite store
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, dbPath string, scope scanScope) BenchmarkResult {
	fmt.Printf("Running %s scan on %s\n", scope.name, repo)

	// Helper to run a benchmark phase
	runPhase := func(storeArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		args := append(append([]string{"--output", "json"}, storeArgs...), scope.args...)
		cold, times := runBenchmark(config, repoPath, args, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No store
	_, plainAvg := runPhase([]string{"--store-backend", "none"}, config.PlainRuns, "Plain")

	// Phase 2: SQLite store, the first run also applies migrations
	coldTime, warmAvg := runPhase(
		[]string{"--store-backend", "sqlite", "--store-db-connect", dbPath},
		config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Plain average: %s, Cold time: %s, Warm average: %s\n", plainAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository: repo,
		Scope:      scope.name,
		PlainTime:  plainAvg,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes a siri scan multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, repoPath string, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("siri", args...)
		cmd.Dir = repoPath

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if the JSON report on stdout is complete
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, `"siri_percent"`) &&
		strings.Contains(outputStr, `"label"`)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("siri_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "scope", "plain_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Scope, result.PlainTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printScopeSummary(results, "all", "Whole Tree:")
	printScopeSummary(results, "code", "Code Only:")
	printScopeSummary(results, "path", "Single Path (detail):")
}

// printScopeSummary displays results for a specific scan scope
func printScopeSummary(results []BenchmarkResult, scope, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Scope == scope {
			fmt.Printf("  %-12s: Plain: %s, Cold: %s, Warm: %s\n", result.Repository, result.PlainTime, result.ColdTime, result.WarmTime)
		}
	}
}

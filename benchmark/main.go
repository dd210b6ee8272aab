// Package main provides a performance benchmarking tool for the featuremap CLI.
// It measures execution times across generated documents of different sizes and
// command types, running each test multiple times, treating the first successful
// run as cold and averaging the rest as warm, generating CSV output for
// performance analysis and documentation.
//
// Prerequisites:
// - featuremap binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where generated documents are written
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Document    string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	NoCacheRuns   int
	CacheRuns     int
	DocumentSizes map[string]int
}

// benchmarkCommands are the subcommands timed against each document.
var benchmarkCommands = []string{"features", "deps", "owners", "check"}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		DocumentSizes: map[string]int{
			"small":  100,
			"medium": 2000,
			"large":  20000,
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using featuremap cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("featuremap", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the featuremap binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if featuremap is available
	if _, err := exec.LookPath("featuremap"); err != nil {
		return fmt.Errorf("featuremap binary not found in PATH")
	}

	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}

	return nil
}

// runBenchmarks executes all benchmark tests across generated documents
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d documents, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.DocumentSizes), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for name, size := range config.DocumentSizes {
		fmt.Printf("Benchmarking %s document (%d features)\n", name, size)

		docPath := filepath.Join(config.WorkDir, name, "features.json")
		if err := os.MkdirAll(filepath.Dir(docPath), 0o755); err != nil {
			fmt.Printf("Warning: failed to create dir for %s: %v\n", docPath, err)
			continue
		}
		if err := generateDocument(docPath, size); err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", docPath, err)
			continue
		}

		for _, command := range benchmarkCommands {
			result := runBenchmarkSuite(config, name, docPath, command)
			results = append(results, result)
		}
	}

	return results
}

// generateDocument writes a synthetic feature forest of roughly the given size.
// Every root holds nine children, and each child carries stats plus a sibling
// dependency onto the next root so the dependency commands have work to do.
func generateDocument(path string, size int) error {
	type dependency struct {
		SourceFilename string `json:"sourceFilename"`
		TargetFilename string `json:"targetFilename"`
		Line           int    `json:"line"`
		Content        string `json:"content"`
		FeaturePath    string `json:"featurePath"`
		Type           string `json:"type"`
	}
	type stats struct {
		LinesCount int            `json:"lines_count"`
		FilesCount int            `json:"files_count"`
		Commits    map[string]any `json:"commits"`
	}
	type feature struct {
		Name         string       `json:"name"`
		Owner        string       `json:"owner"`
		Path         string       `json:"path"`
		Features     []feature    `json:"features"`
		Stats        *stats       `json:"stats,omitempty"`
		Dependencies []dependency `json:"dependencies,omitempty"`
	}

	roots := size / 10
	if roots < 1 {
		roots = 1
	}

	forest := make([]feature, 0, roots)
	for i := range roots {
		rootPath := fmt.Sprintf("src/module%04d", i)
		root := feature{
			Name:     fmt.Sprintf("Module %d", i),
			Owner:    fmt.Sprintf("team-%d", i%7),
			Path:     rootPath,
			Features: make([]feature, 0, 9),
		}
		targetPath := fmt.Sprintf("src/module%04d", (i+1)%roots)
		for j := range 9 {
			childPath := fmt.Sprintf("%s/part%d", rootPath, j)
			root.Features = append(root.Features, feature{
				Name:     fmt.Sprintf("Module %d Part %d", i, j),
				Path:     childPath,
				Features: []feature{},
				Stats:    &stats{LinesCount: 100 * (j + 1), FilesCount: j + 1, Commits: map[string]any{}},
				Dependencies: []dependency{{
					SourceFilename: childPath + "/impl.go",
					TargetFilename: targetPath + "/api.go",
					Line:           1,
					Content:        "import",
					FeaturePath:    targetPath,
					Type:           "sibling",
				}},
			})
		}
		forest = append(forest, root)
	}

	raw, err := json.Marshal(forest)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, document, docPath, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, document)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, docPath, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Document:    document,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a featuremap command multiple times with the specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, docPath, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	// The deps command takes a feature path as its positional argument, so it
	// reads features.json from the working directory instead.
	args := []string{command, docPath, "--cache-backend", cacheBackend, "--limit", "1000"}
	workDir := ""
	if command == "deps" {
		args = []string{command, "--cache-backend", cacheBackend, "--limit", "1000"}
		workDir = filepath.Dir(docPath)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("featuremap", args...)
		cmd.Dir = workDir

		done := make(chan bool)
		var cmdErr error

		go func() {
			_, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/featuremap_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"document", "command", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Document, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return err
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary prints a compact table of all results
func printSummary(results []BenchmarkResult) {
	fmt.Printf("\n%-10s %-10s %-14s %-12s %-12s\n", "DOCUMENT", "COMMAND", "NO-CACHE AVG", "COLD", "WARM AVG")
	for _, r := range results {
		fmt.Printf("%-10s %-10s %-14s %-12s %-12s\n", r.Document, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime)
	}
}

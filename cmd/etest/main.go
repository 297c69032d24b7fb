// etest runs an enum extractor over a set of C headers and compares what it
// prints against a reference extractor or against stored golden files.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"
)

type Execution struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exitCode"`
	Duration time.Duration `json:"duration"`
	TimedOut bool          `json:"timed_out"`
}

// Run is one invocation of an extractor with a named set of extra arguments.
type Run struct {
	Name   string    `json:"name"`
	Args   []string  `json:"args,omitempty"`
	Result Execution `json:"result"`
}

type ExtractorResult struct {
	Runs []Run `json:"runs"`
}

type FileTestResult struct {
	File      string           `json:"file"`
	Status    string           `json:"status"` // PASS, FAIL, SKIP, ERROR
	Message   string           `json:"message,omitempty"`
	Diff      string           `json:"diff,omitempty"`
	Reference *ExtractorResult `json:"reference,omitempty"`
	Target    *ExtractorResult `json:"target,omitempty"`
}

type TestSuiteResults map[string]*FileTestResult

var (
	refExtractor    = flag.String("ref-extractor", "", "Reference extractor command, e.g. 'python3 tools/defs_gen/enumextract.py'.")
	targetExtractor = flag.String("target-extractor", "./enumextract", "Extractor command to test.")
	generateGolden  = flag.String("generate-golden", "", "Generate golden .json files for the given headers (space-separated).")
	testFiles       = flag.String("test-files", "testdata/*.h", "Glob pattern(s) for headers to test (space-separated).")
	skipFiles       = flag.String("skip-files", "", "Files to skip (space-separated).")
	outputJSON      = flag.String("output", ".test_results.json", "Output file for the JSON test report.")
	timeout         = flag.Duration("timeout", 5*time.Second, "Timeout for each extractor execution.")
	jobs            = flag.Int("j", 4, "Number of parallel test jobs.")
	verbose         = flag.Bool("v", false, "Enable verbose logging.")
	jsonDir         = flag.String("dir", "", "Directory to store/read golden JSON files (defaults to the header's dir).")
	ignoreLines     = flag.String("ignore-lines", "", "Comma-separated substrings to ignore during output comparison.")
	compareStderr   = flag.Bool("stderr", false, "Also compare diagnostics, not only records and exit codes.")
)

const (
	cRed    = "\x1b[91m"
	cYellow = "\x1b[93m"
	cGreen  = "\x1b[92m"
	cCyan   = "\x1b[96m"
	cBold   = "\x1b[1m"
	cNone   = "\x1b[0m"
)

// Every header is extracted once per case. The arguments come before the
// header; missing_input names a file that does not exist, so the extractor
// must report it, still process the header and exit with status 1.
var testCases = map[string][]string{
	"default":         {},
	"missing_input":   {"nonexistent.h"},
	"omit_deprecated": {"--omit-deprecated"},
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *generateGolden != "" {
		for _, header := range strings.Fields(*generateGolden) {
			if err := writeGolden(ctx, header); err != nil {
				log.Fatalf("%s[ERROR]%s %v\n", cRed, cNone, err)
			}
		}
		return
	}

	results, err := runSuite(ctx)
	if err != nil {
		log.Fatalf("%s[ERROR]%s %v\n", cRed, cNone, err)
	}
	if ctx.Err() != nil {
		fmt.Printf("\n%s[INTERRUPT]%s Test run cancelled.\n", cYellow, cNone)
		os.Exit(1)
	}
	printSummary(results)
	if hasFailures(writeJSONReport(results)) {
		os.Exit(1)
	}
}

func goldenPath(header string) string {
	name := "." + filepath.Base(header) + ".json"
	if *jsonDir != "" {
		return filepath.Join(*jsonDir, name)
	}
	return filepath.Join(filepath.Dir(header), name)
}

// hashFile returns the xxhash of a file's content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum64()), nil
}

func writeGolden(ctx context.Context, header string) error {
	log.Printf("Generating golden file for %s...\n", header)
	result := extractAll(ctx, *targetExtractor, header)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal golden data: %w", err)
	}
	if *jsonDir != "" {
		if err := os.MkdirAll(*jsonDir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", *jsonDir, err)
		}
	}
	path := goldenPath(header)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file %s: %w", path, err)
	}
	log.Printf("%s[SUCCESS]%s Golden file created at %s\n", cGreen, cNone, path)
	return nil
}

func runSuite(ctx context.Context) ([]*FileTestResult, error) {
	files, err := expandGlobPatterns(*testFiles)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern(s): %w", err)
	}
	if len(files) == 0 {
		log.Println("No test files found matching the pattern(s).")
		return nil, nil
	}

	skipList := make(map[string]bool)
	for _, f := range strings.Fields(*skipFiles) {
		if abs, err := filepath.Abs(f); err == nil {
			skipList[abs] = true
		}
	}

	tasks := make(chan string, len(files))
	resultsChan := make(chan *FileTestResult, len(files))
	var wg sync.WaitGroup
	for i := 0; i < max(*jobs, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range tasks {
				resultsChan <- testFile(ctx, file)
			}
		}()
	}

	// Headers with identical content are only tested once.
	seenHashes := make(map[string]string)
	for _, file := range files {
		if skipList[file] {
			resultsChan <- &FileTestResult{File: file, Status: "SKIP", Message: "Explicitly skipped"}
			continue
		}
		hash, err := hashFile(file)
		if err != nil {
			resultsChan <- &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Failed to read file for hashing: %v", err)}
			continue
		}
		if original, seen := seenHashes[hash]; seen {
			resultsChan <- &FileTestResult{File: file, Status: "SKIP", Message: fmt.Sprintf("Content is identical to %s", original)}
			continue
		}
		seenHashes[hash] = file
		tasks <- file
	}
	close(tasks)
	wg.Wait()
	close(resultsChan)

	var results []*FileTestResult
	for r := range resultsChan {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	return results, nil
}

func testFile(ctx context.Context, file string) *FileTestResult {
	if *refExtractor != "" {
		var ref, target *ExtractorResult
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); ref = extractAll(ctx, *refExtractor, file) }()
		go func() { defer wg.Done(); target = extractAll(ctx, *targetExtractor, file) }()
		wg.Wait()
		return compareResults(file, ref, target)
	}

	data, err := os.ReadFile(goldenPath(file))
	if errors.Is(err, os.ErrNotExist) {
		return &FileTestResult{File: file, Status: "SKIP", Message: "No reference extractor and no golden file"}
	}
	if err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not read golden file: %v", err)}
	}
	var golden ExtractorResult
	if err := json.Unmarshal(data, &golden); err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not parse golden file: %v", err)}
	}
	result := compareResults(file, &golden, extractAll(ctx, *targetExtractor, file))
	result.Message += " (against golden file)"
	return result
}

func compareResults(file string, ref, target *ExtractorResult) *FileTestResult {
	var diffs strings.Builder
	failed := false

	targetRuns := make(map[string]Run, len(target.Runs))
	for _, run := range target.Runs {
		targetRuns[run.Name] = run
	}
	ignored := ignoredSubstrings()

	for _, refRun := range ref.Runs {
		targetRun, ok := targetRuns[refRun.Name]
		if !ok {
			failed = true
			fmt.Fprintf(&diffs, "Run '%s' missing in target results.\n", refRun.Name)
			continue
		}
		if refRun.Result.TimedOut || targetRun.Result.TimedOut {
			failed = true
			fmt.Fprintf(&diffs, "Run '%s' timed out:\n  - Ref:    %v\n  - Target: %v\n", refRun.Name, refRun.Result.TimedOut, targetRun.Result.TimedOut)
			continue
		}
		if refRun.Result.ExitCode != targetRun.Result.ExitCode {
			failed = true
			fmt.Fprintf(&diffs, "Run '%s' exit code mismatch:\n  - Ref:    %d\n  - Target: %d\n", refRun.Name, refRun.Result.ExitCode, targetRun.Result.ExitCode)
		}
		if d := cmp.Diff(filterOutput(refRun.Result.Stdout, ignored), filterOutput(targetRun.Result.Stdout, ignored)); d != "" {
			failed = true
			fmt.Fprintf(&diffs, "Run '%s' STDOUT mismatch:\n%s", refRun.Name, d)
		}
		if *compareStderr {
			if d := cmp.Diff(filterOutput(refRun.Result.Stderr, ignored), filterOutput(targetRun.Result.Stderr, ignored)); d != "" {
				failed = true
				fmt.Fprintf(&diffs, "Run '%s' STDERR mismatch:\n%s", refRun.Name, d)
			}
		}
	}

	if failed {
		return &FileTestResult{File: file, Status: "FAIL", Message: "Extracted output or exit code mismatch", Diff: diffs.String(), Reference: ref, Target: target}
	}
	return &FileTestResult{File: file, Status: "PASS", Message: "All runs matched", Reference: ref, Target: target}
}

// execute runs a command line with a timeout and captures its output.
func execute(ctx context.Context, command []string) Execution {
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	res := Execution{Stdout: stdout.String(), Stderr: stderr.String(), Duration: time.Since(start)}
	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.ExitCode = -1
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		res.ExitCode = -2
		res.Stderr += "\nExecution error: " + err.Error()
	}
	return res
}

func extractAll(ctx context.Context, extractor, header string) *ExtractorResult {
	names := make([]string, 0, len(testCases))
	for name := range testCases {
		names = append(names, name)
	}
	sort.Strings(names)

	base := strings.Fields(extractor)
	result := &ExtractorResult{Runs: make([]Run, 0, len(names))}
	for _, name := range names {
		args := testCases[name]
		command := append(append(append([]string{}, base...), args...), header)
		res := execute(ctx, command)
		if *verbose {
			log.Printf("[%s] %s: exit %d in %s", header, name, res.ExitCode, res.Duration)
		}
		result.Runs = append(result.Runs, Run{Name: name, Args: args, Result: res})
	}
	return result
}

func ignoredSubstrings() []string {
	if *ignoreLines == "" {
		return nil
	}
	return strings.Split(*ignoreLines, ",")
}

// filterOutput removes lines containing any of the given substrings.
func filterOutput(output string, ignored []string) string {
	if len(ignored) == 0 || output == "" {
		return output
	}
	lines := strings.Split(output, "\n")
	kept := lines[:0]
	for _, line := range lines {
		drop := false
		for _, sub := range ignored {
			if sub != "" && strings.Contains(line, sub) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func printSummary(results []*FileTestResult) {
	var passed, failed, skipped, errored int
	for _, result := range results {
		fmt.Println("----------------------------------------------------------------------")
		fmt.Printf("Testing %s%s%s...\n", cCyan, result.File, cNone)
		switch result.Status {
		case "PASS":
			passed++
			fmt.Printf("  [%sPASS%s] %s\n", cGreen, cNone, result.Message)
		case "FAIL":
			failed++
			fmt.Printf("  [%sFAIL%s] %s\n", cRed, cNone, result.Message)
			fmt.Println(formatDiff(result.Diff))
		case "SKIP":
			skipped++
			fmt.Printf("  [%sSKIP%s] %s\n", cYellow, cNone, result.Message)
		case "ERROR":
			errored++
			fmt.Printf("  [%sERROR%s] %s\n", cRed, cNone, result.Message)
		}
	}
	fmt.Println("----------------------------------------------------------------------")
	fmt.Printf("%sTest Summary:%s %s%d Passed%s, %s%d Failed%s, %s%d Skipped%s, %s%d Errored%s, %d Total\n",
		cBold, cNone, cGreen, passed, cNone, cRed, failed, cNone, cYellow, skipped, cNone, cRed, errored, cNone, len(results))
}

func formatDiff(diff string) string {
	if diff == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("    --- Diff ---\n")
	for _, line := range strings.Split(diff, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "-"):
			b.WriteString(cRed)
		case strings.HasPrefix(trimmed, "+"):
			b.WriteString(cGreen)
		}
		b.WriteString("    " + line + cNone + "\n")
	}
	return b.String()
}

func writeJSONReport(results []*FileTestResult) TestSuiteResults {
	resultsMap := make(TestSuiteResults, len(results))
	for _, r := range results {
		resultsMap[r.File] = r
	}

	data, err := json.MarshalIndent(resultsMap, "", "  ")
	if err != nil {
		log.Printf("%s[ERROR]%s Failed to marshal results to JSON: %v\n", cRed, cNone, err)
		return resultsMap
	}
	outputFile := *outputJSON
	if *jsonDir != "" {
		if err := os.MkdirAll(*jsonDir, 0755); err != nil {
			log.Printf("%s[ERROR]%s Failed to create dir %s: %v\n", cRed, cNone, *jsonDir, err)
		}
		outputFile = filepath.Join(*jsonDir, *outputJSON)
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		log.Printf("%s[ERROR]%s Failed to write JSON report to %s: %v\n", cRed, cNone, outputFile, err)
	} else {
		fmt.Printf("Full test report saved to %s\n", outputFile)
	}
	return resultsMap
}

func hasFailures(results TestSuiteResults) bool {
	for _, result := range results {
		if result.Status == "FAIL" || result.Status == "ERROR" {
			return true
		}
	}
	return false
}

func expandGlobPatterns(patterns string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range strings.Fields(patterns) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			abs, err := filepath.Abs(match)
			if err != nil || seen[abs] {
				continue
			}
			if info, err := os.Stat(abs); err == nil && info.Mode().IsRegular() {
				files = append(files, abs)
				seen[abs] = true
			}
		}
	}
	return files, nil
}

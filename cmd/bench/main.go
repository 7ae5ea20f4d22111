package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/i5heu/GoBoundedQueue/internal/report"
	"github.com/i5heu/GoBoundedQueue/internal/resultstore"
	"github.com/i5heu/GoBoundedQueue/internal/testbench"
	"github.com/i5heu/GoBoundedQueue/pkg/config"
)

// outputMarkdownTable loads the JSON file and outputs a Markdown table of the
// last session.
func outputMarkdownTable(jsonFile string) error {
	sessions, err := report.Load(jsonFile)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return fmt.Errorf("no sessions found in %s", jsonFile)
	}
	lastSession := sessions[len(sessions)-1]

	implMetaMap := make(map[string]Implementation)
	for _, impl := range getImplementations() {
		implMetaMap[impl.name] = impl
	}

	type tableRow struct {
		implementation string
		pkgName        string
		features       string
		throughput     float64
		rejection      float64
	}
	var rows []tableRow
	for _, bench := range lastSession.Benchmarks {
		meta := implMetaMap[bench.Implementation]
		rows = append(rows, tableRow{
			implementation: bench.Implementation,
			pkgName:        meta.pkgName,
			features:       strings.Join(meta.features, ", "),
			throughput:     bench.Throughput,
			rejection:      bench.RejectionRate() * 100,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].throughput > rows[j].throughput
	})

	fmt.Println("## Last Session Benchmark Summary")
	fmt.Println()
	fmt.Println("| Implementation           | Package         | Features                              | Throughput (msgs/sec) | Full rejections |")
	fmt.Println("|--------------------------|-----------------|---------------------------------------|-----------------------|-----------------|")
	for _, r := range rows {
		fmt.Printf("| %-24s | %-15s | %-37s | %21.0f | %14.2f%% |\n",
			r.implementation, r.pkgName, r.features, r.throughput, r.rejection)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses flags and executes the benchmark. Deferred cleanup runs before
// main reports the error.
func run() error {
	testIterations := flag.Int("iter", 5, "Number of test iterations per concurrency setting")
	cpuMaxFlag := flag.Int("cpu", 0, "If non-zero, test only that GOMAXPROCS value; if 0, test common CPU/vCPU values up to runtime.NumCPU()")
	capacity := flag.Int("capacity", 1024, "Queue capacity used for every implementation")
	testDuration := flag.Duration("duration", 5*time.Second, "Duration of each timed run")
	jsonExport := flag.Bool("json", false, "Append results as JSON to -jsonfile")
	jsonFile := flag.String("jsonfile", "test-results.json", "Path to the JSON results file")
	dbPath := flag.String("db", "", "If set, also archive sessions in this sqlite database")
	highConcurrency := flag.Bool("high-concurrency", false, "Include high concurrency configurations")
	markdownTable := flag.Bool("markdown-table", false, "Output markdown table from -jsonfile and exit")
	progressFlag := flag.Bool("progress", false, "Display a progress bar with ETA")
	flag.Parse()

	if *markdownTable {
		return outputMarkdownTable(*jsonFile)
	}

	if *capacity < 1 {
		return fmt.Errorf("-capacity must be at least 1, got %d", *capacity)
	}

	var store *resultstore.Store
	if *dbPath != "" {
		var err error
		store, err = resultstore.Open(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	trueCPUCount := runtime.NumCPU()
	cpuSettings := cpuSettingsFor(*cpuMaxFlag, trueCPUCount)

	concurrencyConfigs := config.Defaults()
	if *highConcurrency {
		concurrencyConfigs = append(concurrencyConfigs, config.HighConcurrency()...)
	}

	impls := getImplementations()
	totalTests := len(cpuSettings) * len(concurrencyConfigs) * (*testIterations) * len(impls)

	var bar *progressbar.ProgressBar
	if *progressFlag {
		bar = progressbar.NewOptions(totalTests,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("benchmarking"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
		)
	}

	ctx := context.Background()
	var allSessions []report.FullReport

	for _, cpus := range cpuSettings {
		runtime.GOMAXPROCS(cpus)
		sysInfo := gatherSystemInfo()
		sysInfo.NumCPU = cpus
		sysInfo.TrueCPU = trueCPUCount
		sysInfo.SimulatedCPUCount = cpus

		fmt.Printf("\n=============================\n")
		fmt.Printf("GOMAXPROCS = %d\n", cpus)
		fmt.Printf("=============================\n")

		var results []report.BenchmarkResult

		for _, cfg := range concurrencyConfigs {
			fmt.Printf("  [Concurrency: producers=%d, consumers=%d]\n", cfg.NumProducers, cfg.NumConsumers)
			for iteration := 1; iteration <= *testIterations; iteration++ {
				fmt.Printf("    iteration %d/%d\n", iteration, *testIterations)
				for _, impl := range impls {
					runtime.GC()
					q := impl.newQueue(*capacity)
					time.Sleep(250 * time.Millisecond)

					res := testbench.RunTimedTest(ctx, q, cfg, *testDuration, func(i int) *int {
						v := i
						return &v
					})
					throughput := float64(res.Consumed) / res.Elapsed.Seconds()

					fmt.Printf("    %s => produced=%d, consumed=%d, rejected=%d, throughput=%.0f msg/s, took=%v\n",
						impl.name, res.Produced, res.Consumed, res.Rejected, throughput, res.Elapsed)
					if bar != nil {
						bar.Add(1)
					}

					results = append(results, report.BenchmarkResult{
						Implementation:      impl.name,
						NumProducers:        cfg.NumProducers,
						NumConsumers:        cfg.NumConsumers,
						Capacity:            q.Cap(),
						NumMessages:         res.Produced,
						NumMessagesConsumed: res.Consumed,
						NumRejected:         res.Rejected,
						TestDuration:        testDuration.String(),
						ActualElapsed:       res.Elapsed.String(),
						Throughput:          throughput,
						Timestamp:           time.Now().Unix(),
						GoVersion:           runtime.Version(),
					})
				}
			}
		}

		allSessions = append(allSessions, report.FullReport{
			SessionTime: time.Now().Format(time.RFC3339),
			SystemInfo:  sysInfo,
			Benchmarks:  results,
		})
	}

	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if *jsonExport {
		if err := report.Append(*jsonFile, allSessions); err != nil {
			return err
		}
		fmt.Printf("\nWrote results to %s\n", *jsonFile)
	}

	if store != nil {
		for _, s := range allSessions {
			if err := store.SaveSession(ctx, s); err != nil {
				return fmt.Errorf("archive session: %w", err)
			}
		}
		fmt.Printf("Archived %d session(s) to %s\n", len(allSessions), *dbPath)
	}
	return nil
}

// cpuSettingsFor returns the GOMAXPROCS values to test. A positive requested
// value is clamped to the machine; otherwise the common CPU counts up to the
// machine size are used.
func cpuSettingsFor(requested, trueCPUCount int) []int {
	if requested > 0 {
		return []int{min(requested, trueCPUCount)}
	}
	commonCPUs := []int{1, 2, 3, 4, 6, 8, 12, 16, 32, 48, 56, 64, 96, 128, 192, 256, 384, 512}
	var out []int
	for _, v := range commonCPUs {
		if v <= trueCPUCount {
			out = append(out, v)
		}
	}
	return out
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() report.SystemInfo {
	var cpuModel string
	var cpuSpeed float64
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cpuModel = infos[0].ModelName
		cpuSpeed = infos[0].Mhz
	}

	var totalMemory uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMemory = vm.Total
	}

	return report.SystemInfo{
		NumCPU:      runtime.NumCPU(),
		CPUModel:    cpuModel,
		CPUSpeedMHz: cpuSpeed,
		GOARCH:      runtime.GOARCH,
		TotalMemory: totalMemory,
	}
}

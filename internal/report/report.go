package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/sugawarayuuta/sonnet"
)

// BenchmarkResult holds results for one test run.
type BenchmarkResult struct {
	Implementation      string  `json:"implementation"`
	NumProducers        int     `json:"num_producers"`
	NumConsumers        int     `json:"num_consumers"`
	Capacity            int     `json:"capacity"`
	NumMessages         int64   `json:"num_messages"`          // produced count
	NumMessagesConsumed int64   `json:"num_messages_consumed"` // consumed count
	NumRejected         int64   `json:"num_rejected"`          // pushes refused because the queue was full
	TestDuration        string  `json:"test_duration"`         // e.g. "5s"
	ActualElapsed       string  `json:"actual_elapsed"`        // measured time
	Throughput          float64 `json:"throughput_msgs_sec"`   // based on consumed count
	Timestamp           int64   `json:"timestamp"`
	GoVersion           string  `json:"go_version"`
}

// RejectionRate is rejected pushes per attempted push.
func (b BenchmarkResult) RejectionRate() float64 {
	attempts := b.NumMessages + b.NumRejected
	if attempts == 0 {
		return 0
	}
	return float64(b.NumRejected) / float64(attempts)
}

// SystemInfo holds system information.
type SystemInfo struct {
	NumCPU            int     `json:"num_cpu"`
	TrueCPU           int     `json:"true_cpu,omitempty"`
	SimulatedCPUCount int     `json:"simulated_cpu_count,omitempty"`
	CPUModel          string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz       float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH            string  `json:"go_arch"`
	TotalMemory       uint64  `json:"total_memory_bytes,omitempty"`
}

// CPUs is the GOMAXPROCS value the session ran with.
func (s SystemInfo) CPUs() int {
	if s.SimulatedCPUCount != 0 {
		return s.SimulatedCPUCount
	}
	return s.NumCPU
}

// FullReport represents a complete test session.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	SystemInfo  SystemInfo        `json:"system_info"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// Load reads every session stored in path.
func Load(path string) ([]FullReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var sessions []FullReport
	if err := sonnet.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return sessions, nil
}

// Append adds sessions to the ones already stored in path, creating the
// file if it does not exist.
func Append(path string, sessions []FullReport) error {
	previous, err := Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	data, err := sonnet.MarshalIndent(append(previous, sessions...), "", "  ")
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

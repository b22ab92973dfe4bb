package common

import (
	"log/slog"
	"runtime"
)

// MemoryStats is the subset of runtime memory statistics logged at shutdown.
type MemoryStats struct {
	HeapAlloc  uint64
	TotalAlloc uint64
	Sys        uint64
	Mallocs    uint64
	NumGC      uint32
}

// GetMemoryStats returns current memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		HeapAlloc:  m.HeapAlloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		Mallocs:    m.Mallocs,
		NumGC:      m.NumGC,
	}
}

// LogValue implements slog.LogValuer.
func (m MemoryStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("heap_kb", m.HeapAlloc/1024),
		slog.Uint64("total_alloc_kb", m.TotalAlloc/1024),
		slog.Uint64("sys_kb", m.Sys/1024),
		slog.Uint64("mallocs", m.Mallocs),
		slog.Uint64("gc", uint64(m.NumGC)),
	)
}

// Package analytics tracks bulk-operation statistics and disk usage.
package analytics

import (
	"log/slog"

	"fileharbor/internal/storage"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
)

// DiskUsageInfo holds disk space information for one volume.
type DiskUsageInfo struct {
	Path        string  `json:"path"`
	UsedBytes   uint64  `json:"used_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	TotalBytes  uint64  `json:"total_bytes"`
	Used        string  `json:"used"`
	Free        string  `json:"free"`
	Total       string  `json:"total"`
	UsedPercent float64 `json:"used_percent"`
}

// StatsData is the aggregate statistics payload for the frontend.
type StatsData struct {
	TotalBytes   int64               `json:"total_bytes"`
	TotalPretty  string              `json:"total_pretty"`
	TotalFiles   int64               `json:"total_files"`
	DailyHistory []storage.DailyStat `json:"daily_history"`
}

// StatsManager records operation outcomes and answers usage queries.
type StatsManager struct {
	storage *storage.Storage
	logger  *slog.Logger
}

func NewStatsManager(s *storage.Storage, logger *slog.Logger) *StatsManager {
	return &StatsManager{storage: s, logger: logger}
}

// TrackOperation records a completed bulk operation. Recording failures are
// logged and dropped; statistics never fail an operation.
func (sm *StatsManager) TrackOperation(bytes, files int64) {
	if sm.storage == nil {
		return
	}
	go func() {
		if err := sm.storage.IncrementDaily(bytes, files, 1); err != nil {
			sm.logger.Warn("Failed to record operation stats", "error", err)
		}
	}()
}

// GetStats returns lifetime totals plus the last N days of history.
func (sm *StatsManager) GetStats(days int) (StatsData, error) {
	if days <= 0 {
		days = 7
	}

	totalBytes, err := sm.storage.GetTotalBytes()
	if err != nil {
		return StatsData{}, err
	}
	totalFiles, err := sm.storage.GetTotalFiles()
	if err != nil {
		return StatsData{}, err
	}
	history, err := sm.storage.GetDailyHistory(days)
	if err != nil {
		return StatsData{}, err
	}

	return StatsData{
		TotalBytes:   totalBytes,
		TotalPretty:  humanize.Bytes(uint64(totalBytes)),
		TotalFiles:   totalFiles,
		DailyHistory: history,
	}, nil
}

// DiskUsage returns space info for the volume containing path.
func DiskUsage(path string) (DiskUsageInfo, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return DiskUsageInfo{}, err
	}
	return DiskUsageInfo{
		Path:        path,
		UsedBytes:   usage.Used,
		FreeBytes:   usage.Free,
		TotalBytes:  usage.Total,
		Used:        humanize.Bytes(usage.Used),
		Free:        humanize.Bytes(usage.Free),
		Total:       humanize.Bytes(usage.Total),
		UsedPercent: usage.UsedPercent,
	}, nil
}

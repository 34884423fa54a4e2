// Package trace records pipeline activity as compressed JSONL so a long
// soak run can be inspected offline. Nothing reads these files back at
// runtime.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

type JSONLZstdWriter struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	dir := filepath.Dir(w.pathForHour(hour))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *JSONLZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// TickEntry summarizes what the pipeline did in one tick.
type TickEntry struct {
	Tick          uint64  `json:"tick"`
	TimeOfDay     float64 `json:"time_of_day"`
	SkyLight      uint8   `json:"sky_light"`
	LoadedChunks  int     `json:"loaded_chunks"`
	Generated     int     `json:"generated"`
	Unloaded      int     `json:"unloaded"`
	Relit         int     `json:"relit"`
	Remeshed      int     `json:"remeshed"`
	StaleRemeshed int     `json:"stale_remeshed"`
	DurationUs    int64   `json:"duration_us"`
}

// ChunkEntry records one chunk's payload at generation time. Optional;
// the blocks and light fields are RLE strings and dominate file size.
type ChunkEntry struct {
	Tick   uint64 `json:"tick"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Z      int    `json:"z"`
	Blocks string `json:"blocks"`
	Light  string `json:"light"`
}

// TickLogger writes one JSONL entry per tick (compressed).
type TickLogger struct{ w *JSONLZstdWriter }

func NewTickLogger(traceDir string) *TickLogger {
	return &TickLogger{w: NewJSONLZstdWriter(filepath.Join(traceDir, "ticks"), "ticks")}
}

func (l *TickLogger) WriteTick(v TickEntry) error { return l.w.Write(v) }
func (l *TickLogger) Close() error                { return l.w.Close() }

// ChunkLogger writes per-chunk generation entries (compressed).
type ChunkLogger struct{ w *JSONLZstdWriter }

func NewChunkLogger(traceDir string) *ChunkLogger {
	return &ChunkLogger{w: NewJSONLZstdWriter(filepath.Join(traceDir, "chunks"), "chunks")}
}

func (l *ChunkLogger) WriteChunk(v ChunkEntry) error { return l.w.Write(v) }
func (l *ChunkLogger) Close() error                  { return l.w.Close() }

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"voxelgarden/internal/sim/catalogs"
	"voxelgarden/internal/sim/encoding"
	"voxelgarden/internal/sim/trace"
	"voxelgarden/internal/sim/tuning"
	"voxelgarden/internal/sim/world"
)

func main() {
	var (
		seed        = flag.Int64("seed", 1337, "world seed")
		configDir   = flag.String("configs", "./configs", "config directory")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		maxTicks    = flag.Uint64("ticks", 0, "stop after this many ticks (0 = run until signal)")
		orbit       = flag.Float64("orbit", 160, "viewer orbit radius in blocks (0 = stationary)")
		traceChunks = flag.Bool("trace_chunks", false, "also record generated chunk payloads")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[worldsim] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Default()
	}
	tune.Seed = *seed
	if *traceChunks {
		tune.TraceChunks = true
	}

	traceDir := strings.TrimSpace(tune.TraceDir)
	if traceDir == "" {
		traceDir = filepath.Join(*dataDir, "trace")
	}

	w := world.New(tune, &cats.Blocks)
	w.Clock().Speed = tune.TimeSpeed

	tickLog := trace.NewTickLogger(traceDir)
	defer tickLog.Close()

	var curTick uint64
	if tune.TraceChunks {
		chunkLog := trace.NewChunkLogger(traceDir)
		defer chunkLog.Close()
		w.SetOnGenerated(func(c *world.Chunk) {
			entry := trace.ChunkEntry{
				Tick:   curTick,
				X:      c.Coord.X,
				Y:      c.Coord.Y,
				Z:      c.Coord.Z,
				Blocks: encoding.EncodeBlocksRLE(c.Blocks),
				Light:  encoding.EncodeLightRLE(c.Lights),
			}
			if err := chunkLog.WriteChunk(entry); err != nil {
				logger.Printf("chunk trace: %v", err)
			}
		})
	}

	ctx, cancel := signalContext()
	defer cancel()

	step := time.Second / time.Duration(tune.TickRateHz)
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	logger.Printf("seed=%d tick_rate=%dhz view_radius=%d trace=%s",
		tune.Seed, tune.TickRateHz, tune.ViewRadius, traceDir)

	var angle float64
	for {
		select {
		case <-ctx.Done():
			logger.Printf("shutting down at tick=%d loaded=%d", curTick, w.LoadedCount())
			return
		case <-ticker.C:
		}

		if *orbit > 0 {
			// Slow circular walk keeps the streaming edge busy.
			angle += step.Seconds() * 0.02
			wx := int(math.Cos(angle) * *orbit)
			wz := int(math.Sin(angle) * *orbit)
			w.MoveViewer(wx, 40, wz)
		}

		start := time.Now()
		st := w.Tick(step)
		curTick = st.Tick

		if err := tickLog.WriteTick(trace.TickEntry{
			Tick:          st.Tick,
			TimeOfDay:     st.TimeOfDay,
			SkyLight:      st.Sky,
			LoadedChunks:  st.Loaded,
			Generated:     st.Generated,
			Unloaded:      st.Unloaded,
			Relit:         st.Relit,
			Remeshed:      st.Remeshed,
			StaleRemeshed: st.StaleRemeshed,
			DurationUs:    time.Since(start).Microseconds(),
		}); err != nil {
			logger.Printf("tick trace: %v", err)
		}

		if st.Tick%uint64(tune.TickRateHz*10) == 0 {
			logger.Printf("tick=%d t=%.3f sky=%d loaded=%d gen=%d unload=%d relit=%d remesh=%d stale=%d",
				st.Tick, st.TimeOfDay, st.Sky, st.Loaded, st.Generated,
				st.Unloaded, st.Relit, st.Remeshed, st.StaleRemeshed)
		}
		if *maxTicks > 0 && st.Tick >= *maxTicks {
			logger.Printf("completed %d ticks, loaded=%d", st.Tick, w.LoadedCount())
			return
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

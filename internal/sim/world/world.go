package world

import (
	"time"

	"voxelgarden/internal/sim/catalogs"
	"voxelgarden/internal/sim/tuning"
)

// World owns the chunk index and every loaded chunk. All reads and writes
// to indexed chunks happen on the goroutine that calls Tick; generation
// tasks only ever build brand-new chunks from owned inputs and hand them
// over through a channel.
type World struct {
	cfg  tuning.Tuning
	cat  *catalogs.BlockCatalog
	seed int64
	mats Materials

	chunks  map[ChunkCoord]*Chunk
	loading map[ChunkCoord]struct{}
	dirty   map[ChunkCoord]struct{}

	meshes    map[ChunkCoord]*Mesh
	meshedSky map[ChunkCoord]uint8

	results chan genResult

	clock *DayNight
	sky   uint8

	viewer ChunkCoord
	tick   uint64

	// onGenerated, when set, observes each chunk as it is integrated.
	onGenerated func(*Chunk)
}

func New(cfg tuning.Tuning, cat *catalogs.BlockCatalog) *World {
	return &World{
		cfg:       cfg,
		cat:       cat,
		seed:      cfg.Seed,
		mats:      MaterialsFrom(cat),
		chunks:    map[ChunkCoord]*Chunk{},
		loading:   map[ChunkCoord]struct{}{},
		dirty:     map[ChunkCoord]struct{}{},
		meshes:    map[ChunkCoord]*Mesh{},
		meshedSky: map[ChunkCoord]uint8{},
		results:   make(chan genResult, 256),
		clock:     NewDayNight(cfg.DayLengthSeconds),
		sky:       MaxLight,
		viewer:    ChunkCoord{Y: 2},
	}
}

// SetOnGenerated installs an observer for freshly integrated chunks. Call
// before the first Tick.
func (w *World) SetOnGenerated(fn func(*Chunk)) { w.onGenerated = fn }

func (w *World) Clock() *DayNight { return w.clock }

// SkyLight is the current global sky-light scalar.
func (w *World) SkyLight() uint8 { return w.sky }

func (w *World) Catalog() *catalogs.BlockCatalog { return w.cat }

// Chunk returns the loaded chunk at coord, or nil.
func (w *World) Chunk(coord ChunkCoord) *Chunk { return w.chunks[coord] }

// MeshFor returns the current mesh for coord, nil when the chunk is
// unloaded or has no visible faces.
func (w *World) MeshFor(coord ChunkCoord) *Mesh { return w.meshes[coord] }

func (w *World) LoadedCount() int { return len(w.chunks) }

// MoveViewer updates the streaming viewpoint from a world-space position.
func (w *World) MoveViewer(wx, wy, wz int) {
	w.viewer = ChunkCoordAt(wx, wy, wz)
}

func (w *World) Viewer() ChunkCoord { return w.viewer }

func (w *World) markDirty(coord ChunkCoord) {
	if _, ok := w.chunks[coord]; ok {
		w.dirty[coord] = struct{}{}
	}
}

// TickStats summarizes one tick of the chunk pipeline.
type TickStats struct {
	Tick          uint64
	TimeOfDay     float64
	Sky           uint8
	Loaded        int
	Requested     int
	Generated     int
	Dropped       int
	Unloaded      int
	Relit         int
	Remeshed      int
	StaleRemeshed int
}

// Tick advances the world by dt: time of day, streaming requests, result
// integration, unloading, staleness sweep, and the batched relight+remesh.
func (w *World) Tick(dt time.Duration) TickStats {
	w.tick++
	var st TickStats
	st.Tick = w.tick

	w.advanceClock(dt.Seconds())
	st.TimeOfDay = w.clock.Time
	st.Sky = w.sky

	st.Requested = w.requestMissingChunks()
	st.Generated, st.Dropped = w.drainResults()
	st.Unloaded = w.unloadFarChunks()
	st.StaleRemeshed = w.sweepStale()
	st.Relit, st.Remeshed = w.processDirty()

	st.Loaded = len(w.chunks)
	return st
}

// advanceClock moves time forward and, when the sky scalar steps, marks
// chunks near the viewer for remesh. Stored light stays untouched; distant
// chunks go stale and are caught by the sweep.
func (w *World) advanceClock(dt float64) {
	w.clock.Advance(dt)
	level := w.clock.SkyLight()
	if level == w.sky {
		return
	}
	w.sky = level
	for coord := range w.chunks {
		if coord.Chebyshev(w.viewer) <= w.cfg.SkyRemeshRadius {
			w.markDirty(coord)
		}
	}
}

// sweepStale remeshes a few chunks per tick whose recorded sky level no
// longer matches the global one, in a buffer zone one chunk wider than the
// immediate remesh radius so chunks update before the viewer arrives.
func (w *World) sweepStale() int {
	checkDist := w.cfg.SkyRemeshRadius + 1
	marked := 0
	for _, coord := range w.loadedCoordsOrdered() {
		if marked >= w.cfg.StaleRemeshMax {
			break
		}
		if coord.Chebyshev(w.viewer) > checkDist {
			continue
		}
		if _, pending := w.dirty[coord]; pending {
			continue
		}
		if w.meshedSky[coord] != w.sky {
			w.dirty[coord] = struct{}{}
			marked++
		}
	}
	return marked
}

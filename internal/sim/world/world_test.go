package world

import (
	"testing"
	"time"

	"voxelgarden/internal/sim/tuning"
)

func testWorld(t *testing.T, mutate func(*tuning.Tuning)) *World {
	t.Helper()
	cfg := tuning.Default()
	cfg.Seed = 42
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, testCatalog(t))
}

// preload inserts a hand-built chunk, bypassing the streaming pipeline.
func (w *World) preload(c *Chunk) {
	w.chunks[c.Coord] = c
	w.meshedSky[c.Coord] = w.sky
}

func TestWorldStreamsChunksAroundViewer(t *testing.T) {
	w := testWorld(t, func(cfg *tuning.Tuning) {
		cfg.ViewRadius = 1
		cfg.ViewRadiusVertical = 1
	})
	w.Clock().Paused = true

	// Radius 1 is the viewer chunk plus its six face neighbors.
	const want = 7
	deadline := time.Now().Add(10 * time.Second)
	for w.LoadedCount() < want {
		if time.Now().After(deadline) {
			t.Fatalf("loaded %d chunks before deadline, want %d", w.LoadedCount(), want)
		}
		w.Tick(time.Millisecond)
		time.Sleep(time.Millisecond)
	}

	if got := w.LoadedCount(); got != want {
		t.Fatalf("loaded = %d, want %d", got, want)
	}
	if w.Chunk(w.Viewer()) == nil {
		t.Fatalf("viewer chunk not loaded")
	}
	for _, n := range faceNeighbors(w.Viewer()) {
		if w.Chunk(n) == nil {
			t.Fatalf("face neighbor %v not loaded", n)
		}
	}

	// A few more ticks drain the dirty queue left by integration.
	for i := 0; i < 8 && len(w.dirty) > 0; i++ {
		w.Tick(time.Millisecond)
	}
	if len(w.dirty) != 0 {
		t.Fatalf("%d chunks still dirty after settling", len(w.dirty))
	}
}

func TestWorldDrainDropsFarResults(t *testing.T) {
	w := testWorld(t, func(cfg *tuning.Tuning) {
		cfg.ViewRadius = 1
		cfg.ViewRadiusVertical = 1
		cfg.UnloadSlack = 1
	})
	far := ChunkCoord{50, 2, 0}
	w.results <- genResult{coord: far, chunk: NewChunk(far)}

	integrated, dropped := w.drainResults()
	if integrated != 0 || dropped != 1 {
		t.Fatalf("integrated=%d dropped=%d, want 0/1", integrated, dropped)
	}
	if w.Chunk(far) != nil {
		t.Fatalf("dropped result was indexed")
	}
}

func TestWorldUnloadFarChunks(t *testing.T) {
	w := testWorld(t, func(cfg *tuning.Tuning) {
		cfg.ViewRadius = 1
		cfg.ViewRadiusVertical = 1
		cfg.UnloadSlack = 1
	})
	near := NewChunk(w.Viewer())
	far := NewChunk(ChunkCoord{40, 2, 0})
	w.preload(near)
	w.preload(far)
	w.dirty[far.Coord] = struct{}{}

	if got := w.unloadFarChunks(); got != 1 {
		t.Fatalf("unloaded = %d, want 1", got)
	}
	if w.Chunk(far.Coord) != nil {
		t.Fatalf("far chunk survived unload")
	}
	if _, ok := w.dirty[far.Coord]; ok {
		t.Fatalf("unloaded chunk left in dirty set")
	}
	if w.Chunk(near.Coord) == nil {
		t.Fatalf("near chunk was evicted")
	}
}

func TestWorldEditMarksBoundaryNeighbors(t *testing.T) {
	w := testWorld(t, nil)
	center := ChunkCoord{0, 0, 0}
	w.preload(NewChunk(center))
	for _, n := range faceNeighbors(center) {
		w.preload(NewChunk(n))
	}
	stone := w.cat.Index["stone"]

	cases := []struct {
		name       string
		wx, wy, wz int
		neighbors  []ChunkCoord
	}{
		{"interior", 5, 5, 5, nil},
		{"west face", 0, 5, 5, []ChunkCoord{{-1, 0, 0}}},
		{"east face", 15, 5, 5, []ChunkCoord{{1, 0, 0}}},
		{"floor", 5, 0, 5, []ChunkCoord{{0, -1, 0}}},
		{"ceiling", 5, 15, 5, []ChunkCoord{{0, 1, 0}}},
		{"north face", 5, 5, 0, []ChunkCoord{{0, 0, -1}}},
		{"south face", 5, 5, 15, []ChunkCoord{{0, 0, 1}}},
		{"corner", 0, 0, 0, []ChunkCoord{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}},
	}
	for _, tc := range cases {
		w.dirty = map[ChunkCoord]struct{}{}
		if !w.SetBlockAt(tc.wx, tc.wy, tc.wz, stone) {
			t.Fatalf("%s: edit rejected", tc.name)
		}
		if _, ok := w.dirty[center]; !ok {
			t.Fatalf("%s: edited chunk not marked dirty", tc.name)
		}
		if got, want := len(w.dirty), 1+len(tc.neighbors); got != want {
			t.Fatalf("%s: %d dirty chunks, want %d", tc.name, got, want)
		}
		for _, n := range tc.neighbors {
			if _, ok := w.dirty[n]; !ok {
				t.Fatalf("%s: neighbor %v not marked dirty", tc.name, n)
			}
		}
	}
}

func TestWorldEditUnloadedChunkRejected(t *testing.T) {
	w := testWorld(t, nil)
	if w.SetBlockAt(5, 5, 5, 1) {
		t.Fatalf("edit into unloaded chunk succeeded")
	}
	if got := w.BlockAt(5, 5, 5); got != 0 {
		t.Fatalf("unloaded read = %d, want air", got)
	}
	if got := w.LightAt(5, 5, 5); got != MaxLight {
		t.Fatalf("unloaded light = %d, want %d", got, MaxLight)
	}
}

func TestWorldBreakBlockRestoresLight(t *testing.T) {
	w := testWorld(t, nil)
	c := NewChunk(ChunkCoord{0, 0, 0})
	c.CalculateSkyLight()
	w.preload(c)
	stone := w.cat.Index["stone"]

	if !w.SetBlockAt(5, 5, 5, stone) {
		t.Fatalf("place rejected")
	}
	if got := w.LightAt(5, 5, 5); got != 0 {
		t.Fatalf("placed block light = %d, want 0", got)
	}
	if !w.BreakBlockAt(5, 5, 5) {
		t.Fatalf("break rejected")
	}
	if got := w.BlockAt(5, 5, 5); got != 0 {
		t.Fatalf("broken block id = %d, want air", got)
	}
	if got := w.LightAt(5, 5, 5); got != MaxLight {
		t.Fatalf("light after break = %d, want %d", got, MaxLight)
	}
}

// Light crosses a chunk boundary during the batched pass: a dark chunk
// next to a fully lit one picks up neighbor light through the snapshots.
func TestWorldProcessDirtyCrossChunkLight(t *testing.T) {
	w := testWorld(t, nil)

	lit := NewChunk(ChunkCoord{0, 0, 0})
	lit.CalculateSkyLight()
	w.preload(lit)

	dark := NewChunk(ChunkCoord{1, 0, 0})
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			dark.Set(x, ChunkSize-1, z, w.cat.Index["stone"])
		}
	}
	dark.CalculateSkyLight()
	w.preload(dark)
	if got := dark.GetLight(0, 5, 5); got != 0 {
		t.Fatalf("pre-pass interior light = %d, want 0", got)
	}

	w.dirty[dark.Coord] = struct{}{}
	relit, remeshed := w.processDirty()
	if relit != 1 || remeshed != 1 {
		t.Fatalf("relit=%d remeshed=%d, want 1/1", relit, remeshed)
	}
	if got := dark.GetLight(0, 5, 5); got != MaxLight-1 {
		t.Fatalf("boundary light = %d, want %d", got, MaxLight-1)
	}
	if got := dark.GetLight(1, 5, 5); got != MaxLight-2 {
		t.Fatalf("one step in = %d, want %d", got, MaxLight-2)
	}
	if w.MeshFor(dark.Coord) == nil {
		t.Fatalf("remeshed chunk has no mesh")
	}
	if _, ok := w.dirty[dark.Coord]; ok {
		t.Fatalf("chunk still dirty after pass")
	}
}

func TestWorldSkyChangeRemeshesNearViewer(t *testing.T) {
	w := testWorld(t, func(cfg *tuning.Tuning) {
		cfg.ViewRadius = 0
		cfg.ViewRadiusVertical = 0
	})
	c := NewChunk(w.Viewer())
	c.Set(8, 8, 8, w.cat.Index["stone"])
	c.CalculateSkyLight()
	w.preload(c)
	w.dirty[c.Coord] = struct{}{}
	before := c.Digest()

	w.Clock().Paused = true
	w.Clock().Time = 0.5 // noon
	w.Tick(time.Millisecond)
	if w.SkyLight() != MaxLight {
		t.Fatalf("noon sky = %d, want %d", w.SkyLight(), MaxLight)
	}
	maxDay := maxBrightness(w.MeshFor(c.Coord))

	w.Clock().Time = 0 // midnight
	w.Tick(time.Millisecond)
	if w.SkyLight() != 4 {
		t.Fatalf("midnight sky = %d, want 4", w.SkyLight())
	}
	if got := w.meshedSky[c.Coord]; got != 4 {
		t.Fatalf("meshed sky level = %d, want 4", got)
	}
	if got := c.Digest(); got != before {
		t.Fatalf("sky change rewrote stored voxel light")
	}
	maxNight := maxBrightness(w.MeshFor(c.Coord))
	if maxNight >= maxDay {
		t.Fatalf("night brightness %v not below day brightness %v", maxNight, maxDay)
	}
}

func TestWorldStaleSweepCatchesDistantChunks(t *testing.T) {
	w := testWorld(t, func(cfg *tuning.Tuning) {
		cfg.ViewRadius = 0
		cfg.ViewRadiusVertical = 0
		cfg.SkyRemeshRadius = 0
	})
	viewerChunk := NewChunk(w.Viewer())
	viewerChunk.CalculateSkyLight()
	w.preload(viewerChunk)
	beside := NewChunk(w.Viewer().Offset(1, 0, 0))
	beside.Set(8, 8, 8, w.cat.Index["stone"])
	beside.CalculateSkyLight()
	w.preload(beside)

	w.Clock().Paused = true
	w.Clock().Time = 0 // midnight
	st := w.Tick(time.Millisecond)

	// The immediate radius covers only the viewer chunk; the sweep's
	// buffer zone picks up the one beside it.
	if st.StaleRemeshed != 1 {
		t.Fatalf("stale remeshes = %d, want 1", st.StaleRemeshed)
	}
	if got := w.meshedSky[beside.Coord]; got != 4 {
		t.Fatalf("swept chunk meshed sky = %d, want 4", got)
	}
}

func TestWorldMoveViewer(t *testing.T) {
	w := testWorld(t, nil)
	w.MoveViewer(35, 40, -5)
	if got, want := w.Viewer(), (ChunkCoord{2, 2, -1}); got != want {
		t.Fatalf("viewer = %v, want %v", got, want)
	}
}

func maxBrightness(m *Mesh) float32 {
	if m == nil {
		return 0
	}
	var max float32
	for _, col := range m.Colors {
		if col.W() > max {
			max = col.W()
		}
	}
	return max
}

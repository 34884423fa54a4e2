package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

const (
	ChunkSize   = 16
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize

	// MaxLight is full, unobstructed sky light.
	MaxLight uint8 = 15
)

// ChunkCoord identifies a chunk's position in chunk-grid space. One unit
// per axis is one chunk edge (ChunkSize blocks).
type ChunkCoord struct {
	X, Y, Z int
}

// ChunkCoordAt returns the coordinate of the chunk containing the given
// world-space block position.
func ChunkCoordAt(wx, wy, wz int) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(wx, ChunkSize),
		Y: floorDiv(wy, ChunkSize),
		Z: floorDiv(wz, ChunkSize),
	}
}

// Origin returns the world-space position of the chunk's corner block.
func (c ChunkCoord) Origin() (wx, wy, wz int) {
	return c.X * ChunkSize, c.Y * ChunkSize, c.Z * ChunkSize
}

func (c ChunkCoord) Offset(dx, dy, dz int) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

func (c ChunkCoord) DistanceSquared(o ChunkCoord) int {
	dx := c.X - o.X
	dy := c.Y - o.Y
	dz := c.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// Chebyshev distance, used for the sky-light remesh radius.
func (c ChunkCoord) Chebyshev(o ChunkCoord) int {
	d := absInt(c.X - o.X)
	if dy := absInt(c.Y - o.Y); dy > d {
		d = dy
	}
	if dz := absInt(c.Z - o.Z); dz > d {
		d = dz
	}
	return d
}

func floorDiv(a, b int) int {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

func mod(a, b int) int {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Chunk owns two flat arrays of ChunkVolume entries: block ids and sky
// light levels. Its coordinate never changes after creation.
type Chunk struct {
	Coord  ChunkCoord
	Blocks []uint16 // 0 = air
	Lights []uint8  // 0..15
}

func NewChunk(coord ChunkCoord) *Chunk {
	lights := make([]uint8, ChunkVolume)
	for i := range lights {
		lights[i] = MaxLight
	}
	return &Chunk{
		Coord:  coord,
		Blocks: make([]uint16, ChunkVolume),
		Lights: lights,
	}
}

// chunkIndex linearizes local coordinates: x fastest, then z, then y.
func chunkIndex(x, y, z int) int {
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

func inChunk(x, y, z int) bool {
	return x >= 0 && x < ChunkSize &&
		y >= 0 && y < ChunkSize &&
		z >= 0 && z < ChunkSize
}

// Get returns the block at local coordinates. Out-of-range reads are air;
// space outside a chunk is never an error.
func (c *Chunk) Get(x, y, z int) uint16 {
	if !inChunk(x, y, z) {
		return 0
	}
	return c.Blocks[chunkIndex(x, y, z)]
}

// Set writes a block id. Out-of-range writes are no-ops.
func (c *Chunk) Set(x, y, z int, id uint16) {
	if !inChunk(x, y, z) {
		return
	}
	c.Blocks[chunkIndex(x, y, z)] = id
}

// GetLight returns the sky light at local coordinates. Out-of-range reads
// are full light: unknown space is optimistically open sky.
func (c *Chunk) GetLight(x, y, z int) uint8 {
	if !inChunk(x, y, z) {
		return MaxLight
	}
	return c.Lights[chunkIndex(x, y, z)]
}

// SetLight writes a light level clamped to MaxLight. Out-of-range writes
// are no-ops.
func (c *Chunk) SetLight(x, y, z int, level uint8) {
	if !inChunk(x, y, z) {
		return
	}
	if level > MaxLight {
		level = MaxLight
	}
	c.Lights[chunkIndex(x, y, z)] = level
}

// HeightAt returns one above the top non-air block in the column, or 0
// when the column is empty.
func (c *Chunk) HeightAt(x, z int) int {
	for y := ChunkSize - 1; y >= 0; y-- {
		if c.Get(x, y, z) != 0 {
			return y + 1
		}
	}
	return 0
}

// Digest hashes the block and light arrays deterministically.
func (c *Chunk) Digest() string {
	h := sha256.New()
	var tmp [2]byte
	for _, v := range c.Blocks {
		binary.LittleEndian.PutUint16(tmp[:], v)
		h.Write(tmp[:])
	}
	h.Write(c.Lights)
	return hex.EncodeToString(h.Sum(nil))
}

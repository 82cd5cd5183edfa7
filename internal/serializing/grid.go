package serializing

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/path"
)

// Binary grid errors.
var (
	ErrInvalidGridMagic       = errors.New("invalid grid magic: expected 'TGRD'")
	ErrUnsupportedGridVersion = errors.New("unsupported grid version")
	ErrTruncatedGridData      = errors.New("truncated grid data")
)

// PathGridFile is the binary alternative to PathTilesFile.
const PathGridFile = "path_tiles.tgrd"

const (
	gridMagic        = "TGRD"
	gridVersionMajor = 1
	gridVersionMinor = 0
	gridBlocked      = math.MaxUint32
	gridMaxSide      = 1 << 16
)

// gridHeader precedes the cells. Version is stored as [minor, major].
type gridHeader struct {
	Magic   [4]byte
	Minor   uint8
	Major   uint8
	ChunkSz uint32
	OriginX int32
	OriginY int32
	Width   uint32
	Height  uint32
}

// WritePathGrid writes grid as a dense little-endian block covering the
// bounding box of its tiles. Cells without a tile are stored as blocked, so a
// tile of cost math.MaxUint32 reads back as impassable.
func WritePathGrid(w io.Writer, grid *path.PathTilemap) error {
	minX, minY := int32(math.MaxInt32), int32(math.MaxInt32)
	maxX, maxY := int32(math.MinInt32), int32(math.MinInt32)
	grid.Each(func(i tmath.IVec2, _ path.PathTile) {
		minX, minY = min(minX, i.X), min(minY, i.Y)
		maxX, maxY = max(maxX, i.X), max(maxY, i.Y)
	})

	h := gridHeader{Minor: gridVersionMinor, Major: gridVersionMajor, ChunkSz: grid.ChunkSize()}
	copy(h.Magic[:], gridMagic)
	if grid.Len() > 0 {
		h.OriginX, h.OriginY = minX, minY
		h.Width = uint32(int64(maxX) - int64(minX) + 1)
		h.Height = uint32(int64(maxY) - int64(minY) + 1)
	}
	if h.Width > gridMaxSide || h.Height > gridMaxSide {
		return fmt.Errorf("grid too large: %dx%d", h.Width, h.Height)
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("writing grid header: %w", err)
	}

	row := make([]uint32, h.Width)
	for y := range int32(h.Height) {
		for x := range int32(h.Width) {
			row[x] = gridBlocked
			if t, ok := grid.Get(tmath.IVec2{X: h.OriginX + x, Y: h.OriginY + y}); ok {
				row[x] = t.Cost
			}
		}
		if err := binary.Write(bw, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("writing grid row %d: %w", y, err)
		}
	}
	return bw.Flush()
}

// ReadPathGrid parses a grid written by WritePathGrid.
func ReadPathGrid(r io.Reader) (*path.PathTilemap, error) {
	var h gridHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedGridData)
	}
	if string(h.Magic[:]) != gridMagic {
		return nil, ErrInvalidGridMagic
	}
	if h.Major != gridVersionMajor {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedGridVersion, h.Major, h.Minor)
	}
	if h.Width > gridMaxSide || h.Height > gridMaxSide {
		return nil, fmt.Errorf("invalid grid dimensions: %dx%d", h.Width, h.Height)
	}

	grid := path.NewPathTilemapWithChunkSize(h.ChunkSz)
	row := make([]uint32, h.Width)
	for y := range int32(h.Height) {
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, fmt.Errorf("%w: reading row %d", ErrTruncatedGridData, y)
		}
		for x, cost := range row {
			if cost == gridBlocked {
				continue
			}
			grid.Set(tmath.IVec2{X: h.OriginX + int32(x), Y: h.OriginY + y}, path.PathTile{Cost: cost})
		}
	}
	return grid, nil
}

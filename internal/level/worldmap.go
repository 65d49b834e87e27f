package level

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Garsondee/tuer/internal/game"
)

const (
	// artBuffers is the number of picture-wall vertex sets in worldmap.data.
	artBuffers = 4
	// artFloats is the per-vertex size: 2 texture + 3 position coordinates.
	artFloats = 5
	// maxFloats bounds any single buffer so a corrupt header cannot exhaust memory.
	maxFloats = 1 << 24
)

// Worldmap is the content of worldmap.data.
type Worldmap struct {
	Art       [artBuffers][]float32
	Collision *game.CollisionMap
	Start     game.TilePos
}

// ReadWorldmap decodes worldmap.data: four big-endian vertex counts, the four
// picture-wall vertex sets, one byte per collision cell and the start tile.
func ReadWorldmap(r io.Reader) (*Worldmap, error) {
	br := bufio.NewReader(r)
	var counts [artBuffers]int32
	if err := binary.Read(br, binary.BigEndian, &counts); err != nil {
		return nil, corrupt("worldmap header", err)
	}
	wm := &Worldmap{}
	for i, n := range counts {
		if n < 0 || int64(n)*artFloats > maxFloats {
			return nil, fmt.Errorf("%w: art buffer %d has %d vertices", ErrCorruptLevel, i+1, n)
		}
		buf := make([]float32, int(n)*artFloats)
		if err := binary.Read(br, binary.BigEndian, buf); err != nil {
			return nil, corrupt(fmt.Sprintf("art buffer %d", i+1), err)
		}
		wm.Art[i] = buf
	}

	var cells [game.MapSize]byte
	if _, err := io.ReadFull(br, cells[:]); err != nil {
		return nil, corrupt("collision map", err)
	}
	var cm game.CollisionMap
	for i, c := range cells {
		k := game.CellKind(c)
		if !k.Valid() {
			return nil, fmt.Errorf("%w: collision cell %d has kind %d", ErrCorruptLevel, i, c)
		}
		cm[i] = k
	}
	wm.Collision = &cm

	var start [2]int32
	if err := binary.Read(br, binary.BigEndian, &start); err != nil {
		return nil, corrupt("start tile", err)
	}
	if start[0] < 0 || start[0] >= game.MapEdgeSize || start[1] < 0 || start[1] >= game.MapEdgeSize {
		return nil, fmt.Errorf("%w: start tile (%d,%d) outside the map", ErrCorruptLevel, start[0], start[1])
	}
	wm.Start = game.TilePos{X: int(start[0]), Z: int(start[1])}
	return wm, nil
}

// ReadBinaryPixmap decodes binaryWorldmap.data: one big-endian packed RGB
// value per tile, row-major.
func ReadBinaryPixmap(r io.Reader) (*game.Pixmap, error) {
	data := make([]uint32, game.MapSize)
	if err := binary.Read(bufio.NewReader(r), binary.BigEndian, data); err != nil {
		return nil, corrupt("binary pixmap", err)
	}
	for i := range data {
		data[i] &= 0xFFFFFF
	}
	return game.NewPixmap(data)
}

// ReadFloatData decodes a vertex file: a big-endian primitive count, the
// value count per primitive, then the floats.
func ReadFloatData(r io.Reader) ([]float32, error) {
	br := bufio.NewReader(r)
	var hdr [2]int32
	if err := binary.Read(br, binary.BigEndian, &hdr); err != nil {
		return nil, corrupt("float data header", err)
	}
	n := int64(hdr[0]) * int64(hdr[1])
	if hdr[0] < 0 || hdr[1] < 0 || n > maxFloats {
		return nil, fmt.Errorf("%w: float data header %d x %d", ErrCorruptLevel, hdr[0], hdr[1])
	}
	buf := make([]float32, n)
	if err := binary.Read(br, binary.BigEndian, buf); err != nil {
		return nil, corrupt("float data", err)
	}
	return buf, nil
}

// WriteWorldmap encodes wm in the worldmap.data layout.
func WriteWorldmap(w io.Writer, wm *Worldmap) error {
	bw := bufio.NewWriter(w)
	var counts [artBuffers]int32
	for i, a := range wm.Art {
		if len(a)%artFloats != 0 {
			return fmt.Errorf("art buffer %d: %d floats is not a whole number of vertices", i+1, len(a))
		}
		counts[i] = int32(len(a) / artFloats) // #nosec G115 -- bounded by maxFloats on read
	}
	if err := binary.Write(bw, binary.BigEndian, counts); err != nil {
		return err
	}
	for _, a := range wm.Art {
		if err := binary.Write(bw, binary.BigEndian, a); err != nil {
			return err
		}
	}
	cells := make([]byte, game.MapSize)
	if wm.Collision != nil {
		for i, k := range wm.Collision {
			cells[i] = byte(k)
		}
	}
	if _, err := bw.Write(cells); err != nil {
		return err
	}
	start := [2]int32{int32(wm.Start.X), int32(wm.Start.Z)} // #nosec G115 -- tile coordinates
	if err := binary.Write(bw, binary.BigEndian, start); err != nil {
		return err
	}
	return bw.Flush()
}

func corrupt(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s truncated", ErrCorruptLevel, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrCorruptLevel, what, err)
}

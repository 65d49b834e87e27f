// Package level reads TUER level data from a directory tree.
package level

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/Garsondee/tuer/internal/logger"
	"github.com/sirupsen/logrus"
)

// ErrCorruptLevel is returned, wrapped, for every unusable asset.
var ErrCorruptLevel = game.ErrCorruptLevel

// Well-known file names inside a level directory.
const (
	BinaryPixmapFile = "binaryWorldmap.data"
	WorldmapFile     = "worldmap.data"
	ItemsFile        = "itemList.xml"
)

// pixmapImages are tried in order when there is no binary pixmap.
var pixmapImages = []string{"worldmap.png", "worldmap.bmp", "worldmap.tiff", "worldmap.tif"}

// Source is an AssetSource over a file system:
//
//	binaryWorldmap.data  packed colours, or worldmap.png/.bmp/.tif
//	worldmap.data        picture-wall vertices, collision map, start tile (optional)
//	itemList.xml         collectibles (optional)
//	*.data               any other vertex buffer, keyed by base name
//
// A level without worldmap.data derives its collision map and start tile
// from the pixmap.
type Source struct {
	fsys fs.FS
	log  *logrus.Entry

	wm     *Worldmap
	wmErr  error
	wmRead bool
}

// NewSource reads a level from fsys.
func NewSource(fsys fs.FS) *Source {
	return &Source{fsys: fsys, log: logger.Component("level")}
}

// Dir reads a level from a directory on disk.
func Dir(dir string) *Source {
	s := NewSource(os.DirFS(dir))
	s.log = s.log.WithField("dir", dir)
	return s
}

// Pixmap implements game.AssetSource.
func (s *Source) Pixmap() (*game.Pixmap, error) {
	f, err := s.fsys.Open(BinaryPixmapFile)
	if err == nil {
		defer f.Close()
		s.log.WithField("file", BinaryPixmapFile).Debug("reading pixmap")
		return ReadBinaryPixmap(f)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, name := range pixmapImages {
		f, err := s.fsys.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, format, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptLevel, name, err)
		}
		s.log.WithFields(logrus.Fields{"file": name, "format": format}).Debug("reading pixmap image")
		return DecodePixmapImage(img)
	}
	return nil, fmt.Errorf("%w: no %s or %s", ErrCorruptLevel, BinaryPixmapFile, strings.Join(pixmapImages, "/"))
}

func (s *Source) worldmap() (*Worldmap, error) {
	if s.wmRead {
		return s.wm, s.wmErr
	}
	s.wmRead = true
	f, err := s.fsys.Open(WorldmapFile)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("no worldmap.data, deriving collision map from the pixmap")
		return nil, nil
	}
	if err != nil {
		s.wmErr = err
		return nil, err
	}
	defer f.Close()
	s.wm, s.wmErr = ReadWorldmap(f)
	return s.wm, s.wmErr
}

// CollisionMap implements game.AssetSource. It returns nil when the level
// has no worldmap.data.
func (s *Source) CollisionMap() (*game.CollisionMap, error) {
	wm, err := s.worldmap()
	if err != nil || wm == nil {
		return nil, err
	}
	return wm.Collision, nil
}

// StartTile implements game.AssetSource.
func (s *Source) StartTile() (game.TilePos, bool, error) {
	wm, err := s.worldmap()
	if err != nil || wm == nil {
		return game.TilePos{}, false, err
	}
	return wm.Start, true, nil
}

// Items implements game.AssetSource.
func (s *Source) Items() ([]game.ItemSpec, error) {
	f, err := s.fsys.Open(ItemsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadItems(f)
}

// VertexBuffers implements game.AssetSource. The picture-wall sets of
// worldmap.data are named art1 to art4.
func (s *Source) VertexBuffers() (map[string][]float32, error) {
	out := map[string][]float32{}
	wm, err := s.worldmap()
	if err != nil {
		return nil, err
	}
	if wm != nil {
		for i, a := range wm.Art {
			out[fmt.Sprintf("art%d", i+1)] = a
		}
	}
	names, err := fs.Glob(s.fsys, "*.data")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	for _, name := range names {
		if name == WorldmapFile || name == BinaryPixmapFile {
			continue
		}
		buf, err := s.readFloatFile(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[strings.TrimSuffix(path.Base(name), ".data")] = buf
	}
	s.log.WithField("buffers", len(out)).Debug("vertex buffers loaded")
	return out, nil
}

func (s *Source) readFloatFile(name string) ([]float32, error) {
	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFloatData(f)
}

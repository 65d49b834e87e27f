package level

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/Garsondee/tuer/internal/game"
)

// itemList is the on-disk form of itemList.xml:
//
//	<items>
//	  <item name="medkit" after="health +20" x="40" z="12" health="20"/>
//	</items>
type itemList struct {
	XMLName xml.Name  `xml:"items"`
	Items   []xmlItem `xml:"item"`
}

type xmlItem struct {
	Name   string `xml:"name,attr"`
	After  string `xml:"after,attr"`
	X      int    `xml:"x,attr"`
	Z      int    `xml:"z,attr"`
	Health int    `xml:"health,attr"`
}

// ReadItems decodes an item list. Items off the map are corrupt data.
func ReadItems(r io.Reader) ([]game.ItemSpec, error) {
	var l itemList
	if err := xml.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: item list: %v", ErrCorruptLevel, err)
	}
	specs := make([]game.ItemSpec, 0, len(l.Items))
	for i, it := range l.Items {
		if it.X < 0 || it.X >= game.MapEdgeSize || it.Z < 0 || it.Z >= game.MapEdgeSize {
			return nil, fmt.Errorf("%w: item %d at (%d,%d) outside the map", ErrCorruptLevel, i, it.X, it.Z)
		}
		if it.Health < 0 {
			return nil, fmt.Errorf("%w: item %d has negative health gain", ErrCorruptLevel, i)
		}
		specs = append(specs, game.ItemSpec{
			Name:             it.Name,
			AfterCollectName: it.After,
			Tile:             game.TilePos{X: it.X, Z: it.Z},
			HealthGain:       it.Health,
		})
	}
	return specs, nil
}

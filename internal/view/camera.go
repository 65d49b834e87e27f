package view

import (
	"github.com/Garsondee/tuer/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	zoomMin = 0.5
	zoomMax = 6.0
)

// camera maps map pixels to the viewport. (x,y) is the map pixel at the
// viewport centre.
type camera struct {
	x, y         float64
	zoom         float64
	viewW, viewH float64
	mapPx        float64
}

// follow centres the camera on a fixed-point world position.
func (c *camera) follow(wx, wz float64, tilePx int) {
	c.x = wx / game.Factor * float64(tilePx)
	c.y = wz / game.Factor * float64(tilePx)
	c.clamp()
}

// zoomBy scales the zoom, keeping it in range.
func (c *camera) zoomBy(f float64) {
	c.zoom *= f
	c.zoom = max(zoomMin, min(zoomMax, c.zoom))
	c.clamp()
}

// clamp keeps the viewport over the map when the map is larger than it.
func (c *camera) clamp() {
	if c.mapPx == 0 {
		return
	}
	halfW := c.viewW / 2 / c.zoom
	halfH := c.viewH / 2 / c.zoom
	if 2*halfW < c.mapPx {
		c.x = max(halfW, min(c.mapPx-halfW, c.x))
	}
	if 2*halfH < c.mapPx {
		c.y = max(halfH, min(c.mapPx-halfH, c.y))
	}
}

// geoM is the map-to-viewport transform.
func (c *camera) geoM() ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-c.x, -c.y)
	m.Scale(c.zoom, c.zoom)
	m.Translate(c.viewW/2, c.viewH/2)
	return m
}

// toMap is the inverse of geoM for a viewport point.
//
//	viewport = (map - cam) * zoom + half
//	map      = (viewport - half) / zoom + cam
func (c *camera) toMap(vx, vy float64) (float64, float64) {
	return (vx-c.viewW/2)/c.zoom + c.x, (vy-c.viewH/2)/c.zoom + c.y
}

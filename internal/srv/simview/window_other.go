//go:build !amd64

package simview

import "image"

// Boards have no desktop: the simulated panel is only traced at debug level.
type window struct{}

func startWindow(source func() image.Image) *window {
	return &window{}
}

func (win *window) invalidate() {
}

func (win *window) close() {
}

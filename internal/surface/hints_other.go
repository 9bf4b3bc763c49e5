//go:build !linux && !noebiten

package surface

// keepAbove is a no-op outside X11 platforms.
func keepAbove() error { return nil }

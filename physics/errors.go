package physics

import "errors"

var (
	ErrInvalidGeometry  = errors.New("physics: half extents must be positive")
	ErrInvalidFriction  = errors.New("physics: friction must be within [0,1]")
	ErrInvalidSpeed     = errors.New("physics: platform speed must be positive")
	ErrTooFewWaypoints  = errors.New("physics: platform path needs at least two waypoints")
	ErrInvalidCellSize  = errors.New("physics: cell size must be positive")
	ErrStaleHandle      = errors.New("physics: handle is not registered")
	ErrAlreadyAttached  = errors.New("physics: already attached to a world")
	ErrNotAttached      = errors.New("physics: not attached to a world")
	ErrNilBody          = errors.New("physics: body is nil")
	ErrNilPlatform      = errors.New("physics: platform is nil")
	ErrUnknownSurface   = errors.New("physics: unknown surface type")
	ErrNegativeWaitTime = errors.New("physics: platform wait time must not be negative")
)

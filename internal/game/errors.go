package game

import "errors"

var (
	ErrNameInUse      = errors.New("name already in use")
	ErrPlayerNotFound = errors.New("player not found")
	ErrRoomNotFound   = errors.New("room not found")
)

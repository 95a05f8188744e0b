package storage

import "errors"

// ErrGameExists is returned by CreateGame when the id is already taken
var ErrGameExists = errors.New("game already exists")

package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDatasetUnavailable is the class of failures where no training table can be produced.
	ErrDatasetUnavailable = errors.New("cannot build dataset")
	// ErrDataUnavailable means a season returned zero usable rows before the join.
	ErrDataUnavailable = fmt.Errorf("%w: stats provider did not return enough season data to train a model", ErrDatasetUnavailable)
	// ErrEmptyJoinResult means the two seasons share no players.
	ErrEmptyJoinResult = fmt.Errorf("%w: no players overlap between seasons", ErrDatasetUnavailable)
)

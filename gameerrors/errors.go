package gameerrors

import "errors"

// Save/load and quest sentinel errors. Shared by the game, quest, ws and api packages
// so none of them has to import another for error checks.
var (
	ErrMalformedSave    = errors.New("malformed save file")
	ErrSaveTooLarge     = errors.New("save file too large")
	ErrInvalidSaveField = errors.New("invalid save field")
	ErrUnknownQuest     = errors.New("unknown quest")
	ErrQuestNotComplete = errors.New("quest not complete")
	ErrQuestClaimed     = errors.New("quest reward already claimed")
	ErrUnauthenticated  = errors.New("unauthenticated")
)

package contract

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnknownTool  = errors.New("unknown tool")
	ErrCallNotFound = errors.New("call not found")
	ErrCallExists   = errors.New("call already started")
	ErrRender       = errors.New("instruction render failed")
	ErrCallSetup    = errors.New("call setup failed")
)

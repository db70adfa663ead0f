package call

import "errors"

var (
	ErrSessionNotFound   = errors.New("call session not found")
	ErrChatNotFound      = errors.New("chat room not found")
	ErrNotParticipant    = errors.New("user is not a participant of this call")
	ErrNotCallee         = errors.New("only the callee may perform this action")
	ErrSelfCall          = errors.New("cannot call yourself")
	ErrAlreadyInCall     = errors.New("an active call already exists")
	ErrInvalidTransition = errors.New("call is not in a state that allows this action")
)

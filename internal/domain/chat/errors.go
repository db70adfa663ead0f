package chat

import "errors"

var (
	ErrRoomNotFound    = errors.New("chat room not found")
	ErrNotRoomMember   = errors.New("you are not a member of this chat")
	ErrCannotChatSelf  = errors.New("cannot start chat with yourself")
	ErrMessageNotFound = errors.New("message not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmptyMessage    = errors.New("message content is required")
)

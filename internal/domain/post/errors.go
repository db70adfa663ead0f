package post

import "errors"

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrEmptyContent    = errors.New("post content cannot be empty")
	ErrContentTooLong  = errors.New("post content exceeds maximum length")
	ErrAccessDenied    = errors.New("not allowed to modify this post")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked")
	ErrAlreadyReposted = errors.New("post already reposted")
	ErrNotReposted     = errors.New("post not reposted")
)

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"pulse/internal/domain/comment"
	"pulse/internal/domain/notification"
	"pulse/internal/domain/poll"
	"pulse/internal/domain/user"
	"pulse/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("not_found", "resource not found", err)
	case errors.Is(err, poll.ErrNotFound):
		return apperr.NotFound("poll_not_found", "poll not found", err)
	case errors.Is(err, poll.ErrAlreadyVoted):
		return apperr.Conflict("already_voted", "user already voted on this poll", err)
	case errors.Is(err, poll.ErrEmptyContent):
		return apperr.BadRequest("empty_content", "poll content is required", err)
	case errors.Is(err, poll.ErrInvalidChoice):
		return apperr.BadRequest("invalid_choice", "vote must be yes or no", err)
	case errors.Is(err, comment.ErrNotFound):
		return apperr.NotFound("comment_not_found", "comment not found", err)
	case errors.Is(err, comment.ErrEmptyText):
		return apperr.BadRequest("empty_text", "comment text is required", err)
	case errors.Is(err, notification.ErrInvalidType):
		return apperr.BadRequest("invalid_type", "invalid notification type", err)
	case errors.Is(err, user.ErrNotFound):
		return apperr.NotFound("user_not_found", "user not found", err)
	case errors.Is(err, user.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, user.ErrBanned):
		return apperr.Unauthorized("banned", "user is banned", err)
	case errors.Is(err, user.ErrEmailTaken):
		return apperr.BadRequest("email_taken", "email already taken", err)
	case errors.Is(err, user.ErrUsernameTaken):
		return apperr.BadRequest("username_taken", "username already taken", err)
	case errors.Is(err, user.ErrSelfFollow):
		return apperr.BadRequest("self_follow", "cannot follow yourself", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}

package gcalendar

import "errors"

var (
	// ErrClientConfig means the OAuth client secret file is missing or unreadable.
	ErrClientConfig = errors.New("gcalendar: invalid oauth client configuration")
	// ErrConsentDeclined means the user did not grant access or the code exchange failed.
	ErrConsentDeclined = errors.New("gcalendar: consent declined")
	// ErrRefreshRejected means the token endpoint refused the refresh token.
	ErrRefreshRejected = errors.New("gcalendar: refresh rejected")
	// ErrTokenStore means the token file could not be locked, read or written.
	ErrTokenStore = errors.New("gcalendar: token store failure")
	// ErrInsert means the calendar rejected the event.
	ErrInsert = errors.New("gcalendar: event insert failed")

	errNoToken = errors.New("gcalendar: no stored token")
)

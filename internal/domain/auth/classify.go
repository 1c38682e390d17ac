package auth

// Classify maps a structured backend error body to a typed *Error.
//
// The mapping is fixed:
//
//	authentication_error     -> session_expired
//	authorization_error      -> permission_denied
//	auth_service_unavailable -> service_unavailable
//
// A body with no error_type yields nil ("no classification"); callers fall
// back to HTTP-status-based defaults. This function is pure and total.
func Classify(body BackendError) *Error {
	kind, ok := kindForBackendType(body.ErrorType)
	if !ok {
		return nil
	}

	authErr := &Error{
		Kind:    kind,
		Message: body.Detail,
	}
	if body.RetryAfter != nil {
		retryAfter := *body.RetryAfter
		authErr.RetryAfterSeconds = &retryAfter
	}
	return authErr
}

func kindForBackendType(t BackendErrorType) (ErrorKind, bool) {
	switch t {
	case BackendAuthenticationError:
		return KindSessionExpired, true
	case BackendAuthorizationError:
		return KindPermissionDenied, true
	case BackendServiceUnavailable:
		return KindServiceUnavailable, true
	default:
		return "", false
	}
}

// Package mocks provides mock implementations for testing the auth session coordinator.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// BFF client port. The mocks are generated using go:generate directives and provide
// a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	client := mocks.NewMockBFFClient(ctrl)
//	client.EXPECT().CheckSession(gomock.Any()).Return(&auth.SessionCheck{Authenticated: true}, nil)
package mocks

// Generate mock for BFFClient interface from internal/ports.
// This creates MockBFFClient with methods for all BFFClient interface methods:
// CheckSession, IssueToken, SubmitCredentials, RevokeSession, BeginLogin, IsConfigured
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=bffclient_mock.go github.com/turnkeystaffing/bff-auth-go/internal/ports BFFClient

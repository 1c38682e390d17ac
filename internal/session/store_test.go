package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
	apperrors "github.com/turnkeystaffing/bff-auth-go/internal/errors"
	"github.com/turnkeystaffing/bff-auth-go/internal/mocks"
	mocksauth "github.com/turnkeystaffing/bff-auth-go/internal/mocks/auth"
	"go.uber.org/mock/gomock"
)

// fakeClock is a manually advanced clock for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{cur: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(d)
}

func tokenResponse(accessToken string, expiresIn float64) *domainauth.TokenResponse {
	return &domainauth.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Scope:       "openid",
	}
}

func authenticatedCheck() *domainauth.SessionCheck {
	return &domainauth.SessionCheck{
		Authenticated: true,
		User:          &domainauth.UserInfo{UserID: "user-1", SessionID: "sess-9"},
	}
}

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newStoreWithClock(client *mocksauth.ScriptedBFFClient) (*Store, *fakeClock) {
	clock := newFakeClock()
	store := NewStore(Options{Client: client, Now: clock.Now})
	return store, clock
}

func TestStore_Initialize_AuthenticatedPrefetchesToken(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		CheckSessionFunc: func(context.Context) (*domainauth.SessionCheck, error) {
			return authenticatedCheck(), nil
		},
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse("tok-1", 300), nil
		},
	}
	store, _ := newStoreWithClock(client)

	require.NoError(t, store.Initialize(context.Background()))

	snap := store.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	require.NotNil(t, snap.User)
	assert.Equal(t, "user-1", snap.User.UserID)
	assert.Equal(t, "tok-1", snap.AccessToken)
	assert.Nil(t, snap.Error)
	assert.Equal(t, 1, client.CheckSessionCalls())
	assert.Equal(t, 1, client.IssueTokenCalls())
}

func TestStore_Initialize_ChecksSessionBeforeMintingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockBFFClient(ctrl)
	gomock.InOrder(
		client.EXPECT().CheckSession(gomock.Any()).Return(authenticatedCheck(), nil),
		client.EXPECT().IssueToken(gomock.Any()).Return(tokenResponse("tok-1", 300), nil),
	)
	store := NewStore(Options{Client: client})

	require.NoError(t, store.Initialize(context.Background()))
	assert.Equal(t, "tok-1", store.Snapshot().AccessToken)
}

func TestStore_Logout_RevokesBeforeRedirecting(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockBFFClient(ctrl)
	gomock.InOrder(
		client.EXPECT().RevokeSession(gomock.Any()).Return(nil),
		client.EXPECT().BeginLogin(domainauth.LoginOptions{}).Return(nil),
	)
	store := NewStore(Options{Client: client})

	require.NoError(t, store.Logout(context.Background()))
	assert.False(t, store.IsAuthenticated())
}

func TestStore_Initialize_UnauthenticatedSkipsToken(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{}
	store, _ := newStoreWithClock(client)

	require.NoError(t, store.Initialize(context.Background()))

	snap := store.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.Zero(t, client.IssueTokenCalls())
}

func TestStore_Initialize_TransportErrorLeavesSignedOut(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		CheckSessionFunc: func(context.Context) (*domainauth.SessionCheck, error) {
			return nil, errors.New("connection refused")
		},
	}
	store, _ := newStoreWithClock(client)

	err := store.Initialize(context.Background())

	require.Error(t, err)
	snap := store.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	// Network failures read as signed out, not as a service incident.
	assert.Nil(t, snap.Error)
}

func TestStore_Initialize_ConfigurationErrorSurfaces(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		CheckSessionFunc: func(context.Context) (*domainauth.SessionCheck, error) {
			return nil, apperrors.Configuration("Authentication service is not configured. Please contact your administrator.")
		},
	}
	store, _ := newStoreWithClock(client)

	err := store.Initialize(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))

	stateErr := store.Err()
	require.NotNil(t, stateErr)
	assert.Equal(t, domainauth.KindServiceUnavailable, stateErr.Kind)
	assert.Equal(t, "Authentication service is not configured. Please contact your administrator.", stateErr.Message)
	assert.False(t, store.IsAuthenticated())
}

func TestStore_EnsureValidToken_UsesCachedToken(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse("tok-1", 300), nil
		},
	}
	store, clock := newStoreWithClock(client)

	first, err := store.EnsureValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first)

	// Well inside the 300s lifetime minus the 60s refresh buffer.
	clock.Advance(100 * time.Second)

	second, err := store.EnsureValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", second)
	assert.Equal(t, 1, client.IssueTokenCalls())
}

func TestStore_EnsureValidToken_RefreshesInsideBuffer(t *testing.T) {
	issued := 0
	client := &mocksauth.ScriptedBFFClient{}
	client.IssueTokenFunc = func(context.Context) (*domainauth.TokenResponse, error) {
		issued++
		if issued == 1 {
			return tokenResponse("tok-1", 300), nil
		}
		return tokenResponse("tok-2", 300), nil
	}
	store, clock := newStoreWithClock(client)

	_, err := store.EnsureValidToken(context.Background())
	require.NoError(t, err)

	// 241s in: 59s of lifetime left, which is within the refresh buffer.
	clock.Advance(241 * time.Second)

	tok, err := store.EnsureValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, 2, client.IssueTokenCalls())
}

func TestStore_EnsureValidToken_ConcurrentCallersShareOneRefresh(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startOnce sync.Once

	client := &mocksauth.ScriptedBFFClient{
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			startOnce.Do(func() { close(started) })
			<-release
			return tokenResponse("tok-shared", 300), nil
		},
	}
	store, _ := newStoreWithClock(client)

	const callers = 25
	results := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := store.EnsureValidToken(context.Background())
			assert.NoError(t, err)
			results <- tok
		}()
	}

	<-started
	close(release)
	wg.Wait()
	close(results)

	for tok := range results {
		assert.Equal(t, "tok-shared", tok)
	}
	assert.Equal(t, 1, client.IssueTokenCalls())
}

func TestStore_EnsureValidToken_NilResponseMeansSessionExpired(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		CheckSessionFunc: func(context.Context) (*domainauth.SessionCheck, error) {
			return authenticatedCheck(), nil
		},
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return nil, nil
		},
	}
	store, _ := newStoreWithClock(client)
	require.NoError(t, store.Initialize(context.Background()))

	tok, err := store.EnsureValidToken(context.Background())

	require.NoError(t, err)
	assert.Empty(t, tok)

	snap := store.Snapshot()
	require.NotNil(t, snap.Error)
	assert.Equal(t, domainauth.KindSessionExpired, snap.Error.Kind)
	assert.Equal(t, sessionExpiredMessage, snap.Error.Message)
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
}

func TestStore_EnsureValidToken_EmptyTokenRejected(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse("   ", 300), nil
		},
	}
	store, _ := newStoreWithClock(client)

	tok, err := store.EnsureValidToken(context.Background())

	require.NoError(t, err)
	assert.Empty(t, tok)

	snap := store.Snapshot()
	require.NotNil(t, snap.Error)
	assert.Equal(t, domainauth.KindSessionExpired, snap.Error.Kind)
	assert.Equal(t, invalidTokenMessage, snap.Error.Message)
	// The whitespace token must never be stored.
	assert.Empty(t, snap.AccessToken)
	assert.True(t, snap.TokenExpiresAt.IsZero())
}

func TestStore_EnsureValidToken_ClampsBrokenExpiry(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse("tok-1", 0), nil
		},
	}
	store, clock := newStoreWithClock(client)

	tok, err := store.EnsureValidToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	snap := store.Snapshot()
	assert.Equal(t, clock.Now().Add(minExpiresInSeconds*time.Second), snap.TokenExpiresAt)
}

func TestStore_EnsureValidToken_RefreshErrorBecomesState(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return nil, errors.New("bff unreachable")
		},
	}
	store, _ := newStoreWithClock(client)

	tok, err := store.EnsureValidToken(context.Background())

	// Non-configuration failures are absorbed into error state.
	require.NoError(t, err)
	assert.Empty(t, tok)

	stateErr := store.Err()
	require.NotNil(t, stateErr)
	assert.Equal(t, domainauth.KindSessionExpired, stateErr.Kind)
	assert.Equal(t, refreshFailedMessage, stateErr.Message)
}

func TestStore_EnsureValidToken_ConfigurationErrorReturned(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return nil, apperrors.Configuration("not configured")
		},
	}
	store, _ := newStoreWithClock(client)

	tok, err := store.EnsureValidToken(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
	assert.Empty(t, tok)

	stateErr := store.Err()
	require.NotNil(t, stateErr)
	assert.Equal(t, domainauth.KindServiceUnavailable, stateErr.Kind)
}

func TestStore_SetError_SessionExpiredResetsCredentials(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		CheckSessionFunc: func(context.Context) (*domainauth.SessionCheck, error) {
			return authenticatedCheck(), nil
		},
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse("tok-1", 300), nil
		},
	}
	store, _ := newStoreWithClock(client)
	require.NoError(t, store.Initialize(context.Background()))

	store.SetError(&domainauth.Error{Kind: domainauth.KindSessionExpired, Message: "expired"})

	snap := store.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.True(t, snap.TokenExpiresAt.IsZero())
	require.NotNil(t, snap.Error)
	assert.Equal(t, domainauth.KindSessionExpired, snap.Error.Kind)
}

func TestStore_SetError_PermissionDeniedLeavesSession(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		CheckSessionFunc: func(context.Context) (*domainauth.SessionCheck, error) {
			return authenticatedCheck(), nil
		},
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse("tok-1", 300), nil
		},
	}
	store, _ := newStoreWithClock(client)
	require.NoError(t, store.Initialize(context.Background()))

	store.SetError(&domainauth.Error{Kind: domainauth.KindPermissionDenied, Message: "nope"})

	snap := store.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.NotNil(t, snap.User)
	assert.Equal(t, "tok-1", snap.AccessToken)
	require.NotNil(t, snap.Error)
	assert.Equal(t, domainauth.KindPermissionDenied, snap.Error.Kind)
}

func TestStore_ClearError(t *testing.T) {
	store, _ := newStoreWithClock(&mocksauth.ScriptedBFFClient{})

	store.SetError(&domainauth.Error{Kind: domainauth.KindPermissionDenied, Message: "nope"})
	store.ClearError()

	assert.Nil(t, store.Err())
}

func TestStore_Login_DelegatesToClient(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{}
	store, _ := newStoreWithClock(client)
	store.SetError(&domainauth.Error{Kind: domainauth.KindSessionExpired, Message: "expired"})

	require.NoError(t, store.Login(domainauth.LoginOptions{ReturnURL: "/dashboard"}))

	snap := store.Snapshot()
	// Loading stays set: the page is navigating away.
	assert.True(t, snap.IsLoading)
	assert.Nil(t, snap.Error)

	calls := client.LoginCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/dashboard", calls[0].ReturnURL)
}

func TestStore_Logout_ResetsStateEvenWhenRevokeFails(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		CheckSessionFunc: func(context.Context) (*domainauth.SessionCheck, error) {
			return authenticatedCheck(), nil
		},
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse("tok-1", 300), nil
		},
		RevokeSessionFunc: func(context.Context) error {
			return errors.New("bff down")
		},
	}
	store, _ := newStoreWithClock(client)
	require.NoError(t, store.Initialize(context.Background()))

	require.NoError(t, store.Logout(context.Background()))

	assert.Equal(t, 1, client.RevokeCalls())
	require.Len(t, client.LoginCalls(), 1)

	snap := store.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
}

func TestStore_ClaimGetters(t *testing.T) {
	accessToken := mintToken(t, jwt.MapClaims{
		"email":      "jdoe@example.com",
		"user_id":    "user-1",
		"roles":      []any{"admin", "viewer"},
		"username":   "jdoe",
		"guid":       "guid-7",
		"session_id": "sess-9",
	})
	client := &mocksauth.ScriptedBFFClient{
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse(accessToken, 300), nil
		},
	}
	store, _ := newStoreWithClock(client)
	_, err := store.EnsureValidToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "jdoe@example.com", store.UserEmail())
	assert.Equal(t, "user-1", store.UserID())
	assert.Equal(t, "jdoe", store.Username())
	assert.Equal(t, "guid-7", store.UserGUID())
	assert.Equal(t, "sess-9", store.SessionID())
	assert.Equal(t, []string{"admin", "viewer"}, store.UserRoles())
	assert.True(t, store.HasRole("admin"))
	assert.False(t, store.HasRole("superuser"))
}

func TestStore_ClaimGetters_NoToken(t *testing.T) {
	store, _ := newStoreWithClock(&mocksauth.ScriptedBFFClient{})

	assert.Nil(t, store.Claims())
	assert.False(t, store.HasRole("admin"))
	assert.Empty(t, store.UserEmail())
	assert.Nil(t, store.UserRoles())
}

func TestStore_DisplayEmail_SurvivesStrictValidationFailure(t *testing.T) {
	// Token carries an email but is missing required claims, so the
	// strict decode rejects it.
	accessToken := mintToken(t, jwt.MapClaims{"email": "jdoe@example.com"})
	client := &mocksauth.ScriptedBFFClient{
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse(accessToken, 300), nil
		},
	}
	store, _ := newStoreWithClock(client)
	_, err := store.EnsureValidToken(context.Background())
	require.NoError(t, err)

	assert.Nil(t, store.Claims())
	assert.Equal(t, "jdoe@example.com", store.DisplayEmail())
}

func TestStore_Snapshot_IsACopy(t *testing.T) {
	client := &mocksauth.ScriptedBFFClient{
		CheckSessionFunc: func(context.Context) (*domainauth.SessionCheck, error) {
			return authenticatedCheck(), nil
		},
		IssueTokenFunc: func(context.Context) (*domainauth.TokenResponse, error) {
			return tokenResponse("tok-1", 300), nil
		},
	}
	store, _ := newStoreWithClock(client)
	require.NoError(t, store.Initialize(context.Background()))

	snap := store.Snapshot()
	snap.User.UserID = "mutated"

	assert.Equal(t, "user-1", store.Snapshot().User.UserID)
}

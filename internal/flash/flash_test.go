package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManager_IssuesSessionCookie(t *testing.T) {
	m := NewManager(NewMemory(), false, zap.NewNop().Sugar())
	var sid string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { sid = sessionID(r) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(sid)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestManager_ReusesValidSession(t *testing.T) {
	m := NewManager(NewMemory(), true, zap.NewNop().Sugar())
	existing := uuid.NewString()
	var sid string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { sid = sessionID(r) }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: existing})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, existing, sid)
	assert.Empty(t, rec.Result().Cookies())
}

func TestManager_AddTakeAcrossRequests(t *testing.T) {
	m := NewManager(NewMemory(), true, zap.NewNop().Sugar())
	var got []Message

	push := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Notice(r, "Please log in.")
		m.Add(r, NewSuccess("done"))
	}))
	take := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = m.Take(r) }))

	rec := httptest.NewRecorder()
	push.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	ck := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	take.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, []Message{NewNotice("Please log in."), NewSuccess("done")}, got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	take.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, got)
}

func TestManager_Destroy(t *testing.T) {
	store := NewMemory()
	m := NewManager(store, true, zap.NewNop().Sugar())
	sid := uuid.NewString()

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Notice(r, "stale")
		m.Destroy(w, r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/account/logout", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sid})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	left, _ := store.Pop(req.Context(), sid)
	assert.Empty(t, left)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestManager_NoSessionIsHarmless(t *testing.T) {
	m := NewManager(NewMemory(), true, zap.NewNop().Sugar())
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	m.Notice(r, "dropped")
	assert.Nil(t, m.Take(r))
}

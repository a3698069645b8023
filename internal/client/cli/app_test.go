package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/calendar"
	"github.com/dmitrijs2005/medkeeper/internal/client/client"
	"github.com/dmitrijs2005/medkeeper/internal/client/config"
	"github.com/dmitrijs2005/medkeeper/internal/client/services"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is written by the notifier from background saves.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fixedClock() time.Time { return time.Date(2024, 3, 28, 9, 0, 0, 0, time.Local) }

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

type testEnv struct {
	mem    *client.MemoryClient
	dbPath string
	out    *syncBuffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		mem:    client.NewMemoryClient(),
		dbPath: filepath.Join(t.TempDir(), "cli.db"),
		out:    &syncBuffer{},
	}
}

func (e *testEnv) app(t *testing.T, input string) *App {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), e.dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{AdherenceWindowDays: 28}
	a := newApp(cfg, e.mem, db, logging.Nop(), fixedClock, strings.NewReader(input), e.out)
	t.Cleanup(a.today.Wait)
	return a
}

func lines(ls ...string) string { return strings.Join(ls, "\n") + "\n" }

func TestApp_EndToEnd(t *testing.T) {
	stubPassword(t, "secret")
	env := newTestEnv(t)
	a := env.app(t, lines(
		"today",
		"register", "bob@example.org",
		"login", "bob@example.org",
		"add", "Aspirin", "100 mg", "", "",
		"add", "Vitamin D", "1000 IU", "daily", "with food",
		"add", "   ", "1 tab", "", "",
		"meds",
		"take 2",
		"exit",
	))
	ctx := context.Background()

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	a.today.Wait()

	out := env.out.String()
	assert.Contains(t, out, "please log in")
	assert.Contains(t, out, "ok: register")
	assert.Contains(t, out, "ok: login")
	assert.Equal(t, 2, strings.Count(out, "ok: add medication"))
	assert.Contains(t, out, "failed: add medication: invalid input")
	assert.Contains(t, out, "1. Vitamin D 1000 IU (daily)\n   with food\n2. Aspirin 100 mg\n")
	assert.Contains(t, out, "ok: mark taken")

	require.True(t, a.isLoggedIn())
	assert.Equal(t, services.Counts{Taken: 1, Total: 2, Percent: 50}, a.today.Counts())

	// taken today, so the reloaded list shows it
	require.NoError(t, a.Today(ctx))
	assert.Contains(t, env.out.String(), "Good morning! Today 2024-03-28: 1/2 taken (50%)\n")
	assert.Contains(t, env.out.String(), "2. [x] Aspirin 100 mg")
	assert.ErrorIs(t, a.Take(ctx, "2"), services.ErrAlreadyTaken)

	// the session survives a restart
	b := env.app(t, "")
	b.restore(ctx)
	assert.Equal(t, a.session, b.session)

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.isLoggedIn())
	c := env.app(t, "")
	c.restore(ctx)
	assert.False(t, c.isLoggedIn())
}

func loggedIn(t *testing.T, env *testEnv, input string) *App {
	t.Helper()
	stubPassword(t, "pw")
	a := env.app(t, lines("alice@example.org", "alice@example.org")+input)
	ctx := context.Background()
	require.NoError(t, a.Register(ctx))
	require.NoError(t, a.Login(ctx))
	return a
}

func TestApp_DeleteMedication(t *testing.T) {
	env := newTestEnv(t)
	a := loggedIn(t, env, lines("A", "1", "", ""))
	ctx := context.Background()
	require.NoError(t, a.AddMedication(ctx))

	assert.Error(t, a.DeleteMedication(ctx, "5"))
	require.NoError(t, a.DeleteMedication(ctx, "1"))
	assert.Contains(t, env.out.String(), "ok: delete medication")

	require.NoError(t, a.ListMedications(ctx))
	assert.Contains(t, env.out.String(), "No medications yet")
}

func TestApp_CalendarProgressExport(t *testing.T) {
	env := newTestEnv(t)
	a := loggedIn(t, env, "")
	ctx := context.Background()

	require.NoError(t, a.Calendar(ctx, ""))
	assert.Contains(t, env.out.String(), "March 2024\nSu  Mo  Tu  We  Th  Fr  Sa\n")

	require.NoError(t, a.Calendar(ctx, "prev"))
	assert.Contains(t, env.out.String(), "February 2024")
	require.NoError(t, a.Calendar(ctx, "2023-12"))
	assert.Contains(t, env.out.String(), "December 2023")
	assert.Error(t, a.Calendar(ctx, "dec"))

	require.NoError(t, a.Progress(ctx))
	out := env.out.String()
	assert.Contains(t, out, "Adherence, last 28 days")
	assert.Contains(t, out, "W4   2024-03-22..2024-03-28")
	assert.Contains(t, out, "All ")

	require.NoError(t, a.Export(ctx, ""))
	assert.Contains(t, env.out.String(), "memory://reports/")
	assert.Contains(t, env.out.String(), "ok: export report")
	assert.Error(t, a.Export(ctx, "bogus"))
}

func TestApp_ExportSave(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	env := newTestEnv(t)
	a := loggedIn(t, env, "")

	require.NoError(t, a.Export(context.Background(), "save"))
	matches, err := filepath.Glob(filepath.Join(dir, reportsDir, "*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	body, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), `"today":"2024-03-28"`)
	assert.Contains(t, env.out.String(), "Saved to "+matches[0])
}

func TestApp_Profile(t *testing.T) {
	env := newTestEnv(t)
	a := loggedIn(t, env, lines("Alice Smith", ""))
	ctx := context.Background()

	require.NoError(t, a.Profile(ctx))
	assert.Contains(t, env.out.String(), "Full name: alice\n")

	require.NoError(t, a.EditProfile(ctx))
	out := env.out.String()
	assert.Contains(t, out, "ok: update profile")
	assert.Contains(t, out, "Full name: Alice Smith\nPhone:     -\n")
}

func TestApp_ModeAndStatus(t *testing.T) {
	env := newTestEnv(t)
	a := loggedIn(t, env, "")
	ctx := context.Background()

	a.checkOnline(ctx)
	assert.Equal(t, ModeOnline, a.Mode())
	assert.Equal(t, "(alice@example.org online) ", a.getStatus())
	require.NoError(t, a.Today(ctx))

	env.mem.SetOffline(true)
	a.checkOnline(ctx)
	assert.Equal(t, ModeOffline, a.Mode())

	// today's list is cached, the progress window is not
	require.NoError(t, a.Today(ctx))
	assert.Error(t, a.Progress(ctx))
	assert.Contains(t, env.out.String(), "server unavailable")
}

func TestApp_WatcherStopsWithContext(t *testing.T) {
	env := newTestEnv(t)
	a := env.app(t, "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, time.Millisecond)
		close(done)
	}()
	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestRenderMonth(t *testing.T) {
	today := dates.MustParse("2024-02-10")
	m, err := calendar.Build(2024, 2, dates.NewSet(dates.MustParse("2024-02-01")), today)
	require.NoError(t, err)

	want := strings.Join([]string{
		"February 2024",
		"Su  Mo  Tu  We  Th  Fr  Sa",
		"                 1*  2.  3.",
		" 4.  5.  6.  7.  8.  9. 10<",
		"11  12  13  14  15  16  17",
		"18  19  20  21  22  23  24",
		"25  26  27  28  29",
		"* taken  . missed  < today",
		"",
	}, "\n")
	assert.Equal(t, want, renderMonth(m))
}

func TestResolveRef(t *testing.T) {
	ids := []string{"a", "b"}

	id, err := resolveRef("2", ids)
	require.NoError(t, err)
	assert.Equal(t, "b", id)

	id, err = resolveRef("a", ids)
	require.NoError(t, err)
	assert.Equal(t, "a", id)

	for _, bad := range []string{"0", "3", "zzz"} {
		_, err := resolveRef(bad, ids)
		assert.Error(t, err, bad)
	}
}

func TestGreeting(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2024, 3, 28, h, m, 0, 0, time.Local) }
	assert.Equal(t, "Good morning", greeting(at(0, 0)))
	assert.Equal(t, "Good morning", greeting(at(11, 59)))
	assert.Equal(t, "Good afternoon", greeting(at(12, 0)))
	assert.Equal(t, "Good afternoon", greeting(at(16, 59)))
	assert.Equal(t, "Good evening", greeting(at(17, 0)))
	assert.Equal(t, "Good evening", greeting(at(23, 30)))
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat(".", barWidth), bar(0))
	assert.Equal(t, strings.Repeat("#", barWidth), bar(100))
	assert.Equal(t, strings.Repeat("#", 17)+"...", bar(86))
}

package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/squadstats/internal/api"
	"github.com/mmynk/squadstats/internal/commentary"
	"github.com/mmynk/squadstats/internal/metrics"
	"github.com/mmynk/squadstats/internal/middleware"
	"github.com/mmynk/squadstats/internal/squad"
	"github.com/mmynk/squadstats/internal/storage"
	"github.com/mmynk/squadstats/internal/storage/memory"
	"github.com/mmynk/squadstats/internal/storage/sqlite"
	"github.com/mmynk/squadstats/internal/syncer"
)

type stubGenerator struct{ text string }

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.text, nil
}

type testServer struct {
	client  *api.SquadServiceClient
	metrics *metrics.Metrics
	shared  storage.Store
	url     string
}

// setupTestServer creates a server backed by a temp SQLite database that
// serves as both local and shared store.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	m := metrics.New(prometheus.NewRegistry())
	sc := squad.New(store, store)
	poller := syncer.New(sc, syncer.WithNotifier(sc.Notifier()))
	svc := NewSquadService(sc,
		WithPoller(poller),
		WithMetrics(m),
		WithCommentator(commentary.New(stubGenerator{text: "What a game!"})),
	)

	path, handler := api.NewSquadServiceHandler(svc, connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(m),
	))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})

	return &testServer{
		client:  api.NewSquadServiceClient(http.DefaultClient, server.URL),
		metrics: m,
		shared:  store,
		url:     server.URL,
	}
}

func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Errorf("expected code %v, got %v (%v)", code, got, err)
	}
}

func TestProfileLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	resp, err := ts.client.GetProfile(ctx, connect.NewRequest(&api.GetProfileRequest{}))
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if resp.Msg.Profile != nil {
		t.Fatalf("expected no profile, got %+v", resp.Msg.Profile)
	}

	_, err = ts.client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Trip"}))
	wantCode(t, err, connect.CodeFailedPrecondition)

	created, err := ts.client.CreateProfile(ctx, connect.NewRequest(&api.CreateProfileRequest{Name: "Alice", Avatar: "🦊"}))
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if created.Msg.Profile.Name != "Alice" || created.Msg.Profile.Avatar != "🦊" {
		t.Errorf("unexpected profile: %+v", created.Msg.Profile)
	}

	_, err = ts.client.CreateProfile(ctx, connect.NewRequest(&api.CreateProfileRequest{Name: "Alice"}))
	wantCode(t, err, connect.CodeAlreadyExists)

	updated, err := ts.client.UpdateProfile(ctx, connect.NewRequest(&api.UpdateProfileRequest{Name: "Alicia"}))
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Msg.Profile.Name != "Alicia" || updated.Msg.Profile.Avatar != "🦊" {
		t.Errorf("unexpected updated profile: %+v", updated.Msg.Profile)
	}
}

func TestGroupFlow(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	if _, err := ts.client.CreateProfile(ctx, connect.NewRequest(&api.CreateProfileRequest{Name: "F"})); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	created, err := ts.client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Trip"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	group := created.Msg.Group

	// A second installation sharing the store joins by code.
	other := squad.New(memory.New(), ts.shared)
	if _, err := other.CreateProfile(ctx, "U", ""); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if _, err := other.JoinGroup(ctx, group.Code); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}

	_, err = ts.client.JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{Code: group.Code}))
	wantCode(t, err, connect.CodeAlreadyExists)

	_, err = ts.client.JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{Code: "NOPE00"}))
	wantCode(t, err, connect.CodeNotFound)

	_, err = ts.client.JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{}))
	wantCode(t, err, connect.CodeInvalidArgument)

	counter, err := ts.client.AddCounter(ctx, connect.NewRequest(&api.AddCounterRequest{Code: group.Code, Title: "Snacks", Emoji: "🍿"}))
	if err != nil {
		t.Fatalf("AddCounter failed: %v", err)
	}
	counterID := counter.Msg.Counter.ID

	for range 3 {
		if _, err := other.Increment(ctx, group.Code, counterID); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	if _, err := ts.client.Increment(ctx, connect.NewRequest(&api.IncrementRequest{Code: group.Code, CounterID: counterID})); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	_, err = ts.client.Increment(ctx, connect.NewRequest(&api.IncrementRequest{Code: group.Code, CounterID: "missing"}))
	wantCode(t, err, connect.CodeNotFound)

	board, err := ts.client.GetLeaderboard(ctx, connect.NewRequest(&api.GetLeaderboardRequest{Code: group.Code}))
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(board.Msg.Boards) != 1 {
		t.Fatalf("expected 1 board, got %d", len(board.Msg.Boards))
	}
	b := board.Msg.Boards[0]
	if b.Total != 4 || !b.HasData {
		t.Errorf("unexpected board totals: %+v", b)
	}
	if b.Standings[0].Name != "U" || b.Standings[0].Count != 3 || b.Standings[1].Name != "F" || b.Standings[1].Count != 1 {
		t.Errorf("unexpected standings: %+v", b.Standings)
	}

	_, err = ts.client.GetLeaderboard(ctx, connect.NewRequest(&api.GetLeaderboardRequest{Code: group.Code, CounterID: "missing"}))
	wantCode(t, err, connect.CodeNotFound)

	naps, err := ts.client.AddCounter(ctx, connect.NewRequest(&api.AddCounterRequest{Code: group.Code, Title: "Naps"}))
	if err != nil {
		t.Fatalf("AddCounter failed: %v", err)
	}
	empty, err := ts.client.GetLeaderboard(ctx, connect.NewRequest(&api.GetLeaderboardRequest{Code: group.Code, CounterID: naps.Msg.Counter.ID}))
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if eb := empty.Msg.Boards[0]; eb.HasData || eb.Total != 0 || len(eb.Standings) != 0 {
		t.Errorf("expected an unranked empty board, got %+v", eb)
	}

	comment, err := ts.client.GetCommentary(ctx, connect.NewRequest(&api.GetCommentaryRequest{Code: group.Code}))
	if err != nil {
		t.Fatalf("GetCommentary failed: %v", err)
	}
	if comment.Msg.Text != "What a game!" {
		t.Errorf("unexpected commentary: %q", comment.Msg.Text)
	}

	got, err := ts.client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{Code: strings.ToLower(group.Code)}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Msg.Group.Users) != 2 || len(got.Msg.Group.Logs) != 4 {
		t.Errorf("unexpected group: %+v", got.Msg.Group)
	}

	_, err = ts.client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{}))
	wantCode(t, err, connect.CodeInvalidArgument)

	if _, err := ts.client.LeaveGroup(ctx, connect.NewRequest(&api.LeaveGroupRequest{GroupID: group.ID})); err != nil {
		t.Fatalf("LeaveGroup failed: %v", err)
	}
	list, err := ts.client.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(list.Msg.Groups) != 0 {
		t.Errorf("expected no groups after leave, got %d", len(list.Msg.Groups))
	}

	if got := testutil.ToFloat64(ts.metrics.Mutations.WithLabelValues("join_group", "error")); got != 2 {
		t.Errorf("expected 2 failed joins recorded, got %v", got)
	}
	if got := testutil.ToFloat64(ts.metrics.RPCRequests.WithLabelValues(api.JoinGroupProcedure, "not_found")); got != 1 {
		t.Errorf("expected 1 not_found JoinGroup, got %v", got)
	}
}

func TestCapacityErrors(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	if _, err := ts.client.CreateProfile(ctx, connect.NewRequest(&api.CreateProfileRequest{Name: "F"})); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	created, err := ts.client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Trip"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	code := created.Msg.Group.Code

	for i := 0; i < 9; i++ {
		if _, err := ts.client.AddCounter(ctx, connect.NewRequest(&api.AddCounterRequest{Code: code, Title: "C"})); err != nil {
			t.Fatalf("AddCounter %d failed: %v", i, err)
		}
	}
	_, err = ts.client.AddCounter(ctx, connect.NewRequest(&api.AddCounterRequest{Code: code, Title: "C"}))
	if err != nil {
		t.Fatalf("tenth AddCounter failed: %v", err)
	}
	_, err = ts.client.AddCounter(ctx, connect.NewRequest(&api.AddCounterRequest{Code: code, Title: "C"}))
	wantCode(t, err, connect.CodeResourceExhausted)

	_, err = ts.client.AddCounter(ctx, connect.NewRequest(&api.AddCounterRequest{Code: code}))
	wantCode(t, err, connect.CodeInvalidArgument)

	for i := 0; i < 9; i++ {
		member := squad.New(memory.New(), ts.shared)
		if _, err := member.CreateProfile(ctx, "M", ""); err != nil {
			t.Fatalf("CreateProfile failed: %v", err)
		}
		if _, err := member.JoinGroup(ctx, code); err != nil {
			t.Fatalf("JoinGroup %d failed: %v", i, err)
		}
	}
	late := squad.New(memory.New(), ts.shared)
	if _, err := late.CreateProfile(ctx, "Late", ""); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if _, err := late.JoinGroup(ctx, code); !errors.Is(err, squad.ErrGroupFull) {
		t.Errorf("expected ErrGroupFull, got %v", err)
	}
}

func TestSnapshotAndSelect(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	if _, err := ts.client.CreateProfile(ctx, connect.NewRequest(&api.CreateProfileRequest{Name: "F"})); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	first, _ := ts.client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "One"}))
	second, _ := ts.client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Two"}))

	snap, err := ts.client.GetSnapshot(ctx, connect.NewRequest(&api.GetSnapshotRequest{}))
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if len(snap.Msg.Groups) != 2 || snap.Msg.ActiveGroupID != first.Msg.Group.ID {
		t.Fatalf("unexpected snapshot: %+v", snap.Msg)
	}
	if snap.Msg.Profile == nil || snap.Msg.Profile.Name != "F" {
		t.Errorf("expected profile in snapshot, got %+v", snap.Msg.Profile)
	}

	sel, err := ts.client.SelectGroup(ctx, connect.NewRequest(&api.SelectGroupRequest{GroupID: second.Msg.Group.ID}))
	if err != nil {
		t.Fatalf("SelectGroup failed: %v", err)
	}
	if sel.Msg.ActiveGroupID != second.Msg.Group.ID {
		t.Errorf("unexpected active group %q", sel.Msg.ActiveGroupID)
	}

	_, err = ts.client.SelectGroup(ctx, connect.NewRequest(&api.SelectGroupRequest{GroupID: "missing"}))
	wantCode(t, err, connect.CodeNotFound)
}

func TestSnapshotWithoutPoller(t *testing.T) {
	svc := NewSquadService(squad.New(memory.New(), memory.New()))
	_, err := svc.GetSnapshot(context.Background(), connect.NewRequest(&api.GetSnapshotRequest{}))
	wantCode(t, err, connect.CodeFailedPrecondition)
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{squad.ErrNotFound, connect.CodeNotFound},
		{squad.ErrAlreadyMember, connect.CodeAlreadyExists},
		{squad.ErrGroupFull, connect.CodeResourceExhausted},
		{squad.ErrCapacityExceeded, connect.CodeResourceExhausted},
		{squad.ErrMissingProfile, connect.CodeFailedPrecondition},
		{squad.ErrNotMember, connect.CodePermissionDenied},
		{squad.ErrInvalidArgument, connect.CodeInvalidArgument},
		{context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{errors.New("disk on fire"), connect.CodeInternal},
	}
	for _, tt := range tests {
		if got := toConnectError(tt.err).Code(); got != tt.want {
			t.Errorf("toConnectError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestPlainJSONRequest(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Post(ts.url+api.GetProfileProcedure, "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

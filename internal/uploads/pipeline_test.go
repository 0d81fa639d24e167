package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"brandvault/internal/models"
)

// fakeStore is a scriptable object store: uploads block until released so
// tests can observe and cancel in-flight items.
type fakeStore struct {
	mu       sync.Mutex
	started  chan string
	release  chan struct{}
	failWhen func(key string) error
	deletes  [][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		started: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (s *fakeStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	s.started <- key
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.release:
	}
	if s.failWhen != nil {
		if err := s.failWhen(key); err != nil {
			return "", err
		}
	}
	return "https://cdn.test/assets/" + key, nil
}

func (s *fakeStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, keys)
	return nil
}

func (s *fakeStore) deleteCalls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.deletes))
	copy(out, s.deletes)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

type spyTransport struct {
	mu    sync.Mutex
	calls []*FinalizeRequest
	resp  *FinalizeResponse
	err   error
}

func (s *spyTransport) Finalize(ctx context.Context, req *FinalizeRequest) (*FinalizeResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if s.resp == nil {
		return &FinalizeResponse{Success: true}, s.err
	}
	return s.resp, s.err
}

func (s *spyTransport) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestPipeline_SuccessFlow(t *testing.T) {
	store := newFakeStore()
	p := NewPipeline(store, "temp-uploads")

	item := p.Add(context.Background(), "Folder Verão (SP).pdf", 4, "application/pdf", bytes.NewReader([]byte("data")))
	<-store.started
	close(store.release)
	p.Wait()

	got, ok := p.Item(item.ID)
	if !ok {
		t.Fatal("item vanished")
	}
	if got.Status != StatusSuccess {
		t.Fatalf("status = %s, want success", got.Status)
	}
	if got.Progress != 100 {
		t.Errorf("progress = %d, want 100", got.Progress)
	}
	if !strings.HasPrefix(got.TempPath, "temp-uploads/"+item.ID+"-") {
		t.Errorf("tempPath = %q, want temp-uploads/{id}-{name}", got.TempPath)
	}
	if strings.ContainsAny(got.SafeName, "() àé ") {
		t.Errorf("safe name %q still has unsafe characters", got.SafeName)
	}
	if got.PublicURL == "" {
		t.Error("public URL not set")
	}
}

func TestPipeline_NoBackwardTransitions(t *testing.T) {
	store := newFakeStore()
	close(store.release)
	p := NewPipeline(store, "temp-uploads")

	item := p.Add(context.Background(), "a.png", 1, "image/png", bytes.NewReader([]byte("x")))
	p.Wait()

	if p.advance(item.ID, StatusUploading) {
		t.Error("success -> uploading transition allowed")
	}
	if p.advance(item.ID, StatusPending) {
		t.Error("success -> pending transition allowed")
	}
	p.fail(item.ID, "late failure")

	got, _ := p.Item(item.ID)
	if got.Status != StatusSuccess {
		t.Errorf("status = %s after illegal transitions, want success", got.Status)
	}
	if got.ErrorMessage != "" {
		t.Errorf("error message set on successful item: %q", got.ErrorMessage)
	}
}

func TestPipeline_ErrorDoesNotAffectSiblings(t *testing.T) {
	store := newFakeStore()
	store.failWhen = func(key string) error {
		if strings.Contains(key, "broken") {
			return errors.New("connection reset")
		}
		return nil
	}
	close(store.release)
	p := NewPipeline(store, "temp-uploads")

	bad := p.Add(context.Background(), "broken.mp4", 1, "video/mp4", bytes.NewReader([]byte("x")))
	good := p.Add(context.Background(), "fine.png", 1, "image/png", bytes.NewReader([]byte("x")))
	p.Wait()

	gotBad, _ := p.Item(bad.ID)
	if gotBad.Status != StatusError {
		t.Fatalf("bad item status = %s, want error", gotBad.Status)
	}
	if gotBad.ErrorMessage == "" {
		t.Error("failed item carries no message")
	}

	gotGood, _ := p.Item(good.ID)
	if gotGood.Status != StatusSuccess {
		t.Fatalf("sibling status = %s, want success", gotGood.Status)
	}
}

func TestPipeline_RemoveUploadingAbortsAndDeletesOnce(t *testing.T) {
	store := newFakeStore()
	p := NewPipeline(store, "temp-uploads")

	item := p.Add(context.Background(), "big.mp4", 8, "video/mp4", bytes.NewReader([]byte("12345678")))
	<-store.started

	p.Remove(item.ID)
	p.Wait()

	if _, ok := p.Item(item.ID); ok {
		t.Error("removed item still listed")
	}

	waitFor(t, func() bool { return len(store.deleteCalls()) == 1 })
	calls := store.deleteCalls()
	if len(calls) != 1 {
		t.Fatalf("delete calls = %d, want exactly 1", len(calls))
	}
	if len(calls[0]) != 1 || !strings.HasPrefix(calls[0][0], "temp-uploads/"+item.ID+"-") {
		t.Errorf("deleted keys = %v, want the item's temp path", calls[0])
	}
}

func TestPipeline_CloseSweepsAllTempPathsBatched(t *testing.T) {
	store := newFakeStore()
	p := NewPipeline(store, "temp-uploads")

	p.Add(context.Background(), "one.png", 1, "image/png", bytes.NewReader([]byte("x")))
	p.Add(context.Background(), "two.png", 1, "image/png", bytes.NewReader([]byte("x")))
	<-store.started
	<-store.started

	p.Close()
	p.Wait()

	waitFor(t, func() bool { return len(store.deleteCalls()) == 1 })
	calls := store.deleteCalls()
	if len(calls) != 1 {
		t.Fatalf("delete calls = %d, want one batched call", len(calls))
	}
	if len(calls[0]) != 2 {
		t.Errorf("batched delete had %d keys, want 2", len(calls[0]))
	}
	if len(p.Items()) != 0 {
		t.Error("items survived Close")
	}
}

func TestPipeline_SimulatedModeWithoutStore(t *testing.T) {
	p := NewPipeline(nil, "temp-uploads", WithSimulatedDelay(10*time.Millisecond))

	item := p.Add(context.Background(), "dev.png", 1, "image/png", bytes.NewReader([]byte("x")))
	p.Wait()

	got, _ := p.Item(item.ID)
	if got.Status != StatusSuccess {
		t.Fatalf("status = %s, want success", got.Status)
	}
	if !strings.HasPrefix(got.PublicURL, "memory://") {
		t.Errorf("public URL = %q, want simulated memory:// URL", got.PublicURL)
	}
	if got.TempPath != "" {
		t.Errorf("simulated upload wrote temp path %q", got.TempPath)
	}
}

func TestPipeline_ProgressIsMonotonic(t *testing.T) {
	var mu sync.Mutex
	var percents []int

	store := newFakeStore()
	close(store.release)
	p := NewPipeline(store, "temp-uploads", WithProgress(func(id string, percent int) {
		mu.Lock()
		percents = append(percents, percent)
		mu.Unlock()
	}))

	p.Add(context.Background(), "data.bin", 1024, "application/octet-stream", bytes.NewReader(make([]byte, 1024)))
	p.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(percents) == 0 {
		t.Fatal("no progress reported")
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress went backward: %v", percents)
		}
	}
	if percents[len(percents)-1] != 100 {
		t.Errorf("final progress = %d, want 100", percents[len(percents)-1])
	}
}

func TestSubmit_RejectsWhileItemsInFlight(t *testing.T) {
	store := newFakeStore()
	p := NewPipeline(store, "temp-uploads")
	spy := &spyTransport{}

	p.Add(context.Background(), "slow.mp4", 4, "video/mp4", bytes.NewReader([]byte("data")))
	<-store.started

	_, fieldErrors, err := p.Submit(context.Background(), spy,
		models.CategoryTypeCampaign, "cat-1", "", models.OriginHouse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fieldErrors) == 0 {
		t.Fatal("in-flight batch accepted")
	}
	if spy.callCount() != 0 {
		t.Fatalf("transport called %d times for invalid batch, want 0", spy.callCount())
	}

	close(store.release)
	p.Wait()
}

func TestSubmit_RejectsErrorItems(t *testing.T) {
	store := newFakeStore()
	store.failWhen = func(string) error { return errors.New("boom") }
	close(store.release)
	p := NewPipeline(store, "temp-uploads")
	spy := &spyTransport{}

	p.Add(context.Background(), "bad.png", 1, "image/png", bytes.NewReader([]byte("x")))
	p.Wait()

	_, fieldErrors, _ := p.Submit(context.Background(), spy,
		models.CategoryTypeCampaign, "cat-1", "", models.OriginHouse)
	if len(fieldErrors) == 0 {
		t.Fatal("batch with an error item accepted")
	}
	if spy.callCount() != 0 {
		t.Fatalf("transport called %d times, want 0", spy.callCount())
	}
}

func TestSubmit_ValidationGate(t *testing.T) {
	store := newFakeStore()
	close(store.release)

	tests := []struct {
		name         string
		categoryType models.CategoryType
		categoryID   string
		phase        models.ProjectPhase
		origin       models.MaterialOrigin
		wantField    string
	}{
		{"missing category type", "", "cat-1", "", models.OriginHouse, "categoryType"},
		{"missing category id", models.CategoryTypeCampaign, "", "", models.OriginHouse, "categoryId"},
		{"missing origin", models.CategoryTypeCampaign, "cat-1", "", "", "origin"},
		{"project without phase", models.CategoryTypeProject, "proj-1", "", models.OriginEV, "projectPhase"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(store, "temp-uploads")
			spy := &spyTransport{}
			p.Add(context.Background(), "ok.png", 1, "image/png", bytes.NewReader([]byte("x")))
			p.Wait()

			_, fieldErrors, _ := p.Submit(context.Background(), spy, tt.categoryType, tt.categoryID, tt.phase, tt.origin)
			if _, ok := fieldErrors[tt.wantField]; !ok {
				t.Fatalf("field errors = %v, want %s", fieldErrors, tt.wantField)
			}
			if spy.callCount() != 0 {
				t.Fatalf("transport called for invalid form")
			}
		})
	}
}

func TestSubmit_SendsBatchAndClearsItems(t *testing.T) {
	store := newFakeStore()
	close(store.release)
	p := NewPipeline(store, "temp-uploads")
	spy := &spyTransport{}

	p.Add(context.Background(), "folder verão.pdf", 10, "application/pdf", bytes.NewReader(make([]byte, 10)))
	p.Add(context.Background(), "fachada.jpg", 5, "image/jpeg", bytes.NewReader(make([]byte, 5)))
	p.Wait()

	resp, fieldErrors, err := p.Submit(context.Background(), spy,
		models.CategoryTypeProject, "proj-9", models.ProjectPhaseLancamento, models.OriginEV)
	if err != nil || len(fieldErrors) > 0 {
		t.Fatalf("submit failed: %v %v", err, fieldErrors)
	}
	if !resp.Success {
		t.Fatal("expected success response")
	}
	if spy.callCount() != 1 {
		t.Fatalf("transport called %d times, want 1", spy.callCount())
	}

	req := spy.calls[0]
	if req.ProjectPhase != models.ProjectPhaseLancamento {
		t.Errorf("projectPhase = %s", req.ProjectPhase)
	}
	if len(req.Items) != 2 {
		t.Fatalf("payload has %d items, want 2", len(req.Items))
	}
	for _, item := range req.Items {
		if item.TempPath == "" {
			t.Error("payload item missing tempPath")
		}
	}
	if req.Items[1].AssetType != models.AssetTypeImage {
		t.Errorf("jpg classified as %s", req.Items[1].AssetType)
	}

	if len(p.Items()) != 0 {
		t.Error("items survived a successful finalize")
	}
}

package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMeili server tối thiểu: health check + search endpoint
func fakeMeili(t *testing.T, searchBody string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/health":
			w.Write([]byte(`{"status":"available"}`))
		case strings.HasSuffix(r.URL.Path, "/search"):
			w.Write([]byte(searchBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMeiliSearch_Search(t *testing.T) {
	srv := fakeMeili(t, `{"hits":[{"_id":"p1","title":"Phòng Gò Vấp","price":3000000}],"estimatedTotalHits":1,"offset":0,"limit":20}`)

	client, err := NewMeiliSearchClient(SearchConfig{
		Host:      srv.URL,
		IndexName: "listings",
		Timeout:   5 * time.Second,
		Limit:     20,
	}, zap.NewNop())
	require.NoError(t, err)

	page, err := client.Search(context.Background(), "phòng gò vấp")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p1", page.Items[0].ID)
	assert.Equal(t, int64(3000000), page.Items[0].Price)
}

// TestMeiliSearch_CancelAbortsRequest ctx hủy phải hủy luôn request
// đang bay và trả về lỗi ctx, không đợi response
func TestMeiliSearch_CancelAbortsRequest(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"available"}`))
			return
		}
		close(started)
		// giữ request cho tới khi phía client bỏ cuộc
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	client, err := NewMeiliSearchClient(SearchConfig{
		Host:      srv.URL,
		IndexName: "listings",
		Timeout:   30 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err = client.Search(ctx, "phòng")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

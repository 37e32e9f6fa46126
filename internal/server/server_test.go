package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lillian1228/hsa-ai-assistant/internal/config"
	"github.com/Lillian1228/hsa-ai-assistant/internal/handler"
	"github.com/Lillian1228/hsa-ai-assistant/internal/model"
)

// blockingExpenseService holds a chat turn open until released and records
// whether that turn had finished by the time Shutdown was called.
type blockingExpenseService struct {
	entered         chan struct{}
	release         chan struct{}
	turnDone        atomic.Bool
	shutdownCalled  atomic.Bool
	turnDoneOnClose atomic.Bool
}

func newBlockingExpenseService() *blockingExpenseService {
	return &blockingExpenseService{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (f *blockingExpenseService) Chat(_ context.Context, _ *model.ChatRequest) (*model.ChatResponse, error) {
	close(f.entered)
	<-f.release
	f.turnDone.Store(true)
	return &model.ChatResponse{Response: "done"}, nil
}

func (f *blockingExpenseService) Shutdown() {
	f.shutdownCalled.Store(true)
	f.turnDoneOnClose.Store(f.turnDone.Load())
}

func newTestServer(t *testing.T) (*Server, *blockingExpenseService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	s := NewServer(cfg)

	expense := newBlockingExpenseService()
	s.SetExpenseService(expense)
	handler.NewChatHandler(expense).RegisterRoutes(s.GetRouter())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = s.httpServer.Serve(ln)
	}()

	return s, expense, "http://" + ln.Addr().String()
}

func TestShutdownDrainsInFlightRequests(t *testing.T) {
	s, expense, baseURL := newTestServer(t)

	requestErr := make(chan error, 1)
	go func() {
		resp, err := http.Post(baseURL+"/chat", "application/json", strings.NewReader(`{"text":"hi"}`))
		if err == nil {
			resp.Body.Close()
		}
		requestErr <- err
	}()

	// The chat turn is now in flight.
	select {
	case <-expense.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("chat turn never started")
	}

	shutdownErr := make(chan error, 1)
	go func() {
		shutdownErr <- s.Shutdown()
	}()

	// Let the shutdown begin waiting on the open request, then finish the turn.
	time.Sleep(100 * time.Millisecond)
	close(expense.release)

	require.NoError(t, <-requestErr)
	require.NoError(t, <-shutdownErr)

	assert.True(t, expense.shutdownCalled.Load())
	assert.True(t, expense.turnDoneOnClose.Load(), "expense service released only after the turn completed")
}

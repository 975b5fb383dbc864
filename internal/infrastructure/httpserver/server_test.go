package httpserver

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestServerShutdownStopsStart(t *testing.T) {
	server := New("127.0.0.1:0", http.NotFoundHandler(), nil)

	errs := make(chan error, 1)
	go func() {
		errs <- server.Start()
	}()

	// Start may not have bound the listener yet; Shutdown before or after
	// ListenAndServe both end with ErrServerClosed.
	time.Sleep(20 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}

	select {
	case err := <-errs:
		if err != nil {
			t.Fatalf("expected nil error after shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected Start to return after shutdown")
	}
}

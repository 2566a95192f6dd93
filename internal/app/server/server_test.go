package server

import (
	"net"
	"net/http"
	"testing"
	"time"
)

func TestShutdownClosesNotify(t *testing.T) {
	srv := New("127.0.0.1:0", time.Second, time.Second, http.NotFoundHandler())
	srv.Start()
	time.Sleep(20 * time.Millisecond)

	if err := srv.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err, ok := <-srv.Notify():
		if ok {
			t.Fatalf("unexpected error after graceful shutdown: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("notify channel not closed")
	}
}

func TestListenErrorIsReported(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	srv := New(ln.Addr().String(), time.Second, time.Second, http.NotFoundHandler())
	srv.Start()
	select {
	case err := <-srv.Notify():
		if err == nil {
			t.Fatal("expected address-in-use error")
		}
	case <-time.After(time.Second):
		t.Fatal("no error reported")
	}
}

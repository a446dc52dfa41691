package middleware

import (
	"context"
	"net"
	"net/http"
)

type peerKey struct{}

// PeerAddr records the connection's RemoteAddr before any header-based
// rewrite such as chi's RealIP runs. Install it first.
func PeerAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PeerIP returns the host of the address recorded by PeerAddr, falling back
// to RemoteAddr. Client-supplied forwarding headers never change it.
func PeerIP(r *http.Request) string {
	addr, ok := r.Context().Value(peerKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

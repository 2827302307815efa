package costingrpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server answers framed costing requests over UDP. Every datagram carries
// whole frames; a response goes back to the datagram's sender.
type Server struct {
	conn    *net.UDPConn
	handler *Handler
	logger  *zap.Logger
	bufSize int
}

// Listen binds a UDP socket on addr, e.g. "127.0.0.1:2001".
func Listen(addr string, handler *Handler, logger *zap.Logger) (*Server, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if handler == nil {
		handler = NewHandler(logger)
	}
	return &Server{conn: conn, handler: handler, logger: logger, bufSize: 64 * 1024}, nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// SetReadBuffer sets the largest datagram Serve accepts.
func (s *Server) SetReadBuffer(n int) {
	if n > 0 {
		s.bufSize = n
	}
}

// Serve handles requests until ctx is cancelled, then closes the socket.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return s.conn.Close()
	})
	g.Go(func() error {
		err := s.receiveLoop()
		if ctx.Err() != nil && errors.Is(err, net.ErrClosed) {
			return nil
		}
		return err
	})
	err := g.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) receiveLoop() error {
	s.logger.Info("serving", zap.String("addr", s.conn.LocalAddr().String()))
	buf := make([]byte, s.bufSize)
	for {
		n, remote, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return err
		}
		s.handleDatagram(buf[:n], remote)
	}
}

func (s *Server) handleDatagram(data []byte, remote *net.UDPAddr) {
	var pb PacketBuffer
	wrappers, err := pb.Feed(data)
	if err != nil {
		s.logger.Warn("dropping frame", zap.String("remote", remote.String()), zap.Error(err))
	}
	for _, w := range wrappers {
		pkt, err := UnmarshalPacket(w.PacketBytes)
		if err != nil {
			s.logger.Warn("bad packet", zap.String("remote", remote.String()), zap.Error(err))
			continue
		}
		if pkt.Type != TypeReq {
			continue
		}
		resp := s.handler.ProcessPkt(pkt)
		out, err := EncodePacket(resp)
		if err != nil {
			s.logger.Error("encode response", zap.Error(err))
			continue
		}
		if _, err := s.conn.WriteToUDP(out, remote); err != nil {
			s.logger.Warn("write response", zap.String("remote", remote.String()), zap.Error(err))
		}
	}
}

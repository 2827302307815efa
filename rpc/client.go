package costingrpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"costing"
	costingmsgpack "costing/msgpack"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// RemoteError is a failed call. It unwraps to the engine sentinel named by
// the server, so errors.Is works across the wire.
type RemoteError struct {
	Code    int32
	Message string
	err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.err
}

type Client struct {
	conn    *net.UDPConn
	timeout time.Duration
}

// Dial connects to a Server at addr.
func Dial(addr string) (*Client, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, timeout: 2 * time.Second}, nil
}

func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Call invokes function with arg and decodes the result into result.
func (c *Client) Call(ctx context.Context, function string, arg, result any) error {
	argBytes, err := msgpack.Marshal(arg)
	if err != nil {
		return err
	}
	id, err := uuid.NewV6()
	if err != nil {
		return err
	}
	out, err := EncodePacket(&Packet{
		UUID: id,
		Type: TypeReq,
		Body: map[string][]byte{
			"function": []byte(function),
			"arg":      argBytes,
		},
	})
	if err != nil {
		return err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return err
	}
	// unblock Read as soon as ctx is done
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if _, err := c.conn.Write(out); err != nil {
		return err
	}

	buf := make([]byte, 64*1024)
	for {
		n, err := c.conn.Read(buf)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return err
		}
		var pb PacketBuffer
		wrappers, err := pb.Feed(buf[:n])
		if err != nil {
			return fmt.Errorf("response frame: %w", err)
		}
		for _, w := range wrappers {
			resp, err := UnmarshalPacket(w.PacketBytes)
			if err != nil || resp.UUID != id || resp.Type != TypeResp {
				continue
			}
			return decodeResponse(resp, result)
		}
	}
}

// Summarize costs r on the server.
func (c *Client) Summarize(ctx context.Context, r costing.Recipe) (costing.Summary, error) {
	var s costingmsgpack.Summary
	if err := c.Call(ctx, FuncSummarize, costingmsgpack.NewRecipe(r), &s); err != nil {
		return costing.Summary{}, err
	}
	return costingmsgpack.ToSummary(&s), nil
}

func decodeResponse(resp *Packet, result any) error {
	var code int32
	if err := msgpack.Unmarshal(resp.Body["code"], &code); err != nil {
		return fmt.Errorf("response code: %w", err)
	}
	if code != CodeOK {
		re := &RemoteError{Code: code, Message: string(resp.Body["message"])}
		if sentinel, ok := errorNames[string(resp.Body["error"])]; ok {
			re.err = sentinel
		}
		return re
	}
	if result == nil {
		return nil
	}
	raw, ok := resp.Body["result"]
	if !ok {
		return errors.New("response has no result")
	}
	return msgpack.Unmarshal(raw, result)
}

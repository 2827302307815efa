package costingrpc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TypeReq  int16 = 1
	TypeResp int16 = 2
)

// headerLen is the frame header: payload length then CRC-32 of the payload.
const headerLen = 8

// MaxPacketLen bounds a single frame so a corrupt length cannot stall the buffer.
const MaxPacketLen = 1 << 20

var (
	ErrChecksum     = errors.New("packet checksum mismatch")
	ErrPacketTooBig = errors.New("packet too big")
)

type Packet struct {
	UUID uuid.UUID
	Type int16
	Meta map[string][]byte
	Body map[string][]byte
}

type wirePacket struct {
	UUID []byte            `msgpack:"u"`
	Type int16             `msgpack:"t"`
	Meta map[string][]byte `msgpack:"h,omitempty"`
	Body map[string][]byte `msgpack:"b,omitempty"`
}

func MarshalPacket(pkt *Packet) ([]byte, error) {
	return msgpack.Marshal(&wirePacket{
		UUID: pkt.UUID[:],
		Type: pkt.Type,
		Meta: pkt.Meta,
		Body: pkt.Body,
	})
}

func UnmarshalPacket(b []byte) (*Packet, error) {
	var w wirePacket
	if err := msgpack.Unmarshal(b, &w); err != nil {
		return nil, err
	}
	id, err := uuid.FromBytes(w.UUID)
	if err != nil {
		return nil, fmt.Errorf("packet uuid: %w", err)
	}
	return &Packet{UUID: id, Type: w.Type, Meta: w.Meta, Body: w.Body}, nil
}

// PacketWrapper is one frame taken off the wire.
type PacketWrapper struct {
	Length      uint32
	Checksum    uint32
	PacketBytes []byte
}

// EncodePacketWrapper frames an encoded packet for the wire.
func EncodePacketWrapper(pktBin []byte) ([]byte, error) {
	if len(pktBin) > MaxPacketLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrPacketTooBig, len(pktBin))
	}
	buf := make([]byte, headerLen+len(pktBin))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(pktBin)))
	binary.LittleEndian.PutUint32(buf[4:8], crc32.ChecksumIEEE(pktBin))
	copy(buf[headerLen:], pktBin)
	return buf, nil
}

// EncodePacket marshals and frames pkt.
func EncodePacket(pkt *Packet) ([]byte, error) {
	b, err := MarshalPacket(pkt)
	if err != nil {
		return nil, err
	}
	return EncodePacketWrapper(b)
}

// PacketBuffer reassembles frames from arbitrarily split input.
type PacketBuffer struct {
	buf bytes.Buffer
}

// Feed appends data and returns every complete frame. Incomplete trailing
// data stays buffered for the next call. A frame whose checksum fails is
// dropped and reported after the good frames preceding it.
func (pb *PacketBuffer) Feed(data []byte) ([]PacketWrapper, error) {
	pb.buf.Write(data)

	var results []PacketWrapper
	for pb.buf.Len() >= headerLen {
		head := pb.buf.Bytes()[:headerLen]
		length := binary.LittleEndian.Uint32(head[0:4])
		checksum := binary.LittleEndian.Uint32(head[4:8])
		if length > MaxPacketLen {
			pb.buf.Reset()
			return results, fmt.Errorf("%w: %d bytes", ErrPacketTooBig, length)
		}
		if pb.buf.Len() < headerLen+int(length) {
			// not enough data yet, stop
			break
		}
		pb.buf.Next(headerLen)
		payload := make([]byte, length)
		copy(payload, pb.buf.Next(int(length)))
		if crc32.ChecksumIEEE(payload) != checksum {
			return results, ErrChecksum
		}
		results = append(results, PacketWrapper{Length: length, Checksum: checksum, PacketBytes: payload})
	}
	return results, nil
}

// Len reports how many bytes are waiting for the rest of their frame.
func (pb *PacketBuffer) Len() int {
	return pb.buf.Len()
}

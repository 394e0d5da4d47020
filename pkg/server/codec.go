package server

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// codec reads requests from and writes responses to the IPC stream.
type codec interface {
	Decode(req *Request) error
	Encode(v any) error
}

// malformedError marks a request that could not be decoded but did not
// corrupt the stream; the server answers it and keeps reading.
type malformedError struct {
	err error
}

func (e *malformedError) Error() string { return fmt.Sprintf("malformed request: %v", e.err) }
func (e *malformedError) Unwrap() error { return e.err }

func newCodec(name string, r io.Reader, w io.Writer) codec {
	if name == config.CodecJSON {
		return newJSONCodec(r, w)
	}
	return newMsgpackCodec(r, w)
}

type msgpackCodec struct {
	dec *msgpack.Decoder
	enc *msgpack.Encoder
	out *bufio.Writer
}

func newMsgpackCodec(r io.Reader, w io.Writer) *msgpackCodec {
	out := bufio.NewWriter(w)
	return &msgpackCodec{
		dec: msgpack.NewDecoder(bufio.NewReader(r)),
		enc: msgpack.NewEncoder(out),
		out: out,
	}
}

// Decode reads one whole message before unmarshalling it, so a message with a
// mistyped field is reported as malformed without desyncing the stream.
func (c *msgpackCodec) Decode(req *Request) error {
	raw, err := c.dec.DecodeRaw()
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(raw, req); err != nil {
		return &malformedError{err: err}
	}
	return nil
}

func (c *msgpackCodec) Encode(v any) error {
	if err := c.enc.Encode(v); err != nil {
		return err
	}
	return c.out.Flush()
}

type jsonCodec struct {
	scanner *bufio.Scanner
	out     *bufio.Writer
}

func newJSONCodec(r io.Reader, w io.Writer) *jsonCodec {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	return &jsonCodec{scanner: scanner, out: bufio.NewWriter(w)}
}

func (c *jsonCodec) Decode(req *Request) error {
	for c.scanner.Scan() {
		line := bytes.TrimSpace(c.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := json.Unmarshal(line, req); err != nil {
			return &malformedError{err: err}
		}
		return nil
	}
	if err := c.scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (c *jsonCodec) Encode(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := c.out.Write(append(data, '\n')); err != nil {
		return err
	}
	return c.out.Flush()
}

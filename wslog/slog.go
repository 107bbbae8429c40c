// custom slog handler
//
// Adapted from: https://github.com/jba/slog
// BSD 3-Clause License
// Copyright (c) 2022, Jonathan Amsterdam
package wslog

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Writes one line per record:
//
//	l=info  msg=decoded op=dec pos=3 key=f3f8
//
// Byte slices are written as hex so that encoded
// keys can be copied straight back into the command line.
type Handler struct {
	ctxs      []func(context.Context) (string, any)
	opts      slog.HandlerOptions
	prefix    string
	preformat string
	mu        *sync.Mutex
	w         io.Writer
}

func New(w io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{w: w, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.ReplaceAttr == nil {
		h.opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr { return a }
	}
	return h
}

// Registers a context value with the handler.
// f returns the key and value for the log line
// or an empty key to skip it.
// For example: wctx.Op becomes: op=XXX
func (h *Handler) RegisterContext(f func(context.Context) (string, any)) {
	h.mu.Lock()
	h.ctxs = append(h.ctxs, f)
	h.mu.Unlock()
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handlers derived with WithGroup or WithAttrs share
// the writer lock but not the registered contexts.
func (h *Handler) clone() *Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &Handler{
		ctxs:      append([]func(context.Context) (string, any){}, h.ctxs...),
		opts:      h.opts,
		prefix:    h.prefix,
		preformat: h.preformat,
		mu:        h.mu,
		w:         h.w,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	c := h.clone()
	c.prefix += name + "."
	return c
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf []byte
	for _, a := range attrs {
		buf = h.appendAttr(buf, h.prefix, a)
	}
	c := h.clone()
	c.preformat += string(buf)
	return c
}

var bpool = sync.Pool{New: func() any { b := make([]byte, 0, 1024); return &b }}

func freebuf(b *[]byte) {
	if cap(*b) <= 16<<10 {
		*b = (*b)[:0]
		bpool.Put(b)
	}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var (
		bufp = bpool.Get().(*[]byte)
		buf  = *bufp
	)
	defer func() {
		*bufp = buf
		freebuf(bufp)
	}()
	buf = append(buf, "l="...)
	buf = fmt.Appendf(buf, "%-5s ", strings.ToLower(r.Level.String()))
	buf = append(buf, h.preformat...)
	if len(r.Message) > 0 {
		buf = append(buf, "msg="...)
		buf = appendValue(buf, r.Message)
		buf = append(buf, ' ')
	}
	for _, f := range h.ctxs {
		k, v := f(ctx)
		if k == "" {
			continue
		}
		buf = append(buf, k...)
		buf = append(buf, '=')
		buf = appendValue(buf, v)
		buf = append(buf, ' ')
	}
	if h.opts.AddSource && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		buf = append(buf, f.File...)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(f.Line), 10)
		buf = append(buf, ' ')
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.prefix, a)
		return true
	})
	buf = bytes.TrimSuffix(buf, []byte(" "))
	buf = append(buf, '\n')
	h.mu.Lock()
	_, err := h.w.Write(buf)
	h.mu.Unlock()
	return err
}

func (h *Handler) appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	a = h.opts.ReplaceAttr(nil, a)
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() != slog.KindGroup {
		buf = append(buf, prefix...)
		buf = append(buf, a.Key...)
		buf = append(buf, '=')
		buf = appendValue(buf, a.Value.Any())
		return append(buf, ' ')
	}
	if a.Key != "" {
		prefix += a.Key + "."
	}
	for _, a := range a.Value.Group() {
		buf = h.appendAttr(buf, prefix, a)
	}
	return buf
}

func appendValue(buf []byte, v any) []byte {
	switch v := v.(type) {
	case []byte:
		return hex.AppendEncode(buf, v)
	case string:
		if strings.ContainsAny(v, " =\"\n") {
			return strconv.AppendQuote(buf, v)
		}
		return append(buf, v...)
	default:
		return fmt.Appendf(buf, "%v", v)
	}
}

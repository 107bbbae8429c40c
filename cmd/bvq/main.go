// bvq encodes, decodes and compares bvarints from the command line.
//
//	bvq enc 5 1000 70000
//	bvq -c enc 5 1000 70000
//	bvq -json dec 05f3f8fa011170
//	bvq cmp 2287 2288
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/indexsupply/ordkey/bvarint"
	"github.com/indexsupply/ordkey/wctx"
	"github.com/indexsupply/ordkey/wslog"
	"golang.org/x/xerrors"
)

func check(err error) {
	if err != nil {
		fmt.Printf("%s\n", err)
		os.Exit(1)
	}
}

const usage = `usage: bvq [flags] enc N... | dec HEX... | cmp A B`

func main() {
	var (
		ctx = context.Background()

		concat  bool
		jsonOut bool
		verbose bool
		version bool
	)
	flag.BoolVar(&concat, "c", false, "enc: print encodings as one concatenated hex string")
	flag.BoolVar(&jsonOut, "json", false, "dec: print json")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.BoolVar(&version, "version", false, "version")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if version {
		fmt.Printf("v%s %s\n", Version, Commit)
		os.Exit(0)
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelInfo)
	if verbose {
		logLevel.Set(slog.LevelDebug)
	}
	lh := wslog.New(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	lh.RegisterContext(func(ctx context.Context) (string, any) {
		op := wctx.Op(ctx)
		if op == "" {
			return "", nil
		}
		return "op", op
	})
	lh.RegisterContext(func(ctx context.Context) (string, any) {
		i, ok := wctx.Input(ctx)
		if !ok {
			return "", nil
		}
		return "arg", i
	})
	slog.SetDefault(slog.New(lh.WithAttrs([]slog.Attr{
		slog.String("v", Commit),
	})))
	ctx = wctx.WithVersion(ctx, Commit)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	ctx = wctx.WithOp(ctx, args[0])
	switch args[0] {
	case "enc":
		check(enc(ctx, os.Stdout, concat, args[1:]))
	case "dec":
		check(dec(ctx, os.Stdout, jsonOut, args[1:]))
	case "cmp":
		check(cmp(ctx, os.Stdout, args[1:]))
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func parse(ctx context.Context, args []string) ([]uint64, error) {
	res := make([]uint64, 0, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(a, 0, 64)
		if err != nil {
			return nil, xerrors.Errorf("arg %d: %w", i, err)
		}
		slog.DebugContext(wctx.WithInput(ctx, i), "parsed", "n", v)
		res = append(res, v)
	}
	return res, nil
}

func enc(ctx context.Context, w io.Writer, concat bool, args []string) error {
	vals, err := parse(ctx, args)
	if err != nil {
		return err
	}
	if concat {
		_, err := fmt.Fprintf(w, "%x\n", bvarint.AppendAll(nil, vals...))
		return err
	}
	for _, v := range vals {
		if _, err := fmt.Fprintf(w, "%x\n", bvarint.Encode(v)); err != nil {
			return err
		}
	}
	return nil
}

type decoded struct {
	Arg   int    `json:"arg"`
	Pos   int    `json:"pos"`
	Len   int    `json:"len"`
	Class int    `json:"class"`
	Value uint64 `json:"value"`
}

func dec(ctx context.Context, w io.Writer, jsonOut bool, args []string) error {
	var res []decoded
	for i, a := range args {
		b, err := hex.DecodeString(strings.TrimPrefix(a, "0x"))
		if err != nil {
			return xerrors.Errorf("arg %d: %w", i, err)
		}
		for pos := 0; pos < len(b); {
			v, n, err := bvarint.Decode(b, pos)
			if err != nil {
				return xerrors.Errorf("arg %d pos %d: %w", i, pos, err)
			}
			slog.DebugContext(wctx.WithInput(ctx, i), "decoded",
				"pos", pos,
				"key", b[pos:pos+n],
				"canonical", bvarint.Canonical(b[pos:pos+n]),
			)
			res = append(res, decoded{
				Arg:   i,
				Pos:   pos,
				Len:   n,
				Class: bvarint.ClassOf(b[pos]).ID,
				Value: v,
			})
			pos += n
		}
	}
	if jsonOut {
		return json.NewEncoder(w).Encode(res)
	}
	for _, d := range res {
		if _, err := fmt.Fprintf(w, "%d\n", d.Value); err != nil {
			return err
		}
	}
	return nil
}

func cmp(ctx context.Context, w io.Writer, args []string) error {
	if len(args) != 2 {
		return xerrors.New("cmp requires 2 numbers")
	}
	vals, err := parse(ctx, args)
	if err != nil {
		return err
	}
	var (
		a = bvarint.Encode(vals[0])
		b = bvarint.Encode(vals[1])
	)
	op := map[int]string{-1: "<", 0: "=", 1: ">"}[bvarint.Compare(a, b)]
	_, err = fmt.Fprintf(w, "%x %s %x\n", a, op, b)
	return err
}

// Set using: go build -ldflags="-X main.Version=XXX"
var (
	Version string
	Commit  = func() string {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return "ernobuildinfo"
		}
		var (
			revision = ""
			modified bool
		)
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value[:4]
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
		if !modified {
			return revision
		}
		return revision + "-"
	}()
)

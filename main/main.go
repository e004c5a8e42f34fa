// Command main is a heap-profiling harness: it encodes a stream of frames,
// reads it back through a ChunkedInput and writes mem.prof.
package main

import (
	"bytes"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rawbytedev/byteslice"
	"github.com/rawbytedev/byteslice/pkg/frame"
	"github.com/rawbytedev/byteslice/pkg/loader"
	"github.com/sirupsen/logrus"
)

func main() {
	frames := flag.Int("frames", 10000, "frames to encode and decode")
	bufSize := flag.Int("buffer", byteslice.DefaultBufferSize, "chunked reader buffer size")
	hold := flag.Duration("hold", 0, "keep the pprof endpoint up this long after the run")
	flag.Parse()

	log := logrus.New()
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	out := byteslice.NewDynamicOutput(4096)
	payload := byteslice.Wrap(bytes.Repeat([]byte("azerty"), 20))
	for i := 0; i < *frames; i++ {
		enc, err := frame.EncodeData(frame.DataFrame{Flags: frame.FlagHasOffsetTable, Offsets: []uint32{uint32(i)}, Payload: payload})
		if err != nil {
			log.Fatal(err)
		}
		if err := out.WriteSlice(enc); err != nil {
			log.Fatal(err)
		}
	}

	in, err := byteslice.NewChunkedInput(loader.NewSliceLoader(out.Slice()), byteslice.Options{BufferSize: *bufSize, Logger: log})
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()
	for in.IsReadable() {
		enc, err := frame.ReadFrame(in)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := frame.DecodeData(enc); err != nil {
			log.Fatal(err)
		}
	}
	log.WithFields(logrus.Fields{
		"frames": *frames,
		"bytes":  out.Size(),
		"loads":  in.Loads(),
	}).Info("done")

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Fatal(err)
	}
	time.Sleep(*hold)
}

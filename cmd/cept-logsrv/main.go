// Command cept-logsrv runs the request logging server. Point a client's
// -proxy flag at it to inspect exactly what goes over the wire; give it an
// -endpoint to also relay the requests to a real service and stream the
// responses back.
//
// Runtime configuration is exposed over HTTP:
//
//	GET /__config                             current settings
//	GET /__config/download-chunk-size?value=N relay copy buffer size
//	GET /__config/endpoint?value=URL          forwarding target
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/mbattey58/cept/pkg/proxy"
)

func main() {
	var (
		addr      = flag.String("addr", ":8000", "listen address")
		endpoint  = flag.String("endpoint", "", "forward requests to this endpoint; empty means log only")
		chunkSize = flag.Int("chunk-size", 0, "relay copy buffer size in bytes")
		debug     = flag.Bool("debug", false, "log request bodies and all headers")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)

	srv := proxy.New(*endpoint, logger)
	if *chunkSize > 0 {
		srv.SetChunkSize(*chunkSize)
	}

	logger.Info().Str("addr", *addr).Str("endpoint", *endpoint).Msg("listening")
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

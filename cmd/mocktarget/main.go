// mocktarget runs a local HTTP target for trying out pulsefire without a
// real service: configurable latency, failure injection, and a server-side
// rate cap.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/torosent/pulsefire/internal/testserver"
)

func main() {
	port := flag.Int("port", 8080, "Listening port")
	latency := flag.Duration("latency", 0, "Base latency added to every response")
	jitter := flag.Duration("jitter", 0, "Random extra latency up to this value")
	failureRate := flag.Float64("failure-rate", 0, "Fraction of requests answered with the failure status (0-1)")
	failureStatus := flag.Int("failure-status", 500, "Status code for injected failures")
	maxRate := flag.Float64("max-rate", 0, "Server-side requests-per-second cap; 0 disables")
	flag.Parse()

	if *failureRate < 0 || *failureRate > 1 {
		log.Fatalf("failure-rate must be between 0 and 1, got %g", *failureRate)
	}

	srv := testserver.New(testserver.Options{
		BaseLatency:   *latency,
		Jitter:        *jitter,
		FailureRate:   *failureRate,
		FailureStatus: *failureStatus,
		MaxRate:       *maxRate,
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("mock target listening on %s", addr)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Fatal(httpServer.ListenAndServe())
}

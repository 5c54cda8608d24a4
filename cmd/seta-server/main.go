// Command seta-server is the main server process. It owns the accumulator
// database, sequences every addition through a single writer, and answers
// witness requests.
package main

import (
	"crypto/rand"
	"flag"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/JumpPrivacy/seta/accumulator"
	"github.com/JumpPrivacy/seta/db"
	"github.com/gorilla/mux"
)

var (
	Version   = "dev"
	GoVersion = runtime.Version()
)

var (
	configFile = flag.String("config", "", "Location of config file.")
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.LUTC)
	flag.Parse()

	// Load config from disk.
	if *configFile == "" {
		log.Fatalf("No config file provided, see --help.")
	}
	config, err := ReadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	// Open the database and install the accumulator parameters if this is a
	// fresh deployment.
	store, err := db.NewLDBStore(config.DatabaseFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := store.Bootstrap(config.Params.generator, config.Params.modulus); err != nil {
		log.Fatalf("Failed to bootstrap database: %v", err)
	}

	// Start the worker thread that owns the accumulator.
	acc := accumulator.New(store, rand.Reader)
	adds := make(chan AddRequest)
	witnesses := make(chan WitnessRequest)

	go worker(acc, store, adds, witnesses)

	if config.MetricsAddr != "" {
		go metrics(config.MetricsAddr)
	}

	// Setup handler for the API server. The handler gets a read-only clone
	// of the store so its reads never touch the worker's write batch.
	h := &Handler{tx: store.Clone(), adds: adds, witnesses: witnesses}
	r := mux.NewRouter()
	r.HandleFunc("/v1/params", HandleAPI(h.Params))
	r.HandleFunc("/v1/member/{value:[0-9a-fA-F]*}", HandleAPI(h.Member))

	// Setup the API server.
	srv := &http.Server{
		Addr:      config.ServerAddr,
		Handler:   r,
		TLSConfig: config.tlsConfig,

		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	log.Println("Starting API server.")
	if config.TLSConfig == nil {
		log.Fatal(srv.ListenAndServe())
	} else {
		log.Fatal(srv.ListenAndServeTLS("", ""))
	}
}

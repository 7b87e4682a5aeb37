package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	mockPort  = 9091
	appPort   = 8081
	benchDB   = "bench.db"
	benchCfg  = "bench_config.yaml"
	benchLog  = "bench_server.log"
	modelID   = "@cf/bench/flux"
	schemaRaw = `{"success":true,"result":{"input":{"type":"object","properties":{
		"prompt":{"type":"string"},
		"steps":{"type":"integer","default":4,"minimum":1,"maximum":8}
	},"required":["prompt"]},"output":{"type":"string"}}}`
)

// 1x1 transparent PNG
var tinyPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	generate := flag.Bool("generate", false, "Only attack the generation endpoint")
	chaos := flag.Bool("chaos", false, "Simulate random client disconnections")
	flag.Parse()

	go startMockWorkersAI()

	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	if err := os.WriteFile(benchCfg, []byte(benchConfig), 0o644); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
	defer os.Remove(benchCfg)

	fmt.Println("Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(), "CONFIG_FILE="+benchCfg, "LOG_LEVEL=error")

	logFile, _ := os.Create(benchLog)
	defer logFile.Close()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = os.Remove(benchDB)
	}()

	base := fmt.Sprintf("http://localhost:%d", appPort)
	waitForApp(base + "/health")

	done := make(chan struct{})
	go monitorResources(cmd.Process.Pid, done)

	mode := "Mixed"
	if *generate {
		mode = "Generation"
	}
	fmt.Printf("Running %s benchmark: %s duration, %d req/s\n", mode, *duration, *rate)

	targets := []vegeta.Target{
		{Method: http.MethodGet, URL: base + "/api/models"},
		{Method: http.MethodGet, URL: base + "/api/schema?model=" + modelID},
		{Method: http.MethodGet, URL: base + "/api/images"},
	}
	genBody := []byte(`{"model":"` + modelID + `","prompt":"benchmark","steps":4}`)

	var n atomic.Uint64
	targeter := func(t *vegeta.Target) error {
		i := n.Add(1)
		if *generate || i%2 == 0 {
			t.Method = http.MethodPost
			t.URL = base + "/api/generate_image"
			t.Body = genBody
			t.Header = http.Header{"Content-Type": []string{"application/json"}}
			return nil
		}
		*t = targets[int(i/2)%len(targets)]
		return nil
	}

	if *chaos {
		fmt.Println("CHAOS MODE ENABLED: Starting Chaos Monkey sidecar...")
		concurrency := min(max(*rate/10, 5), 50)
		go startChaosMonkey(base+"/api/generate_image", string(genBody), concurrency, done)
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Benchmark") {
		metrics.Add(res)
	}
	metrics.Close()
	close(done)

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")
		seen := make(map[string]bool)
		for _, msg := range metrics.Errors {
			if len(seen) == 5 {
				break
			}
			if !seen[msg] {
				fmt.Println(msg)
				seen[msg] = true
			}
		}
	}
}

func startChaosMonkey(url, payload string, concurrency int, done chan struct{}) {
	fmt.Printf("Starting Chaos Monkey with %d concurrent disrupters (random disconnects 1-200ms)\n", concurrency)
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			client := &http.Client{}

			for {
				select {
				case <-done:
					return
				default:
					timeout := time.Duration(rand.Intn(200)+1) * time.Millisecond
					ctx, cancel := context.WithTimeout(context.Background(), timeout)
					req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(payload))
					req.Header.Set("Content-Type", "application/json")

					resp, err := client.Do(req)
					if err == nil {
						_ = resp.Body.Close()
					}
					cancel()
					time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
				}
			}
		}()
	}
	wg.Wait()
}

// startMockWorkersAI answers the two Workers AI calls the service makes.
func startMockWorkersAI() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /client/v4/accounts/bench/ai/models/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(schemaRaw))
	})

	mux.HandleFunc("POST /client/v4/accounts/bench/ai/run/", func(w http.ResponseWriter, r *http.Request) {
		// stand-in for model latency
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(tinyPNG)
	})

	_ = http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux)
}

func monitorResources(pid int, done chan struct{}) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	fmt.Println("\n--- Resource Usage (ps) ---")
	fmt.Printf("%-10s %-10s %-10s\n", "Time", "RSS(MB)", "CPU(%)")

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "rss=,%cpu=").Output()
			if err != nil {
				continue
			}
			fields := strings.Fields(string(out))
			if len(fields) < 2 {
				continue
			}
			rss, _ := strconv.ParseFloat(fields[0], 64)
			cpu, _ := strconv.ParseFloat(fields[1], 64)
			fmt.Printf("%-10s %-10.2f %-10.2f\n", time.Now().Format("15:04:05"), rss/1024, cpu)
		}
	}
}

func waitForApp(url string) {
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatal("App timed out")
}

var benchConfig = fmt.Sprintf(`
server:
  port: "%d"
  env: production
log:
  level: error
cloudflare:
  account_id: bench
  api_token: bench-token
  base_url: "http://localhost:%d/client/v4"
storage:
  driver: sqlite
  sqlite:
    path: %s
catalog:
  - id: "%s"
    name: Bench Flux
`, appPort, mockPort, benchDB, modelID)

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Dev client: creates a placeholder and pushes a recorded audio file
// through the pipeline, the same two calls the mobile app makes at
// recording-stop time.
func main() {
	audioFile := flag.String("audio", "../../testdata/sample-16khz.wav", "Path to the recorded audio file")
	serverAddr := flag.String("server", "http://localhost:8080", "Service base URL")
	mimeType := flag.String("mime", "audio/wav", "Mime type of the recording")
	flag.Parse()

	audio, err := os.ReadFile(*audioFile)
	if err != nil {
		log.Fatalf("Failed to read audio file: %v", err)
	}
	log.Printf("Read %d bytes from %s", len(audio), *audioFile)

	client := &http.Client{Timeout: 5 * time.Minute}

	// Create the placeholder
	resp, err := client.Post(*serverAddr+"/v1/placeholders", "application/json", nil)
	if err != nil {
		log.Fatalf("Placeholder request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("Placeholder request returned %d: %s", resp.StatusCode, body)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		log.Fatalf("Failed to decode placeholder response: %v", err)
	}
	log.Printf("Placeholder created: %s", created.ID)

	// Process the recording
	url := fmt.Sprintf("%s/v1/recordings/%s", *serverAddr, created.ID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		log.Fatalf("Failed to build recording request: %v", err)
	}
	req.Header.Set("Content-Type", *mimeType)

	start := time.Now()
	resp, err = client.Do(req)
	if err != nil {
		log.Fatalf("Recording request failed: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		log.Fatalf("Pipeline failed (%d after %v): %s", resp.StatusCode, time.Since(start), body)
	}
	log.Printf("Pipeline committed in %v", time.Since(start))
}
